package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/redisclient"

	"github.com/spf13/cobra"
)

var clearSent bool

// clearCmd deletes cached collection results so the next run fetches
// everything fresh. Sent-day markers survive unless --sent is given.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached collection results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Redis.Addr == "" {
			return errors.New("redis.addr is not configured")
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		patterns := []string{"newsletter:cache:*"}
		if clearSent {
			patterns = append(patterns, "newsletter:sent:*")
		}

		deleted := 0
		for _, pattern := range patterns {
			iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
			var keys []string
			for iter.Next(ctx) {
				keys = append(keys, iter.Val())
			}
			if err := iter.Err(); err != nil {
				return fmt.Errorf("scan %s: %w", pattern, err)
			}
			if len(keys) == 0 {
				continue
			}
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("delete %s: %w", pattern, err)
			}
			deleted += int(n)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d key(s)\n", deleted)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearSent, "sent", false, "also delete sent-day markers")
}
