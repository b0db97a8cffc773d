package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/redisclient"

	"github.com/spf13/cobra"
)

// pingCmd pings the configured redis server.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping redis and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Redis.Addr == "" {
			return errors.New("redis.addr is not configured")
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(pingCmd)
}
