package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/digest"

	"github.com/spf13/cobra"
)

var (
	feedOutFile string
	feedAtom    bool
	feedLink    string
)

// feedCmd runs the full pipeline and writes the digest as a syndication
// feed instead of sending it.
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Build the digest and write it as an RSS or Atom feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		res, err := collectAndCurate(ctx, &cfg)
		if err != nil {
			return err
		}
		if res.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No content found for newsletter; nothing to export.")
			return nil
		}

		d := composeDigest(ctx, &cfg, res)
		now := time.Now()
		var out string
		if feedAtom {
			out, err = digest.Atom(d, feedLink, now)
		} else {
			out, err = digest.RSS(d, feedLink, now)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(feedOutFile, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write feed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Feed saved to %s\n", feedOutFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().StringVarP(&feedOutFile, "out", "o", "feed.xml", "output feed path")
	feedCmd.Flags().BoolVar(&feedAtom, "atom", false, "write Atom instead of RSS")
	feedCmd.Flags().StringVar(&feedLink, "link", "https://github.com/ksasanka/ai-newsletter", "site link embedded in the feed")
}
