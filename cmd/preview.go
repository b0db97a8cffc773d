package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/digest"

	"github.com/spf13/cobra"
)

var previewOutFile string

// previewCmd runs the full pipeline but writes the HTML instead of
// sending it.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Build the digest and write the HTML without sending",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		res, err := collectAndCurate(ctx, &cfg)
		if err != nil {
			return err
		}
		if res.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No content found for newsletter; nothing to preview.")
			return nil
		}

		d := composeDigest(ctx, &cfg, res)
		html, err := digest.Render(d)
		if err != nil {
			return err
		}
		if err := os.WriteFile(previewOutFile, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Preview saved to %s\n", previewOutFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewOutFile, "out", "o", "newsletter_preview.html", "output HTML path")
}
