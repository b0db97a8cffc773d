package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/digest"
	"github.com/ksasanka/ai-newsletter/internal/mail"

	"github.com/spf13/cobra"
)

var runOutFile string

// runCmd collects, curates and emails one issue.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect, curate and email the digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		sent, err := runDigest(ctx, &cfg, runOutFile)
		if err != nil {
			return err
		}
		if !sent {
			fmt.Fprintln(cmd.OutOrStdout(), "No content found for newsletter; nothing sent.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Newsletter sent to %d recipient(s)\n", len(cfg.Email.Recipients))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runOutFile, "out", "o", "", "also write the rendered HTML to this file")
}

// runDigest performs one complete issue: collect, curate, compose,
// render and send. It reports whether an email actually went out; a run
// that found nothing is a quiet success.
func runDigest(ctx context.Context, cfg *config.Config, outFile string) (bool, error) {
	res, err := collectAndCurate(ctx, cfg)
	if err != nil {
		return false, err
	}
	if res.Empty() {
		slog.Warn("run: no content for newsletter, nothing to send")
		return false, nil
	}

	d := composeDigest(ctx, cfg, res)
	html, err := digest.Render(d)
	if err != nil {
		return false, err
	}
	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(html), 0o644); err != nil {
			return false, fmt.Errorf("write html copy: %w", err)
		}
		slog.Info("run: wrote html copy", "path", outFile)
	}

	m := mail.New(cfg.Email)
	if err := m.Send(ctx, m.Subject(), html); err != nil {
		return false, err
	}
	return true, nil
}
