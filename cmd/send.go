package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/mail"

	"github.com/spf13/cobra"
)

var (
	sendFile    string
	sendSubject string
)

// sendCmd mails an already rendered HTML file, typically one written by
// the preview command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an already rendered HTML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		b, err := os.ReadFile(sendFile)
		if err != nil {
			return fmt.Errorf("read html: %w", err)
		}

		m := mail.New(cfg.Email)
		subject := sendSubject
		if subject == "" {
			subject = m.Subject()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := m.Send(ctx, subject, string(b)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sent %s to %d recipient(s)\n", sendFile, len(cfg.Email.Recipients))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendFile, "file", "f", "newsletter_preview.html", "rendered HTML file to send")
	sendCmd.Flags().StringVar(&sendSubject, "subject", "", "subject line (default: configured prefix plus today's date)")
}
