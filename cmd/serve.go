package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/cache"
	"github.com/ksasanka/ai-newsletter/internal/redisclient"
	"github.com/ksasanka/ai-newsletter/worker"

	"github.com/spf13/cobra"
)

// serveCmd runs the digest on the configured interval until signalled.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the digest worker on a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		// The sent marker needs redis; without it every tick sends.
		var marker worker.SentMarker
		if cfg.Redis.Addr != "" {
			rdb := redisclient.New(cfg.Redis)
			defer rdb.Close()
			marker = cache.NewStore(rdb, cfg.Redis.CacheTTL)
		} else {
			slog.Warn("serve: redis not configured, sent-day tracking disabled")
		}

		dw := &worker.DigestWorker{
			Interval: cfg.Schedule.Interval,
			Sent:     marker,
			Run: func(ctx context.Context) (bool, error) {
				ctx, cancel := context.WithTimeout(ctx, 15*time.Minute)
				defer cancel()
				return runDigest(ctx, &cfg, "")
			},
		}

		mgr := worker.NewManager(dw)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		slog.Info("serve: digest worker starting", "interval", cfg.Schedule.Interval)
		if err := mgr.Start(ctx); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
