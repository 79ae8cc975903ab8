package main

import (
	"context"
	"time"

	"github.com/phishdefender/phish-defender/internal/adapters/cache"
	"github.com/phishdefender/phish-defender/internal/adapters/dropbox"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newDropboxCmd(root *rootOptions) *cobra.Command {
	var (
		listen string
		reject bool
	)
	cmd := &cobra.Command{
		Use:   "dropbox",
		Short: "Run an SMTP drop box that grades forwarded suspicious mail",
		Long: `Listens for mail over SMTP and analyzes the headers and links of every
message it receives. Point a mail client or a forwarding rule at it and watch
the log for verdicts. With --reject-suspicious, suspicious mail is refused
with a 554 reply instead of being accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if cmd.Flags().Changed("listen") {
				overrides["dropbox.listen_address"] = listen
			}
			if cmd.Flags().Changed("reject-suspicious") {
				overrides["dropbox.reject_suspicious"] = reject
			}
			return runDropbox(cmd.Context(), root, overrides)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVar(&reject, "reject-suspicious", false, "Refuse suspicious mail with a 554 reply")
	return cmd
}

func runDropbox(ctx context.Context, root *rootOptions, overrides map[string]any) error {
	container, err := root.container("", overrides)
	if err != nil {
		return err
	}

	return container.Invoke(func(logger *zap.Logger, verdicts *cache.MemoryCache, server *dropbox.Server) error {
		defer logger.Sync()
		defer verdicts.Stop()

		if err := server.Start(); err != nil {
			logger.Error("Failed to start drop box", zap.Error(err))
			return err
		}

		<-ctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down drop box", zap.Error(err))
			return err
		}

		logger.Info("Shutdown complete", zap.Int("submissions", len(server.Submissions())))
		return nil
	})
}
