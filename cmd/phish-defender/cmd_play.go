package main

import (
	"context"

	"github.com/phishdefender/phish-defender/internal/adapters/cache"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/phishdefender/phish-defender/internal/game"
	"github.com/phishdefender/phish-defender/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultPlayLog = "phish-defender.log"

func newPlayCmd(root *rootOptions) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start a training game in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), root, logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", defaultPlayLog, "Log destination while the game owns the terminal")
	return cmd
}

func runPlay(ctx context.Context, root *rootOptions, logFile string) error {
	container, err := root.container(logFile, nil)
	if err != nil {
		return err
	}

	return container.Invoke(func(
		logger *zap.Logger,
		data *dataset.Dataset,
		settings game.Settings,
		verdicts *cache.MemoryCache,
		svc *analyzer.Service,
		coach *core.CoachService,
	) error {
		defer logger.Sync()
		defer verdicts.Stop()

		return tui.Run(ctx, data, settings, svc, coach, logger)
	})
}
