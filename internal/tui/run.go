package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/phishdefender/phish-defender/internal/game"
	"github.com/phishdefender/phish-defender/internal/session"
	"go.uber.org/zap"
)

// Run plays one interactive game until the player quits or ctx is done
func Run(
	ctx context.Context,
	data *dataset.Dataset,
	settings game.Settings,
	svc *analyzer.Service,
	coach *core.CoachService,
	logger *zap.Logger,
	opts ...tea.ProgramOption,
) error {
	var prog *tea.Program
	// Timers fire on their own goroutines; Send hands the call to Update
	sched := game.NewTimerScheduler(func(fn func()) {
		prog.Send(timerFiredMsg(fn))
	})

	sess := session.New()
	ctx = session.NewContext(ctx, sess)
	ctrl := game.NewController(session.MustFromContext(ctx), data, sched, logger, settings)
	defer ctrl.Close()

	model := New(ctrl, svc, coach, logger)
	prog = tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)...)

	logger.Info("Game session started", zap.String("session_id", sess.ID()))

	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}

	logger.Info("Game session ended",
		zap.String("session_id", sess.ID()),
		zap.Int("score", sess.Score()))
	return nil
}
