package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phishdefender/phish-defender/internal/adapters/cache"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/phishdefender/phish-defender/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContainerResolvesComponents(t *testing.T) {
	chdirForTest(t, t.TempDir())
	logFile := filepath.Join(t.TempDir(), "test.log")

	container, err := BuildContainer(Options{
		LogOutput: logFile,
		Overrides: map[string]any{"game.countdown_ticks": 3},
	})
	require.NoError(t, err)

	err = container.Invoke(func(
		ds *dataset.Dataset,
		mc *cache.MemoryCache,
		svc *analyzer.Service,
		coach *core.CoachService,
		settings game.Settings,
	) {
		defer mc.Stop()
		assert.NotEmpty(t, ds.Quickfire)
		assert.NotNil(t, svc)
		assert.False(t, coach.Enabled())
		assert.Equal(t, 3, settings.CountdownTicks)
		assert.Equal(t, game.DefaultSettings().InboxPoints, settings.InboxPoints)
	})
	require.NoError(t, err)

	_, err = os.Stat(logFile)
	assert.NoError(t, err)
}

func TestBuildContainerBadConfigFile(t *testing.T) {
	container, err := BuildContainer(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)

	err = container.Invoke(func(*config.Config) {})
	assert.Error(t, err)
}

func TestGameSettingsRejectsBadDuration(t *testing.T) {
	cfg := config.Default()
	cfg.Set("game.tick_interval", "fast")
	_, err := GameSettings(cfg)
	assert.ErrorContains(t, err, "game.tick_interval")
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
