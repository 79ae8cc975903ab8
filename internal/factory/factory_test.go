package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/phishdefender/phish-defender/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func coachFactory(cfg *config.Config) *CoachFactory {
	return NewCoachFactory(cfg, zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))
}

func TestCoachFactory(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	c, err := coachFactory(cfg).CreateCoach(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.Set("coach.provider", "openai")
	_, err = coachFactory(cfg).CreateCoach(ctx)
	assert.ErrorContains(t, err, "openai API key is required")

	cfg.Set("openai.api_key", "sk-test")
	c, err = coachFactory(cfg).CreateCoach(ctx)
	require.NoError(t, err)
	assert.NotNil(t, c)

	cfg.Set("coach.provider", "gemini")
	_, err = coachFactory(cfg).CreateCoach(ctx)
	assert.ErrorContains(t, err, "gemini API key is required")

	cfg.Set("coach.provider", "clippy")
	_, err = coachFactory(cfg).CreateCoach(ctx)
	assert.ErrorContains(t, err, "unsupported coach provider: clippy")
}

func TestCoachServiceDegradesOnError(t *testing.T) {
	cfg := config.Default()
	cfg.Set("coach.provider", "clippy")

	svc, err := coachFactory(cfg).CreateCoachService(context.Background())
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	cfg.Set("coach.timeout", "soon")
	_, err = coachFactory(cfg).CreateCoachService(context.Background())
	assert.Error(t, err)
}

func TestDatasetFactoryEmbedded(t *testing.T) {
	f := NewDatasetFactory(config.Default(), zap.NewNop())

	ds, err := f.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Quickfire)
	assert.NotEmpty(t, ds.Inbox)
	assert.NotEmpty(t, ds.Challenges)

	_, err = f.CreateSQLStore(context.Background())
	assert.ErrorContains(t, err, "unsupported dataset type")
}

func TestDatasetFactorySQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Set("dataset.type", "sqlite")
	cfg.Set("dataset.sqlite_path", filepath.Join(t.TempDir(), "nested", "dataset.db"))
	f := NewDatasetFactory(cfg, zap.NewNop())

	// An unseeded store fails validation
	_, err := f.LoadDataset(ctx)
	assert.ErrorIs(t, err, dataset.ErrInvalidDataset)

	s, err := f.CreateSQLStore(ctx)
	require.NoError(t, err)
	embedded, err := dataset.Embedded()
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, embedded))
	require.NoError(t, s.Close())

	ds, err := f.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Quickfire, len(embedded.Quickfire))
}

func TestCacheFactory(t *testing.T) {
	cfg := config.Default()
	f := NewCacheFactory(cfg, zap.NewNop())

	mc, err := f.CreateVerdictCache()
	require.NoError(t, err)
	defer mc.Stop()

	svc, err := f.CreateAnalyzer(mc)
	require.NoError(t, err)
	_, err = svc.AnalyzeURL(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, mc.Len())

	cfg.Set("cache.cleanup_frequency", "often")
	_, err = f.CreateVerdictCache()
	assert.ErrorContains(t, err, "cache.cleanup_frequency")
}

func TestDropboxFactory(t *testing.T) {
	cfg := config.Default()
	cfg.Set("dropbox.listen_address", "127.0.0.1:0")
	svc, err := NewCacheFactory(cfg, zap.NewNop()).CreateAnalyzer(nil)
	require.NoError(t, err)

	s := NewDropboxFactory(cfg, zap.NewNop()).CreateServer(svc)
	require.NoError(t, s.Start())
	assert.NotNil(t, s.Addr())
	require.NoError(t, s.Stop())
}

func TestTextProcessorFactory(t *testing.T) {
	tp := NewTextProcessorFactory(zap.NewNop()).CreateTextProcessor()
	assert.Equal(t, "abc", tp.ProcessText("abc", 10))
}
