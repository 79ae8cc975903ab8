package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ core.DatasetRepository = (*SQLStore)(nil)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "dataset.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreSeedAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	embedded, err := dataset.Embedded()
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, embedded))

	loaded, err := dataset.Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, embedded.Quickfire, loaded.Quickfire)
	assert.Equal(t, embedded.Inbox, loaded.Inbox)
	assert.Equal(t, embedded.Challenges, loaded.Challenges)
}

func TestSQLiteStoreReseedReplaces(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	embedded, err := dataset.Embedded()
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, embedded))

	smaller := *embedded
	smaller.Quickfire = embedded.Quickfire[:3]
	require.NoError(t, s.Seed(ctx, &smaller))

	emails, err := s.QuickfireEmails(ctx)
	require.NoError(t, err)
	require.Len(t, emails, 3)
	assert.Equal(t, embedded.Quickfire[0].ID, emails[0].ID)
}

func TestSQLiteStoreSeedRejectsInvalid(t *testing.T) {
	s := newSQLiteStore(t)

	err := s.Seed(context.Background(), &dataset.Dataset{})
	assert.ErrorIs(t, err, dataset.ErrInvalidDataset)

	emails, err := s.InboxEmails(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestDollarPlaceholders(t *testing.T) {
	assert.Equal(t, "VALUES ($1, $2, $3)", dollarPlaceholders("VALUES (?, ?, ?)"))
	assert.Equal(t, "SELECT 1", dollarPlaceholders("SELECT 1"))
}
