package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/interfaces"
)

func openTempStore(t *testing.T) interfaces.PortfolioStore {
	t.Helper()
	cfg := &common.StorageConfig{Backend: BackendSQLite, SQLite: common.SQLiteConfig{Path: filepath.Join(t.TempDir(), "folio.db")}}
	store, err := NewStore(context.Background(), common.NewSilentLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBootstrap_FirstRunThenNoop(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	logger := common.NewSilentLogger()

	applied, err := Bootstrap(ctx, store, logger, BootstrapOptions{SampleData: true})
	require.NoError(t, err)
	assert.True(t, applied)

	instruments, err := store.ListInstruments(ctx)
	require.NoError(t, err)
	assert.Len(t, instruments, 5)

	applied, err = Bootstrap(ctx, store, logger, BootstrapOptions{SampleData: true})
	require.NoError(t, err)
	assert.False(t, applied, "an initialized store is left alone")

	instruments, err = store.ListInstruments(ctx)
	require.NoError(t, err)
	assert.Len(t, instruments, 5, "sample data must not be duplicated")
}

func TestBootstrap_ForceWithoutSampleData(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	logger := common.NewSilentLogger()

	_, err := Bootstrap(ctx, store, logger, BootstrapOptions{SampleData: true})
	require.NoError(t, err)

	applied, err := Bootstrap(ctx, store, logger, BootstrapOptions{Force: true})
	require.NoError(t, err)
	assert.True(t, applied)

	holdings, err := store.ListHoldings(ctx)
	require.NoError(t, err)
	assert.Empty(t, holdings)
}
