package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surreal "github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/models"
	tcommon "github.com/bobmcallan/stockfolio/tests/common"
)

// testStore connects to the shared SurrealDB container using a unique
// database name per test.
func testStore(t *testing.T) *Store {
	t.Helper()

	sc := tcommon.StartSurrealDB(t)
	ctx := context.Background()

	db, err := surreal.New(sc.Address())
	require.NoError(t, err)

	_, err = db.SignIn(ctx, map[string]interface{}{"user": "root", "pass": "root"})
	require.NoError(t, err)

	// subtests produce names like "Test/subtest"; SurrealDB rejects "/"
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbName := fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000)
	require.NoError(t, db.Use(ctx, "stockfolio_test", dbName))

	s, err := NewStoreWithDB(ctx, db, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store, table, id string, data any) {
	t.Helper()
	_, err := surreal.Query[any](context.Background(), s.db, "UPSERT $rid CONTENT $data", map[string]any{
		"rid":  surrealmodels.NewRecordID(table, id),
		"data": data,
	})
	require.NoError(t, err)
}

func TestSurreal_Initialized(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ok, err := s.Initialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.ApplySchema(ctx))

	ok, err = s.Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSurreal_SampleData(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.ApplySchema(ctx))
	require.NoError(t, s.LoadSampleData(ctx))

	holdings, err := s.ListHoldings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 5)
	assert.Equal(t, "AAPL", holdings[0].Symbol)

	value, err := s.PortfolioValue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 7918.30, value, 0.001)

	pnl, err := s.UnrealizedPnL(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1368.38, pnl, 0.001)

	txns, err := s.ListTransactions(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, models.TransactionSell, txns[0].Type)
	assert.Equal(t, "Apple Inc.", txns[0].Name)

	estimates, err := s.RealizedEstimates(ctx)
	require.NoError(t, err)
	require.Len(t, estimates, 2)
	assert.InDelta(t, 65.01, estimates[0].EstimatedPnL, 0.001)

	// re-applying clears everything
	require.NoError(t, s.ApplySchema(ctx))
	instruments, err := s.ListInstruments(ctx)
	require.NoError(t, err)
	assert.Empty(t, instruments)
}

func TestSurreal_UnpricedHoldingListedButExcluded(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.ApplySchema(ctx))

	seed(t, s, tableInstrument, "A", instrumentRecord{Symbol: "A", Name: "Alpha Corp"})
	seed(t, s, tableInstrument, "B", instrumentRecord{Symbol: "B", Name: "Beta Corp"})
	seed(t, s, tableHolding, "A", holdingRecord{Symbol: "A", Quantity: 100, AverageCost: 1.5})
	seed(t, s, tableHolding, "B", holdingRecord{Symbol: "B", Quantity: 5, AverageCost: 10})

	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.UpsertQuote(ctx, "A", 1.00, at))
	require.NoError(t, s.UpsertQuote(ctx, "a", 2.00, at.Add(time.Minute)))

	value, err := s.PortfolioValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200.00, value)

	holdings, err := s.ListHoldings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Nil(t, holdings[1].MarketValue)

	q, err := s.GetQuote(ctx, "A")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 2.00, q.Price)
	assert.True(t, at.Add(time.Minute).Equal(q.UpdatedAt))

	missing, err := s.GetQuote(ctx, "B")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = s.UpsertQuote(ctx, "ZZZ", 1, at)
	assert.ErrorIs(t, err, models.ErrUnknownInstrument)
}

func TestStatements(t *testing.T) {
	got := statements("-- c\nREMOVE TABLE IF EXISTS quote;\n\nDEFINE TABLE quote SCHEMALESS;\n")
	assert.Equal(t, []string{"REMOVE TABLE IF EXISTS quote;", "DEFINE TABLE quote SCHEMALESS;"}, got)
}
