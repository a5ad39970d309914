package quality

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/balancedrisk/internal/contracts"
)

type memoryStore struct {
	tracked   []contracts.TrackedSymbol
	universe  []contracts.FundamentalSnapshot
	listErr   error
	latestErr error
}

func (m *memoryStore) Upsert(ctx context.Context, snap *contracts.FundamentalSnapshot) error {
	return nil
}

func (m *memoryStore) GetLatest(ctx context.Context, symbol string) (*contracts.FundamentalSnapshot, error) {
	return nil, contracts.ErrNotFound
}

func (m *memoryStore) ListLatestPerSymbol(ctx context.Context) ([]contracts.FundamentalSnapshot, error) {
	return m.universe, m.latestErr
}

func (m *memoryStore) GetUpdateDate(ctx context.Context, symbol string) (time.Time, error) {
	return time.Time{}, contracts.ErrNotFound
}

func (m *memoryStore) List(ctx context.Context) ([]contracts.TrackedSymbol, error) {
	return m.tracked, m.listErr
}

func (m *memoryStore) Add(ctx context.Context, symbol string) error    { return nil }
func (m *memoryStore) Remove(ctx context.Context, symbol string) error { return nil }

var now = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newGate(store *memoryStore) *QualityGate {
	g := NewQualityGate(store, store, DefaultConfig(7*24*time.Hour))
	g.now = func() time.Time { return now }
	return g
}

func track(symbols ...string) []contracts.TrackedSymbol {
	out := make([]contracts.TrackedSymbol, len(symbols))
	for i, s := range symbols {
		out[i] = contracts.TrackedSymbol{Symbol: s, AddedAt: now.AddDate(0, -1, 0)}
	}
	return out
}

func stored(symbol string, age time.Duration, withEsg bool) contracts.FundamentalSnapshot {
	s := contracts.FundamentalSnapshot{Symbol: symbol, UpdateDate: now.Add(-age)}
	if withEsg {
		s.Esg.Total = decimal.NewNullDecimal(decimal.NewFromInt(20))
	}
	return s
}

func TestQualityGate_Check(t *testing.T) {
	store := &memoryStore{
		tracked: track("AAPL", "MSFT", "NVDA", "TSLA"),
		universe: []contracts.FundamentalSnapshot{
			stored("AAPL", time.Hour, true),
			stored("MSFT", 10*24*time.Hour, false),
			stored("NVDA", 24*time.Hour, false),
		},
	}

	snapshot, err := newGate(store).Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, now, snapshot.Date)
	assert.Equal(t, 4, snapshot.TotalSymbols)
	assert.Equal(t, 3, snapshot.ValidSymbols)
	assert.Equal(t, []string{"TSLA"}, snapshot.Missing)
	assert.Equal(t, []string{"MSFT"}, snapshot.Stale)

	assert.InDelta(t, 0.75, snapshot.Coverage[contracts.CoverageSnapshot], 1e-9)
	assert.InDelta(t, 0.5, snapshot.Coverage[contracts.CoverageFresh], 1e-9)
	assert.InDelta(t, 0.25, snapshot.Coverage[contracts.CoverageEsg], 1e-9)

	// 0.75*0.6 + 0.5*0.4
	assert.InDelta(t, 0.65, snapshot.QualityScore, 1e-9)
	assert.False(t, snapshot.Passed, "snapshot coverage below 0.8")
}

func TestQualityGate_Check_AllFresh(t *testing.T) {
	store := &memoryStore{
		tracked: track("AAPL", "MSFT"),
		universe: []contracts.FundamentalSnapshot{
			stored("AAPL", time.Hour, false),
			stored("MSFT", time.Hour, false),
		},
	}

	snapshot, err := newGate(store).Check(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, snapshot.QualityScore, 1e-9)
	assert.True(t, snapshot.Passed)
	assert.Empty(t, snapshot.Missing)
	assert.Empty(t, snapshot.Stale)
}

func TestQualityGate_Check_EmptyUniverse(t *testing.T) {
	snapshot, err := newGate(&memoryStore{}).Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.TotalSymbols)
	assert.Equal(t, 0.0, snapshot.QualityScore)
	assert.False(t, snapshot.Passed)
}

func TestQualityGate_Check_Errors(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := newGate(&memoryStore{listErr: boom}).Check(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = newGate(&memoryStore{tracked: track("AAPL"), latestErr: boom}).Check(context.Background())
	assert.ErrorIs(t, err, boom)
}
