package collector

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/internal/s1_fundamentals"
	"github.com/wonny/balancedrisk/pkg/logger"
	"github.com/wonny/balancedrisk/pkg/metrics"
)

type fakeSource struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) FetchRaw(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	s.mu.Lock()
	s.calls = append(s.calls, symbol)
	s.mu.Unlock()

	if err := s.fail[symbol]; err != nil {
		return nil, err
	}
	return &contracts.RawFundamentals{
		AsOf:           time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		FreeCashFlow:   decimal.NewNullDecimal(decimal.NewFromInt(100)),
		ReturnOnEquity: decimal.NewNullDecimal(decimal.RequireFromString("0.2")),
	}, nil
}

func (s *fakeSource) called() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.calls...)
	sort.Strings(out)
	return out
}

type fakeStore struct {
	mu        sync.Mutex
	snaps     map[string]contracts.FundamentalSnapshot
	updated   map[string]time.Time
	tracked   []string
	upsertErr error
}

func newFakeStore(tracked ...string) *fakeStore {
	return &fakeStore{
		snaps:   map[string]contracts.FundamentalSnapshot{},
		updated: map[string]time.Time{},
		tracked: tracked,
	}
}

func (f *fakeStore) Upsert(ctx context.Context, snap *contracts.FundamentalSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	snap.UpdateDate = time.Now()
	f.snaps[snap.Symbol] = *snap
	f.updated[snap.Symbol] = snap.UpdateDate
	return nil
}

func (f *fakeStore) GetLatest(ctx context.Context, symbol string) (*contracts.FundamentalSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snaps[symbol]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStore) ListLatestPerSymbol(ctx context.Context) ([]contracts.FundamentalSnapshot, error) {
	return nil, nil
}

func (f *fakeStore) GetUpdateDate(ctx context.Context, symbol string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.updated[symbol]
	if !ok {
		return time.Time{}, contracts.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) List(ctx context.Context) ([]contracts.TrackedSymbol, error) {
	out := make([]contracts.TrackedSymbol, len(f.tracked))
	for i, s := range f.tracked {
		out[i] = contracts.TrackedSymbol{Symbol: s}
	}
	return out, nil
}

func (f *fakeStore) Add(ctx context.Context, symbol string) error {
	f.tracked = append(f.tracked, symbol)
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, symbol string) error { return nil }

type recordingInvalidator struct {
	mu      sync.Mutex
	symbols []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.symbols = append(r.symbols, symbol)
	return nil
}

func newCollector(src *fakeSource, store *fakeStore) *Collector {
	return NewCollector(src, store, store, s1_fundamentals.NewCalculator(logger.Nop()), logger.Nop())
}

func TestConfig_Normalize(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 7*24*time.Hour, cfg.StaleAfter)

	cfg = Config{Workers: -1}
	assert.Error(t, cfg.Normalize())
}

func TestRefreshSymbol(t *testing.T) {
	src := &fakeSource{}
	store := newFakeStore()
	inv := &recordingInvalidator{}
	c := newCollector(src, store).WithInvalidator(inv).WithMetrics(metrics.New())

	snap, err := c.RefreshSymbol(context.Background(), " aapl ")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.True(t, snap.FreeCashFlow.Equal(decimal.NewFromInt(100)))
	assert.False(t, snap.UpdateDate.IsZero())
	assert.Contains(t, store.snaps, "AAPL")
	assert.Equal(t, []string{"AAPL"}, inv.symbols)
}

func TestRefreshSymbol_Errors(t *testing.T) {
	src := &fakeSource{fail: map[string]error{"BAD": contracts.ErrNoData}}
	store := newFakeStore()
	c := newCollector(src, store)

	_, err := c.RefreshSymbol(context.Background(), "BAD")
	assert.ErrorIs(t, err, contracts.ErrNoData)

	_, err = c.RefreshSymbol(context.Background(), "  ")
	assert.Error(t, err)

	store.upsertErr = errors.New("disk full")
	_, err = c.RefreshSymbol(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "disk full")
}

func TestRefreshAll_SkipsFreshSymbols(t *testing.T) {
	now := time.Date(2026, 1, 10, 6, 0, 0, 0, time.UTC)
	src := &fakeSource{fail: map[string]error{"ERR": errors.New("timeout")}}
	store := newFakeStore("FRESH", "STALE", "NEW", "ERR")
	store.updated["FRESH"] = now.Add(-2 * 24 * time.Hour)
	store.updated["STALE"] = now.Add(-8 * 24 * time.Hour)

	c := newCollector(src, store)
	c.now = func() time.Time { return now }

	results, err := c.RefreshAll(context.Background(), Config{Workers: 3})
	require.NoError(t, err)
	require.Len(t, results, 4)

	summary := Summarize(results)
	assert.Equal(t, Summary{Refreshed: 2, Skipped: 1, Failed: 1}, summary)
	assert.Equal(t, []string{"ERR", "NEW", "STALE"}, src.called())

	for _, r := range results {
		if r.Symbol == "FRESH" {
			assert.True(t, r.Skipped)
		}
	}
}

func TestRefreshAll_Force(t *testing.T) {
	now := time.Now()
	src := &fakeSource{}
	store := newFakeStore("A", "B")
	store.updated["A"] = now
	store.updated["B"] = now

	results, err := newCollector(src, store).RefreshAll(context.Background(), Config{Force: true})
	require.NoError(t, err)
	assert.Equal(t, Summary{Refreshed: 2}, Summarize(results))
	assert.Equal(t, []string{"A", "B"}, src.called())
}

func TestRefreshAll_CancelledContext(t *testing.T) {
	src := &fakeSource{}
	store := newFakeStore("A", "B", "C")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := newCollector(src, store).RefreshAll(ctx, Config{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, Summarize(results).Failed)
	for _, r := range results {
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
	assert.Empty(t, src.called())
}

func TestRefreshAll_RateLimited(t *testing.T) {
	src := &fakeSource{}
	store := newFakeStore("A", "B", "C")
	c := newCollector(src, store).WithRateLimit(1000)

	results, err := c.RefreshAll(context.Background(), Config{Workers: 2, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 3, Summarize(results).Refreshed)
	for sym := range store.snaps {
		assert.Equal(t, strings.ToUpper(sym), sym)
	}
}
