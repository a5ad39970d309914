package s2_scoring

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func bounds(lower, upper string) contracts.MetricBounds {
	var b contracts.MetricBounds
	if lower != "" {
		b.Lower = dp(lower)
	}
	if upper != "" {
		b.Upper = dp(upper)
	}
	return b
}

// defaultBounds mirrors the shipped bounds file
func defaultBounds() contracts.BoundsConfig {
	return contracts.BoundsConfig{
		OneYearSalesGrowth:     bounds("0.05", ""),
		FourYearSalesGrowth:    bounds("0.50", ""),
		FourYearEarningsGrowth: bounds("0.10", ""),
		FreeCashFlow:           bounds("0", ""),
		DebtToEquity:           bounds("0", "1"),
		PegRatio:               bounds("0", "2"),
		ReturnOnEquity:         bounds("0.15", ""),
	}
}

type snapOpt func(*contracts.FundamentalSnapshot)

func snapshot(symbol string, opts ...snapOpt) contracts.FundamentalSnapshot {
	s := contracts.FundamentalSnapshot{
		Symbol:                 symbol,
		Date:                   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		OneYearSalesGrowth:     d("0.08"),
		FourYearSalesGrowth:    d("0.40"),
		FourYearEarningsGrowth: d("0.12"),
		FreeCashFlow:           d("1000000"),
		DebtToEquity:           d("0.6"),
		PegRatio:               d("1.4"),
		ReturnOnEquity:         d("0.18"),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func withROE(v string) snapOpt {
	return func(s *contracts.FundamentalSnapshot) { s.ReturnOnEquity = d(v) }
}

func withFCF(v string) snapOpt {
	return func(s *contracts.FundamentalSnapshot) { s.FreeCashFlow = d(v) }
}

// memoryStore is an in-memory contracts.SnapshotRepository
type memoryStore struct {
	universe []contracts.FundamentalSnapshot
	extra    map[string]contracts.FundamentalSnapshot // GetLatest 전용 (유니버스 밖)
	listErr  error
	getErr   error
	lists    int
}

func (m *memoryStore) Upsert(ctx context.Context, snap *contracts.FundamentalSnapshot) error {
	m.universe = append(m.universe, *snap)
	return nil
}

func (m *memoryStore) GetLatest(ctx context.Context, symbol string) (*contracts.FundamentalSnapshot, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s := Find(m.universe, symbol); s != nil {
		return s, nil
	}
	if s, ok := m.extra[strings.ToUpper(symbol)]; ok {
		return &s, nil
	}
	return nil, contracts.ErrNotFound
}

func (m *memoryStore) ListLatestPerSymbol(ctx context.Context) ([]contracts.FundamentalSnapshot, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]contracts.FundamentalSnapshot(nil), m.universe...), nil
}

func (m *memoryStore) GetUpdateDate(ctx context.Context, symbol string) (time.Time, error) {
	return time.Time{}, contracts.ErrNotFound
}

// memoryCache is an in-memory ResultCache storing JSON like the redis cache
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

// DeletePattern supports the trailing-wildcard patterns used by Service
func (m *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}
