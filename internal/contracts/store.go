package contracts

import (
	"context"
	"time"
)

// SnapshotRepository is the metrics store: latest fundamentals per symbol
type SnapshotRepository interface {
	Upsert(ctx context.Context, snap *FundamentalSnapshot) error
	GetLatest(ctx context.Context, symbol string) (*FundamentalSnapshot, error)
	ListLatestPerSymbol(ctx context.Context) ([]FundamentalSnapshot, error)
	GetUpdateDate(ctx context.Context, symbol string) (time.Time, error)
}

// TrackedSymbolRepository manages the set of symbols that form the universe
type TrackedSymbolRepository interface {
	List(ctx context.Context) ([]TrackedSymbol, error)
	Add(ctx context.Context, symbol string) error
	Remove(ctx context.Context, symbol string) error
}

// TrackedSymbol is a symbol registered for periodic refresh
type TrackedSymbol struct {
	Symbol  string    `json:"symbol"`
	AddedAt time.Time `json:"added_at"`
}

// DataSource fetches raw fundamentals for a symbol
type DataSource interface {
	Name() string
	FetchRaw(ctx context.Context, symbol string) (*RawFundamentals, error)
}
