package s0_data

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// TrackedSymbolRepository implements contracts.TrackedSymbolRepository
// ⭐ SSOT: 추적 종목 목록은 여기서만
type TrackedSymbolRepository struct {
	pool *pgxpool.Pool
}

// NewTrackedSymbolRepository creates a new tracked symbol repository
func NewTrackedSymbolRepository(pool *pgxpool.Pool) *TrackedSymbolRepository {
	return &TrackedSymbolRepository{pool: pool}
}

// List returns all tracked symbols in alphabetical order
func (r *TrackedSymbolRepository) List(ctx context.Context) ([]contracts.TrackedSymbol, error) {
	rows, err := r.pool.Query(ctx, `SELECT symbol, added_at FROM data.tracked_symbols ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list tracked symbols: %w", err)
	}
	defer rows.Close()

	var out []contracts.TrackedSymbol
	for rows.Next() {
		var ts contracts.TrackedSymbol
		if err := rows.Scan(&ts.Symbol, &ts.AddedAt); err != nil {
			return nil, fmt.Errorf("scan tracked symbol: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// Add registers symbol; adding an existing symbol is a no-op
func (r *TrackedSymbolRepository) Add(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	_, err := r.pool.Exec(ctx, `
		INSERT INTO data.tracked_symbols (symbol) VALUES ($1)
		ON CONFLICT (symbol) DO NOTHING
	`, symbol)
	if err != nil {
		return fmt.Errorf("add tracked symbol %s: %w", symbol, err)
	}
	return nil
}

// Remove unregisters symbol. Stored snapshots are kept for direct lookups.
func (r *TrackedSymbolRepository) Remove(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	tag, err := r.pool.Exec(ctx, `DELETE FROM data.tracked_symbols WHERE symbol = $1`, symbol)
	if err != nil {
		return fmt.Errorf("remove tracked symbol %s: %w", symbol, err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}
