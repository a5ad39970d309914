package s0_data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// SnapshotRepository implements contracts.SnapshotRepository on Postgres
// ⭐ SSOT: 펀더멘털 스냅샷 저장소는 여기서만
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

const snapshotColumns = `
	symbol, as_of_date, update_date, currency,
	one_year_sales_growth::text, four_year_sales_growth::text, four_year_earnings_growth::text,
	free_cash_flow::text, debt_to_equity::text, peg_ratio::text, return_on_equity::text,
	esg_total::text, esg_environment::text, esg_social::text, esg_governance::text,
	esg_publication_date`

// Upsert stores snap as the row for (symbol, as-of date) and sets UpdateDate
func (r *SnapshotRepository) Upsert(ctx context.Context, snap *contracts.FundamentalSnapshot) error {
	snap.Symbol = strings.ToUpper(strings.TrimSpace(snap.Symbol))
	if snap.Symbol == "" {
		return fmt.Errorf("upsert snapshot: empty symbol")
	}
	snap.Date = asOfDate(snap.Date, time.Now())

	query := `
		INSERT INTO data.fundamental_snapshots (
			symbol, as_of_date, update_date, currency,
			one_year_sales_growth, four_year_sales_growth, four_year_earnings_growth,
			free_cash_flow, debt_to_equity, peg_ratio, return_on_equity,
			esg_total, esg_environment, esg_social, esg_governance, esg_publication_date
		) VALUES (
			$1, $2, now(), $3,
			$4::numeric, $5::numeric, $6::numeric,
			$7::numeric, $8::numeric, $9::numeric, $10::numeric,
			$11::numeric, $12::numeric, $13::numeric, $14::numeric, $15
		)
		ON CONFLICT (symbol, as_of_date) DO UPDATE SET
			update_date = now(),
			currency = EXCLUDED.currency,
			one_year_sales_growth = EXCLUDED.one_year_sales_growth,
			four_year_sales_growth = EXCLUDED.four_year_sales_growth,
			four_year_earnings_growth = EXCLUDED.four_year_earnings_growth,
			free_cash_flow = EXCLUDED.free_cash_flow,
			debt_to_equity = EXCLUDED.debt_to_equity,
			peg_ratio = EXCLUDED.peg_ratio,
			return_on_equity = EXCLUDED.return_on_equity,
			esg_total = EXCLUDED.esg_total,
			esg_environment = EXCLUDED.esg_environment,
			esg_social = EXCLUDED.esg_social,
			esg_governance = EXCLUDED.esg_governance,
			esg_publication_date = EXCLUDED.esg_publication_date
		RETURNING update_date
	`

	err := r.pool.QueryRow(ctx, query,
		snap.Symbol, snap.Date, snap.Currency,
		snap.OneYearSalesGrowth.String(), snap.FourYearSalesGrowth.String(), snap.FourYearEarningsGrowth.String(),
		snap.FreeCashFlow.String(), snap.DebtToEquity.String(), snap.PegRatio.String(), snap.ReturnOnEquity.String(),
		nullNumericArg(snap.Esg.Total), nullNumericArg(snap.Esg.Environment),
		nullNumericArg(snap.Esg.Social), nullNumericArg(snap.Esg.Governance),
		snap.Esg.PublicationDate,
	).Scan(&snap.UpdateDate)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", snap.Symbol, err)
	}
	return nil
}

// GetLatest returns the most recent snapshot of symbol, tracked or not
func (r *SnapshotRepository) GetLatest(ctx context.Context, symbol string) (*contracts.FundamentalSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM data.fundamental_snapshots
		WHERE symbol = $1
		ORDER BY as_of_date DESC, update_date DESC
		LIMIT 1
	`

	snap, err := scanSnapshot(r.pool.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(symbol))))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot %s: %w", symbol, err)
	}
	return snap, nil
}

// ListLatestPerSymbol returns the latest snapshot of every tracked symbol (the universe)
func (r *SnapshotRepository) ListLatestPerSymbol(ctx context.Context) ([]contracts.FundamentalSnapshot, error) {
	query := `
		SELECT DISTINCT ON (s.symbol) ` + prefixed("s", snapshotColumns) + `
		FROM data.fundamental_snapshots s
		JOIN data.tracked_symbols t ON t.symbol = s.symbol
		ORDER BY s.symbol, s.as_of_date DESC, s.update_date DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list latest snapshots: %w", err)
	}
	defer rows.Close()

	var out []contracts.FundamentalSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list latest snapshots: %w", err)
	}
	return out, nil
}

// GetUpdateDate returns when symbol was last stored
func (r *SnapshotRepository) GetUpdateDate(ctx context.Context, symbol string) (time.Time, error) {
	var updated *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT max(update_date) FROM data.fundamental_snapshots WHERE symbol = $1`,
		strings.ToUpper(strings.TrimSpace(symbol)),
	).Scan(&updated)
	if err != nil {
		return time.Time{}, fmt.Errorf("get update date %s: %w", symbol, err)
	}
	if updated == nil {
		return time.Time{}, contracts.ErrNotFound
	}
	return *updated, nil
}

func scanSnapshot(row pgx.Row) (*contracts.FundamentalSnapshot, error) {
	var (
		s                                      contracts.FundamentalSnapshot
		oneY, fourY, fourYE, fcf, de, peg, roe string
		esgTotal, esgEnv, esgSoc, esgGov       *string
	)

	err := row.Scan(
		&s.Symbol, &s.Date, &s.UpdateDate, &s.Currency,
		&oneY, &fourY, &fourYE, &fcf, &de, &peg, &roe,
		&esgTotal, &esgEnv, &esgSoc, &esgGov, &s.Esg.PublicationDate,
	)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		column string
		raw    string
		dest   *decimal.Decimal
	}{
		{"one_year_sales_growth", oneY, &s.OneYearSalesGrowth},
		{"four_year_sales_growth", fourY, &s.FourYearSalesGrowth},
		{"four_year_earnings_growth", fourYE, &s.FourYearEarningsGrowth},
		{"free_cash_flow", fcf, &s.FreeCashFlow},
		{"debt_to_equity", de, &s.DebtToEquity},
		{"peg_ratio", peg, &s.PegRatio},
		{"return_on_equity", roe, &s.ReturnOnEquity},
	}
	for _, f := range fields {
		if *f.dest, err = parseNumeric(f.column, f.raw); err != nil {
			return nil, err
		}
	}

	esg := []struct {
		column string
		raw    *string
		dest   *decimal.NullDecimal
	}{
		{"esg_total", esgTotal, &s.Esg.Total},
		{"esg_environment", esgEnv, &s.Esg.Environment},
		{"esg_social", esgSoc, &s.Esg.Social},
		{"esg_governance", esgGov, &s.Esg.Governance},
	}
	for _, f := range esg {
		if *f.dest, err = parseNullNumeric(f.column, f.raw); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// prefixed qualifies every column of list with alias
func prefixed(alias, list string) string {
	parts := strings.Split(list, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
