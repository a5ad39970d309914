package s0_data

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NUMERIC 컬럼은 ::text 로 읽고 $n::numeric 으로 씀 (정밀도 보존)

func parseNumeric(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s %q: %w", column, s, err)
	}
	return d, nil
}

func parseNullNumeric(column string, s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseNumeric(column, *s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func nullNumericArg(v decimal.NullDecimal) *string {
	if !v.Valid {
		return nil
	}
	s := v.Decimal.String()
	return &s
}

// asOfDate truncates to a UTC calendar date; zero falls back to today
func asOfDate(t, now time.Time) time.Time {
	if t.IsZero() {
		t = now
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
