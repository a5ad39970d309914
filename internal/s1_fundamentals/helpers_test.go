package s1_fundamentals

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// series builds an ascending yearly series starting at 2020; nil entries are absent
func series(values ...*float64) []contracts.YearValue {
	out := make([]contracts.YearValue, len(values))
	for i, v := range values {
		out[i].Year = 2020 + i
		if v != nil {
			out[i].Value = decimal.NewNullDecimal(decimal.NewFromFloat(*v))
		}
	}
	return out
}

func f(v float64) *float64 { return &v }

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
