package s1_fundamentals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/balancedrisk/internal/contracts"
)

func TestDerivePeg(t *testing.T) {
	tests := []struct {
		name   string
		pe     decimal.NullDecimal
		growth decimal.NullDecimal
		valid  bool
		want   string
	}{
		{"regular", nd("20"), nd("0.10"), true, "2"},
		{"negative growth", nd("15"), nd("-0.05"), true, "-3"},
		{"growth at threshold", nd("1"), nd("0.001"), true, "10"},
		{"growth below threshold", nd("20"), nd("0.0009"), false, ""},
		{"negative growth below threshold", nd("20"), nd("-0.0005"), false, ""},
		{"no pe", decimal.NullDecimal{}, nd("0.1"), false, ""},
		{"no growth", nd("20"), decimal.NullDecimal{}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePeg(tt.pe, tt.growth)
			require.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, got.Decimal.Equal(d(tt.want)), "got %s, want %s", got.Decimal, tt.want)
			}
		})
	}
}

func TestChoosePriceEarnings(t *testing.T) {
	raw := &contracts.RawFundamentals{ForwardPE: nd("18"), TrailingPE: nd("25")}
	assert.Equal(t, "18", ChoosePriceEarnings(raw).Decimal.String())

	raw.ForwardPE = decimal.NullDecimal{}
	assert.Equal(t, "25", ChoosePriceEarnings(raw).Decimal.String())

	raw.TrailingPE = decimal.NullDecimal{}
	assert.False(t, ChoosePriceEarnings(raw).Valid)
}

func TestChooseGrowthFraction(t *testing.T) {
	tests := []struct {
		name  string
		raw   contracts.RawFundamentals
		valid bool
		want  string
	}{
		{
			name: "+1y preferred regardless of order",
			raw: contracts.RawFundamentals{
				GrowthTrend: []contracts.TrendEntry{
					{Period: "0y", Growth: nd("0.05")},
					{Period: "+1y", Growth: nd("0.12")},
				},
				EarningsGrowth: nd("0.30"),
			},
			valid: true, want: "0.12",
		},
		{
			name: "0y when +1y has no value",
			raw: contracts.RawFundamentals{
				GrowthTrend: []contracts.TrendEntry{
					{Period: "+1y"},
					{Period: "0y", Growth: nd("0.05")},
					{Period: "+2y", Growth: nd("0.09")},
				},
			},
			valid: true, want: "0.05",
		},
		{
			name: "other periods ignored",
			raw: contracts.RawFundamentals{
				GrowthTrend:    []contracts.TrendEntry{{Period: "+5y", Growth: nd("0.5")}},
				EarningsGrowth: nd("0.30"),
			},
			valid: true, want: "0.3",
		},
		{
			name:  "eps implied",
			raw:   contracts.RawFundamentals{ForwardEps: nd("6"), TrailingEps: nd("-4")},
			valid: true, want: "2.5",
		},
		{
			name:  "eps with zero trailing",
			raw:   contracts.RawFundamentals{ForwardEps: nd("6"), TrailingEps: nd("0")},
			valid: false,
		},
		{
			name:  "nothing",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseGrowthFraction(&tt.raw)
			require.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, got.Decimal.Equal(d(tt.want)), "got %s, want %s", got.Decimal, tt.want)
			}
		})
	}
}

func TestNormalizeDebtToEquity(t *testing.T) {
	assert.Equal(t, "1.4575", NormalizeDebtToEquity(nd("145.75"), contracts.DebtToEquityPercent).String())
	assert.Equal(t, "1.4575", NormalizeDebtToEquity(nd("1.4575"), contracts.DebtToEquityRatio).String())
	assert.True(t, NormalizeDebtToEquity(decimal.NullDecimal{}, contracts.DebtToEquityPercent).IsZero())
}
