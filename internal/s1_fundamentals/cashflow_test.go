package s1_fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/balancedrisk/internal/contracts"
)

func TestExtractFreeCashFlow_FallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  contracts.RawFundamentals
		want string
	}{
		{
			name: "direct field wins over everything",
			raw: contracts.RawFundamentals{
				FreeCashFlow:                  nd("500"),
				CashFlowStatementFreeCashFlow: nd("400"),
				OperatingCashFlow:             nd("1000"),
				CapitalExpenditure:            nd("300"),
			},
			want: "500",
		},
		{
			name: "statement field before ocf minus capex",
			raw: contracts.RawFundamentals{
				CashFlowStatementFreeCashFlow: nd("400"),
				OperatingCashFlow:             nd("1000"),
				CapitalExpenditure:            nd("300"),
			},
			want: "400",
		},
		{
			name: "ocf minus capex",
			raw: contracts.RawFundamentals{
				OperatingCashFlow:  nd("1000"),
				CapitalExpenditure: nd("300"),
			},
			want: "700",
		},
		{
			name: "ocf without capex",
			raw:  contracts.RawFundamentals{OperatingCashFlow: nd("1000")},
			want: "0",
		},
		{
			name: "negative direct value is kept",
			raw:  contracts.RawFundamentals{FreeCashFlow: nd("-20")},
			want: "-20",
		},
		{
			name: "nothing",
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFreeCashFlow(&tt.raw)
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}

	assert.True(t, ExtractFreeCashFlow(nil).IsZero())
}
