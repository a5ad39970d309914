package boundsconfig

import (
	"fmt"
	"math"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// higherIsBetter metrics ramp upward from their lower bound
var higherIsBetter = map[contracts.Metric]bool{
	contracts.MetricOneYearSalesGrowth:     true,
	contracts.MetricFourYearSalesGrowth:    true,
	contracts.MetricFourYearEarningsGrowth: true,
	contracts.MetricReturnOnEquity:         true,
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	if cfg.Meta.Name == "" {
		return ValidationError{"meta.name", "required"}
	}

	for _, m := range contracts.AllMetrics {
		r := cfg.Bounds.rangeOf(m)
		field := "bounds." + string(m)

		if r.Lower != nil && !finite(*r.Lower) {
			return ValidationError{field + ".lower", "must be a finite number"}
		}
		if r.Upper != nil && !finite(*r.Upper) {
			return ValidationError{field + ".upper", "must be a finite number"}
		}
		// lower < upper
		if r.Lower != nil && r.Upper != nil && *r.Lower >= *r.Upper {
			return ValidationError{field, "lower must be < upper"}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	for _, m := range contracts.AllMetrics {
		r := cfg.Bounds.rangeOf(m)
		if higherIsBetter[m] && r.Lower == nil && r.Upper != nil {
			warnings = append(warnings, Warning{
				Code:    "UPPER_ONLY",
				Message: fmt.Sprintf("%s: 하한 없이 상한만 있으면 0에서 최고점, 상한에서 0점", m),
			})
		}
	}

	// PEG 구간 없음 → 클리닝 후 항상 양수라 0점
	peg := cfg.Bounds.PegRatio
	if peg.Lower == nil && peg.Upper == nil {
		warnings = append(warnings, Warning{
			Code:    "UNBOUNDED_PEG",
			Message: "peg_ratio 구간이 없으면 모든 종목의 PEG 점수가 0",
		})
	}

	// 과도하게 느슨한 레버리지 허용
	if de := cfg.Bounds.DebtToEquity.Upper; de != nil && *de > 5 {
		warnings = append(warnings, Warning{
			Code:    "LOOSE_LEVERAGE",
			Message: "debt_to_equity 상한 > 5: 레버리지 점수 변별력 낮음",
		})
	}

	return warnings
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
