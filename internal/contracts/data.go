package contracts

import "time"

// Coverage keys of DataQualitySnapshot
const (
	CoverageSnapshot = "snapshot" // 스냅샷이 있는 추적 종목 비율
	CoverageFresh    = "fresh"    // StaleAfter 이내에 갱신된 비율
	CoverageEsg      = "esg"      // ESG 데이터가 있는 비율 (참고용, 점수에 미반영)
)

// DataQualitySnapshot reports how much of the tracked universe can be scored
// ⭐ SSOT: S0 → S2 데이터 품질 정보 전달
type DataQualitySnapshot struct {
	Date         time.Time          `json:"date"`
	TotalSymbols int                `json:"total_symbols"`
	ValidSymbols int                `json:"valid_symbols"` // 스냅샷 보유 종목 수
	Coverage     map[string]float64 `json:"coverage"`      // 항목별 커버리지
	QualityScore float64            `json:"quality_score"` // 0.0 ~ 1.0
	Passed       bool               `json:"passed"`        // 품질 검증 통과 여부
	Missing      []string           `json:"missing,omitempty"`
	Stale        []string           `json:"stale,omitempty"`
}

// CoverageRate returns the average coverage rate across all coverage keys
func (d *DataQualitySnapshot) CoverageRate() float64 {
	if len(d.Coverage) == 0 {
		return 0.0
	}

	total := 0.0
	for _, rate := range d.Coverage {
		total += rate
	}

	return total / float64(len(d.Coverage))
}
