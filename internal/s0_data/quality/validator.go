package quality

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// QualityGate checks how much of the tracked universe has usable snapshots
type QualityGate struct {
	snapshots contracts.SnapshotRepository
	tracked   contracts.TrackedSymbolRepository
	config    Config
	now       func() time.Time
}

// Config holds quality gate thresholds
type Config struct {
	MinSnapshotCoverage float64       // 0.8
	MinFreshCoverage    float64       // 0.5
	StaleAfter          time.Duration // FETCH_STALE_AFTER
}

// DefaultConfig returns the thresholds used by the API and CLI
func DefaultConfig(staleAfter time.Duration) Config {
	return Config{
		MinSnapshotCoverage: 0.8,
		MinFreshCoverage:    0.5,
		StaleAfter:          staleAfter,
	}
}

// Score weights; ESG coverage is reported but not weighted.
const (
	snapshotWeight = 0.6
	freshWeight    = 0.4
)

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(snapshots contracts.SnapshotRepository, tracked contracts.TrackedSymbolRepository, config Config) *QualityGate {
	return &QualityGate{
		snapshots: snapshots,
		tracked:   tracked,
		config:    config,
		now:       time.Now,
	}
}

// Check validates universe coverage at the current time
// ⭐ SSOT: S0 → S2 품질 검증
func (g *QualityGate) Check(ctx context.Context) (*contracts.DataQualitySnapshot, error) {
	now := g.now()
	snapshot := &contracts.DataQualitySnapshot{
		Date:     now,
		Coverage: make(map[string]float64),
	}

	// 1. 추적 종목
	tracked, err := g.tracked.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked symbols: %w", err)
	}
	snapshot.TotalSymbols = len(tracked)

	// 2. 종목별 최신 스냅샷
	universe, err := g.snapshots.ListLatestPerSymbol(ctx)
	if err != nil {
		return nil, fmt.Errorf("list latest snapshots: %w", err)
	}
	latest := make(map[string]*contracts.FundamentalSnapshot, len(universe))
	for i := range universe {
		latest[universe[i].Symbol] = &universe[i]
	}

	// 3. 커버리지 체크
	var fresh, esg int
	for _, t := range tracked {
		snap, ok := latest[t.Symbol]
		if !ok {
			snapshot.Missing = append(snapshot.Missing, t.Symbol)
			continue
		}
		snapshot.ValidSymbols++
		if snap.IsStale(now, g.config.StaleAfter) {
			snapshot.Stale = append(snapshot.Stale, t.Symbol)
		} else {
			fresh++
		}
		if snap.Esg.HasData() {
			esg++
		}
	}
	sort.Strings(snapshot.Missing)
	sort.Strings(snapshot.Stale)

	snapshot.Coverage[contracts.CoverageSnapshot] = ratio(snapshot.ValidSymbols, snapshot.TotalSymbols)
	snapshot.Coverage[contracts.CoverageFresh] = ratio(fresh, snapshot.TotalSymbols)
	snapshot.Coverage[contracts.CoverageEsg] = ratio(esg, snapshot.TotalSymbols)

	// 4. 품질 점수 계산
	snapshot.QualityScore = g.calculateScore(snapshot.Coverage)
	snapshot.Passed = g.passed(snapshot.Coverage)

	return snapshot, nil
}

// calculateScore weights snapshot and freshness coverage
func (g *QualityGate) calculateScore(coverage map[string]float64) float64 {
	return coverage[contracts.CoverageSnapshot]*snapshotWeight +
		coverage[contracts.CoverageFresh]*freshWeight
}

// passed checks every threshold
func (g *QualityGate) passed(coverage map[string]float64) bool {
	return coverage[contracts.CoverageSnapshot] >= g.config.MinSnapshotCoverage &&
		coverage[contracts.CoverageFresh] >= g.config.MinFreshCoverage
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
