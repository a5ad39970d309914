package boundsconfig

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/balancedrisk/internal/contracts"
)

func TestLoad_ShippedFile(t *testing.T) {
	path := "../../config/bounds.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, data, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// 배포 파일 = 기본값
	assert.Equal(t, Default().ToBounds(), cfg.ToBounds())
	assert.Empty(t, Warn(cfg))
}

func TestDefault_ToBounds(t *testing.T) {
	b := Default().ToBounds()

	assert.Equal(t, "0.05", b.OneYearSalesGrowth.Lower.String())
	assert.Nil(t, b.OneYearSalesGrowth.Upper)
	assert.Equal(t, "0.5", b.FourYearSalesGrowth.Lower.String())
	assert.Equal(t, "0.1", b.FourYearEarningsGrowth.Lower.String())
	assert.Equal(t, "0.15", b.ReturnOnEquity.Lower.String())
	assert.Equal(t, "0", b.FreeCashFlow.Lower.String())
	assert.Equal(t, "[0, 1]", b.DebtToEquity.String())
	assert.Equal(t, "[0, 2]", b.PegRatio.String())

	require.NoError(t, Validate(Default()))
}

func TestParse_UnknownFieldFails(t *testing.T) {
	yml := []byte(`
meta:
  name: typo
bounds:
  return_on_equty:
    lower: 0.1
`)
	_, err := Parse(yml)
	assert.Error(t, err)
}

func TestParse_PartialBounds(t *testing.T) {
	yml := []byte(`
meta:
  name: growth-heavy
bounds:
  one_year_sales_growth:
    lower: 0.10
    upper: 0.40
  peg_ratio:
    upper: 1.5
`)
	cfg, err := Parse(yml)
	require.NoError(t, err)

	b := cfg.ToBounds()
	assert.Equal(t, "[0.1, 0.4]", b.OneYearSalesGrowth.String())
	assert.Equal(t, "[-, 1.5]", b.PegRatio.String())
	assert.Equal(t, "[-, -]", b.ReturnOnEquity.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"missing name", func(c *Config) { c.Meta.Name = "" }, "meta.name"},
		{"inverted", func(c *Config) { c.Bounds.DebtToEquity = Range{Lower: f(2), Upper: f(1)} }, "bounds.debt_to_equity"},
		{"zero width", func(c *Config) { c.Bounds.PegRatio = Range{Lower: f(1), Upper: f(1)} }, "bounds.peg_ratio"},
		{"nan lower", func(c *Config) { c.Bounds.ReturnOnEquity = Range{Lower: f(math.NaN())} }, "bounds.return_on_equity.lower"},
		{"inf upper", func(c *Config) { c.Bounds.FreeCashFlow = Range{Upper: f(math.Inf(1))} }, "bounds.free_cash_flow.upper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)

			err := Validate(cfg)
			var verr ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	cfg := Default()
	cfg.Bounds.PegRatio = Range{}
	cfg.Bounds.DebtToEquity = Range{Upper: f(10)}
	cfg.Bounds.ReturnOnEquity = Range{Upper: f(0.3)}

	codes := map[string]bool{}
	for _, w := range Warn(cfg) {
		codes[w.Code] = true
	}
	assert.True(t, codes["UNBOUNDED_PEG"])
	assert.True(t, codes["LOOSE_LEVERAGE"])
	assert.True(t, codes["UPPER_ONLY"])
}

func TestLoadOrDefault(t *testing.T) {
	cfg, data, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Meta.Name)

	// 기본값 YAML은 다시 읽을 수 있어야 함
	reparsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.ToBounds(), reparsed.ToBounds())

	cfg, _, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("meta: {name: x}\nbounds: {peg_ratio: {lower: 3, upper: 1}}\n"), 0o600))
	_, _, err = LoadOrDefault(bad)
	assert.Error(t, err)
}

func TestHashAndSnapshot(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, _ := Hash(Default())
	assert.Equal(t, h1, h2, "hash not deterministic")

	changed := Default()
	changed.Bounds.PegRatio.Upper = f(3)
	h3, _ := Hash(changed)
	assert.NotEqual(t, h1, h3)

	snap, err := NewSnapshot(Default(), []byte("meta: {}"))
	require.NoError(t, err)
	assert.Equal(t, h1, snap.ConfigHash)
	assert.Equal(t, "default", snap.Name)
}

func TestToBounds_AllMetricsCovered(t *testing.T) {
	b := Default().ToBounds()
	for _, m := range contracts.AllMetrics {
		mb := b.For(m)
		assert.True(t, mb.HasLower() || mb.HasUpper(), "%s has no bounds", m)
	}
}
