package commands

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"

	"github.com/wonny/balancedrisk/internal/api/handlers"
	"github.com/wonny/balancedrisk/internal/contracts"
)

var reportFuncs = template.FuncMap{
	"pct":   func(v fmt.Stringer) string { return percent(v.String()) },
	"fixed": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"money": handlers.FormatAmount,
	"bar":   scoreBar,
	"inc":   func(i int) int { return i + 1 },
}

var scoreTemplate = template.Must(template.New("score").Funcs(reportFuncs).Parse(`# {{.Score.Symbol}} balanced risk: {{.Score.Score}}/10

{{bar .Score.Score}}

| | |
|---|---|
| As of | {{.Score.Date.Format "2006-01-02"}} |
| Composite | {{fixed .Score.Composite}} |
| Free cash flow | {{with money (.Score.FreeCashFlow.StringFixed 0) .Score.Currency}}{{.}}{{else}}{{$.Score.FreeCashFlow.StringFixed 0}}{{end}} |

## Metrics

| Metric | Value | Bounds | Goodness |
|---|---:|---|---:|
{{- range .Rows}}
| {{.Metric}} | {{.Value}} | {{.Bounds}} | {{fixed .Goodness}} |
{{- end}}
`))

var rankTemplate = template.Must(template.New("rank").Funcs(reportFuncs).Parse(`# Balanced risk ranking

| # | Symbol | Score | Composite | PEG | ROE | D/E |
|---:|---|---:|---:|---:|---:|---:|
{{- range $i, $s := .}}
| {{inc $i}} | {{$s.Symbol}} | {{$s.Score}} | {{fixed $s.Composite}} | {{$s.PegRatio.StringFixed 2}} | {{pct $s.ReturnOnEquity}} | {{$s.DebtToEquity.StringFixed 2}} |
{{- end}}
`))

// metricRow is one line of the score report
type metricRow struct {
	Metric   contracts.Metric
	Value    string
	Bounds   string
	Goodness float64
}

// ScoreMarkdown renders one score as markdown
func ScoreMarkdown(score *contracts.RiskScore) (string, error) {
	rows := make([]metricRow, 0, len(contracts.AllMetrics))
	snap := contracts.FundamentalSnapshot{
		OneYearSalesGrowth:     score.OneYearSalesGrowth,
		FourYearSalesGrowth:    score.FourYearSalesGrowth,
		FourYearEarningsGrowth: score.FourYearEarningsGrowth,
		FreeCashFlow:           score.FreeCashFlow,
		DebtToEquity:           score.DebtToEquity,
		PegRatio:               score.PegRatio,
		ReturnOnEquity:         score.ReturnOnEquity,
	}
	for _, m := range contracts.AllMetrics {
		rows = append(rows, metricRow{
			Metric:   m,
			Value:    formatMetric(m, snap.Value(m).String()),
			Bounds:   score.Bounds.For(m).String(),
			Goodness: score.Components[m],
		})
	}

	var sb strings.Builder
	err := scoreTemplate.Execute(&sb, struct {
		Score *contracts.RiskScore
		Rows  []metricRow
	}{score, rows})
	return sb.String(), err
}

// RankMarkdown renders a ranking as a markdown table
func RankMarkdown(scores []contracts.RiskScore) (string, error) {
	var sb strings.Builder
	err := rankTemplate.Execute(&sb, scores)
	return sb.String(), err
}

// printMarkdown renders md for the terminal, falling back to plain text
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func formatMetric(m contracts.Metric, v string) string {
	switch m {
	case contracts.MetricOneYearSalesGrowth, contracts.MetricFourYearSalesGrowth,
		contracts.MetricFourYearEarningsGrowth, contracts.MetricReturnOnEquity:
		return percent(v)
	default:
		return v
	}
}

// percent renders a decimal fraction string such as "0.153" as "15.3%"
func percent(v string) string {
	var f float64
	if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
		return v
	}
	return fmt.Sprintf("%.1f%%", f*100)
}

// scoreBar draws a 10-cell bar for a 1-10 score
func scoreBar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return "`" + strings.Repeat("█", score) + strings.Repeat("░", 10-score) + "`"
}
