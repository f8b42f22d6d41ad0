package server

import (
	"salaryinsights/internal/formatters"
	"salaryinsights/internal/types"
)

// Chart geometry in SVG user units
const (
	chartWidth    = 360.0
	chartHeight   = 260.0
	chartLeft     = 56.0
	chartTop      = 24.0
	chartBaseline = 224.0
	chartBarWidth = 90.0
	chartTicks    = 4
)

type chartBar struct {
	Label   string
	Display string // full currency amount
	Compact string // axis style label, e.g. 90K
	Color   string
	X       float64
	Y       float64
	Width   float64
	Height  float64
}

type chartTick struct {
	Y     float64
	Label string
}

// chartView is the two-bar min/max salary chart
type chartView struct {
	Width    float64
	Height   float64
	PlotLeft float64
	Baseline float64
	Bars     []chartBar
	Ticks    []chartTick
}

// buildChart scales both bars against the larger of the two amounts.
// Negative amounts are drawn as empty bars.
func buildChart(estimate types.SalaryEstimate, money *formatters.MoneyFormatter) *chartView {
	top := max(estimate.MinSalary, estimate.MaxSalary)
	if top <= 0 {
		top = 1
	}
	plotHeight := chartBaseline - chartTop

	chart := &chartView{
		Width:    chartWidth,
		Height:   chartHeight,
		PlotLeft: chartLeft,
		Baseline: chartBaseline,
	}

	for i := 0; i <= chartTicks; i++ {
		fraction := float64(i) / chartTicks
		chart.Ticks = append(chart.Ticks, chartTick{
			Y:     chartBaseline - fraction*plotHeight,
			Label: formatters.CompactNumber(fraction * top),
		})
	}

	bars := []struct {
		label string
		value float64
		color string
	}{
		{"Min Salary", estimate.MinSalary, "#8ea2f0"},
		{"Max Salary", estimate.MaxSalary, "#3e5cd8"},
	}
	slot := (chartWidth - chartLeft) / float64(len(bars))
	for i, b := range bars {
		height := max(b.value, 0) / top * plotHeight
		chart.Bars = append(chart.Bars, chartBar{
			Label:   b.label,
			Display: money.FormatAmount(b.value, estimate.CurrencyCode),
			Compact: formatters.CompactNumber(b.value),
			Color:   b.color,
			X:       chartLeft + float64(i)*slot + (slot-chartBarWidth)/2,
			Y:       chartBaseline - height,
			Width:   chartBarWidth,
			Height:  height,
		})
	}
	return chart
}
