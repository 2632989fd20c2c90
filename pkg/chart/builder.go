// Package chart builds the declarative Highcharts configuration for the
// stacked engagement chart.
package chart

import (
	"strconv"

	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/engagement"
)

// ContainerID is the id of the element the chart is drawn into.
const ContainerID = "container"

// Series colors, in engagement.Metrics order.
var Palette = []string{"#2f2f2f", "#696969", "#b2b2b2"}

const (
	annualSubtitle  = "2012 a 2022"
	monthlySubtitle = "Dados Mensais"

	pointFormat = `<span style="color:{series.color}">●</span> {series.name}: <b>{point.y:,.0f}</b><br/>`
	lineColor   = "#666666"
)

// SubtitleText returns the fixed subtitle for g. It does not follow the data
// range.
func SubtitleText(g dataset.Granularity) string {
	if g == dataset.Monthly {
		return monthlySubtitle
	}
	return annualSubtitle
}

// Categories formats the x-axis labels: the year for annual data, YYYY-MM
// for monthly data.
func Categories(t engagement.Table, g dataset.Granularity) []string {
	ts := t.Timestamps()
	cats := make([]string, len(ts))
	for i, tm := range ts {
		if g == dataset.Monthly {
			cats[i] = tm.Format("2006-01")
		} else {
			cats[i] = strconv.Itoa(tm.Year())
		}
	}
	return cats
}

// Build returns a fresh chart configuration for t. It does not modify t.
func Build(t engagement.Table, g dataset.Granularity) *Spec {
	series := make([]Series, len(engagement.Metrics))
	for i, m := range engagement.Metrics {
		series[i] = Series{
			Name:  string(m),
			Data:  t.Column(m),
			Color: Palette[i],
		}
	}

	legendTitle := "Métricas"

	return &Spec{
		Chart:    ChartOptions{Type: "area"},
		Title:    Text{},
		Subtitle: Subtitle{Text: SubtitleText(g), Align: "left"},
		XAxis: XAxis{
			Categories:        Categories(t, g),
			TickmarkPlacement: "on",
			Title:             AxisTitle{Enabled: false},
		},
		YAxis: YAxis{
			Title:  Text{},
			Labels: Labels{Format: "{value:,.0f}K"},
		},
		Tooltip: Tooltip{Shared: true, PointFormat: pointFormat},
		PlotOptions: PlotOptions{Area: AreaOptions{
			Stacking:  "normal",
			LineColor: lineColor,
			LineWidth: 1,
			Marker:    Marker{LineWidth: 1, LineColor: lineColor, Symbol: "circle"},
		}},
		Legend: Legend{
			Layout:          "vertical",
			Align:           "left",
			VerticalAlign:   "top",
			X:               80,
			Y:               40,
			Floating:        true,
			BorderWidth:     1,
			BackgroundColor: "#FFFFFF",
			Title:           Text{Text: &legendTitle},
		},
		Series:  series,
		Credits: Credits{Text: "Fonte: API do X/Twitter", Href: ""},
	}
}
