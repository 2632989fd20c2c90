package chart

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Spec is the Highcharts options object for the engagement chart. Field
// order matches the order the options are emitted in.
type Spec struct {
	Chart       ChartOptions `json:"chart"`
	Title       Text         `json:"title"`
	Subtitle    Subtitle     `json:"subtitle"`
	XAxis       XAxis        `json:"xAxis"`
	YAxis       YAxis        `json:"yAxis"`
	Tooltip     Tooltip      `json:"tooltip"`
	PlotOptions PlotOptions  `json:"plotOptions"`
	Legend      Legend       `json:"legend"`
	Series      []Series     `json:"series"`
	Credits     Credits      `json:"credits"`
}

type ChartOptions struct {
	Type string `json:"type"`
}

// Text is a title-like option whose text may be null.
type Text struct {
	Text *string `json:"text"`
}

type Subtitle struct {
	Text  string `json:"text"`
	Align string `json:"align"`
}

type XAxis struct {
	Categories        []string  `json:"categories"`
	TickmarkPlacement string    `json:"tickmarkPlacement"`
	Title             AxisTitle `json:"title"`
}

type AxisTitle struct {
	Enabled bool `json:"enabled"`
}

type YAxis struct {
	Title  Text   `json:"title"`
	Labels Labels `json:"labels"`
}

type Labels struct {
	Format string `json:"format"`
}

type Tooltip struct {
	Shared      bool   `json:"shared"`
	PointFormat string `json:"pointFormat"`
}

type PlotOptions struct {
	Area AreaOptions `json:"area"`
}

type AreaOptions struct {
	Stacking  string `json:"stacking"`
	LineColor string `json:"lineColor"`
	LineWidth int    `json:"lineWidth"`
	Marker    Marker `json:"marker"`
}

type Marker struct {
	LineWidth int    `json:"lineWidth"`
	LineColor string `json:"lineColor"`
	Symbol    string `json:"symbol"`
}

type Legend struct {
	Layout          string `json:"layout"`
	Align           string `json:"align"`
	VerticalAlign   string `json:"verticalAlign"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	Floating        bool   `json:"floating"`
	BorderWidth     int    `json:"borderWidth"`
	BackgroundColor string `json:"backgroundColor"`
	Title           Text   `json:"title"`
}

type Series struct {
	Name  string  `json:"name"`
	Data  []int64 `json:"data"`
	Color string  `json:"color"`
}

type Credits struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// JSON encodes the spec without HTML escaping so the tooltip markup stays
// readable in exports.
func (s *Spec) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
