package types

// PageData represents data passed to templates
type PageData struct {
	Title         string
	SidebarTitle  string
	SelectorLabel string
	Options       []PeriodOption
	ContainerID   string
	HighchartsURL string
	Datasets      []DatasetSummary
	Version       string // Application version (for footer display)
}

// PeriodOption is one radio button of the periodicity selector.
type PeriodOption struct {
	Value   string
	Label   string
	Checked bool
}

// DatasetSummary is shown under the selector so an absent source is visible
// without opening the console.
type DatasetSummary struct {
	Label     string
	Rows      int
	Available bool
}
