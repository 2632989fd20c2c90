// Package dataset loads the aggregate time series that feed the engagement
// chart. Each source holds a created_at column and one numeric column named
// after a topic keyword.
package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the time bucketing of a dataset.
type Granularity int

const (
	Annual Granularity = iota
	Monthly
)

// Granularities lists every granularity in selector order.
var Granularities = []Granularity{Annual, Monthly}

// String returns the selector label.
func (g Granularity) String() string {
	switch g {
	case Annual:
		return "Anual"
	case Monthly:
		return "Mensal"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// Slug is the lowercase identifier used for snapshot tables and metric labels.
func (g Granularity) Slug() string {
	switch g {
	case Annual:
		return "annual"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// ParseGranularity accepts the selector labels ("Anual", "Mensal") and the
// slugs ("annual", "monthly"), case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anual", "annual":
		return Annual, nil
	case "mensal", "monthly":
		return Monthly, nil
	}
	return Annual, fmt.Errorf("unknown periodicity %q", s)
}

// Record is one row of a source: a time bucket and its aggregate count.
type Record struct {
	Timestamp time.Time
	Value     float64
}

// Table is a loaded source. A nil *Table means the source is absent.
type Table struct {
	Granularity Granularity
	Keyword     string
	Source      string
	records     []Record
}

// NewTable builds a table from records. The slice is copied.
func NewTable(g Granularity, keyword, source string, records []Record) *Table {
	rs := make([]Record, len(records))
	copy(rs, records)
	return &Table{Granularity: g, Keyword: keyword, Source: source, records: rs}
}

// Len returns the number of rows. Safe on a nil table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the rows in source order.
func (t *Table) Records() []Record {
	if t == nil {
		return []Record{}
	}
	rs := make([]Record, len(t.records))
	copy(rs, t.records)
	return rs
}

// Total sums the aggregate column.
func (t *Table) Total() float64 {
	var sum float64
	if t == nil {
		return sum
	}
	for _, r := range t.records {
		sum += r.Value
	}
	return sum
}
