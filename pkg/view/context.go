// Package view holds the per-session periodicity selector and delivers chart
// configurations to a rendering surface.
package view

import (
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/engagement"
)

// DataContext is the process-wide, read-only pair of derived tables. Build
// it once at startup and share it between views.
type DataContext struct {
	annual  engagement.Table
	monthly engagement.Table
}

// NewDataContext wraps already derived tables.
func NewDataContext(annual, monthly engagement.Table) *DataContext {
	return &DataContext{annual: annual, monthly: monthly}
}

// FromSources splits both loaded sources. Either may be nil (absent).
func FromSources(annual, monthly *dataset.Table) *DataContext {
	return NewDataContext(engagement.Split(annual), engagement.Split(monthly))
}

// Table returns the derived table for g.
func (d *DataContext) Table(g dataset.Granularity) engagement.Table {
	if g == dataset.Monthly {
		return d.monthly
	}
	return d.annual
}
