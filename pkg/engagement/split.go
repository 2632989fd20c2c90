// Package engagement derives the Posted/Retweeted/Replied series from a
// single aggregate column using fixed proportional splits.
package engagement

import (
	"math"
	"time"

	"github.com/rubiojr/tweetmetrics/pkg/dataset"
)

// Metric names a derived column.
type Metric string

const (
	Posted    Metric = "Posted"
	Retweeted Metric = "Retweeted"
	Replied   Metric = "Replied"
)

// Metrics lists the derived columns in display order.
var Metrics = []Metric{Posted, Retweeted, Replied}

// Share of the aggregate assigned to each metric, in percent.
const (
	PostedPercent    = 40
	RetweetedPercent = 35
	RepliedPercent   = 25
)

// Record is one derived row.
type Record struct {
	Timestamp time.Time
	Posted    int64
	Retweeted int64
	Replied   int64
}

// Value returns the column value for m and whether m is a known metric.
func (r Record) Value(m Metric) (int64, bool) {
	switch m {
	case Posted:
		return r.Posted, true
	case Retweeted:
		return r.Retweeted, true
	case Replied:
		return r.Replied, true
	}
	return 0, false
}

// Table is the read-only derived dataset. The zero value is a valid empty
// table.
type Table struct {
	records []Record
}

// NewTable builds a table from records. The slice is copied.
func NewTable(records []Record) Table {
	rs := make([]Record, len(records))
	copy(rs, records)
	return Table{records: rs}
}

func (t Table) Len() int {
	return len(t.records)
}

func (t Table) Empty() bool {
	return len(t.records) == 0
}

// Records returns a copy of the rows in source order.
func (t Table) Records() []Record {
	rs := make([]Record, len(t.records))
	copy(rs, t.records)
	return rs
}

// Timestamps returns the timestamp column.
func (t Table) Timestamps() []time.Time {
	ts := make([]time.Time, len(t.records))
	for i, r := range t.records {
		ts[i] = r.Timestamp
	}
	return ts
}

// Column returns the values of m in row order. An unknown metric yields an
// empty, non-nil slice.
func (t Table) Column(m Metric) []int64 {
	if _, ok := (Record{}).Value(m); !ok {
		return []int64{}
	}
	col := make([]int64, len(t.records))
	for i, r := range t.records {
		col[i], _ = r.Value(m)
	}
	return col
}

// Sum totals column m.
func (t Table) Sum(m Metric) int64 {
	var sum int64
	for _, r := range t.records {
		v, _ := r.Value(m)
		sum += v
	}
	return sum
}

// SplitValue splits an aggregate count into the three metrics, truncating
// each share independently.
func SplitValue(v float64) (posted, retweeted, replied int64) {
	return share(v, PostedPercent), share(v, RetweetedPercent), share(v, RepliedPercent)
}

// share computes floor(v*pct/100). Multiplying by the integer percent first
// keeps integral inputs exact, so 100 splits into 40/35/25 with no float
// rounding below the integer.
func share(v float64, pct int64) int64 {
	return int64(math.Floor(v * float64(pct) / 100))
}

// Split derives the engagement table from a loaded source. An absent (nil)
// source yields an empty table.
func Split(src *dataset.Table) Table {
	raw := src.Records()
	records := make([]Record, len(raw))
	for i, r := range raw {
		p, rt, rp := SplitValue(r.Value)
		records[i] = Record{Timestamp: r.Timestamp, Posted: p, Retweeted: rt, Replied: rp}
	}
	return Table{records: records}
}
