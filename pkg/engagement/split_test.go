package engagement

import (
	"testing"
	"time"

	"github.com/rubiojr/tweetmetrics/pkg/dataset"
)

func year(y int) time.Time {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestSplitValueExamples(t *testing.T) {
	tests := []struct {
		in   float64
		want [3]int64
	}{
		{100, [3]int64{40, 35, 25}},
		{101, [3]int64{40, 35, 25}},
		{0, [3]int64{0, 0, 0}},
		{1, [3]int64{0, 0, 0}},
		{3, [3]int64{1, 1, 0}},
		{20, [3]int64{8, 7, 5}},
		{1_000_000, [3]int64{400_000, 350_000, 250_000}},
	}
	for _, tt := range tests {
		p, rt, rp := SplitValue(tt.in)
		if got := [3]int64{p, rt, rp}; got != tt.want {
			t.Errorf("SplitValue(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Shares are exact percentages of the value. 180*0.35 in binary floating
// point is 62.999..., which would truncate to 62.
func TestSplitValueUsesExactPercentages(t *testing.T) {
	p, rt, rp := SplitValue(180)
	if p != 72 || rt != 63 || rp != 45 {
		t.Fatalf("SplitValue(180) = %d, %d, %d, want 72, 63, 45", p, rt, rp)
	}
}

func TestSplitTruncationBound(t *testing.T) {
	for v := 0; v <= 20_000; v++ {
		p, rt, rp := SplitValue(float64(v))
		sum := p + rt + rp
		if sum > int64(v) || sum < int64(v)-2 {
			t.Fatalf("value %d: sum %d outside [%d, %d]", v, sum, v-2, v)
		}
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	src := dataset.NewTable(dataset.Annual, "vegan", "test", []dataset.Record{
		{Timestamp: year(2013), Value: 200},
		{Timestamp: year(2012), Value: 100},
	})

	tbl := Split(src)
	if tbl.Len() != 2 {
		t.Fatalf("len = %d, want 2", tbl.Len())
	}
	recs := tbl.Records()
	if recs[0].Timestamp.Year() != 2013 || recs[1].Timestamp.Year() != 2012 {
		t.Fatalf("order changed: %v", tbl.Timestamps())
	}
	if recs[0].Posted != 80 || recs[0].Retweeted != 70 || recs[0].Replied != 50 {
		t.Fatalf("unexpected split: %+v", recs[0])
	}
}

func TestSplitAbsentSource(t *testing.T) {
	tbl := Split(nil)
	if !tbl.Empty() || tbl.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", tbl.Len())
	}
	for _, m := range Metrics {
		col := tbl.Column(m)
		if col == nil || len(col) != 0 {
			t.Errorf("column %s = %v, want empty non-nil slice", m, col)
		}
	}
}

func TestColumns(t *testing.T) {
	tbl := NewTable([]Record{
		{Timestamp: year(2012), Posted: 1, Retweeted: 2, Replied: 3},
		{Timestamp: year(2013), Posted: 4, Retweeted: 5, Replied: 6},
	})

	want := map[Metric][]int64{Posted: {1, 4}, Retweeted: {2, 5}, Replied: {3, 6}}
	for m, w := range want {
		got := tbl.Column(m)
		if len(got) != len(w) || got[0] != w[0] || got[1] != w[1] {
			t.Errorf("column %s = %v, want %v", m, got, w)
		}
	}
	if got := tbl.Column("Quoted"); got == nil || len(got) != 0 {
		t.Errorf("unknown column = %v, want empty", got)
	}
	if tbl.Sum(Replied) != 9 {
		t.Errorf("sum replied = %d", tbl.Sum(Replied))
	}
}

func TestAccessorsDoNotExposeStorage(t *testing.T) {
	tbl := NewTable([]Record{{Timestamp: year(2012), Posted: 10}})

	recs := tbl.Records()
	recs[0].Posted = 999
	col := tbl.Column(Posted)
	col[0] = 999

	if tbl.Records()[0].Posted != 10 {
		t.Fatal("table mutated through accessor")
	}
}
