package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/tweetmetrics/pkg/log"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestLoadCSVAnnual(t *testing.T) {
	path := writeFile(t, "annual.csv", "created_at,vegan\n2012,100\n2013,101.5\n")

	tbl, err := Load(context.Background(), Source{Path: path, Granularity: Annual, Keyword: "vegan"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	recs := tbl.Records()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if !recs[0].Timestamp.Equal(time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first timestamp = %v", recs[0].Timestamp)
	}
	if recs[1].Value != 101.5 {
		t.Errorf("second value = %v", recs[1].Value)
	}
	if tbl.Total() != 201.5 {
		t.Errorf("total = %v", tbl.Total())
	}
}

func TestLoadCSVMonthlyKeepsSourceOrder(t *testing.T) {
	path := writeFile(t, "monthly.csv", "id,created_at,vegan\n1,2021-06-15,10\n2,2021-05-01 00:00:00,20\n\n")

	tbl, err := Load(context.Background(), Source{Path: path, Granularity: Monthly, Keyword: "vegan"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	recs := tbl.Records()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Timestamp.Month() != time.June || recs[1].Timestamp.Month() != time.May {
		t.Errorf("rows reordered: %v, %v", recs[0].Timestamp, recs[1].Timestamp)
	}
}

func TestLoadSpreadsheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"created_at", "vegan"},
		{2012, 100},
		{2013, 250},
	})

	tbl, err := Load(context.Background(), Source{Path: path, Granularity: Annual, Keyword: "vegan"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	recs := tbl.Records()
	if len(recs) != 2 || recs[0].Timestamp.Year() != 2012 || recs[1].Value != 250 {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestLoadSpreadsheetSerialDates(t *testing.T) {
	// 44362 is 2021-06-15 in the 1900 date system.
	path := writeWorkbook(t, [][]any{
		{"created_at", "vegan"},
		{44362, 42},
	})

	tbl, err := Load(context.Background(), Source{Path: path, Granularity: Monthly, Keyword: "vegan"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := tbl.Records()[0].Timestamp.Format("2006-01-02")
	if got != "2021-06-15" {
		t.Fatalf("timestamp = %s, want 2021-06-15", got)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), Source{Path: filepath.Join(t.TempDir(), "nope.xlsx"), Keyword: "vegan"})
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("err = %v, want ErrSourceMissing", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		g       Granularity
	}{
		{"missing keyword column", "a.csv", "created_at,other\n2012,1\n", Annual},
		{"missing created_at", "a.csv", "date,vegan\n2012,1\n", Annual},
		{"bad year", "a.csv", "created_at,vegan\n2012-01-01,1\n", Annual},
		{"bad date", "m.csv", "created_at,vegan\nlast june,1\n", Monthly},
		{"negative value", "a.csv", "created_at,vegan\n2012,-4\n", Annual},
		{"text value", "a.csv", "created_at,vegan\n2012,many\n", Annual},
		{"empty file", "a.csv", "", Annual},
		{"unsupported extension", "a.json", "{}", Annual},
		{"not a workbook", "a.xlsx", "plain text", Annual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(context.Background(), Source{Path: path, Granularity: tt.g, Keyword: "vegan"})
			if !errors.Is(err, ErrSourceMalformed) {
				t.Fatalf("err = %v, want ErrSourceMalformed", err)
			}
		})
	}
}

func TestLoadOrAbsentLogsDistinctDiagnostics(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	missing := filepath.Join(t.TempDir(), "missing.xlsx")
	if tbl := LoadOrAbsent(context.Background(), Source{Path: missing, Keyword: "vegan"}); tbl != nil {
		t.Fatal("expected absent table for missing source")
	}
	if !strings.Contains(buf.String(), "not found") {
		t.Errorf("missing diagnostic not logged: %q", buf.String())
	}

	buf.Reset()
	bad := writeFile(t, "bad.csv", "created_at\n2012\n")
	if tbl := LoadOrAbsent(context.Background(), Source{Path: bad, Keyword: "vegan"}); tbl != nil {
		t.Fatal("expected absent table for malformed source")
	}
	if !strings.Contains(buf.String(), "failed to read source file") {
		t.Errorf("malformed diagnostic not logged: %q", buf.String())
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	annual := NewTable(Annual, "vegan", "a.csv", []Record{
		{Timestamp: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100},
		{Timestamp: time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC), Value: 101},
	})
	monthly := NewTable(Monthly, "vegan", "m.csv", []Record{
		{Timestamp: time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), Value: 7},
	})

	path := filepath.Join(t.TempDir(), "snapshot.db")
	ctx := context.Background()
	if err := WriteSnapshot(ctx, path, annual, nil, monthly); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	// Writing twice replaces the previous contents.
	if err := WriteSnapshot(ctx, path, annual, monthly); err != nil {
		t.Fatalf("WriteSnapshot (again): %v", err)
	}

	gotAnnual, err := Load(ctx, Source{Path: path, Granularity: Annual, Keyword: "vegan"})
	if err != nil {
		t.Fatalf("Load annual: %v", err)
	}
	if gotAnnual.Len() != 2 || gotAnnual.Records()[1].Value != 101 || gotAnnual.Records()[0].Timestamp.Year() != 2012 {
		t.Fatalf("annual round trip mismatch: %+v", gotAnnual.Records())
	}

	gotMonthly, err := Load(ctx, Source{Path: path, Granularity: Monthly, Keyword: "vegan"})
	if err != nil {
		t.Fatalf("Load monthly: %v", err)
	}
	if gotMonthly.Len() != 1 || gotMonthly.Records()[0].Timestamp.Format("2006-01") != "2021-06" {
		t.Fatalf("monthly round trip mismatch: %+v", gotMonthly.Records())
	}

	if _, err := Load(ctx, Source{Path: path, Granularity: Monthly, Keyword: "vegan", Table: "nope"}); !errors.Is(err, ErrSourceMalformed) {
		t.Fatalf("unknown table err = %v, want ErrSourceMalformed", err)
	}
}

func TestSnapshotRewriteDropsAbsentTable(t *testing.T) {
	annual := NewTable(Annual, "vegan", "a.csv", []Record{
		{Timestamp: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100},
	})
	monthly := NewTable(Monthly, "vegan", "m.csv", []Record{
		{Timestamp: time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), Value: 7},
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.db")
	ctx := context.Background()
	if err := WriteSnapshot(ctx, path, annual, monthly); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if err := WriteSnapshot(ctx, path, annual, nil); err != nil {
		t.Fatalf("WriteSnapshot without monthly: %v", err)
	}

	src := Source{Path: path, Granularity: Monthly, Keyword: "vegan"}
	if _, err := Load(ctx, src); !errors.Is(err, ErrSourceMalformed) {
		t.Fatalf("monthly err = %v, want ErrSourceMalformed", err)
	}
	if got := LoadOrAbsent(ctx, src); got != nil {
		t.Fatalf("monthly table survived the rewrite: %d rows", got.Len())
	}
	if got, err := Load(ctx, Source{Path: path, Granularity: Annual, Keyword: "vegan"}); err != nil || got.Len() != 1 {
		t.Fatalf("annual after rewrite: %v, %v", got, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]Granularity{"Anual": Annual, "mensal": Monthly, "annual": Annual, " Monthly ": Monthly} {
		got, err := ParseGranularity(in)
		if err != nil || got != want {
			t.Errorf("ParseGranularity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseGranularity("Semanal"); err == nil {
		t.Error("expected error for unknown periodicity")
	}
	if Annual.String() != "Anual" || Monthly.String() != "Mensal" {
		t.Error("unexpected labels")
	}
}

func TestNilTableIsEmpty(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 || len(tbl.Records()) != 0 || tbl.Total() != 0 {
		t.Fatal("nil table should behave as empty")
	}
}
