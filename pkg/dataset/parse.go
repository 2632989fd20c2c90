package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const timestampColumn = "created_at"

var monthlyLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006-01",
}

// parseTimestamp converts a raw created_at cell. Annual sources hold a bare
// year. Monthly sources hold a date; serialDates allows spreadsheet serial
// numbers as well.
func parseTimestamp(raw string, g Granularity, serialDates bool) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty %s", timestampColumn)
	}

	if g == Annual {
		year, err := parseYear(s)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}

	for _, layout := range monthlyLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}

	if serialDates {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			ts, err := excelize.ExcelDateToTime(f, false)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid serial date %q: %w", s, err)
			}
			return ts.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parseYear accepts "2012" and integral numeric forms such as "2012.0".
func parseYear(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 1 || f > 9999 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(f), nil
}

func parseValue(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", raw)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value out of range %q", raw)
	}
	return v, nil
}

// columnIndexes locates created_at and the keyword column in a header row.
func columnIndexes(header []string, keyword string) (tsIdx, valIdx int, err error) {
	tsIdx, valIdx = -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case timestampColumn:
			tsIdx = i
		case keyword:
			valIdx = i
		}
	}
	if tsIdx < 0 {
		return 0, 0, fmt.Errorf("column %q not found", timestampColumn)
	}
	if valIdx < 0 {
		return 0, 0, fmt.Errorf("column %q not found", keyword)
	}
	return tsIdx, valIdx, nil
}

// parseRows turns header-led string rows into records. Rows that are entirely
// blank are skipped; spreadsheets often carry trailing empty rows.
func parseRows(rows [][]string, g Granularity, keyword string, serialDates bool) ([]Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	tsIdx, valIdx, err := columnIndexes(rows[0], keyword)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		line := i + 2
		ts, err := parseTimestamp(cell(row, tsIdx), g, serialDates)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		v, err := parseValue(cell(row, valIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, Record{Timestamp: ts, Value: v})
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
