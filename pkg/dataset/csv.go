package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

func readCSV(_ context.Context, src Source) ([]Record, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	return parseRows(rows, src.Granularity, src.Keyword, false)
}
