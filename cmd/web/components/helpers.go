package components

import (
	"strconv"

	"github.com/rubiojr/tweetmetrics/cmd/web/components/types"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
)

// PeriodOptions builds the selector radio options with selected checked.
func PeriodOptions(selected dataset.Granularity) []types.PeriodOption {
	opts := make([]types.PeriodOption, 0, len(dataset.Granularities))
	for _, g := range dataset.Granularities {
		opts = append(opts, types.PeriodOption{
			Value:   g.String(),
			Label:   g.String(),
			Checked: g == selected,
		})
	}
	return opts
}

// rowsLabel renders the row count shown next to a dataset.
func rowsLabel(ds types.DatasetSummary) string {
	if !ds.Available {
		return "indisponível"
	}
	if ds.Rows == 1 {
		return "1 linha"
	}
	return strconv.Itoa(ds.Rows) + " linhas"
}
