package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rubiojr/tweetmetrics/pkg/log"
)

var (
	// ErrSourceMissing is returned when the source file does not exist.
	ErrSourceMissing = errors.New("source missing")
	// ErrSourceMalformed is returned when the source exists but cannot be
	// read as a created_at/keyword table.
	ErrSourceMalformed = errors.New("source malformed")
)

// Source describes one input dataset.
type Source struct {
	Path        string
	Granularity Granularity
	Keyword     string
	// Sheet selects a spreadsheet sheet; empty means the first one.
	Sheet string
	// Table selects the snapshot table; empty means Granularity.Slug().
	Table string
}

type reader func(ctx context.Context, src Source) ([]Record, error)

var readers = map[string]reader{
	".xlsx":    readSpreadsheet,
	".xlsm":    readSpreadsheet,
	".csv":     readCSV,
	".db":      readSnapshot,
	".sqlite":  readSnapshot,
	".sqlite3": readSnapshot,
}

// Load reads src. Failures wrap ErrSourceMissing or ErrSourceMalformed.
func Load(ctx context.Context, src Source) (*Table, error) {
	if src.Keyword == "" {
		return nil, fmt.Errorf("%w: no keyword column configured", ErrSourceMalformed)
	}

	if _, err := os.Stat(src.Path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, src.Path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceMalformed, src.Path, err)
	}

	ext := strings.ToLower(filepath.Ext(src.Path))
	read, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s: unsupported format %q", ErrSourceMalformed, src.Path, ext)
	}

	records, err := read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceMalformed, src.Path, err)
	}

	return &Table{
		Granularity: src.Granularity,
		Keyword:     src.Keyword,
		Source:      src.Path,
		records:     records,
	}, nil
}

// LoadOrAbsent is Load for startup use: failures are logged and yield nil so
// the caller can keep serving the other dataset.
func LoadOrAbsent(ctx context.Context, src Source) *Table {
	l := log.ForService("dataset")

	t, err := Load(ctx, src)
	switch {
	case err == nil:
		l.Infof("loaded %d %s rows from %s", t.Len(), src.Granularity.Slug(), src.Path)
		return t
	case errors.Is(err, ErrSourceMissing):
		l.Errorf("source file %s not found, %s data unavailable", src.Path, src.Granularity.Slug())
	default:
		l.Errorf("failed to read source file %s: %v", src.Path, err)
	}
	return nil
}
