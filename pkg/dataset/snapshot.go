package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func snapshotTable(src Source) string {
	if src.Table != "" {
		return src.Table
	}
	return src.Granularity.Slug()
}

func readSnapshot(ctx context.Context, src Source) ([]Record, error) {
	db, err := sql.Open("sqlite3", "file:"+src.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY rowid",
		quoteIdent(timestampColumn), quoteIdent(src.Keyword), quoteIdent(snapshotTable(src)))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rawTS any
		var value sql.NullFloat64
		if err := rows.Scan(&rawTS, &value); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if !value.Valid || value.Float64 < 0 {
			return nil, fmt.Errorf("row %d: invalid %s value", len(records)+1, src.Keyword)
		}
		ts, err := parseTimestamp(sqlText(rawTS), src.Granularity, false)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}
		records = append(records, Record{Timestamp: ts, Value: value.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return records, nil
}

func sqlText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// snapshotTimestamp is the stored created_at text; it parses back with the
// same granularity rules used for spreadsheets.
func snapshotTimestamp(ts time.Time, g Granularity) string {
	if g == Annual {
		return strconv.Itoa(ts.Year())
	}
	return ts.UTC().Format("2006-01-02")
}

// WriteSnapshot stores tables in a SQLite database at path, one table per
// granularity. The database is built next to path and renamed into place, so
// it holds exactly the given tables afterwards; nil tables leave no table
// behind.
func WriteSnapshot(ctx context.Context, path string, tables ...*Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("creating snapshot file: %w", err)
	}

	if err := writeSnapshotFile(ctx, tmpPath, tables); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

func writeSnapshotFile(ctx context.Context, path string, tables []*Table) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tables {
		if t == nil {
			continue
		}
		name := quoteIdent(t.Granularity.Slug())
		create := fmt.Sprintf("CREATE TABLE %s (%s TEXT NOT NULL, %s REAL NOT NULL)",
			name, quoteIdent(timestampColumn), quoteIdent(t.Keyword))
		if _, err := tx.ExecContext(ctx, create); err != nil {
			return fmt.Errorf("creating table %s: %w", name, err)
		}

		insert := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?)",
			name, quoteIdent(timestampColumn), quoteIdent(t.Keyword))
		for _, r := range t.records {
			if _, err := tx.ExecContext(ctx, insert, snapshotTimestamp(r.Timestamp, t.Granularity), r.Value); err != nil {
				return fmt.Errorf("inserting into %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}
