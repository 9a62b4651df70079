package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rs/zerolog"

	"propensity/pkg/errors"
)

// Querier is the subset of *sql.DB the loader needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// OpenDuckDB opens an in-memory DuckDB engine used to read exported tables.
func OpenDuckDB() (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoad, "Failed to open DuckDB")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoad, "Failed to ping DuckDB")
	}
	return db, nil
}

// ScanQuery returns the statement that reads path, chosen by file extension.
func ScanQuery(path string) string {
	literal := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return fmt.Sprintf("SELECT * FROM read_parquet(%s)", literal)
	default:
		return fmt.Sprintf("SELECT * FROM read_csv_auto(%s)", literal)
	}
}

// Load reads a CSV or Parquet export into a Dataset.
func Load(ctx context.Context, q Querier, path string, logger zerolog.Logger) (*Dataset, error) {
	query := ScanQuery(path)
	logger.Debug().Str("path", path).Str("query", query).Msg("Loading dataset")

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoad, "Failed to read dataset").
			WithContext("path", path).
			WithSuggestions("Check that the file exists and is a CSV or Parquet export")
	}
	defer rows.Close()

	ds, err := scanDataset(rows)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoad, "Failed to scan dataset").
			WithContext("path", path)
	}

	logger.Info().
		Str("path", path).
		Int("columns", len(ds.Columns)).
		Int("rows", len(ds.Rows)).
		Msg("Dataset loaded")
	return ds, nil
}

func scanDataset(rows *sql.Rows) (*Dataset, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		ds.Rows = append(ds.Rows, values)
	}
	return ds, rows.Err()
}
