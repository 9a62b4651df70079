package cmd

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propensity/pkg/errors"
)

func executeWithDB(t *testing.T, db *sql.DB, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&app{
		logger: zerolog.Nop(),
		openDB: func() (*sql.DB, error) { return db, nil },
	})
	b := new(bytes.Buffer)
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return b.String(), err
}

func exportRows() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"visitor_id", "day0_hits", "w2_bounces", "label"})
	for i := 0; i < 12; i++ {
		var bounces any = float64(i % 3)
		if i%2 == 0 {
			bounces = nil
		}
		rows.AddRow(fmt.Sprintf("v%d", i), float64(i), bounces, int64(i%2))
	}
	return rows
}

func TestInspectPrintsMissingTable(t *testing.T) {
	isolateConfig(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM read_csv_auto('train.csv')")).
		WillReturnRows(exportRows())

	output, err := executeWithDB(t, db, "inspect", "--log-level", "disabled", "--threshold", "40", "train.csv")
	require.NoError(t, err)

	assert.Contains(t, output, "Missing values")
	assert.Contains(t, output, "% MISSING")
	assert.Contains(t, output, "w2_bounces")
	assert.Contains(t, output, "50.00")
	assert.Contains(t, output, "1 columns are more than 40.00% missing")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectWritesGrids(t *testing.T) {
	dir := isolateConfig(t)
	hist := filepath.Join(dir, "hist.png")
	violin := filepath.Join(dir, "violin.png")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM read_parquet('val.parquet')")).
		WillReturnRows(exportRows())

	output, err := executeWithDB(t, db, "inspect", "--log-level", "disabled",
		"--hist", hist, "--violin", violin, "--columns", "2", "val.parquet")
	require.NoError(t, err)
	assert.Contains(t, output, "Histogram grid written to "+hist)
	assert.Contains(t, output, "Violin grid written to "+violin)

	for _, path := range []string{hist, violin} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("\x89PNG"), data[:4])
	}
}

func TestInspectLoadError(t *testing.T) {
	isolateConfig(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM read_csv_auto('missing.csv')")).
		WillReturnError(fmt.Errorf("IO Error: No files found"))

	_, err = executeWithDB(t, db, "inspect", "--log-level", "disabled", "missing.csv")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDatasetLoad, errors.GetErrorCode(err))
}

func TestInspectRequiresFile(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "inspect")
	assert.Error(t, err)
}
