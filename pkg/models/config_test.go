package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigYAMLKeys(t *testing.T) {
	raw := `
warehouse:
  project: capstone-project-320304
  dataset: transactions
  output_dataset: propensity
  source_table: bigquery-public-data.google_analytics_sample.ga_sessions_*
sampling:
  candidate_dates: 5
  negative_sample_size: 19000
inspect:
  grid_columns: 6
  missing_threshold: 40
logging:
  level: debug
  pretty: true
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	assert.Equal(t, "capstone-project-320304", cfg.Warehouse.Project)
	assert.Equal(t, "propensity", cfg.Warehouse.OutputDataset)
	assert.Equal(t, "bigquery-public-data.google_analytics_sample.ga_sessions_*", cfg.Warehouse.SourceTable)
	assert.Equal(t, 5, cfg.Sampling.CandidateDates)
	assert.Equal(t, 19000, cfg.Sampling.NegativeSampleSize)
	assert.Equal(t, 6, cfg.Inspect.GridColumns)
	assert.Equal(t, 40.0, cfg.Inspect.MissingThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
}

func TestConfigPartialYAML(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte("warehouse:\n  project: p1\n"), &cfg))

	assert.Equal(t, "p1", cfg.Warehouse.Project)
	assert.Empty(t, cfg.Warehouse.Dataset)
	assert.Zero(t, cfg.Sampling.NegativeSampleSize)
}
