package models

// Config is the on-disk configuration of the propensity CLI.
type Config struct {
	Warehouse Warehouse `yaml:"warehouse" mapstructure:"warehouse"`
	Sampling  Sampling  `yaml:"sampling" mapstructure:"sampling"`
	Inspect   Inspect   `yaml:"inspect" mapstructure:"inspect"`
	Logging   Logging   `yaml:"logging" mapstructure:"logging"`
}

// Warehouse describes where the generated tables live.
type Warehouse struct {
	Project       string `yaml:"project" mapstructure:"project"`               // BigQuery project id
	Dataset       string `yaml:"dataset" mapstructure:"dataset"`               // Intermediate tables
	OutputDataset string `yaml:"output_dataset" mapstructure:"output_dataset"` // Labeled dataset
	SourceTable   string `yaml:"source_table" mapstructure:"source_table"`     // Wildcard sessions table
}

// Sampling controls the non-converting side of the dataset.
type Sampling struct {
	CandidateDates     int `yaml:"candidate_dates" mapstructure:"candidate_dates"`
	NegativeSampleSize int `yaml:"negative_sample_size" mapstructure:"negative_sample_size"`
}

// Inspect configures the dataset inspection output.
type Inspect struct {
	GridColumns      int     `yaml:"grid_columns" mapstructure:"grid_columns"`
	MissingThreshold float64 `yaml:"missing_threshold" mapstructure:"missing_threshold"` // Percent above which a column is flagged
}

// Logging configures the CLI logger.
type Logging struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Pretty bool   `yaml:"pretty" mapstructure:"pretty"`
}
