package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"propensity/internal/common"
	"propensity/internal/query"
	"propensity/pkg/errors"
	"propensity/pkg/models"
)

// EnvPrefix prefixes every environment override, e.g. PROPENSITY_WAREHOUSE_PROJECT.
const EnvPrefix = "PROPENSITY"

func GetConfigPath() string {
	if configPath := os.Getenv(EnvPrefix + "_CONFIG"); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".propensity")
}

func GetConfigFile() string {
	if configFile := os.Getenv(EnvPrefix + "_CONFIG"); configFile != "" {
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

// Defaults returns the configuration used when no file or flag sets a value.
func Defaults() *models.Config {
	opts := query.DefaultOptions()
	return &models.Config{
		Warehouse: models.Warehouse{
			Dataset:       opts.Dataset,
			OutputDataset: opts.OutputDataset,
			SourceTable:   opts.SourceTable,
		},
		Sampling: models.Sampling{
			CandidateDates:     opts.CandidateDates,
			NegativeSampleSize: opts.NegativeSampleSize,
		},
		Inspect: models.Inspect{
			GridColumns:      6,
			MissingThreshold: 50,
		},
		Logging: models.Logging{
			Level:  "info",
			Pretty: true,
		},
	}
}

// SetDefaults registers Defaults on v so flags, env and file layer on top.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("warehouse.dataset", d.Warehouse.Dataset)
	v.SetDefault("warehouse.output_dataset", d.Warehouse.OutputDataset)
	v.SetDefault("warehouse.source_table", d.Warehouse.SourceTable)
	v.SetDefault("warehouse.project", d.Warehouse.Project)
	v.SetDefault("sampling.candidate_dates", d.Sampling.CandidateDates)
	v.SetDefault("sampling.negative_sample_size", d.Sampling.NegativeSampleSize)
	v.SetDefault("inspect.grid_columns", d.Inspect.GridColumns)
	v.SetDefault("inspect.missing_threshold", d.Inspect.MissingThreshold)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.pretty", d.Logging.Pretty)
}

// NewViper returns a viper instance reading the config file and
// PROPENSITY_* environment variables over the defaults.
func NewViper() (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(GetConfigFile())
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && Exists() {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to read config file").
			WithContext("path", GetConfigFile())
	}
	return v, nil
}

// FromViper decodes the effective configuration.
func FromViper(v *viper.Viper) (*models.Config, error) {
	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to decode configuration")
	}
	return &cfg, nil
}

// QueryOptions maps the warehouse and sampling settings onto builder options.
func QueryOptions(cfg *models.Config) query.Options {
	return query.Options{
		Dataset:            cfg.Warehouse.Dataset,
		OutputDataset:      cfg.Warehouse.OutputDataset,
		SourceTable:        cfg.Warehouse.SourceTable,
		CandidateDates:     cfg.Sampling.CandidateDates,
		NegativeSampleSize: cfg.Sampling.NegativeSampleSize,
	}
}

// Validate checks the values the query builders cannot default.
func Validate(cfg *models.Config) error {
	if strings.TrimSpace(cfg.Warehouse.Project) == "" {
		return errors.ConfigError("warehouse project is required", "warehouse.project")
	}
	if cfg.Sampling.CandidateDates < 0 {
		return errors.ConfigError("candidate_dates must not be negative", "sampling.candidate_dates")
	}
	if cfg.Sampling.NegativeSampleSize < 0 {
		return errors.ConfigError("negative_sample_size must not be negative", "sampling.negative_sample_size")
	}
	return nil
}

func Load() (*models.Config, error) {
	configFile := GetConfigFile()

	cleanedPath, err := common.CleanPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
		return Defaults(), nil
	}

	data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Defaults()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}

func Save(config *models.Config) error {
	configFile := GetConfigFile()
	if err := os.MkdirAll(filepath.Dir(configFile), common.DirPermissionSecure); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, common.FilePermissionSecure); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}
