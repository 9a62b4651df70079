package cmd

import (
	"database/sql"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"propensity/internal/config"
	"propensity/internal/inspect"
	"propensity/internal/logging"
	"propensity/internal/ui"
	"propensity/pkg/models"
)

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	v      *viper.Viper
	cfg    *models.Config
	logger zerolog.Logger
	openDB func() (*sql.DB, error)
}

// flagKeys binds CLI flags onto config keys.
var flagKeys = map[string]string{
	"project":              "warehouse.project",
	"dataset":              "warehouse.dataset",
	"output-dataset":       "warehouse.output_dataset",
	"source-table":         "warehouse.source_table",
	"candidate-dates":      "sampling.candidate_dates",
	"negative-sample-size": "sampling.negative_sample_size",
	"columns":              "inspect.grid_columns",
	"threshold":            "inspect.missing_threshold",
	"log-level":            "logging.level",
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		logger: zerolog.Nop(),
		openDB: inspect.OpenDuckDB,
	})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "propensity",
		Short: "Build and inspect propensity-to-purchase datasets",
		Long: `propensity generates the BigQuery statements that turn Google Analytics sessions
into a labeled propensity-to-purchase dataset, and summarizes exported tables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().String("project", "", "BigQuery project id (overrides warehouse.project)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newQueriesCmd(a),
		newInspectCmd(a),
		newSetupCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper()
	if err != nil {
		return err
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	a.v = v
	a.cfg = cfg
	a.logger = logging.NewWithComponent(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
		Output: cmd.ErrOrStderr(),
	}, cmd.Name())
	a.logger.Debug().Str("config", config.GetConfigFile()).Msg("Configuration loaded")
	return nil
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		ui.ShowError(os.Stderr, err)
		os.Exit(1)
	}
}
