package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"propensity/internal/config"
	"propensity/internal/kind"
	"propensity/internal/query"
	"propensity/internal/ui"
	"propensity/pkg/errors"
)

type queriesOptions struct {
	label     string
	startDate string
	endDate   string
	stage     string
	outDir    string
}

func newQueriesCmd(a *app) *cobra.Command {
	opts := &queriesOptions{}

	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Generate the BigQuery statements for one dataset split",
		Long: `Generate the statements that build the propensity dataset, in the order the
warehouse must run them:

  transaction_dates   earliest transaction date per converting visitor
  true_transactions   per-day aggregates for converting visitors
  false_transactions  per-day aggregates for sampled non-converting visitors
  true_features       pivoted features for converting visitors
  false_features      pivoted features for non-converting visitors
  propensity_data     labeled union of both sides

Statements are printed to stdout, or written as numbered .sql files with --out.`,
		Example: `  propensity queries --kind train --start 20160801 --end 20170430 --project my-project
  propensity queries --kind validation --start 20170501 --end 20170801 --out ./sql
  propensity queries --kind test --stage true_features`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQueries(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.label, "kind", "k", "", "Dataset kind: train, test or validation")
	cmd.Flags().StringVarP(&opts.startDate, "start", "s", "", "First session table suffix (YYYYMMDD)")
	cmd.Flags().StringVarP(&opts.endDate, "end", "e", "", "Last session table suffix (YYYYMMDD)")
	cmd.Flags().StringVar(&opts.stage, "stage", "", "Render a single stage instead of the whole pipeline")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Write numbered .sql files to this directory")
	cmd.Flags().String("dataset", "", "Dataset holding intermediate tables")
	cmd.Flags().String("output-dataset", "", "Dataset holding the labeled table")
	cmd.Flags().String("source-table", "", "Wildcard GA sessions table")
	cmd.Flags().Int("candidate-dates", 0, "Reference dates sampled for non-converting visitors")
	cmd.Flags().Int("negative-sample-size", 0, "Non-converting rows kept in the labeled table")

	return cmd
}

func (a *app) runQueries(cmd *cobra.Command, opts *queriesOptions) error {
	if err := config.Validate(a.cfg); err != nil {
		return err
	}

	label := opts.label
	if label == "" {
		var err error
		if label, err = promptKind(); err != nil {
			return err
		}
	}

	k, err := kind.Resolve(label)
	if err != nil {
		return err
	}

	params := query.Params{
		StartDate: opts.startDate,
		EndDate:   opts.endDate,
		Kind:      k,
		Project:   a.cfg.Warehouse.Project,
		Options:   config.QueryOptions(a.cfg),
	}

	statements, err := a.buildStatements(params, opts.stage)
	if err != nil {
		return err
	}

	a.logger.Info().
		Str("kind", k.String()).
		Str("project", params.Project).
		Int("statements", len(statements)).
		Msg("Rendered queries")

	if opts.outDir == "" {
		return printStatements(cmd.OutOrStdout(), statements)
	}

	paths, err := query.WriteScripts(opts.outDir, statements)
	if err != nil {
		return err
	}
	for _, p := range paths {
		a.logger.Debug().Str("path", p).Msg("Wrote script")
	}
	ui.ShowSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %d scripts to %s", len(paths), opts.outDir))
	return nil
}

func (a *app) buildStatements(params query.Params, stageName string) ([]query.Statement, error) {
	usesDates := stageName == "" || stageName == query.StageTransactionDates.String() ||
		stageName == query.StageConvertedAggregates.String() ||
		stageName == query.StageNonConvertedAggregates.String()
	if usesDates && (params.StartDate == "" || params.EndDate == "") {
		a.logger.Warn().Msg("Start or end date is empty; the session scan will match no tables")
	}

	if stageName == "" {
		return query.Pipeline(params)
	}
	stage, err := query.ParseStage(stageName)
	if err != nil {
		return nil, err
	}
	stmt, err := query.Build(params, stage)
	if err != nil {
		return nil, err
	}
	return []query.Statement{stmt}, nil
}

func printStatements(w io.Writer, statements []query.Statement) error {
	for i, stmt := range statements {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "-- %02d %s: %s\n%s", i+1, stmt.Stage, stmt.Table, stmt.SQL); err != nil {
			return err
		}
	}
	return nil
}

// promptKind asks for the dataset kind when running in a terminal.
func promptKind() (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", errors.InvalidInput("kind", "", "required").
			WithSuggestions("Pass --kind train, --kind test or --kind validation")
	}

	var label string
	prompt := &survey.Select{
		Message: "Dataset kind:",
		Options: kind.Labels(),
		Default: "train",
	}
	if err := survey.AskOne(prompt, &label); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "Dataset kind prompt cancelled")
	}
	return label, nil
}
