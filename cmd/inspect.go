package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"propensity/internal/common"
	"propensity/internal/inspect"
	"propensity/internal/ui"
	"propensity/pkg/errors"
)

type inspectOptions struct {
	histPath   string
	violinPath string
	title      string
}

func newInspectCmd(a *app) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize an exported propensity table",
		Long: `Load a CSV or Parquet export of a propensity table, print the percentage of
missing values per column and optionally render histogram and violin grids of
every feature column split by label.

The first column must be the visitor id and the last column the label.`,
		Example: `  propensity inspect train.csv
  propensity inspect val.parquet --hist val_hist.png --violin val_violin.png --title "Validation"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.histPath, "hist", "", "Write a histogram grid PNG to this path")
	cmd.Flags().StringVar(&opts.violinPath, "violin", "", "Write a violin grid PNG to this path")
	cmd.Flags().StringVar(&opts.title, "title", "", "Title drawn above the grids (defaults to the file name)")
	cmd.Flags().Int("columns", 0, "Subplots per grid row")
	cmd.Flags().Float64("threshold", 0, "Highlight columns missing more than this percentage")

	return cmd
}

func (a *app) runInspect(cmd *cobra.Command, path string, opts *inspectOptions) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := inspect.Load(cmd.Context(), db, path, a.logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	threshold := a.cfg.Inspect.MissingThreshold
	stats := inspect.MissingPercentages(ds)

	ui.ShowHeader(out, "Missing values")
	inspect.WriteMissingTable(out, stats, threshold, ui.SupportsColor())

	flagged := 0
	for _, s := range stats {
		if s.Percent > threshold {
			flagged++
		}
	}
	if flagged > 0 {
		ui.ShowWarning(out, fmt.Sprintf("%d columns are more than %.2f%% missing", flagged, threshold))
	}

	title := opts.title
	if title == "" {
		title = filepath.Base(path)
	}
	grid := inspect.GridOptions{Columns: a.cfg.Inspect.GridColumns}

	grids := []struct {
		name   string
		path   string
		render func(io.Writer, *inspect.Dataset, string, inspect.GridOptions) error
	}{
		{"Histogram", opts.histPath, inspect.RenderHistogramGrid},
		{"Violin", opts.violinPath, inspect.RenderViolinGrid},
	}
	for _, g := range grids {
		if g.path == "" {
			continue
		}
		spinner := ui.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Rendering %s grid", strings.ToLower(g.name)))
		spinner.Start()
		err := writePNG(g.path, func(w io.Writer) error {
			return g.render(w, ds, title, grid)
		})
		spinner.Stop(err == nil, fmt.Sprintf("%s grid rendered", g.name))
		if err != nil {
			return err
		}
		ui.ShowSuccess(out, fmt.Sprintf("%s grid written to %s", g.name, g.path))
	}
	return nil
}

func writePNG(path string, render func(io.Writer) error) error {
	cleaned, err := common.CleanPath(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Invalid output path").
			WithContext("path", path)
	}

	f, err := os.OpenFile(cleaned, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, common.FilePermissionNormal) // #nosec G304 - path is validated
	if err != nil {
		return errors.FileError("Failed to create image file", cleaned, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(cleaned)
		return err
	}
	if err := f.Close(); err != nil {
		return errors.FileError("Failed to close image file", cleaned, err)
	}
	return nil
}
