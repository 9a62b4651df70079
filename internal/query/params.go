// Package query builds the BigQuery statements that materialize the
// propensity dataset. Every builder is pure: it renders text and never talks
// to a warehouse.
package query

import (
	"fmt"
	"strings"

	"propensity/internal/kind"
	"propensity/pkg/errors"
)

const (
	// WindowDays bounds day_diff to [0, WindowDays).
	WindowDays = 13

	DefaultDataset            = "transactions"
	DefaultOutputDataset      = "propensity"
	DefaultSourceTable        = "bigquery-public-data.google_analytics_sample.ga_sessions_*"
	DefaultCandidateDates     = 5
	DefaultNegativeSampleSize = 19000
)

// Options carries the warehouse layout and sampling sizes. Zero fields fall
// back to the package defaults.
type Options struct {
	Dataset            string
	OutputDataset      string
	SourceTable        string
	CandidateDates     int
	NegativeSampleSize int
}

// DefaultOptions returns the layout used by the public GA sample.
func DefaultOptions() Options {
	return Options{
		Dataset:            DefaultDataset,
		OutputDataset:      DefaultOutputDataset,
		SourceTable:        DefaultSourceTable,
		CandidateDates:     DefaultCandidateDates,
		NegativeSampleSize: DefaultNegativeSampleSize,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Dataset == "" {
		o.Dataset = d.Dataset
	}
	if o.OutputDataset == "" {
		o.OutputDataset = d.OutputDataset
	}
	if o.SourceTable == "" {
		o.SourceTable = d.SourceTable
	}
	if o.CandidateDates <= 0 {
		o.CandidateDates = d.CandidateDates
	}
	if o.NegativeSampleSize <= 0 {
		o.NegativeSampleSize = d.NegativeSampleSize
	}
	return o
}

// Params are the inputs shared by every builder. Dates are GA table suffixes
// (YYYYMMDD) and are passed through unchecked.
type Params struct {
	StartDate string
	EndDate   string
	Kind      kind.Kind
	Project   string
	Options   Options
}

// NewParams resolves label and returns Params with default options.
func NewParams(startDate, endDate, label, project string) (Params, error) {
	k, err := kind.Resolve(label)
	if err != nil {
		return Params{}, err
	}
	return Params{
		StartDate: startDate,
		EndDate:   endDate,
		Kind:      k,
		Project:   project,
		Options:   DefaultOptions(),
	}, nil
}

func (p Params) normalized() (Params, error) {
	if !p.Kind.Valid() {
		return p, errors.New(errors.ErrCodeInvalidKind, "dataset kind is not set").
			WithSuggestions("Build Params with NewParams or kind.Resolve")
	}
	if strings.TrimSpace(p.Project) == "" {
		return p, errors.InvalidInput("project", p.Project, "must not be empty")
	}
	p.Options = p.Options.withDefaults()
	return p, nil
}

// Table returns the fully qualified name of the table a stage writes.
func (p Params) Table(stage Stage) string {
	opts := p.Options.withDefaults()
	dataset := opts.Dataset
	if stage == StageLabeledDataset {
		dataset = opts.OutputDataset
	}
	return fmt.Sprintf("%s.%s.%s_%s", p.Project, dataset, p.Kind, stage)
}
