package query

import (
	"fmt"
	"strings"

	"propensity/pkg/errors"
)

// Stage names one statement of the pipeline; its string form is the table
// suffix the statement creates.
type Stage int

const (
	StageTransactionDates Stage = iota
	StageConvertedAggregates
	StageNonConvertedAggregates
	StageConvertedPivot
	StageNonConvertedPivot
	StageLabeledDataset
)

var stageNames = []string{
	"transaction_dates",
	"true_transactions",
	"false_transactions",
	"true_features",
	"false_features",
	"propensity_data",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Stages returns every stage in dependency order.
func Stages() []Stage {
	out := make([]Stage, len(stageNames))
	for i := range stageNames {
		out[i] = Stage(i)
	}
	return out
}

// ParseStage accepts a stage name as printed by String.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidStage, fmt.Sprintf("unknown stage %q", name)).
		WithSuggestions("Use one of: " + strings.Join(stageNames, ", "))
}

// Variant selects the converting or non-converting side of a stage pair.
type Variant int

const (
	Converted Variant = iota
	NonConverted
)

func (v Variant) String() string {
	if v == Converted {
		return "converted"
	}
	return "non_converted"
}

func (v Variant) aggregateStage() Stage {
	if v == Converted {
		return StageConvertedAggregates
	}
	return StageNonConvertedAggregates
}

func (v Variant) pivotStage() Stage {
	if v == Converted {
		return StageConvertedPivot
	}
	return StageNonConvertedPivot
}
