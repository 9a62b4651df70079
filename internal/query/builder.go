package query

import "fmt"

// dayDiffExpr is the offset between the reference date and the session date.
const dayDiffExpr = "DATE_DIFF(ref.transaction_date, PARSE_DATE('%Y%m%d', ga.date), DAY)"

// Statement is one rendered pipeline step.
type Statement struct {
	Stage Stage
	Table string
	SQL   string
}

// TransactionDates creates the per-visitor earliest transaction date table.
func TransactionDates(p Params) (string, error) {
	p, err := p.normalized()
	if err != nil {
		return "", err
	}
	return render(transactionDatesTmpl, map[string]any{
		"Target": p.Table(StageTransactionDates),
		"Source": p.Options.SourceTable,
		"Start":  p.StartDate,
		"End":    p.EndDate,
	})
}

// DailyAggregates creates the per-visitor, per-day_diff aggregates for one
// side of the label. The non-converting side measures against a small pool of
// candidate dates and drops every visitor present in the transaction dates.
func DailyAggregates(p Params, v Variant) (string, error) {
	p, err := p.normalized()
	if err != nil {
		return "", err
	}

	metrics := make([]metricData, len(Metrics))
	for i, m := range Metrics {
		metrics[i] = metricData{Name: m.Name, Expr: m.Expr, Last: i == len(Metrics)-1}
	}

	return render(aggregatesTmpl, map[string]any{
		"Target":         p.Table(v.aggregateStage()),
		"Source":         p.Options.SourceTable,
		"Dates":          p.Table(StageTransactionDates),
		"Start":          p.StartDate,
		"End":            p.EndDate,
		"Converted":      v == Converted,
		"CandidateDates": p.Options.CandidateDates,
		"DayDiff":        dayDiffExpr,
		"Window":         WindowDays,
		"Metrics":        metrics,
	})
}

// ConvertedAggregates is DailyAggregates for converting visitors.
func ConvertedAggregates(p Params) (string, error) {
	return DailyAggregates(p, Converted)
}

// NonConvertedAggregates is DailyAggregates for non-converting visitors.
func NonConvertedAggregates(p Params) (string, error) {
	return DailyAggregates(p, NonConverted)
}

// Pivot reshapes the daily aggregates into one row per visitor. Rows landing
// in the same bucket are reduced with MAX.
func Pivot(p Params, v Variant) (string, error) {
	p, err := p.normalized()
	if err != nil {
		return "", err
	}

	features := FeatureColumns()
	cols := make([]columnData, len(features))
	for i, c := range features {
		cols[i] = columnData{FeatureColumn: c, Last: i == len(features)-1}
	}

	return render(pivotTmpl, map[string]any{
		"Target":  p.Table(v.pivotStage()),
		"Source":  p.Table(v.aggregateStage()),
		"Columns": cols,
	})
}

// ConvertedPivot is Pivot for converting visitors.
func ConvertedPivot(p Params) (string, error) {
	return Pivot(p, Converted)
}

// NonConvertedPivot is Pivot for non-converting visitors.
func NonConvertedPivot(p Params) (string, error) {
	return Pivot(p, NonConverted)
}

// LabeledDataset unions converting visitors (label 1) with a random sample of
// non-converting visitors (label 0).
func LabeledDataset(p Params) (string, error) {
	p, err := p.normalized()
	if err != nil {
		return "", err
	}
	return render(labeledTmpl, map[string]any{
		"Target":   p.Table(StageLabeledDataset),
		"Positive": p.Table(StageConvertedPivot),
		"Negative": p.Table(StageNonConvertedPivot),
		"Limit":    p.Options.NegativeSampleSize,
	})
}

// Build renders a single stage.
func Build(p Params, stage Stage) (Statement, error) {
	var (
		sql string
		err error
	)
	switch stage {
	case StageTransactionDates:
		sql, err = TransactionDates(p)
	case StageConvertedAggregates:
		sql, err = ConvertedAggregates(p)
	case StageNonConvertedAggregates:
		sql, err = NonConvertedAggregates(p)
	case StageConvertedPivot:
		sql, err = ConvertedPivot(p)
	case StageNonConvertedPivot:
		sql, err = NonConvertedPivot(p)
	case StageLabeledDataset:
		sql, err = LabeledDataset(p)
	default:
		return Statement{}, fmt.Errorf("unsupported stage %s", stage)
	}
	if err != nil {
		return Statement{}, err
	}
	return Statement{Stage: stage, Table: p.Table(stage), SQL: sql}, nil
}

// Pipeline renders every stage in the order the warehouse must run them.
func Pipeline(p Params) ([]Statement, error) {
	stages := Stages()
	out := make([]Statement, 0, len(stages))
	for _, s := range stages {
		stmt, err := Build(p, s)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}
