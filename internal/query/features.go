package query

import "fmt"

// Bucket groups day_diff values into one pivot column per metric.
type Bucket struct {
	Name string
	Lo   int
	Hi   int
	// Open buckets run from Lo to the end of the window.
	Open bool
}

// Buckets partitions [0, WindowDays) in pivot column order.
var Buckets = []Bucket{
	{Name: "day0", Lo: 0, Hi: 0},
	{Name: "day1", Lo: 1, Hi: 1},
	{Name: "day2", Lo: 2, Hi: 2},
	{Name: "day3", Lo: 3, Hi: 3},
	{Name: "day4_6", Lo: 4, Hi: 6},
	{Name: "w2", Lo: 7, Hi: WindowDays - 1, Open: true},
}

// Contains reports whether a day_diff value falls into the bucket.
func (b Bucket) Contains(dayDiff int) bool {
	if b.Open {
		return dayDiff >= b.Lo
	}
	return dayDiff >= b.Lo && dayDiff <= b.Hi
}

// Predicate renders the bucket as a SQL condition on day_diff.
func (b Bucket) Predicate() string {
	switch {
	case b.Open:
		return fmt.Sprintf("day_diff > %d", b.Lo-1)
	case b.Lo == b.Hi:
		return fmt.Sprintf("day_diff = %d", b.Lo)
	default:
		return fmt.Sprintf("day_diff BETWEEN %d AND %d", b.Lo, b.Hi)
	}
}

// Metric is one per-day aggregate produced by the aggregate stage.
type Metric struct {
	Name string
	// Expr aggregates the GA session columns for one visitor and day.
	Expr string
}

// Metrics lists the aggregates in pivot column order.
var Metrics = []Metric{
	{Name: "time_on_site_seconds", Expr: "SUM(IFNULL(ga.totals.timeOnSite, 0))"},
	{Name: "hits", Expr: "SUM(IFNULL(ga.totals.hits, 0))"},
	{Name: "pageViews", Expr: "SUM(IFNULL(ga.totals.pageviews, 0))"},
	{Name: "bounces", Expr: "SUM(IFNULL(ga.totals.bounces, 0))"},
	{Name: "sessions", Expr: "SUM(IFNULL(ga.totals.visits, 0))"},
	{Name: "session_quality", Expr: "ROUND(AVG(IFNULL(ga.totals.sessionQualityDim, 0)), 2)"},
}

// FeatureColumn is one pivoted output column.
type FeatureColumn struct {
	Name      string
	Metric    string
	Predicate string
}

// FeatureColumns returns the pivot columns, grouped by metric then bucket.
func FeatureColumns() []FeatureColumn {
	cols := make([]FeatureColumn, 0, len(Metrics)*len(Buckets))
	for _, m := range Metrics {
		for _, b := range Buckets {
			cols = append(cols, FeatureColumn{
				Name:      b.Name + "_" + m.Name,
				Metric:    m.Name,
				Predicate: b.Predicate(),
			})
		}
	}
	return cols
}
