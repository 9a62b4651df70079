// Package inspect summarizes an exported propensity table: missing-value
// percentages and per-feature distribution grids split by label.
package inspect

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"propensity/pkg/errors"
)

// Dataset is a read-only, row-major table. Column 0 is the visitor id and the
// last column is the binary label. A nil cell is missing.
type Dataset struct {
	Columns []string
	Rows    [][]any
}

// Validate checks that every row matches the header width.
func (d *Dataset) Validate() error {
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return errors.New(errors.ErrCodeValidationFailed,
				fmt.Sprintf("row %d has %d cells, expected %d", i, len(row), len(d.Columns))).
				WithContext("row", i)
		}
	}
	return nil
}

// FeatureColumns returns the indices of every column except the identifier
// and the label.
func (d *Dataset) FeatureColumns() []int {
	if len(d.Columns) < 3 {
		return nil
	}
	idx := make([]int, 0, len(d.Columns)-2)
	for i := 1; i < len(d.Columns)-1; i++ {
		idx = append(idx, i)
	}
	return idx
}

// LabelColumn returns the index of the label column, or -1 for an empty header.
func (d *Dataset) LabelColumn() int {
	return len(d.Columns) - 1
}

// ByLabel splits the numeric values of column col by the row's label. Rows
// with a missing label or a non-numeric value are skipped.
func (d *Dataset) ByLabel(col int) map[string][]float64 {
	label := d.LabelColumn()
	out := make(map[string][]float64)
	for _, row := range d.Rows {
		lv, ok := ToFloat(row[label])
		if !ok {
			continue
		}
		v, ok := ToFloat(row[col])
		if !ok {
			continue
		}
		key := strconv.FormatFloat(lv, 'f', -1, 64)
		out[key] = append(out[key], v)
	}
	return out
}

// Labels returns the distinct non-missing label values in ascending order.
func (d *Dataset) Labels() []string {
	label := d.LabelColumn()
	if label < 0 {
		return nil
	}
	seen := make(map[float64]bool)
	var values []float64
	for _, row := range d.Rows {
		lv, ok := ToFloat(row[label])
		if !ok || seen[lv] {
			continue
		}
		seen[lv] = true
		values = append(values, lv)
	}
	sort.Float64s(values)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

// IsMissing reports whether a cell counts as missing: nil or NaN.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// ToFloat converts a driver value to float64 for plotting.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), !math.IsNaN(float64(x))
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case interface{ Float64() float64 }:
		return x.Float64(), true
	}
	return 0, false
}
