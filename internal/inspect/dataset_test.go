package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propensity/pkg/errors"
)

func TestFeatureColumns(t *testing.T) {
	ds := sampleDataset()
	assert.Equal(t, []int{1, 2, 3}, ds.FeatureColumns())
	assert.Equal(t, 4, ds.LabelColumn())

	assert.Nil(t, (&Dataset{Columns: []string{"visitor_id", "label"}}).FeatureColumns())
}

func TestByLabel(t *testing.T) {
	split := sampleDataset().ByLabel(1)
	assert.Equal(t, []float64{3, 1}, split["1"])
	assert.Equal(t, []float64{7, 2, 5}, split["0"])
}

func TestByLabelSkipsMissingLabels(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"visitor_id", "hits", "label"},
		Rows: [][]any{
			{"a", 1.0, nil},
			{"b", 2.0, "1"},
		},
	}
	split := ds.ByLabel(1)
	assert.Equal(t, map[string][]float64{"1": {2}}, split)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{"0", "1"}, sampleDataset().Labels())
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleDataset().Validate())

	ds := &Dataset{Columns: []string{"a", "b"}, Rows: [][]any{{1}}}
	err := ds.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "row 0 has 1 cells, expected 2")
}

type decimal float64

func (d decimal) Float64() float64 { return float64(d) }

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"nil", nil, 0, false},
		{"float64", 1.5, 1.5, true},
		{"int64", int64(4), 4, true},
		{"int32", int32(-2), -2, true},
		{"uint8", uint8(9), 9, true},
		{"bool", true, 1, true},
		{"numeric string", " 2.25 ", 2.25, true},
		{"text", "visitor", 0, false},
		{"decimal", decimal(3.5), 3.5, true},
		{"struct", struct{}{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
