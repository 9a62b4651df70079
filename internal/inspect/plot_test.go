package inspect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propensity/pkg/errors"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func wideDataset(features int) *Dataset {
	cols := []string{"visitor_id"}
	for i := 0; i < features; i++ {
		cols = append(cols, "f"+string(rune('a'+i)))
	}
	cols = append(cols, "label")

	var rows [][]any
	for r := 0; r < 40; r++ {
		row := []any{"v"}
		for i := 0; i < features; i++ {
			if (r+i)%7 == 0 {
				row = append(row, nil)
				continue
			}
			row = append(row, float64(r*(i+1)%13))
		}
		row = append(row, int64(r%2))
		rows = append(rows, row)
	}
	return &Dataset{Columns: cols, Rows: rows}
}

func TestGridShape(t *testing.T) {
	tests := []struct {
		n, columns int
		rows, cols int
	}{
		{0, 6, 0, 0},
		{3, 6, 1, 3},
		{6, 6, 1, 6},
		{7, 6, 2, 6},
		{36, 6, 6, 6},
	}
	for _, tt := range tests {
		r, c := GridShape(tt.n, tt.columns)
		assert.Equal(t, tt.rows, r, "n=%d", tt.n)
		assert.Equal(t, tt.cols, c, "n=%d", tt.n)
	}
}

func TestRenderHistogramGrid(t *testing.T) {
	var buf bytes.Buffer
	opts := GridOptions{Columns: 3, CellWidth: 100, CellHeight: 80}

	require.NoError(t, RenderHistogramGrid(&buf, wideDataset(4), "Train features", opts))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderViolinGrid(t *testing.T) {
	var buf bytes.Buffer
	opts := GridOptions{Columns: 6, CellWidth: 100, CellHeight: 80}

	require.NoError(t, RenderViolinGrid(&buf, wideDataset(7), "Validation features", opts))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderConstantColumn(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"visitor_id", "bounces", "label"},
		Rows: [][]any{
			{"a", 0.0, int64(1)},
			{"b", 0.0, int64(0)},
			{"c", 0.0, int64(0)},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderHistogramGrid(&buf, ds, "", GridOptions{CellWidth: 100, CellHeight: 80}))
	buf.Reset()
	require.NoError(t, RenderViolinGrid(&buf, ds, "", GridOptions{CellWidth: 100, CellHeight: 80}))
}

func TestRenderEmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHistogramGrid(&buf, &Dataset{Columns: []string{"visitor_id", "day0_hits", "label"}}, "empty", GridOptions{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEmptyDataset, errors.GetErrorCode(err))
	assert.Zero(t, buf.Len())
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	ds := &Dataset{Columns: []string{"visitor_id", "hits", "label"}, Rows: [][]any{{"a", 1.0}}}
	err := RenderViolinGrid(&bytes.Buffer{}, ds, "", GridOptions{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetErrorCode(err))
}

func TestViolinOutline(t *testing.T) {
	outline := ViolinOutline([]float64{1, 2, 2, 3, 3, 3, 4}, 1, 0.4)
	require.Len(t, outline, 2*violinPoints)

	maxX := 0.0
	for _, p := range outline {
		assert.GreaterOrEqual(t, p.X, 0.6-1e-9)
		assert.LessOrEqual(t, p.X, 1.4+1e-9)
		if p.X > maxX {
			maxX = p.X
		}
	}
	assert.InDelta(t, 1.4, maxX, 1e-9)
}

func TestSilvermanBandwidthDegenerate(t *testing.T) {
	assert.Greater(t, SilvermanBandwidth([]float64{5}), 0.0)
	assert.Greater(t, SilvermanBandwidth([]float64{0, 0, 0}), 0.0)
	assert.Greater(t, SilvermanBandwidth([]float64{1, 2, 3, 4}), 0.0)
}
