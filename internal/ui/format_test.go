package ui

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"propensity/pkg/errors"
)

func withoutColor(t *testing.T) {
	t.Helper()
	original := supportsColor
	supportsColor = false
	t.Cleanup(func() { supportsColor = original })
}

func TestShowHeader(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	ShowHeader(&buf, "Missing values")

	assert.Contains(t, buf.String(), "Missing values")
	assert.Contains(t, buf.String(), "+------")
}

func TestShowHeaderLongTitle(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	ShowHeader(&buf, "a title that is considerably longer than the fifty character frame")
	assert.Contains(t, buf.String(), "considerably longer")
}

func TestShowError(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	ShowError(&buf, fmt.Errorf("IO Error: No files found that match the pattern"))

	out := buf.String()
	assert.Contains(t, out, "ERROR:")
	assert.Contains(t, out, "No files found")
	assert.Contains(t, out, "TIP:")
}

func TestShowErrorWithSuggestionsSkipsTip(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	err := errors.New(errors.ErrCodeInvalidKind, "unknown dataset kind \"banana\"").
		WithSuggestions("Use one of: train, test, validation")
	ShowError(&buf, err)

	out := buf.String()
	assert.Contains(t, out, "[PROP4001] ERROR: unknown dataset kind \"banana\"")
	assert.Contains(t, out, "Use one of: train, test, validation")
	assert.NotContains(t, out, "TIP:")
}

func TestStatusLines(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	ShowSuccess(&buf, "wrote 6 scripts")
	ShowWarning(&buf, "3 columns above threshold")
	ShowInfo(&buf, "loaded 20000 rows")

	assert.Equal(t,
		"SUCCESS: wrote 6 scripts\nWARNING: 3 columns above threshold\nINFO: loaded 20000 rows\n",
		buf.String())
}
