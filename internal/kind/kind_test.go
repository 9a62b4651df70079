package kind

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propensity/pkg/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		label     string
		want      Kind
		canonical string
	}{
		{"train", Train, "train"},
		{"test", Validation, "val"},
		{"validation", Validation, "val"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			k, err := Resolve(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
			assert.Equal(t, tt.canonical, k.String())
			assert.True(t, k.Valid())
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	for _, label := range []string{"banana", "", "Train", " train", "val"} {
		t.Run(label, func(t *testing.T) {
			k, err := Resolve(label)
			require.Error(t, err)
			assert.Equal(t, Unknown, k)
			assert.False(t, k.Valid())
			assert.True(t, stderrors.Is(err, ErrInvalidKind))
			assert.Equal(t, errors.ErrCodeInvalidKind, errors.GetErrorCode(err))
		})
	}
}

func TestResolveInvalidSuggestsLabels(t *testing.T) {
	_, err := Resolve("banana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dataset kind "banana"`)
	assert.Contains(t, err.Error(), "train, test, validation")
}

func TestLabelsAllResolve(t *testing.T) {
	for _, label := range Labels() {
		_, err := Resolve(label)
		assert.NoError(t, err, label)
	}
}
