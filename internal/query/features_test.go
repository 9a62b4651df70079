package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketsPartitionWindow(t *testing.T) {
	for d := 0; d < WindowDays; d++ {
		matches := 0
		for _, b := range Buckets {
			if b.Contains(d) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "day_diff %d", d)
	}
}

func TestBucketMembership(t *testing.T) {
	expected := map[string][]int{
		"day0":   {0},
		"day1":   {1},
		"day2":   {2},
		"day3":   {3},
		"day4_6": {4, 5, 6},
		"w2":     {7, 8, 9, 10, 11, 12},
	}
	for _, b := range Buckets {
		var got []int
		for d := 0; d < WindowDays; d++ {
			if b.Contains(d) {
				got = append(got, d)
			}
		}
		assert.Equal(t, expected[b.Name], got, b.Name)
	}
}

func TestBucketPredicates(t *testing.T) {
	got := make([]string, len(Buckets))
	for i, b := range Buckets {
		got[i] = b.Predicate()
	}
	assert.Equal(t, []string{
		"day_diff = 0",
		"day_diff = 1",
		"day_diff = 2",
		"day_diff = 3",
		"day_diff BETWEEN 4 AND 6",
		"day_diff > 6",
	}, got)
}

func TestFeatureColumns(t *testing.T) {
	cols := FeatureColumns()
	require.Len(t, cols, 36)

	assert.Equal(t, "day0_time_on_site_seconds", cols[0].Name)
	assert.Equal(t, "w2_time_on_site_seconds", cols[5].Name)
	assert.Equal(t, "day0_hits", cols[6].Name)
	assert.Equal(t, "w2_session_quality", cols[35].Name)

	seen := map[string]bool{}
	for _, c := range cols {
		assert.False(t, seen[c.Name], "duplicate column %s", c.Name)
		seen[c.Name] = true
	}
}

func TestStageRoundTrip(t *testing.T) {
	for _, s := range Stages() {
		parsed, err := ParseStage(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStage("final")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stage \"final\"")
}
