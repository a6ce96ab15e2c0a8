package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestFillActivityGaps(t *testing.T) {
	points := []*ActivityPoint{
		{Date: mustDate(t, "2025-02-27"), Count: 99},
		{Date: mustDate(t, "2025-03-01"), Count: 4},
		{Date: mustDate(t, "2025-03-03"), Count: 9},
		nil,
	}

	filled := FillActivityGaps(points, mustDate(t, "2025-02-28"), mustDate(t, "2025-03-03"))

	var got []string
	var counts []int
	for _, p := range filled {
		got = append(got, p.Date.String())
		counts = append(counts, p.Count)
	}
	assert.Equal(t, []string{"2025-02-28", "2025-03-01", "2025-03-02", "2025-03-03"}, got)
	assert.Equal(t, []int{0, 4, 0, 9}, counts)

	assert.Empty(t, FillActivityGaps(points, mustDate(t, "2025-03-03"), mustDate(t, "2025-03-01")))
	assert.Empty(t, FillActivityGaps(points, Date{}, mustDate(t, "2025-03-01")))
}

func TestLastDays(t *testing.T) {
	end := NewDate(time.Date(2025, 3, 3, 18, 30, 0, 0, time.UTC))
	transform := LastDays(7, end)

	filled, err := transform([]*ActivityPoint{{Date: mustDate(t, "2025-03-01"), Count: 2}})
	require.NoError(t, err)
	require.Len(t, filled, 7)
	assert.Equal(t, "2025-02-25", filled[0].Date.String())
	assert.Equal(t, "2025-03-03", filled[6].Date.String())
	assert.Equal(t, 2, filled[4].Count)

	none, err := LastDays(0, end)(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBreakdownPercentages(t *testing.T) {
	d := Distribution{
		"low":    {Count: 1},
		"medium": {Count: 1},
		"high":   {Count: 1},
	}

	out := BreakdownPercentages(d)
	assert.InDelta(t, 33.3, out["low"].Percentage, 0.0001)
	assert.Equal(t, 1, out["high"].Count)

	empty := BreakdownPercentages(Distribution{"good": {Count: 0}, "bad": nil})
	assert.Equal(t, 0.0, empty["good"].Percentage)
	assert.Equal(t, 0, empty["bad"].Count)
}

func TestPercentageChange(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{120, 100, 20},
		{50, 100, -50},
		{0, 0, 0},
		{5, 0, 100},
		{1, 3, -66.67},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, PercentageChange(tt.current, tt.previous), 0.0001)
	}
}
