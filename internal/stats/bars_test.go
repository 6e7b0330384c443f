package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuidle/internal/model"
)

func TestDistributionBarsScaling(t *testing.T) {
	s := model.NewStatistics("alice")
	s.GuessDistribution = map[int]int{1: 1, 2: 100, 3: 50}

	bars := DistributionBars(s, 6, 10)
	require.Len(t, bars, 6)
	assert.Equal(t, Bar{Guesses: 1, Count: 1, Width: 1}, bars[0])
	assert.Equal(t, Bar{Guesses: 2, Count: 100, Width: 10}, bars[1])
	assert.Equal(t, Bar{Guesses: 3, Count: 50, Width: 5}, bars[2])
	assert.Equal(t, Bar{Guesses: 6, Count: 0, Width: 0}, bars[5])
}

func TestDistributionBarsExtendPastBuckets(t *testing.T) {
	s := model.NewStatistics("alice")
	s.RegisterGame(8, time.Second, true)
	bars := DistributionBars(s, 6, 10)
	require.Len(t, bars, 8)
	assert.Equal(t, 10, bars[7].Width)

	assert.Nil(t, DistributionBars(model.NewStatistics("bob"), 0, 10))
}

func TestRenderDistribution(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	s := model.NewStatistics("alice")
	s.RegisterGame(2, time.Second, true)
	s.RegisterGame(3, time.Second, true)
	s.RegisterGame(3, time.Second, true)

	var buf bytes.Buffer
	require.NoError(t, RenderDistribution(&buf, s, DistributionOptions{Buckets: 6, Width: 40}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Guess Distribution", lines[0])
	assert.Equal(t, "1 │  0", lines[1])
	assert.Equal(t, "2 │ "+strings.Repeat("█", 17)+" 1", lines[2])
	assert.Equal(t, "3 │ "+strings.Repeat("█", 34)+" 2", lines[3])
	assert.Equal(t, "6 │  0", lines[6])
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRenderDistributionHighlight(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	s := model.NewStatistics("alice")
	s.RegisterGame(3, time.Second, true)

	var buf bytes.Buffer
	require.NoError(t, RenderDistribution(&buf, s, DistributionOptions{Buckets: 6, Width: 40, Highlight: 3, ForceColor: true}))
	assert.Contains(t, buf.String(), colorHighlight+"█")
}

func TestRenderDistributionNoWins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDistribution(&buf, model.NewStatistics("alice"), DistributionOptions{}))
	assert.Equal(t, "Guess Distribution\nNo wins yet.\n", buf.String())
}

func TestBarWidthFor(t *testing.T) {
	assert.Equal(t, 80-1-3-1-2, BarWidthFor(80, 1, 2))
	assert.Equal(t, minBarWidth, BarWidthFor(0, 1, 1))
	assert.Equal(t, minBarWidth, BarWidthFor(12, 1, 1))
}
