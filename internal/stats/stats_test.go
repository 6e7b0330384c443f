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

func sample() model.Statistics {
	s := model.NewStatistics("alice")
	s.RegisterGame(3, 90*time.Second, true)
	s.RegisterGame(2, 45*time.Second, true)
	s.RegisterGame(3, 2*time.Minute, true)
	s.RegisterGame(6, 3*time.Minute, false)
	return s
}

func TestPlayerName(t *testing.T) {
	assert.Equal(t, "anonymous", PlayerName(model.Anonymous))
	assert.Equal(t, "bob", PlayerName("bob"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "5.2s", FormatDuration(5200*time.Millisecond))
	assert.Equal(t, "1m5s", FormatDuration(time.Minute+5400*time.Millisecond))
	assert.Equal(t, "-", FormatBestTime(nil))
	best := 45 * time.Second
	assert.Equal(t, "45s", FormatBestTime(&best))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, sample()))
	out := buf.String()
	for _, want := range []string{"Statistics for alice", "Played", "Win %", "75", "Avg Guesses", "2.67", "Best Time", "45s", "Avg Time", "1m49s"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, model.NewStatistics(model.Anonymous)))
	assert.Equal(t, "Statistics for anonymous\nNo games played yet.\n", buf.String())
}

func TestRenderPlayers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlayers(&buf, []model.Statistics{model.NewStatistics(model.Anonymous), sample()}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Players", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Player"))
	assert.True(t, strings.HasPrefix(lines[2], "anonymous"))
	assert.True(t, strings.HasPrefix(lines[3], "alice"))
	assert.True(t, strings.HasSuffix(lines[3], "45s"))

	buf.Reset()
	require.NoError(t, RenderPlayers(&buf, nil))
	assert.Equal(t, "No players found.\n", buf.String())
}
