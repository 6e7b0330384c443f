package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuidle/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	s := model.NewStatistics("alice")
	s.RegisterGame(3, 90*time.Second, true)
	s.RegisterGame(2, 45*time.Second, true)
	s.RegisterGame(3, 2*time.Minute, true)
	s.RegisterGame(6, 3*time.Minute, false)

	m := &Model{
		cfg:      Config{Settings: model.Settings{HardMode: true}},
		stats:    &s,
		hasStats: true,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"alice", "Played 4", "Win 75%", "Streak 0 (max 3)", "Best 45s", "Hard mode"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterEmptyWithoutStats(t *testing.T) {
	m := &Model{}
	if out := m.renderFooter(); out != "" {
		t.Fatalf("expected empty footer, got %q", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
