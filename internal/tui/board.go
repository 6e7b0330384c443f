package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuidle/internal/model"
	"github.com/verte-zerg/tuidle/internal/stats"
)

const (
	tileWidth    = 3
	distBarWidth = 24
)

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

var (
	emptyTileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3C")).Background(lipgloss.Color("#1E1E1E"))
	typedTileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A3A3C")).Bold(true)
	correctTileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#538D4E")).Bold(true)
	presentTileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#B59F3B")).Bold(true)
	absentTileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Background(lipgloss.Color("#2A2A2A"))

	keyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6AAA64")).Bold(true)
	presentKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C9B458")).Bold(true)
	absentKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))

	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6AAA64"))
)

func tileStyle(cell model.LetterHint) lipgloss.Style {
	switch cell.Kind {
	case model.Correct:
		return correctTileStyle
	case model.Present:
		return presentTileStyle
	case model.Absent:
		return absentTileStyle
	}
	if cell.Empty() {
		return emptyTileStyle
	}
	return typedTileStyle
}

// renderTile centers the letter in a fixed-width cell so wide runes keep the
// grid aligned.
func renderTile(cell model.LetterHint) string {
	letter := "·"
	if !cell.Empty() {
		letter = string(cell.Letter)
	}
	pad := tileWidth - runewidth.StringWidth(letter)
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	text := strings.Repeat(" ", left) + letter + strings.Repeat(" ", pad-left)
	return tileStyle(cell).Render(text)
}

func renderBoard(board [][]model.LetterHint) string {
	rows := make([]string, 0, len(board))
	for _, row := range board {
		tiles := make([]string, 0, len(row))
		for _, cell := range row {
			tiles = append(tiles, renderTile(cell))
		}
		rows = append(rows, strings.Join(tiles, " "))
	}
	return strings.Join(rows, "\n\n")
}

func emptyBoard(settings model.Settings) [][]model.LetterHint {
	board := make([][]model.LetterHint, settings.MaxGuesses)
	for i := range board {
		board[i] = make([]model.LetterHint, settings.WordLength)
	}
	return board
}

func keyStyleFor(kind model.HintKind) lipgloss.Style {
	switch kind {
	case model.Correct:
		return correctKeyStyle
	case model.Present:
		return presentKeyStyle
	case model.Absent:
		return absentKeyStyle
	default:
		return keyStyle
	}
}

func renderKeyboard(hints map[rune]model.HintKind) string {
	lines := make([]string, 0, len(keyboardRows)+1)
	for _, row := range keyboardRows {
		keys := make([]string, 0, len(row))
		for _, r := range row {
			keys = append(keys, keyStyleFor(hints[r]).Render(string(r)))
		}
		lines = append(lines, strings.Join(keys, " "))
	}
	// Letters outside the QWERTY rows still get a line once they are scored.
	var extra []rune
	for r := range hints {
		if !onKeyboard(r) {
			extra = append(extra, r)
		}
	}
	if len(extra) > 0 {
		sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
		keys := make([]string, 0, len(extra))
		for _, r := range extra {
			keys = append(keys, keyStyleFor(hints[r]).Render(string(r)))
		}
		lines = append(lines, strings.Join(keys, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func onKeyboard(r rune) bool {
	for _, row := range keyboardRows {
		if strings.ContainsRune(row, r) {
			return true
		}
	}
	return false
}

func renderDistribution(s model.Statistics, buckets, highlight int) string {
	bars := stats.DistributionBars(s, buckets, distBarWidth)
	labelWidth := len(fmt.Sprint(len(bars)))
	lines := make([]string, 0, len(bars))
	for _, bar := range bars {
		style := barStyle
		if bar.Guesses == highlight {
			style = highlightStyle
		}
		body := style.Render(strings.Repeat("█", bar.Width))
		lines = append(lines, fmt.Sprintf("%*d %s %d", labelWidth, bar.Guesses, body, bar.Count))
	}
	return strings.Join(lines, "\n")
}
