// Package stats contains statistics formatting and reporting.
package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/tuidle/internal/model"
)

const anonymousLabel = "anonymous"

// PlayerName returns a printable name for a store key.
func PlayerName(userName string) string {
	if userName == model.Anonymous {
		return anonymousLabel
	}
	return userName
}

// FormatDuration rounds d to whole seconds, or tenths below a minute.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Minute {
		return d.Round(100 * time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

// FormatBestTime renders an optional best time.
func FormatBestTime(best *time.Duration) string {
	if best == nil {
		return "-"
	}
	return FormatDuration(*best)
}

// SummaryRows returns label/value pairs describing s.
func SummaryRows(s model.Statistics) [][]string {
	return [][]string{
		{"Played", fmt.Sprintf("%d", s.GamesPlayed)},
		{"Won", fmt.Sprintf("%d", s.GamesWon)},
		{"Lost", fmt.Sprintf("%d", s.GamesLost())},
		{"Win %", fmt.Sprintf("%.0f", s.WinRate())},
		{"Current Streak", fmt.Sprintf("%d", s.CurrentStreak)},
		{"Max Streak", fmt.Sprintf("%d", s.MaxStreak)},
		{"Avg Guesses", fmt.Sprintf("%.2f", s.AvgGuesses())},
		{"Best Time", FormatBestTime(s.BestTime)},
		{"Avg Time", FormatDuration(s.AvgDuration())},
	}
}

// RenderSummary prints the summary table for one player.
func RenderSummary(w io.Writer, s model.Statistics) error {
	if _, err := fmt.Fprintf(w, "Statistics for %s\n", PlayerName(s.UserName)); err != nil {
		return err
	}
	if s.GamesPlayed == 0 {
		_, err := fmt.Fprintln(w, "No games played yet.")
		return err
	}
	for _, line := range formatTable(nil, SummaryRows(s), map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// PlayerHeaders are the columns of PlayerRows.
var PlayerHeaders = []string{"Player", "Played", "Win %", "Streak", "Max Streak", "Avg Guesses", "Best Time"}

// PlayerRows returns one row per record for the players table.
func PlayerRows(all []model.Statistics) [][]string {
	rows := make([][]string, 0, len(all))
	for _, s := range all {
		rows = append(rows, []string{
			PlayerName(s.UserName),
			fmt.Sprintf("%d", s.GamesPlayed),
			fmt.Sprintf("%.0f", s.WinRate()),
			fmt.Sprintf("%d", s.CurrentStreak),
			fmt.Sprintf("%d", s.MaxStreak),
			fmt.Sprintf("%.2f", s.AvgGuesses()),
			FormatBestTime(s.BestTime),
		})
	}
	return rows
}

// RenderPlayers prints every stored record as a table.
func RenderPlayers(w io.Writer, all []model.Statistics) error {
	if len(all) == 0 {
		_, err := fmt.Fprintln(w, "No players found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Players"); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(PlayerHeaders, PlayerRows(all), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
