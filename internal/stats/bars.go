package stats

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/tuidle/internal/model"
)

const (
	barRune             = '█'
	axisSeparator       = " │ "
	minBarWidth         = 10
	colorReset          = "\x1b[0m"
	colorBar            = "\x1b[90m"
	colorHighlight      = "\x1b[32m"
	terminalWidthBackup = 80
)

// Bar is one row of the guess distribution chart.
type Bar struct {
	Guesses int
	Count   int
	// Width is the bar length in cells, at least 1 for a non-zero count.
	Width int
}

// DistributionBars scales the guess distribution to maxWidth cells. Buckets
// run from 1 to the larger of buckets and the highest recorded win.
func DistributionBars(s model.Statistics, buckets, maxWidth int) []Bar {
	if highest := s.MaxBucket(); highest > buckets {
		buckets = highest
	}
	if buckets <= 0 {
		return nil
	}
	if maxWidth < 1 {
		maxWidth = 1
	}
	maxCount := 0
	for i := 1; i <= buckets; i++ {
		if c := s.GuessDistribution[i]; c > maxCount {
			maxCount = c
		}
	}
	bars := make([]Bar, 0, buckets)
	for i := 1; i <= buckets; i++ {
		count := s.GuessDistribution[i]
		width := 0
		if count > 0 && maxCount > 0 {
			width = count * maxWidth / maxCount
			if width < 1 {
				width = 1
			}
		}
		bars = append(bars, Bar{Guesses: i, Count: count, Width: width})
	}
	return bars
}

// DistributionOptions controls RenderDistribution.
type DistributionOptions struct {
	Buckets int
	// Width is the total line width; 0 uses the terminal width.
	Width int
	// Highlight marks the bucket of the most recent win.
	Highlight  int
	ForceColor bool
}

// RenderDistribution prints the guess distribution as horizontal bars.
func RenderDistribution(w io.Writer, s model.Statistics, opts DistributionOptions) error {
	if _, err := fmt.Fprintln(w, "Guess Distribution"); err != nil {
		return err
	}
	if s.GamesWon == 0 {
		_, err := fmt.Fprintln(w, "No wins yet.")
		return err
	}
	total := opts.Width
	if total <= 0 {
		total = terminalWidth()
	}
	labelWidth := len(fmt.Sprint(max(opts.Buckets, s.MaxBucket())))
	countWidth := len(fmt.Sprint(s.GamesWon))
	barWidth := BarWidthFor(total, labelWidth, countWidth)

	useColor := shouldUseColor(w, opts.ForceColor)
	for _, bar := range DistributionBars(s, opts.Buckets, barWidth) {
		body := strings.Repeat(string(barRune), bar.Width)
		if useColor && body != "" {
			color := colorBar
			if bar.Guesses == opts.Highlight {
				color = colorHighlight
			}
			body = color + body + colorReset
		}
		line := fmt.Sprintf("%*d%s%s %d", labelWidth, bar.Guesses, axisSeparator, body, bar.Count)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// BarWidthFor computes the widest bar that fits next to its label and count.
func BarWidthFor(totalWidth, labelWidth, countWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	width := totalWidth - labelWidth - utf8.RuneCountInString(axisSeparator) - 1 - countWidth
	if width < minBarWidth {
		width = minBarWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
