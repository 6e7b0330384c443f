package game

import (
	"fmt"

	"github.com/verte-zerg/tuidle/internal/model"
)

// checkHardMode requires every revealed letter to be reused: Correct letters
// in the same position and Present letters anywhere in the guess.
func checkHardMode(scored [][]model.LetterHint, guess []rune) error {
	for _, row := range scored {
		for i, cell := range row {
			if cell.Kind != model.Correct {
				continue
			}
			if i >= len(guess) || guess[i] != cell.Letter {
				return fmt.Errorf("%w: letter %d must be %c", ErrHardModeViolation, i+1, cell.Letter)
			}
		}
	}
	for _, row := range scored {
		for _, cell := range row {
			if cell.Kind != model.Present {
				continue
			}
			if !containsRune(guess, cell.Letter) {
				return fmt.Errorf("%w: guess must contain %c", ErrHardModeViolation, cell.Letter)
			}
		}
	}
	return nil
}

func containsRune(runes []rune, r rune) bool {
	for _, c := range runes {
		if c == r {
			return true
		}
	}
	return false
}
