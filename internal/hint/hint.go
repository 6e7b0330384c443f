// Package hint scores a guess against the mystery word.
package hint

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/tuidle/internal/model"
)

// ErrLengthMismatch is returned when the guess and mystery word differ in length.
var ErrLengthMismatch = errors.New("guess length does not match mystery word")

// Score compares guess against mystery and returns one hint per letter.
//
// Letters are compared by exact rune equality, so both words must already be
// normalized to the same case. Letters that repeat in the guess are credited
// at most as many times as they remain unmatched in the mystery word, and
// repeated mystery letters are matched left to right.
func Score(mystery, guess string) ([]model.LetterHint, error) {
	target := []rune(mystery)
	typed := []rune(guess)
	if len(target) != len(typed) {
		return nil, fmt.Errorf("%w: mystery has %d letters, guess has %d", ErrLengthMismatch, len(target), len(typed))
	}

	hints := make([]model.LetterHint, len(typed))
	consumed := make([]bool, len(target))

	for i, r := range typed {
		if r == target[i] {
			hints[i] = model.LetterHint{Letter: r, Kind: model.Correct}
			consumed[i] = true
			continue
		}
		hints[i] = model.LetterHint{Letter: r, Kind: model.Absent}
	}

	for i, r := range typed {
		if hints[i].Kind == model.Correct {
			continue
		}
		for j, m := range target {
			if consumed[j] || m != r {
				continue
			}
			consumed[j] = true
			hints[i].Kind = model.Present
			break
		}
	}

	return hints, nil
}

// Solved reports whether every hint is Correct.
func Solved(hints []model.LetterHint) bool {
	if len(hints) == 0 {
		return false
	}
	for _, h := range hints {
		if h.Kind != model.Correct {
			return false
		}
	}
	return true
}

// Format renders hints the way the console harness prints them:
// [X] for correct, (X) for present and a padded letter for absent.
func Format(hints []model.LetterHint) string {
	out := make([]rune, 0, len(hints)*4)
	for i, h := range hints {
		if i > 0 {
			out = append(out, ' ')
		}
		switch h.Kind {
		case model.Correct:
			out = append(out, '[', h.Letter, ']')
		case model.Present:
			out = append(out, '(', h.Letter, ')')
		default:
			out = append(out, ' ', h.Letter, ' ')
		}
	}
	return string(out)
}
