package hint

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuidle/internal/model"
)

const (
	C = model.Correct
	P = model.Present
	A = model.Absent
)

func kinds(hints []model.LetterHint) []model.HintKind {
	out := make([]model.HintKind, len(hints))
	for i, h := range hints {
		out[i] = h.Kind
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		mystery string
		guess   string
		want    []model.HintKind
	}{
		{"all correct", "APPLE", "APPLE", []model.HintKind{C, C, C, C, C}},
		{"some present", "APPLE", "ALLEY", []model.HintKind{C, P, A, P, A}},
		{"guess has many duplicates", "APPLE", "PPPPP", []model.HintKind{A, C, C, A, A}},
		{"mystery has duplicates", "LLAMA", "ALARM", []model.HintKind{P, C, C, A, P}},
		{"duplicate handling", "BALLS", "LLAMA", []model.HintKind{P, P, P, A, A}},
		{"all absent", "WORLD", "XXXXX", []model.HintKind{A, A, A, A, A}},
		{"permutation", "STARE", "TEARS", []model.HintKind{P, P, C, C, P}},
		{"fewer repeats in guess", "EERIE", "EAGLE", []model.HintKind{C, A, A, A, C}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.mystery, tt.guess)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds(got))
			for i, h := range got {
				assert.Equal(t, []rune(tt.guess)[i], h.Letter)
			}
		})
	}
}

func TestScoreLengthMismatch(t *testing.T) {
	hints, err := Score("APPLE", "APP")
	require.ErrorIs(t, err, ErrLengthMismatch)
	assert.Nil(t, hints)
}

func TestScoreComparesRunes(t *testing.T) {
	got, err := Score("ÄPFEL", "PÄFEL")
	require.NoError(t, err)
	assert.Equal(t, []model.HintKind{P, P, C, C, C}, kinds(got))
}

func TestScoreProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	alphabet := []rune("ABCDE")
	randomWord := func(n int) string {
		out := make([]rune, n)
		for i := range out {
			out[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		return string(out)
	}

	for i := 0; i < 2000; i++ {
		n := 1 + rnd.Intn(7)
		mystery := randomWord(n)
		guess := randomWord(n)

		got, err := Score(mystery, guess)
		require.NoError(t, err)
		require.Len(t, got, n)

		again, err := Score(mystery, guess)
		require.NoError(t, err)
		require.Equal(t, got, again, "score must be deterministic")

		credited := map[rune]int{}
		for _, h := range got {
			require.NotEqual(t, model.None, h.Kind)
			if h.Kind == model.Correct || h.Kind == model.Present {
				credited[h.Letter]++
			}
		}
		available := map[rune]int{}
		for _, r := range mystery {
			available[r]++
		}
		for r, c := range credited {
			require.LessOrEqualf(t, c, available[r], "letter %q over-credited for %s/%s", r, mystery, guess)
		}

		self, err := Score(mystery, mystery)
		require.NoError(t, err)
		require.True(t, Solved(self))
	}
}

func TestSolved(t *testing.T) {
	assert.False(t, Solved(nil))
	assert.False(t, Solved([]model.LetterHint{{Letter: 'A', Kind: C}, {Letter: 'B', Kind: P}}))
	assert.True(t, Solved([]model.LetterHint{{Letter: 'A', Kind: C}}))
}

func TestFormat(t *testing.T) {
	got, err := Score("APPLE", "ALLEY")
	require.NoError(t, err)
	assert.Equal(t, "[A] (L)  L  (E)  Y ", Format(got))
}
