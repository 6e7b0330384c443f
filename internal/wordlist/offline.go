package wordlist

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/tuidle/internal/wordsource"
)

// Offline serves mystery words and validation from an in-memory word list.
type Offline struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	byLength map[int][]string
	known    map[string]struct{}
}

// NewOffline indexes words by length. Words are expected in lowercase.
func NewOffline(words []string) *Offline {
	return newOffline(words, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newOffline(words []string, rnd *rand.Rand) *Offline {
	o := &Offline{
		rnd:      rnd,
		byLength: map[int][]string{},
		known:    make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		w = strings.ToLower(w)
		if _, dup := o.known[w]; dup {
			continue
		}
		o.known[w] = struct{}{}
		n := utf8.RuneCountInString(w)
		o.byLength[n] = append(o.byLength[n], w)
	}
	return o
}

// MysteryWord picks a random listed word of the given length.
func (o *Offline) MysteryWord(_ context.Context, length int) (string, error) {
	candidates := o.byLength[length]
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no %d-letter words in word list", wordsource.ErrMysteryWordUnavailable, length)
	}
	o.mu.Lock()
	idx := o.rnd.Intn(len(candidates))
	o.mu.Unlock()
	return strings.ToUpper(candidates[idx]), nil
}

// Validate reports whether word is in the list. It never fails.
func (o *Offline) Validate(_ context.Context, word string) (bool, error) {
	_, ok := o.known[strings.ToLower(strings.TrimSpace(word))]
	return ok, nil
}

// Count returns the number of listed words with the given length.
func (o *Offline) Count(length int) int {
	return len(o.byLength[length])
}
