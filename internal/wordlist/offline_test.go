package wordlist

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuidle/internal/wordsource"
)

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	content := "# sample\nApple 1200\n\ncrane\nco-op\n  slate  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	words, err := LoadWords(path, FilterForLang("en"))
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "crane", "slate"}, words)
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing\n"), 0o644))

	_, err := LoadWords(path, nil)
	require.Error(t, err)
}

func TestOfflineMysteryWord(t *testing.T) {
	o := newOffline([]string{"apple", "crane", "cat", "apple"}, rand.New(rand.NewSource(1)))
	assert.Equal(t, 2, o.Count(5))

	for i := 0; i < 20; i++ {
		word, err := o.MysteryWord(context.Background(), 5)
		require.NoError(t, err)
		assert.Contains(t, []string{"APPLE", "CRANE"}, word)
	}

	_, err := o.MysteryWord(context.Background(), 7)
	require.ErrorIs(t, err, wordsource.ErrMysteryWordUnavailable)
}

func TestOfflineValidate(t *testing.T) {
	o := NewOffline([]string{"apple"})
	ok, err := o.Validate(context.Background(), "APPLE")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = o.Validate(context.Background(), "ALLEY")
	require.NoError(t, err)
	assert.False(t, ok)
}
