// Package wordlist loads local word lists used for offline play.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadWords reads one word per line from path, skipping blanks and
// '#' comments. Words that fail filter are dropped.
func LoadWords(path string, filter FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Frequency lists carry a count after the word.
		if fields := strings.Fields(line); len(fields) > 1 {
			line = fields[0]
		}
		line = strings.ToLower(line)
		if filter != nil && !filter(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
