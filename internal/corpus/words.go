// Package corpus generates the words and documents one benchmark run indexes and searches.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

// DefaultAlphabet is ASCII letters plus German umlauts and sharp s.
var DefaultAlphabet = []rune("abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"äöüÄÖÜß")

var (
	// ErrAlphabetExhausted means fewer than n distinct words of the requested length exist.
	ErrAlphabetExhausted = errors.New("alphabet cannot produce enough unique words")
	// ErrDictionaryTooShort means the dictionary holds fewer unique words than requested.
	ErrDictionaryTooShort = errors.New("dictionary has too few words")
)

// GenerateWord returns a random word of length runes drawn from alphabet.
func GenerateWord(rng *rand.Rand, length int, alphabet []rune) string {
	var b strings.Builder
	b.Grow(length * 2)
	for i := 0; i < length; i++ {
		b.WriteRune(alphabet[rng.IntN(len(alphabet))])
	}
	return b.String()
}

// GenerateWords returns n unique random words. Collisions are discarded and regenerated,
// so the result always holds exactly n distinct words.
func GenerateWords(rng *rand.Rand, n, length int, alphabet []rune) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("word count must not be negative: %d", n)
	}
	if n > 0 && (length <= 0 || len(alphabet) == 0) {
		return nil, fmt.Errorf("%w: length %d over %d runes", ErrAlphabetExhausted, length, len(alphabet))
	}
	if !enoughCombinations(len(alphabet), length, n) {
		return nil, fmt.Errorf("%w: %d^%d < %d", ErrAlphabetExhausted, len(alphabet), length, n)
	}
	seen := make(map[string]struct{}, n)
	words := make([]string, 0, n)
	for len(words) < n {
		w := GenerateWord(rng, length, alphabet)
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words, nil
}

// enoughCombinations reports whether size^length >= n without overflowing.
func enoughCombinations(size, length, n int) bool {
	total := 1
	for i := 0; i < length; i++ {
		if total >= n {
			return true
		}
		total *= size
	}
	return total >= n
}

// LoadDictionary reads one word per line from path and returns the first n unique
// non-blank words.
func LoadDictionary(path string, n int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("word count must not be negative: %d", n)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{}, n)
	words := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(words) < n {
		w := strings.TrimSpace(scanner.Text())
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	if len(words) < n {
		return nil, fmt.Errorf("%w: %s has %d, want %d", ErrDictionaryTooShort, path, len(words), n)
	}
	return words, nil
}

// Shuffle returns a shuffled copy of words; words itself is not modified.
func Shuffle(rng *rand.Rand, words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
