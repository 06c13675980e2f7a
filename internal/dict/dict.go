// Package dict loads plain wordlist files into lowercase word sets.
package dict

import (
	"os"
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

// Set is a lookup set of lowercase words.
type Set map[string]struct{}

// Contains reports whether the set holds the word.
func (s Set) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Add lowercases and inserts the word.
func (s Set) Add(word string) {
	s[strings.ToLower(word)] = struct{}{}
}

// Load reads the given wordlist files into one Set. Each line holds a single
// word; blank lines and lines starting with '#' are skipped, as is anything
// that is not a plain word. Missing or unreadable files are tolerated and
// contribute nothing.
func Load(paths []string) Set {
	words := make(Set)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			stripped := strings.TrimSpace(line)
			if stripped == "" || strings.HasPrefix(stripped, "#") {
				continue
			}
			lowered := strings.ToLower(stripped)
			if tex.IsWord(lowered) {
				words[lowered] = struct{}{}
			}
		}
	}
	return words
}

// Union returns a new Set holding the words of both sets.
func Union(a, b Set) Set {
	out := make(Set, len(a)+len(b))
	for w := range a {
		out[w] = struct{}{}
	}
	for w := range b {
		out[w] = struct{}{}
	}
	return out
}
