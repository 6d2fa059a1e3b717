package mnemonic

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tyler-smith/go-bip39"
)

const (
	maxSuggestions   = 5
	minSuggestPrefix = 2
)

// SuggestCompletions returns up to five wordlist entries starting with
// prefix, in wordlist order. Prefixes shorter than two letters match nothing.
func SuggestCompletions(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < minSuggestPrefix {
		return nil
	}

	var out []string
	for _, w := range bip39.GetWordList() {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// Closest returns the wordlist entry with the smallest edit distance to word.
// Ties resolve to the earlier entry.
func Closest(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}

	dmp := diffmatchpatch.New()
	best, bestDist := "", -1
	for _, w := range bip39.GetWordList() {
		d := dmp.DiffLevenshtein(dmp.DiffMain(word, w, false))
		if bestDist < 0 || d < bestDist {
			best, bestDist = w, d
			if d == 0 {
				break
			}
		}
	}
	return best
}
