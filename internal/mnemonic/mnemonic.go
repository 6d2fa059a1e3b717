package mnemonic

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// entropyBits maps supported word counts to BIP-39 entropy sizes.
var entropyBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	24: 256,
}

// DefaultWordCount is the phrase length used when none is requested.
const DefaultWordCount = 12

// SupportedLengths lists the accepted word counts in ascending order.
var SupportedLengths = []int{12, 15, 18, 24}

// IsSupportedLength reports whether n is an accepted word count.
func IsSupportedLength(n int) bool {
	_, ok := entropyBits[n]
	return ok
}

// Mnemonic is a validated recovery phrase.
type Mnemonic struct {
	words []string
}

// Words returns a copy of the phrase words.
func (m Mnemonic) Words() []string {
	return append([]string(nil), m.words...)
}

// Word returns the word at position i.
func (m Mnemonic) Word(i int) string {
	return m.words[i]
}

// Len returns the number of words.
func (m Mnemonic) Len() int {
	return len(m.words)
}

// String returns the space-separated phrase.
func (m Mnemonic) String() string {
	return strings.Join(m.words, " ")
}

// IsZero reports whether m holds no phrase.
func (m Mnemonic) IsZero() bool {
	return len(m.words) == 0
}

// Generate creates a new random mnemonic with the given number of words.
func Generate(wordCount int) (Mnemonic, error) {
	return GenerateFrom(rand.Reader, wordCount)
}

// GenerateFrom is Generate with an explicit entropy source.
func GenerateFrom(r io.Reader, wordCount int) (Mnemonic, error) {
	bits, ok := entropyBits[wordCount]
	if !ok {
		return Mnemonic{}, fmt.Errorf("%w: %d words", ErrUnsupportedLength, wordCount)
	}

	entropy := make([]byte, bits/8)
	defer clear(entropy)
	if _, err := io.ReadFull(r, entropy); err != nil {
		return Mnemonic{}, fmt.Errorf("%w: %v", ErrEntropySource, err)
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Mnemonic{}, fmt.Errorf("%w: %v", ErrEntropySource, err)
	}
	return Mnemonic{words: strings.Fields(phrase)}, nil
}

// ParsePhrase splits a pasted phrase on whitespace and validates it.
func ParsePhrase(phrase string) (Mnemonic, error) {
	return Parse(strings.Fields(phrase))
}

// Parse validates an ordered list of words. Words are matched
// case-insensitively after trimming.
func Parse(words []string) (Mnemonic, error) {
	if !IsSupportedLength(len(words)) {
		return Mnemonic{}, fmt.Errorf("%w: %d words", ErrUnsupportedLength, len(words))
	}

	normalized := make([]string, len(words))
	for i, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if _, ok := bip39.GetWordIndex(w); !ok {
			return Mnemonic{}, &InvalidWordError{Position: i, Word: w, Closest: Closest(w)}
		}
		normalized[i] = w
	}

	phrase := strings.Join(normalized, " ")
	if _, err := bip39.EntropyFromMnemonic(phrase); err != nil {
		if errors.Is(err, bip39.ErrChecksumIncorrect) {
			return Mnemonic{}, fmt.Errorf("%w: checksum mismatch", ErrInvalidMnemonic)
		}
		return Mnemonic{}, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}

	return Mnemonic{words: normalized}, nil
}
