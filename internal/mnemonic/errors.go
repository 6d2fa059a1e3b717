package mnemonic

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrUnsupportedLength = errors.New("unsupported mnemonic length")
	ErrEntropySource     = errors.New("entropy source failure")
)

// InvalidWordError reports a word that is not in the wordlist.
// Closest is the nearest wordlist entry, offered as a correction hint.
type InvalidWordError struct {
	Position int
	Word     string
	Closest  string
}

func (e *InvalidWordError) Error() string {
	if e.Closest == "" {
		return fmt.Sprintf("word %d %q is not in the wordlist", e.Position+1, e.Word)
	}
	return fmt.Sprintf("word %d %q is not in the wordlist (did you mean %q?)", e.Position+1, e.Word, e.Closest)
}

func (e *InvalidWordError) Is(target error) bool {
	return target == ErrInvalidMnemonic
}
