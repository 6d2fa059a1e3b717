// Package backup quizzes the user on a few words of a freshly generated
// recovery phrase to confirm it was written down.
package backup

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/illarion/seedlock/internal/mnemonic"
)

// ChallengeSize is the number of words asked for.
const ChallengeSize = 3

var ErrTooShort = errors.New("mnemonic shorter than challenge")

// Challenge picks ChallengeSize distinct word positions uniformly at random.
func Challenge(m mnemonic.Mnemonic) ([]int, error) {
	return ChallengeFrom(m, rand.Reader)
}

// ChallengeFrom is Challenge with an explicit randomness source.
func ChallengeFrom(m mnemonic.Mnemonic, r io.Reader) ([]int, error) {
	n := m.Len()
	if n < ChallengeSize {
		return nil, fmt.Errorf("%w: %d words", ErrTooShort, n)
	}

	// partial Fisher-Yates over the positions
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	for i := 0; i < ChallengeSize; i++ {
		j, err := rand.Int(r, big.NewInt(int64(n-i)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", mnemonic.ErrEntropySource, err)
		}
		k := i + int(j.Int64())
		positions[i], positions[k] = positions[k], positions[i]
	}
	return append([]int(nil), positions[:ChallengeSize]...), nil
}

// Verify reports whether every answer matches the word at its challenged
// position. Answers are compared case-insensitively after trimming.
func Verify(m mnemonic.Mnemonic, indices []int, answers []string) bool {
	mismatches, ok := compare(m, indices, answers)
	if !ok {
		return false
	}
	for _, bad := range mismatches {
		if bad {
			return false
		}
	}
	return true
}

func compare(m mnemonic.Mnemonic, indices []int, answers []string) ([]bool, bool) {
	if len(indices) != ChallengeSize || len(answers) != len(indices) {
		return nil, false
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= m.Len() || seen[idx] {
			return nil, false
		}
		seen[idx] = true
	}

	mismatches := make([]bool, len(indices))
	for i, idx := range indices {
		mismatches[i] = !strings.EqualFold(strings.TrimSpace(answers[i]), m.Word(idx))
	}
	return mismatches, true
}

// Quiz is one backup confirmation round.
type Quiz struct {
	phrase  mnemonic.Mnemonic
	indices []int
	passed  bool
}

// NewQuiz draws a fresh challenge for m.
func NewQuiz(m mnemonic.Mnemonic) (*Quiz, error) {
	return NewQuizFrom(m, rand.Reader)
}

// NewQuizFrom is NewQuiz with an explicit randomness source.
func NewQuizFrom(m mnemonic.Mnemonic, r io.Reader) (*Quiz, error) {
	indices, err := ChallengeFrom(m, r)
	if err != nil {
		return nil, err
	}
	return &Quiz{phrase: m, indices: indices}, nil
}

// Indices returns the challenged positions, zero-based, in asking order.
func (q *Quiz) Indices() []int {
	return append([]int(nil), q.indices...)
}

// Check compares answers and returns, per challenged position, whether the
// answer was wrong. Only the wrong inputs need to be re-entered.
func (q *Quiz) Check(answers []string) []bool {
	mismatches, ok := compare(q.phrase, q.indices, answers)
	if !ok {
		mismatches = make([]bool, len(q.indices))
		for i := range mismatches {
			mismatches[i] = true
		}
		return mismatches
	}

	passed := true
	for _, bad := range mismatches {
		if bad {
			passed = false
		}
	}
	if passed {
		q.passed = true
	}
	return mismatches
}

// Passed reports whether a previous Check succeeded.
func (q *Quiz) Passed() bool {
	return q.passed
}
