package session

import (
	"github.com/illarion/seedlock/internal/backup"
	"github.com/illarion/seedlock/internal/mnemonic"
)

// Onboarding is a pending create flow: a freshly generated phrase and its
// backup quiz. It lives only in memory and is dropped on completion,
// cancellation or disconnect.
type Onboarding struct {
	phrase mnemonic.Mnemonic
	quiz   *backup.Quiz
}

// Words returns the recovery phrase to show the user.
func (o *Onboarding) Words() []string {
	return o.phrase.Words()
}

// WordCount is the phrase length.
func (o *Onboarding) WordCount() int {
	return o.phrase.Len()
}

// Challenge returns the zero-based word positions the user must re-enter.
func (o *Onboarding) Challenge() []int {
	return o.quiz.Indices()
}

// Verified reports whether the backup quiz has been passed.
func (o *Onboarding) Verified() bool {
	return o.quiz.Passed()
}
