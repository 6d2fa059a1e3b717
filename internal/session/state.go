package session

import "github.com/illarion/seedlock/internal/registry"

// Kind is the session state tag.
type Kind int

const (
	Disconnected Kind = iota
	Locked
	Unlocked
)

func (k Kind) String() string {
	switch k {
	case Disconnected:
		return "disconnected"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. It never carries key material.
// A recovery phrase is only available while an Onboarding is pending;
// an unlocked session cannot show one.
type State struct {
	Kind    Kind
	Address string
	// Onboarding is true while a created wallet waits for backup
	// confirmation.
	Onboarding bool
}

// Login is the outcome of a completed create or import flow.
type Login struct {
	Address string
	User    registry.User
	NewUser bool
}
