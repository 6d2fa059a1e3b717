// Package session owns the wallet session state machine.
//
// A Controller holds exactly one of three states:
//
//	Disconnected   no vault persisted (a create flow may be pending)
//	Locked         a vault is persisted, no key in memory
//	Unlocked       the private key is held in memory
//
// All transitions go through the Controller under one mutex. Slow work
// (KDF, store I/O, registry calls) runs outside the lock, and a generation
// counter makes results that arrive after the state moved on get
// discarded, so a late unlock can never bring a key back after Disconnect.
//
// While Unlocked an IdleTimer locks the session after a period without
// Touch calls.
package session
