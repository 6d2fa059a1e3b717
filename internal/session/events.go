package session

import "context"

// Event names written to the log. Attributes never include secrets.
const (
	EventSeedGenerated          = "create_wallet_seed_generated"
	EventSeedVerified           = "create_wallet_seed_verified"
	EventSeedVerificationFailed = "create_wallet_seed_verification_failed"
	EventOnboardingCancelled    = "onboarding_cancelled"
	EventPasswordFail           = "onboarding_password_fail"
	EventImportFailed           = "import_wallet_failed"
	EventOnboardingSuccess      = "onboarding_success"
	EventRegistrationFailed     = "registration_failed"
	EventUnlocked               = "wallet_unlocked"
	EventUnlockFailed           = "wallet_unlock_failed"
	EventLocked                 = "wallet_locked"
	EventDisconnected           = "wallet_disconnected"
	EventPasswordChanged        = "wallet_password_changed"
	EventKeystoreExported       = "wallet_keystore_exported"
	EventTransferSubmitted      = "transfer_submitted"
)

// Reasons attached to password and lock events.
const (
	ReasonRequirementsNotMet = "requirements_not_met"
	ReasonPasswordsMismatch  = "passwords_do_not_match"
	ReasonTimeout            = "inactivity"
	ReasonExplicit           = "explicit"
)

func (c *Controller) emit(ctx context.Context, event string, args ...any) {
	c.log.Info(ctx, event, args...)
}
