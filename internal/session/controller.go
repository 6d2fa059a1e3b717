package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/illarion/seedlock/internal/backup"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/ledger"
	"github.com/illarion/seedlock/internal/logging"
	"github.com/illarion/seedlock/internal/mnemonic"
	"github.com/illarion/seedlock/internal/password"
	"github.com/illarion/seedlock/internal/registry"
	"github.com/illarion/seedlock/internal/storage"
	"github.com/illarion/seedlock/internal/vault"
)

// Options configures a Controller. Store is required.
type Options struct {
	Store    storage.Store
	Registry registry.Registry
	Ledger   ledger.Ledger
	Logger   logging.Logger

	// KDF is used when sealing new vaults. Zero value means argon2id defaults.
	KDF crypto.KDFParams
	// KeystoreKDF is used for keystore exports. Zero value means the
	// standard scrypt cost.
	KeystoreKDF crypto.KDFParams
	LockTimeout time.Duration

	// UnlockLimit caps password attempts against the stored vault.
	// Zero disables limiting.
	UnlockLimit rate.Limit
	UnlockBurst int

	// OnLock, if set, is called after every transition to Locked.
	OnLock func(reason string)

	Entropy io.Reader
	Now     func() time.Time
}

// Controller is the single authority over the wallet session.
type Controller struct {
	store    storage.Store
	registry registry.Registry
	ledger   ledger.Ledger
	log      logging.Logger
	kdf      crypto.KDFParams
	ksKDF    crypto.KDFParams
	limiter  *rate.Limiter
	onLock   func(reason string)
	entropy  io.Reader
	now      func() time.Time
	timer    *IdleTimer

	mu        sync.Mutex
	kind      Kind
	address   string
	key       []byte
	pending   *Onboarding
	gen       uint64
	idleEpoch uint64
	closed    bool
}

// New builds a Controller and sets its initial state from the store:
// Locked if a vault is persisted, otherwise Disconnected.
func New(ctx context.Context, opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, errors.New("session: store is required")
	}

	c := &Controller{
		store:    opts.Store,
		registry: opts.Registry,
		ledger:   opts.Ledger,
		log:      opts.Logger,
		kdf:      opts.KDF,
		ksKDF:    opts.KeystoreKDF,
		onLock:   opts.OnLock,
		entropy:  opts.Entropy,
		now:      opts.Now,
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	c.log = c.log.With("component", "session")
	if c.kdf.Name == "" {
		c.kdf = crypto.DefaultArgon2id()
	}
	if c.ksKDF.Name == "" {
		c.ksKDF = crypto.DefaultScrypt()
	}
	if c.entropy == nil {
		c.entropy = rand.Reader
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.UnlockLimit > 0 {
		c.limiter = rate.NewLimiter(opts.UnlockLimit, max(opts.UnlockBurst, 1))
	}
	c.timer = NewIdleTimer(opts.LockTimeout, c.onIdle)

	md, err := c.store.LockMetadata(ctx)
	switch {
	case err == nil:
		c.kind = Locked
		c.address = md.Address
	case errors.Is(err, storage.ErrNotFound):
		c.kind = Disconnected
	case errors.Is(err, vault.ErrCorruptVault):
		// unlock will report a decryption error; disconnect still works
		c.log.Warn(ctx, "stored vault is unreadable")
		c.kind = Locked
	default:
		return nil, fmt.Errorf("failed to read stored vault: %w", err)
	}
	return c, nil
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Kind: c.kind, Address: c.address, Onboarding: c.pending != nil}
}

// LockMetadata returns the public data of the stored vault.
func (c *Controller) LockMetadata(ctx context.Context) (storage.Metadata, error) {
	md, err := c.store.LockMetadata(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Metadata{}, ErrNoVaultFound
	}
	return md, err
}

// Pending returns the in-progress create flow, or nil.
func (c *Controller) Pending() *Onboarding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// CreateWallet generates a new recovery phrase and starts a create flow.
// Nothing is persisted until ConfirmBackupAndSetPassword succeeds.
func (c *Controller) CreateWallet(ctx context.Context, wordCount int) (*Onboarding, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(Disconnected); err != nil {
		return nil, err
	}

	phrase, err := mnemonic.GenerateFrom(c.entropy, wordCount)
	if err != nil {
		return nil, err
	}
	quiz, err := backup.NewQuizFrom(phrase, c.entropy)
	if err != nil {
		return nil, err
	}

	c.pending = &Onboarding{phrase: phrase, quiz: quiz}
	c.emit(ctx, EventSeedGenerated, "word_count", wordCount)
	return c.pending, nil
}

// VerifyBackup checks answers against the pending challenge. The returned
// flags mark which answers were wrong; only those need re-entry.
func (c *Controller) VerifyBackup(ctx context.Context, answers []string) ([]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(Disconnected); err != nil {
		return nil, err
	}
	if c.pending == nil {
		return nil, ErrInvalidState
	}

	wrong := c.pending.quiz.Check(answers)
	if c.pending.quiz.Passed() {
		c.emit(ctx, EventSeedVerified)
	} else {
		c.emit(ctx, EventSeedVerificationFailed)
	}
	return wrong, nil
}

// CancelOnboarding drops a pending create flow.
func (c *Controller) CancelOnboarding(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.pending = nil
		c.gen++
		c.emit(ctx, EventOnboardingCancelled)
	}
}

// ConfirmBackupAndSetPassword finishes a create flow: the backup quiz must
// have been passed and the password must satisfy the policy and match
// confirm. On success the vault is persisted and the session is Unlocked.
//
// A registry failure is returned wrapped in ErrRegistration with the
// session already Unlocked.
func (c *Controller) ConfirmBackupAndSetPassword(ctx context.Context, pw, confirm string) (Login, error) {
	c.mu.Lock()
	if err := c.usable(Disconnected); err != nil {
		c.mu.Unlock()
		return Login{}, err
	}
	if c.pending == nil {
		c.mu.Unlock()
		return Login{}, ErrInvalidState
	}
	if !c.pending.quiz.Passed() {
		c.mu.Unlock()
		return Login{}, ErrBackupNotVerified
	}
	if err := c.checkPassword(ctx, pw, confirm); err != nil {
		c.mu.Unlock()
		return Login{}, err
	}
	phrase := c.pending.phrase
	gen := c.gen
	c.mu.Unlock()

	return c.establish(ctx, gen, phrase, pw)
}

// ImportWallet restores a wallet from an existing recovery phrase.
func (c *Controller) ImportWallet(ctx context.Context, words []string, pw, confirm string) (Login, error) {
	c.mu.Lock()
	if err := c.usable(Disconnected); err != nil {
		c.mu.Unlock()
		return Login{}, err
	}
	phrase, err := mnemonic.Parse(words)
	if err != nil {
		c.mu.Unlock()
		c.emit(ctx, EventImportFailed, "reason", "invalid_mnemonic")
		return Login{}, err
	}
	if err := c.checkPassword(ctx, pw, confirm); err != nil {
		c.mu.Unlock()
		return Login{}, err
	}
	// an import supersedes any half-finished create flow
	c.pending = nil
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	return c.establish(ctx, gen, phrase, pw)
}

// ImportKeystore restores a wallet from keystore v3 JSON. keystorePw opens
// the file; pw and confirm become the wallet password.
func (c *Controller) ImportKeystore(ctx context.Context, keyJSON []byte, keystorePw, pw, confirm string) (Login, error) {
	c.mu.Lock()
	if err := c.usable(Disconnected); err != nil {
		c.mu.Unlock()
		return Login{}, err
	}
	if err := c.checkPassword(ctx, pw, confirm); err != nil {
		c.mu.Unlock()
		return Login{}, err
	}
	c.pending = nil
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	key, err := vault.ImportKeystore(keyJSON, keystorePw)
	if err != nil {
		c.emit(ctx, EventImportFailed, "reason", "invalid_keystore")
		return Login{}, err
	}
	address, err := mnemonic.AddressOf(key)
	if err != nil {
		crypto.ClearBytes(key)
		c.emit(ctx, EventImportFailed, "reason", "invalid_keystore")
		return Login{}, err
	}
	return c.establishKey(ctx, gen, mnemonic.KeyMaterial{Address: address, PrivateKey: key}, pw)
}

// establish derives the key pair for phrase and hands it to establishKey.
func (c *Controller) establish(ctx context.Context, gen uint64, phrase mnemonic.Mnemonic, pw string) (Login, error) {
	km, err := mnemonic.DeriveKeyPair(phrase)
	if err != nil {
		return Login{}, err
	}
	return c.establishKey(ctx, gen, km, pw)
}

// establishKey seals km outside the lock, then persists and switches to
// Unlocked if nothing changed meanwhile. It takes ownership of km.
func (c *Controller) establishKey(ctx context.Context, gen uint64, km mnemonic.KeyMaterial, pw string) (Login, error) {
	pwBytes := []byte(pw)
	v, err := vault.Seal(km.Address, km.PrivateKey, pwBytes, c.kdf)
	crypto.ClearBytes(pwBytes)
	if err != nil {
		km.Wipe()
		return Login{}, fmt.Errorf("failed to seal wallet: %w", err)
	}

	c.mu.Lock()
	if c.gen != gen || c.kind != Disconnected || c.closed {
		c.mu.Unlock()
		km.Wipe()
		return Login{}, ErrSessionChanged
	}
	if err := c.store.Save(ctx, v); err != nil {
		c.mu.Unlock()
		km.Wipe()
		return Login{}, fmt.Errorf("failed to save wallet: %w", err)
	}
	c.pending = nil
	c.enterUnlocked(km.Address, km.PrivateKey)
	c.mu.Unlock()

	login := Login{Address: km.Address}
	if c.registry == nil {
		c.emit(ctx, EventOnboardingSuccess, "is_new_user", false)
		return login, nil
	}

	user, err := c.registry.RegisterOrFetchUser(ctx, km.Address)
	if err != nil {
		c.log.Warn(ctx, EventRegistrationFailed, "address", km.Address, "error", err)
		return login, fmt.Errorf("%w: %w", ErrRegistration, err)
	}
	login.User = user
	login.NewUser = user.IsNew(c.now())
	c.emit(ctx, EventOnboardingSuccess, "is_new_user", login.NewUser)
	return login, nil
}

// Unlock decrypts the stored vault. A wrong password and a damaged vault
// both return vault.ErrDecryption and leave the session Locked.
func (c *Controller) Unlock(ctx context.Context, pw string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrInvalidState
	}
	switch c.kind {
	case Disconnected:
		c.mu.Unlock()
		return ErrNoVaultFound
	case Unlocked:
		c.mu.Unlock()
		return ErrInvalidState
	}
	if err := c.allowAttempt(); err != nil {
		c.mu.Unlock()
		return err
	}
	gen := c.gen
	c.mu.Unlock()

	v, err := c.store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNoVaultFound
	}
	if err != nil && !errors.Is(err, vault.ErrCorruptVault) {
		return fmt.Errorf("failed to load wallet: %w", err)
	}

	var key []byte
	if err == nil {
		pwBytes := []byte(pw)
		key, err = vault.Open(v, pwBytes)
		crypto.ClearBytes(pwBytes)
	}
	if err != nil {
		c.emit(ctx, EventUnlockFailed)
		return vault.ErrDecryption
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.kind != Locked || c.closed {
		crypto.ClearBytes(key)
		return ErrSessionChanged
	}
	c.enterUnlocked(v.Address, key)
	c.emit(ctx, EventUnlocked, "address", v.Address)
	return nil
}

// Lock discards the in-memory key. Locking a Locked session is a no-op.
func (c *Controller) Lock(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.kind {
	case Unlocked:
		c.enterLocked(ctx, ReasonExplicit)
		return nil
	case Locked:
		return nil
	default:
		return ErrInvalidState
	}
}

// Disconnect deletes the stored vault and ends the session from any state.
func (c *Controller) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.timer.Disarm()
	c.wipeKey()
	c.pending = nil

	if err := c.store.Delete(ctx); err != nil {
		// the vault may still be on disk
		if c.kind != Disconnected {
			c.kind = Locked
		}
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	c.kind = Disconnected
	c.address = ""
	c.emit(ctx, EventDisconnected)
	return nil
}

// Touch records user activity. It reports whether the inactivity
// countdown was restarted, which only happens while Unlocked.
func (c *Controller) Touch(a Activity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kind != Unlocked {
		return false
	}
	return c.timer.Reset()
}

// LockTimeout is the inactivity period before an automatic lock.
func (c *Controller) LockTimeout() time.Duration {
	return c.timer.Timeout()
}

// Close wipes key material and stops the timer. The store is not closed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.gen++
	c.timer.Disarm()
	c.wipeKey()
	c.pending = nil
	if c.kind == Unlocked {
		c.kind = Locked
	}
	return nil
}

func (c *Controller) onIdle(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kind != Unlocked || epoch != c.idleEpoch {
		return
	}
	c.enterLocked(context.Background(), ReasonTimeout)
}

// enterUnlocked takes ownership of key. Caller holds c.mu.
func (c *Controller) enterUnlocked(address string, key []byte) {
	c.wipeKey()
	c.kind = Unlocked
	c.address = address
	c.key = key
	c.gen++
	c.idleEpoch = c.timer.Arm()
}

// enterLocked discards the key. Caller holds c.mu.
func (c *Controller) enterLocked(ctx context.Context, reason string) {
	c.timer.Disarm()
	c.wipeKey()
	c.kind = Locked
	c.gen++
	c.emit(ctx, EventLocked, "reason", reason)
	if c.onLock != nil {
		go c.onLock(reason)
	}
}

func (c *Controller) wipeKey() {
	crypto.ClearBytes(c.key)
	c.key = nil
}

// usable checks that the controller is open and in state want.
func (c *Controller) usable(want Kind) error {
	if c.closed || c.kind != want {
		return ErrInvalidState
	}
	return nil
}

func (c *Controller) allowAttempt() error {
	if c.limiter != nil && !c.limiter.Allow() {
		return ErrTooManyAttempts
	}
	return nil
}

func (c *Controller) checkPassword(ctx context.Context, pw, confirm string) error {
	err := password.Check(pw, confirm)
	switch {
	case errors.Is(err, password.ErrPolicyViolation):
		c.emit(ctx, EventPasswordFail, "reason", ReasonRequirementsNotMet)
	case errors.Is(err, password.ErrPasswordMismatch):
		c.emit(ctx, EventPasswordFail, "reason", ReasonPasswordsMismatch)
	}
	return err
}
