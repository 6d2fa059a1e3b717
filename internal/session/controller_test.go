package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/ledger"
	"github.com/illarion/seedlock/internal/mnemonic"
	"github.com/illarion/seedlock/internal/password"
	"github.com/illarion/seedlock/internal/registry"
	"github.com/illarion/seedlock/internal/storage"
	"github.com/illarion/seedlock/internal/vault"
)

const (
	strongPassword = "Str0ng!Pw"
	abandonPhrase  = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
)

func fastKDF() crypto.KDFParams {
	return crypto.KDFParams{Name: crypto.KDFArgon2id, Time: 1, MemoryKiB: 64, Threads: 1}
}

func openStore(t *testing.T, path string) *storage.BoltStore {
	t.Helper()
	s, err := storage.OpenBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newController(t *testing.T, store storage.Store, mutate ...func(*Options)) *Controller {
	t.Helper()
	opts := Options{
		Store:       store,
		KDF:         fastKDF(),
		KeystoreKDF: crypto.KDFParams{Name: crypto.KDFScrypt, N: keystore.LightScryptN, R: 8, P: keystore.LightScryptP},
		LockTimeout: time.Hour,
	}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func tempStore(t *testing.T) *storage.BoltStore {
	return openStore(t, filepath.Join(t.TempDir(), storage.DefaultFileName))
}

// answersFor returns the correct quiz answers for a pending create flow.
func answersFor(o *Onboarding) []string {
	words := o.Words()
	var answers []string
	for _, idx := range o.Challenge() {
		answers = append(answers, words[idx])
	}
	return answers
}

func importAbandon(t *testing.T, c *Controller) {
	t.Helper()
	m, err := mnemonic.ParsePhrase(abandonPhrase)
	require.NoError(t, err)
	_, err = c.ImportWallet(context.Background(), m.Words(), strongPassword, strongPassword)
	require.NoError(t, err)
}

func TestEndToEnd_CreateRestartUnlock(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), storage.DefaultFileName)
	store := openStore(t, path)

	c := newController(t, store)
	require.Equal(t, Disconnected, c.State().Kind)

	o, err := c.CreateWallet(ctx, 12)
	require.NoError(t, err)
	require.Len(t, o.Words(), 12)
	require.Len(t, o.Challenge(), 3)
	assert.True(t, c.State().Onboarding)

	wrong, err := c.VerifyBackup(ctx, answersFor(o))
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false}, wrong)

	login, err := c.ConfirmBackupAndSetPassword(ctx, strongPassword, strongPassword)
	require.NoError(t, err)
	st := c.State()
	require.Equal(t, Unlocked, st.Kind)
	assert.Equal(t, login.Address, st.Address)
	assert.False(t, st.Onboarding)

	// restart
	require.NoError(t, c.Close())
	require.NoError(t, store.Close())
	store = openStore(t, path)
	c = newController(t, store)

	st = c.State()
	require.Equal(t, Locked, st.Kind)
	assert.Equal(t, login.Address, st.Address)

	err = c.Unlock(ctx, "wrong")
	require.ErrorIs(t, err, vault.ErrDecryption)
	assert.Equal(t, Locked, c.State().Kind)

	require.NoError(t, c.Unlock(ctx, strongPassword))
	st = c.State()
	assert.Equal(t, Unlocked, st.Kind)
	assert.Equal(t, login.Address, st.Address)
}

func TestCreateWallet_Lengths(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))

	for _, n := range mnemonic.SupportedLengths {
		o, err := c.CreateWallet(ctx, n)
		require.NoError(t, err)
		assert.Len(t, o.Words(), n)
	}

	_, err := c.CreateWallet(ctx, 13)
	assert.ErrorIs(t, err, mnemonic.ErrUnsupportedLength)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestCreateWallet_EntropyFailure(t *testing.T) {
	c := newController(t, tempStore(t), func(o *Options) { o.Entropy = failingReader{} })

	_, err := c.CreateWallet(context.Background(), 12)
	require.ErrorIs(t, err, mnemonic.ErrEntropySource)
	assert.Nil(t, c.Pending())
	assert.Equal(t, Disconnected, c.State().Kind)
}

func TestConfirm_RequiresVerifiedBackup(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))

	_, err := c.ConfirmBackupAndSetPassword(ctx, strongPassword, strongPassword)
	assert.ErrorIs(t, err, ErrInvalidState, "no pending flow")

	o, err := c.CreateWallet(ctx, 12)
	require.NoError(t, err)

	_, err = c.ConfirmBackupAndSetPassword(ctx, strongPassword, strongPassword)
	assert.ErrorIs(t, err, ErrBackupNotVerified)

	answers := answersFor(o)
	answers[1] = "zzzz"
	wrong, err := c.VerifyBackup(ctx, answers)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, wrong)
	assert.False(t, o.Verified())

	_, err = c.ConfirmBackupAndSetPassword(ctx, strongPassword, strongPassword)
	assert.ErrorIs(t, err, ErrBackupNotVerified)

	// only the wrong input is re-entered
	answers[1] = "  " + o.Words()[o.Challenge()[1]] + " "
	wrong, err = c.VerifyBackup(ctx, answers)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false}, wrong)
	assert.True(t, o.Verified())

	_, err = c.ConfirmBackupAndSetPassword(ctx, strongPassword, strongPassword)
	require.NoError(t, err)
	assert.Equal(t, Unlocked, c.State().Kind)
}

func TestConfirm_PasswordFailuresKeepFlow(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)
	c := newController(t, store)

	o, err := c.CreateWallet(ctx, 12)
	require.NoError(t, err)
	_, err = c.VerifyBackup(ctx, answersFor(o))
	require.NoError(t, err)

	_, err = c.ConfirmBackupAndSetPassword(ctx, "abcdefgh", "abcdefgh")
	var pe *password.PolicyError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Failed, password.RuleUppercase)

	_, err = c.ConfirmBackupAndSetPassword(ctx, strongPassword, "Str0ng!Px")
	assert.ErrorIs(t, err, password.ErrPasswordMismatch)

	assert.Equal(t, Disconnected, c.State().Kind)
	assert.Same(t, o, c.Pending())
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = c.ConfirmBackupAndSetPassword(ctx, strongPassword, strongPassword)
	require.NoError(t, err)
}

func TestCancelOnboarding(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))

	_, err := c.CreateWallet(ctx, 12)
	require.NoError(t, err)
	c.CancelOnboarding(ctx)

	assert.Nil(t, c.Pending())
	_, err = c.VerifyBackup(ctx, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestImportWallet(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))

	words := []string{"abandon", "abandon", "abandon", "abandon", "abandon", "abandon",
		"abandon", "abandon", "abandon", "abandon", "abandon", "above"}
	_, err := c.ImportWallet(ctx, words, strongPassword, strongPassword)
	assert.ErrorIs(t, err, mnemonic.ErrInvalidMnemonic)

	_, err = c.ImportWallet(ctx, words[:11], strongPassword, strongPassword)
	assert.ErrorIs(t, err, mnemonic.ErrUnsupportedLength)

	words[11] = "ABOUT"
	_, err = c.ImportWallet(ctx, words, "password", "password")
	assert.ErrorIs(t, err, password.ErrPolicyViolation)
	assert.Equal(t, Disconnected, c.State().Kind)

	login, err := c.ImportWallet(ctx, words, strongPassword, strongPassword)
	require.NoError(t, err)
	assert.Equal(t, abandonAddress, login.Address)
	assert.Equal(t, State{Kind: Unlocked, Address: abandonAddress}, c.State())

	_, err = c.ImportWallet(ctx, words, strongPassword, strongPassword)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = c.CreateWallet(ctx, 12)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestImportWallet_DropsPendingCreate(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))

	_, err := c.CreateWallet(ctx, 12)
	require.NoError(t, err)
	importAbandon(t, c)
	assert.Nil(t, c.Pending())
}

func TestLockAndUnlock(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))

	assert.ErrorIs(t, c.Lock(ctx), ErrInvalidState)
	assert.ErrorIs(t, c.Unlock(ctx, strongPassword), ErrNoVaultFound)

	importAbandon(t, c)
	assert.ErrorIs(t, c.Unlock(ctx, strongPassword), ErrInvalidState)

	require.NoError(t, c.Lock(ctx))
	assert.Equal(t, State{Kind: Locked, Address: abandonAddress}, c.State())
	require.NoError(t, c.Lock(ctx), "locking twice is a no-op")

	assert.False(t, c.Touch(KeyPress), "activity while locked does nothing")

	require.NoError(t, c.Unlock(ctx, strongPassword))
	assert.Equal(t, Unlocked, c.State().Kind)
}

func TestLockMetadata(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))

	_, err := c.LockMetadata(ctx)
	assert.ErrorIs(t, err, ErrNoVaultFound)

	importAbandon(t, c)
	md, err := c.LockMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, abandonAddress, md.Address)
}

func TestInactivityLock(t *testing.T) {
	ctx := context.Background()
	locked := make(chan string, 1)
	c := newController(t, tempStore(t), func(o *Options) {
		o.LockTimeout = 50 * time.Millisecond
		o.OnLock = func(reason string) { locked <- reason }
	})

	importAbandon(t, c)
	require.Equal(t, Unlocked, c.State().Kind)

	select {
	case reason := <-locked:
		assert.Equal(t, ReasonTimeout, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not lock after inactivity")
	}
	assert.Equal(t, State{Kind: Locked, Address: abandonAddress}, c.State())

	// the key is gone; only the password brings it back
	_, err := c.Balance(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
	require.NoError(t, c.Unlock(ctx, strongPassword))
}

func TestActivityPostponesLock(t *testing.T) {
	c := newController(t, tempStore(t), func(o *Options) { o.LockTimeout = 150 * time.Millisecond })
	importAbandon(t, c)

	deadline := time.Now().Add(450 * time.Millisecond)
	for time.Now().Before(deadline) {
		require.True(t, c.Touch(PointerMove))
		time.Sleep(30 * time.Millisecond)
	}
	assert.Equal(t, Unlocked, c.State().Kind)

	require.Eventually(t, func() bool { return c.State().Kind == Locked }, 2*time.Second, 10*time.Millisecond)
}

func TestExplicitLockDisarmsTimer(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	var reasons []string
	c := newController(t, tempStore(t), func(o *Options) {
		o.LockTimeout = 80 * time.Millisecond
		o.OnLock = func(r string) {
			mu.Lock()
			reasons = append(reasons, r)
			mu.Unlock()
		}
	})
	importAbandon(t, c)

	require.NoError(t, c.Lock(ctx))
	assert.False(t, c.timer.Armed())
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{ReasonExplicit}, reasons)
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("from unlocked", func(t *testing.T) {
		store := tempStore(t)
		c := newController(t, store)
		importAbandon(t, c)

		require.NoError(t, c.Disconnect(ctx))
		assert.Equal(t, State{Kind: Disconnected}, c.State())
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, c.Unlock(ctx, strongPassword), ErrNoVaultFound)
		assert.False(t, c.timer.Armed())
	})

	t.Run("from locked", func(t *testing.T) {
		store := tempStore(t)
		c := newController(t, store)
		importAbandon(t, c)
		require.NoError(t, c.Lock(ctx))

		require.NoError(t, c.Disconnect(ctx))
		assert.Equal(t, Disconnected, c.State().Kind)
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("from disconnected with pending flow", func(t *testing.T) {
		c := newController(t, tempStore(t))
		_, err := c.CreateWallet(ctx, 12)
		require.NoError(t, err)

		require.NoError(t, c.Disconnect(ctx))
		assert.Nil(t, c.Pending())
	})
}

// gatedStore blocks Load until released.
type gatedStore struct {
	storage.Store
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (g *gatedStore) Load(ctx context.Context) (*vault.EncryptedVault, error) {
	v, err := g.Store.Load(ctx)
	g.once.Do(func() { close(g.started) })
	<-g.release
	return v, err
}

func TestLateUnlockAfterDisconnect(t *testing.T) {
	ctx := context.Background()
	inner := tempStore(t)

	setup := newController(t, inner)
	importAbandon(t, setup)
	require.NoError(t, setup.Close())

	gated := &gatedStore{Store: inner, started: make(chan struct{}), release: make(chan struct{})}
	c := newController(t, gated)
	require.Equal(t, Locked, c.State().Kind)

	done := make(chan error, 1)
	go func() { done <- c.Unlock(ctx, strongPassword) }()

	<-gated.started
	require.NoError(t, c.Disconnect(ctx))
	close(gated.release)

	err := <-done
	require.ErrorIs(t, err, ErrSessionChanged)
	assert.Equal(t, State{Kind: Disconnected}, c.State())
	assert.Nil(t, c.key)
}

func newGatedStore(t *testing.T) *gatedStore {
	return &gatedStore{Store: tempStore(t), started: make(chan struct{}), release: make(chan struct{})}
}

func TestChangePasswordDoesNotHoldLock(t *testing.T) {
	ctx := context.Background()
	gated := newGatedStore(t)
	c := newController(t, gated)
	importAbandon(t, c)

	const next = "N3w!Passw0rd"
	done := make(chan error, 1)
	go func() { done <- c.ChangePassword(ctx, strongPassword, next, next) }()

	<-gated.started
	assert.Equal(t, Unlocked, c.State().Kind)
	assert.True(t, c.Touch(KeyPress))
	require.NoError(t, c.Lock(ctx))
	close(gated.release)

	require.ErrorIs(t, <-done, ErrSessionChanged)
	require.NoError(t, c.Unlock(ctx, strongPassword))
}

func TestExportKeystoreAfterLock(t *testing.T) {
	ctx := context.Background()
	gated := newGatedStore(t)
	c := newController(t, gated)
	importAbandon(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.ExportKeystore(ctx, strongPassword)
		done <- err
	}()

	<-gated.started
	require.NoError(t, c.Lock(ctx))
	close(gated.release)

	require.ErrorIs(t, <-done, ErrSessionChanged)
	assert.Equal(t, Locked, c.State().Kind)
}

func TestUnlockRateLimit(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)
	setup := newController(t, store)
	importAbandon(t, setup)
	require.NoError(t, setup.Close())

	c := newController(t, store, func(o *Options) {
		o.UnlockLimit = rate.Every(time.Hour)
		o.UnlockBurst = 2
	})

	assert.ErrorIs(t, c.Unlock(ctx, "wrong"), vault.ErrDecryption)
	assert.ErrorIs(t, c.Unlock(ctx, "wrong"), vault.ErrDecryption)
	assert.ErrorIs(t, c.Unlock(ctx, strongPassword), ErrTooManyAttempts)
	assert.Equal(t, Locked, c.State().Kind)
}

func TestUnlockUnlimitedByDefault(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))
	importAbandon(t, c)
	require.NoError(t, c.Lock(ctx))

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, c.Unlock(ctx, "wrong"), vault.ErrDecryption)
	}
	require.NoError(t, c.Unlock(ctx, strongPassword))
}

type fakeRegistry struct {
	users map[string]registry.User
	now   time.Time
	err   error
}

func (f *fakeRegistry) RegisterOrFetchUser(_ context.Context, address string) (registry.User, error) {
	if f.err != nil {
		return registry.User{}, f.err
	}
	u, ok := f.users[address]
	if !ok {
		u = registry.User{ID: "u-1", Address: address, CreatedAt: f.now, ReputationScore: registry.DefaultReputation}
		f.users[address] = u
	}
	return u, nil
}

func TestRegistration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	reg := &fakeRegistry{users: map[string]registry.User{}, now: now}
	clock := now.Add(2 * time.Second)

	c := newController(t, tempStore(t), func(o *Options) {
		o.Registry = reg
		o.Now = func() time.Time { return clock }
	})
	importAbandon(t, c)

	require.NoError(t, c.Disconnect(ctx))
	clock = now.Add(time.Minute)
	m, err := mnemonic.ParsePhrase(abandonPhrase)
	require.NoError(t, err)
	login, err := c.ImportWallet(ctx, m.Words(), strongPassword, strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "u-1", login.User.ID)
	assert.False(t, login.NewUser, "returning user")
}

func TestRegistration_NewUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	reg := &fakeRegistry{users: map[string]registry.User{}, now: now}

	c := newController(t, tempStore(t), func(o *Options) {
		o.Registry = reg
		o.Now = func() time.Time { return now.Add(time.Second) }
	})
	m, err := mnemonic.ParsePhrase(abandonPhrase)
	require.NoError(t, err)

	login, err := c.ImportWallet(ctx, m.Words(), strongPassword, strongPassword)
	require.NoError(t, err)
	assert.True(t, login.NewUser)
	assert.Equal(t, registry.DefaultReputation, login.User.ReputationScore)
}

func TestRegistration_FailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	reg := &fakeRegistry{err: registry.ErrUnavailable}
	c := newController(t, tempStore(t), func(o *Options) { o.Registry = reg })

	m, err := mnemonic.ParsePhrase(abandonPhrase)
	require.NoError(t, err)
	login, err := c.ImportWallet(ctx, m.Words(), strongPassword, strongPassword)
	require.ErrorIs(t, err, ErrRegistration)
	assert.ErrorIs(t, err, registry.ErrUnavailable)
	assert.Equal(t, abandonAddress, login.Address)
	assert.Equal(t, Unlocked, c.State().Kind)
}

type fakeLedger struct {
	t        *testing.T
	balances map[string]ledger.Amount
	sent     []ledger.Receipt
	err      error
}

func (f *fakeLedger) Decimals() int { return 6 }

func (f *fakeLedger) Balance(_ context.Context, address string) (ledger.Amount, error) {
	if f.err != nil {
		return ledger.Amount{}, f.err
	}
	return f.balances[address], nil
}

func (f *fakeLedger) Transfer(_ context.Context, key []byte, to string, amount ledger.Amount) (ledger.Receipt, error) {
	if f.err != nil {
		return ledger.Receipt{}, f.err
	}
	from, err := mnemonic.AddressOf(key)
	require.NoError(f.t, err)
	r := ledger.Receipt{TxHash: "0xabc", From: from, To: to, Amount: amount}
	f.sent = append(f.sent, r)
	return r, nil
}

func TestLedgerOperations(t *testing.T) {
	ctx := context.Background()
	ten, err := ledger.ParseAmount("10", 6)
	require.NoError(t, err)
	fl := &fakeLedger{t: t, balances: map[string]ledger.Amount{abandonAddress: ten}}
	c := newController(t, tempStore(t), func(o *Options) { o.Ledger = fl })

	_, err = c.Balance(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)

	importAbandon(t, c)
	bal, err := c.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10", bal.String())

	amount, err := c.ParseAmount("1.5")
	require.NoError(t, err)
	receipt, err := c.Transfer(ctx, "0x0000000000000000000000000000000000000abc", amount)
	require.NoError(t, err)
	assert.Equal(t, abandonAddress, receipt.From)
	require.Len(t, fl.sent, 1)

	fl.err = errors.New("rpc down")
	_, err = c.Balance(ctx)
	assert.EqualError(t, err, "rpc down")

	require.NoError(t, c.Lock(ctx))
	_, err = c.Transfer(ctx, "0x0000000000000000000000000000000000000abc", amount)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLedgerMissing(t *testing.T) {
	c := newController(t, tempStore(t))
	importAbandon(t, c)

	_, err := c.Balance(context.Background())
	assert.ErrorIs(t, err, ErrNoLedger)
	_, err = c.ParseAmount("1")
	assert.ErrorIs(t, err, ErrNoLedger)
}

func TestExportKeystore(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))

	_, err := c.ExportKeystore(ctx, strongPassword)
	assert.ErrorIs(t, err, ErrInvalidState)

	importAbandon(t, c)
	_, err = c.ExportKeystore(ctx, "wrong")
	assert.ErrorIs(t, err, vault.ErrDecryption)

	data, err := c.ExportKeystore(ctx, strongPassword)
	require.NoError(t, err)

	key, err := vault.ImportKeystore(data, strongPassword)
	require.NoError(t, err)
	addr, err := mnemonic.AddressOf(key)
	require.NoError(t, err)
	assert.Equal(t, abandonAddress, addr)
}

func abandonKeystore(t *testing.T, pw string) []byte {
	t.Helper()
	m, err := mnemonic.ParsePhrase(abandonPhrase)
	require.NoError(t, err)
	km, err := mnemonic.DeriveKeyPair(m)
	require.NoError(t, err)
	data, err := vault.ExportKeystore(km.PrivateKey, pw, crypto.KDFParams{Name: crypto.KDFScrypt, N: keystore.LightScryptN, R: 8, P: keystore.LightScryptP})
	require.NoError(t, err)
	return data
}

func TestImportKeystore(t *testing.T) {
	ctx := context.Background()
	const filePw = "keystore-pw"
	data := abandonKeystore(t, filePw)
	c := newController(t, tempStore(t))

	_, err := c.ImportKeystore(ctx, data, "wrong", strongPassword, strongPassword)
	assert.ErrorIs(t, err, vault.ErrDecryption)
	_, err = c.ImportKeystore(ctx, []byte("{"), filePw, strongPassword, strongPassword)
	require.Error(t, err)
	assert.NotErrorIs(t, err, vault.ErrDecryption)
	_, err = c.ImportKeystore(ctx, data, filePw, "weak", "weak")
	assert.ErrorIs(t, err, password.ErrPolicyViolation)
	assert.Equal(t, Disconnected, c.State().Kind)

	login, err := c.ImportKeystore(ctx, data, filePw, strongPassword, strongPassword)
	require.NoError(t, err)
	assert.Equal(t, abandonAddress, login.Address)
	assert.Equal(t, State{Kind: Unlocked, Address: abandonAddress}, c.State())

	_, err = c.ImportKeystore(ctx, data, filePw, strongPassword, strongPassword)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, c.Lock(ctx))
	assert.ErrorIs(t, c.Unlock(ctx, filePw), vault.ErrDecryption)
	require.NoError(t, c.Unlock(ctx, strongPassword))
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))
	importAbandon(t, c)

	const next = "N3w!Passw0rd"
	assert.ErrorIs(t, c.ChangePassword(ctx, "wrong", next, next), vault.ErrDecryption)
	assert.ErrorIs(t, c.ChangePassword(ctx, strongPassword, "weak", "weak"), password.ErrPolicyViolation)
	assert.ErrorIs(t, c.ChangePassword(ctx, strongPassword, next, next+"x"), password.ErrPasswordMismatch)

	require.NoError(t, c.ChangePassword(ctx, strongPassword, next, next))
	assert.Equal(t, Unlocked, c.State().Kind)

	require.NoError(t, c.Lock(ctx))
	assert.ErrorIs(t, c.Unlock(ctx, strongPassword), vault.ErrDecryption)
	require.NoError(t, c.Unlock(ctx, next))
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	c := newController(t, tempStore(t))
	importAbandon(t, c)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, Locked, c.State().Kind)
	assert.Nil(t, c.key)
	assert.ErrorIs(t, c.Unlock(ctx, strongPassword), ErrInvalidState)
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(context.Background(), Options{})
	require.Error(t, err)
}
