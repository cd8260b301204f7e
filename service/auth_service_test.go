package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasar-labs/pasar/adapters/events"
	"github.com/pasar-labs/pasar/adapters/identity"
	"github.com/pasar-labs/pasar/adapters/store"
	"github.com/pasar-labs/pasar/core"
)

const testWallet = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

func newAuthService(t *testing.T) (*AuthService, *store.MemoryProfileRepository) {
	t.Helper()

	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	profiles := store.NewMemoryProfileRepository()
	svc := NewAuthService(
		profiles,
		identity.NewMemory(signKey),
		store.NewMemoryNonceGuard(),
		events.NewNopPublisher(),
		zerolog.Nop(),
	)
	return svc, profiles
}

func signInParams(nonce string) SignInParams {
	return SignInParams{
		WalletAddress:     testWallet,
		Username:          "alice",
		ProfilePictureURL: "https://cdn.example/alice.png",
		Nonce:             nonce,
		CookieNonce:       nonce,
	}
}

func TestIssueNonceFormat(t *testing.T) {
	svc, _ := newAuthService(t)

	nonce, err := svc.IssueNonce()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), nonce)

	other, err := svc.IssueNonce()
	require.NoError(t, err)
	assert.NotEqual(t, nonce, other)
}

func TestSignInProvisionsProfileOnce(t *testing.T) {
	svc, profiles := newAuthService(t)
	ctx := context.Background()

	nonce, err := svc.IssueNonce()
	require.NoError(t, err)

	first, err := svc.SignIn(ctx, signInParams(nonce))
	require.NoError(t, err)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)
	assert.NotEmpty(t, first.UserID)

	profile, err := profiles.GetByWallet(ctx, testWallet)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, core.VerificationLevelOrb, profile.VerificationLevel)
	assert.False(t, profile.IsVerified)
	assert.False(t, profile.IsSeller)
	assert.Nil(t, profile.Rating)

	// Second sign-in for the same wallet reuses the existing user.
	nonce2, err := svc.IssueNonce()
	require.NoError(t, err)
	second, err := svc.SignIn(ctx, signInParams(nonce2))
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestSignInRejectsNonceMismatch(t *testing.T) {
	svc, _ := newAuthService(t)

	params := signInParams("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	params.CookieNonce = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	_, err := svc.SignIn(context.Background(), params)
	assert.ErrorIs(t, err, core.ErrInvalidNonce)
}

func TestSignInRejectsMissingNonce(t *testing.T) {
	svc, _ := newAuthService(t)

	params := signInParams("")

	_, err := svc.SignIn(context.Background(), params)
	assert.ErrorIs(t, err, core.ErrInvalidNonce)
}

func TestSignInRejectsNonceReplay(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	nonce, err := svc.IssueNonce()
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, signInParams(nonce))
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, signInParams(nonce))
	assert.ErrorIs(t, err, core.ErrInvalidNonce)
}

func TestSignInRejectsBadWalletAddress(t *testing.T) {
	svc, _ := newAuthService(t)

	nonce, err := svc.IssueNonce()
	require.NoError(t, err)

	params := signInParams(nonce)
	params.WalletAddress = "not-a-wallet"

	_, err = svc.SignIn(context.Background(), params)
	assert.ErrorIs(t, err, core.ErrInvalidAddress)
}

func TestSignInConcurrentSameWallet(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	const attempts = 8
	userIDs := make([]string, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		nonce, err := svc.IssueNonce()
		require.NoError(t, err)

		wg.Add(1)
		go func(i int, nonce string) {
			defer wg.Done()
			session, err := svc.SignIn(ctx, signInParams(nonce))
			userIDs[i], errs[i] = session.UserID, err
		}(i, nonce)
	}
	wg.Wait()

	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, userIDs[0], userIDs[i])
	}
}

// conflictingProfiles simulates losing the cross-process insert race: the
// first lookup misses, the insert conflicts, and the re-read returns the
// winner's row.
type conflictingProfiles struct {
	winner core.UserProfile
	looked bool
}

func (r *conflictingProfiles) GetByWallet(ctx context.Context, walletAddress string) (core.UserProfile, error) {
	if !r.looked {
		r.looked = true
		return core.UserProfile{}, core.ErrNotFound
	}
	return r.winner, nil
}

func (r *conflictingProfiles) Create(ctx context.Context, profile core.UserProfile) error {
	return core.ErrConflict
}

func TestSignInTreatsInsertConflictAsWin(t *testing.T) {
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	idStore := identity.NewMemory(signKey)
	profiles := &conflictingProfiles{
		winner: core.UserProfile{ID: "winner-id", WalletAddress: testWallet},
	}
	svc := NewAuthService(profiles, idStore, store.NewMemoryNonceGuard(), events.NewNopPublisher(), zerolog.Nop())

	nonce, err := svc.IssueNonce()
	require.NoError(t, err)

	session, err := svc.SignIn(context.Background(), signInParams(nonce))
	require.NoError(t, err)
	assert.Equal(t, "winner-id", session.UserID)
}

// failingIdentity rejects user creation to exercise the provisioning error.
type failingIdentity struct {
	*identity.Memory
}

func (f *failingIdentity) CreateUser(ctx context.Context, loginKey string, preconfirm bool) (string, error) {
	return "", errors.New("identity store down")
}

func TestSignInSurfacesProvisioningFailure(t *testing.T) {
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	idStore := &failingIdentity{Memory: identity.NewMemory(signKey)}
	svc := NewAuthService(
		store.NewMemoryProfileRepository(),
		idStore,
		store.NewMemoryNonceGuard(),
		events.NewNopPublisher(),
		zerolog.Nop(),
	)

	nonce, err := svc.IssueNonce()
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), signInParams(nonce))
	assert.ErrorIs(t, err, core.ErrUserProvisioning)
}
