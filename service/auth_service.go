package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/pasar-labs/pasar/core"
	"github.com/pasar-labs/pasar/ports"
)

// DefaultNonceTTL bounds how long a consumed nonce is remembered. The nonce
// itself travels in the client-held cookie; the guard only blocks reuse.
const DefaultNonceTTL = 10 * time.Minute

// AuthService handles wallet sign-in: nonce issuance and the
// find-or-create user provisioning plus token exchange against the
// identity store.
type AuthService struct {
	profiles ports.ProfileRepository
	identity ports.Identity
	nonces   ports.NonceGuard
	eventPub ports.EventPublisher
	log      zerolog.Logger

	nonceTTL  time.Duration
	provision singleflight.Group
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	profiles ports.ProfileRepository,
	identity ports.Identity,
	nonces ports.NonceGuard,
	eventPub ports.EventPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		profiles: profiles,
		identity: identity,
		nonces:   nonces,
		eventPub: eventPub,
		log:      log,
		nonceTTL: DefaultNonceTTL,
	}
}

// IssueNonce generates a single-use 128-bit challenge value rendered as
// 32 lowercase hex characters. The caller transports it back in both the
// request body and the sign-in cookie; no state is kept server-side until
// the nonce is consumed.
func (s *AuthService) IssueNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// SignInParams carries a sign-in attempt. CookieNonce is the value issued
// on the preceding challenge request, echoed back by the transport.
type SignInParams struct {
	WalletAddress     string
	Username          string
	ProfilePictureURL string
	Nonce             string
	CookieNonce       string
}

// SignIn authenticates a wallet. It verifies the nonce handshake, ensures
// an identity-store user and profile row exist for the wallet, then redeems
// a magic-link token for a session.
func (s *AuthService) SignIn(ctx context.Context, p SignInParams) (core.Session, error) {
	if p.Nonce == "" || p.Nonce != p.CookieNonce {
		return core.Session{}, core.ErrInvalidNonce
	}
	if err := s.nonces.Consume(ctx, p.Nonce, s.nonceTTL); err != nil {
		if errors.Is(err, core.ErrInvalidNonce) {
			return core.Session{}, core.ErrInvalidNonce
		}
		return core.Session{}, fmt.Errorf("nonce guard: %w", err)
	}

	if !common.IsHexAddress(p.WalletAddress) {
		return core.Session{}, core.ErrInvalidAddress
	}
	wallet := common.HexToAddress(p.WalletAddress).Hex()
	loginKey := core.SyntheticLoginKey(wallet)

	var userID string
	profile, err := s.profiles.GetByWallet(ctx, wallet)
	switch {
	case err == nil:
		userID = profile.ID
	case errors.Is(err, core.ErrNotFound):
		userID, err = s.provisionUser(ctx, wallet, loginKey, p)
		if err != nil {
			return core.Session{}, err
		}
	default:
		return core.Session{}, fmt.Errorf("profile lookup: %w", err)
	}

	hashedToken, err := s.identity.GenerateMagicLink(ctx, loginKey)
	if err != nil {
		return core.Session{}, fmt.Errorf("%w: %v", core.ErrTokenIssuance, err)
	}
	if hashedToken == "" {
		return core.Session{}, core.ErrTokenIssuance
	}

	session, err := s.identity.VerifyOneTimeToken(ctx, hashedToken)
	if err != nil {
		return core.Session{}, fmt.Errorf("%w: %v", core.ErrTokenVerification, err)
	}
	if session.AccessToken == "" {
		return core.Session{}, core.ErrSessionIncomplete
	}

	session.UserID = userID
	return session, nil
}

// provisionUser creates the identity-store user and profile row for a
// previously-unseen wallet. Concurrent sign-ins for the same wallet are
// collapsed in-process by singleflight; across processes the unique
// wallet_address constraint decides the winner and losers re-read.
func (s *AuthService) provisionUser(ctx context.Context, wallet, loginKey string, p SignInParams) (string, error) {
	v, err, _ := s.provision.Do(wallet, func() (interface{}, error) {
		userID, err := s.identity.CreateUser(ctx, loginKey, true)
		if errors.Is(err, core.ErrConflict) {
			// The identity user already exists, typically because an
			// earlier sign-in created it but its profile insert raced
			// or failed. Reuse it.
			userID, err = s.identity.FindUserByKey(ctx, loginKey)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrUserProvisioning, err)
		}

		profile := core.UserProfile{
			ID:                userID,
			WalletAddress:     wallet,
			Username:          p.Username,
			ProfilePictureURL: p.ProfilePictureURL,
			NullifierHash:     "random",
			VerificationLevel: core.VerificationLevelOrb,
			IsVerified:        false,
			IsSeller:          false,
			Rating:            nil,
		}

		if err := s.profiles.Create(ctx, profile); err != nil {
			if errors.Is(err, core.ErrConflict) {
				// Another sign-in won the race; its row is authoritative.
				// The identity user created above is now orphaned.
				existing, gerr := s.profiles.GetByWallet(ctx, wallet)
				if gerr != nil {
					return nil, fmt.Errorf("%w: %v", core.ErrProfilePersistence, gerr)
				}
				s.log.Warn().
					Str("wallet", wallet).
					Str("orphaned_user", userID).
					Msg("concurrent provisioning left an orphaned identity user")
				return existing.ID, nil
			}
			// The identity user exists without a profile row. Not rolled
			// back here; the pair needs out-of-band reconciliation.
			s.log.Error().
				Str("wallet", wallet).
				Str("orphaned_user", userID).
				Err(err).
				Msg("profile insert failed after identity user creation")
			return nil, fmt.Errorf("%w: %v", core.ErrProfilePersistence, err)
		}

		if err := s.eventPub.PublishUserProvisioned(ctx, userID, wallet); err != nil {
			// The profile row is the critical part; a lost event only
			// delays downstream consumers.
			s.log.Warn().Err(err).Msg("failed to publish user provisioned event")
		}

		return userID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
