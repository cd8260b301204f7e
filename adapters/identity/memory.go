package identity

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pasar-labs/pasar/core"
)

const (
	// AudienceAccess and AudienceRefresh tag the two session token kinds.
	AudienceAccess  = "session:access"
	AudienceRefresh = "session:refresh"

	accessTokenTTL  = 5 * time.Minute
	refreshTokenTTL = 5 * 24 * time.Hour
)

// Memory is an in-process identity store for tests and dev mode. It keeps
// users in a map and mints ES256-signed session tokens itself, mirroring the
// token shapes the managed identity store issues.
type Memory struct {
	signKey *ecdsa.PrivateKey

	users   map[string]string // loginKey -> userID
	pending map[string]string // hashedToken -> loginKey
	mu      sync.Mutex
}

func NewMemory(signKey *ecdsa.PrivateKey) *Memory {
	return &Memory{
		signKey: signKey,
		users:   make(map[string]string),
		pending: make(map[string]string),
	}
}

func (m *Memory) FindUserByKey(ctx context.Context, loginKey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.users[loginKey]
	if !ok {
		return "", core.ErrNotFound
	}
	return id, nil
}

func (m *Memory) CreateUser(ctx context.Context, loginKey string, preconfirm bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[loginKey]; ok {
		return "", core.ErrConflict
	}
	id := uuid.New().String()
	m.users[loginKey] = id
	return id, nil
}

func (m *Memory) GenerateMagicLink(ctx context.Context, loginKey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[loginKey]; !ok {
		return "", core.ErrNotFound
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)
	m.pending[token] = loginKey
	return token, nil
}

func (m *Memory) VerifyOneTimeToken(ctx context.Context, hashedToken string) (core.Session, error) {
	m.mu.Lock()
	loginKey, ok := m.pending[hashedToken]
	if ok {
		// Tokens are redeemable exactly once.
		delete(m.pending, hashedToken)
	}
	userID := m.users[loginKey]
	m.mu.Unlock()

	if !ok {
		return core.Session{}, core.ErrTokenVerification
	}

	access, err := m.signToken(userID, AudienceAccess, accessTokenTTL)
	if err != nil {
		return core.Session{}, err
	}
	refresh, err := m.signToken(userID, AudienceRefresh, refreshTokenTTL)
	if err != nil {
		return core.Session{}, err
	}

	return core.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       userID,
	}, nil
}

func (m *Memory) signToken(subject, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.New().String(),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signed, err := token.SignedString(m.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
