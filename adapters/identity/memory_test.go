package identity

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasar-labs/pasar/core"
)

func newMemory(t *testing.T) *Memory {
	t.Helper()

	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return NewMemory(signKey)
}

func TestMemoryMagicLinkRoundTrip(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	userID, err := m.CreateUser(ctx, "0xabc@worldcoin.local", true)
	require.NoError(t, err)

	found, err := m.FindUserByKey(ctx, "0xabc@worldcoin.local")
	require.NoError(t, err)
	assert.Equal(t, userID, found)

	token, err := m.GenerateMagicLink(ctx, "0xabc@worldcoin.local")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := m.VerifyOneTimeToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	// The access token carries the user as subject.
	parsed, _, err := jwt.NewParser().ParseUnverified(session.AccessToken, &jwt.RegisteredClaims{})
	require.NoError(t, err)
	subject, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, userID, subject)
}

func TestMemoryTokenIsSingleUse(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	_, err := m.CreateUser(ctx, "0xabc@worldcoin.local", true)
	require.NoError(t, err)

	token, err := m.GenerateMagicLink(ctx, "0xabc@worldcoin.local")
	require.NoError(t, err)

	_, err = m.VerifyOneTimeToken(ctx, token)
	require.NoError(t, err)

	_, err = m.VerifyOneTimeToken(ctx, token)
	assert.ErrorIs(t, err, core.ErrTokenVerification)
}

func TestMemoryUnknownUser(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	_, err := m.FindUserByKey(ctx, "0xmissing@worldcoin.local")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = m.GenerateMagicLink(ctx, "0xmissing@worldcoin.local")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemoryDuplicateUser(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	_, err := m.CreateUser(ctx, "0xabc@worldcoin.local", true)
	require.NoError(t, err)

	_, err = m.CreateUser(ctx, "0xabc@worldcoin.local", true)
	assert.ErrorIs(t, err, core.ErrConflict)
}
