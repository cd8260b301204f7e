package ports

import (
	"context"

	"github.com/pasar-labs/pasar/core"
)

// Identity is the external identity store consumed by the sign-in flow.
// Users are addressed by their synthetic login key (see
// core.SyntheticLoginKey); the store itself only knows email-shaped keys.
type Identity interface {
	// FindUserByKey returns the identity-store user id registered under
	// loginKey, or core.ErrNotFound.
	FindUserByKey(ctx context.Context, loginKey string) (string, error)

	// CreateUser registers a new user under loginKey and returns its id.
	// When preconfirm is true the key is marked confirmed so no mail
	// round trip is required.
	CreateUser(ctx context.Context, loginKey string, preconfirm bool) (string, error)

	// GenerateMagicLink issues a one-time login link for loginKey and
	// returns its hashed token.
	GenerateMagicLink(ctx context.Context, loginKey string) (string, error)

	// VerifyOneTimeToken redeems a hashed token for a session. Each
	// token is redeemable exactly once.
	VerifyOneTimeToken(ctx context.Context, hashedToken string) (core.Session, error)
}
