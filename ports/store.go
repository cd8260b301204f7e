package ports

import (
	"context"
	"time"

	"github.com/pasar-labs/pasar/core"
)

// ProfileRepository persists user profiles keyed by wallet address.
type ProfileRepository interface {
	// GetByWallet returns the profile for a wallet address, or
	// core.ErrNotFound when the wallet has never signed in.
	GetByWallet(ctx context.Context, walletAddress string) (core.UserProfile, error)

	// Create inserts a profile. It returns core.ErrConflict when a
	// profile for the same wallet address already exists, which callers
	// treat as a concurrent sign-in having won the race.
	Create(ctx context.Context, profile core.UserProfile) error
}

// FeeRepository reads the payment fee schedule.
type FeeRepository interface {
	GetByType(ctx context.Context, paymentType string) (core.PaymentFee, error)
}

// PaymentRepository persists listing payments.
type PaymentRepository interface {
	GetByProduct(ctx context.Context, productID string) (core.ListingPayment, error)
	GetByID(ctx context.Context, id string) (core.ListingPayment, error)

	// Create inserts a payment row. The insert is conditional on the
	// product having no tracked payment; core.ErrConflict signals that
	// a concurrent initiation inserted first.
	Create(ctx context.Context, payment core.ListingPayment) error

	UpdateStatus(ctx context.Context, id string, status core.PaymentStatus) error
}

// ProductRepository touches the products table. Only the status column is
// owned by this service.
type ProductRepository interface {
	UpdateStatus(ctx context.Context, id string, status core.ProductStatus) error
}

// NonceGuard enforces single use of sign-in nonces across requests.
type NonceGuard interface {
	// Consume marks a nonce as used for ttl. It returns
	// core.ErrInvalidNonce when the nonce was already consumed.
	Consume(ctx context.Context, nonce string, ttl time.Duration) error
}
