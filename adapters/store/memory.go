package store

import (
	"context"
	"sync"
	"time"

	"github.com/pasar-labs/pasar/core"
)

// The memory repositories mirror the semantics of their bun counterparts,
// including conflict signalling, and back the test suites and dev mode.

// MemoryProfileRepository is an in-memory ProfileRepository.
type MemoryProfileRepository struct {
	byWallet map[string]core.UserProfile
	mu       sync.RWMutex
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		byWallet: make(map[string]core.UserProfile),
	}
}

func (r *MemoryProfileRepository) GetByWallet(ctx context.Context, walletAddress string) (core.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.byWallet[walletAddress]
	if !ok {
		return core.UserProfile{}, core.ErrNotFound
	}
	return profile, nil
}

func (r *MemoryProfileRepository) Create(ctx context.Context, profile core.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byWallet[profile.WalletAddress]; ok {
		return core.ErrConflict
	}
	r.byWallet[profile.WalletAddress] = profile
	return nil
}

// MemoryFeeRepository is an in-memory FeeRepository seeded via SetFee.
type MemoryFeeRepository struct {
	fees map[string]core.PaymentFee
	mu   sync.RWMutex
}

func NewMemoryFeeRepository() *MemoryFeeRepository {
	return &MemoryFeeRepository{
		fees: make(map[string]core.PaymentFee),
	}
}

func (r *MemoryFeeRepository) SetFee(fee core.PaymentFee) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fees[fee.PaymentType] = fee
}

func (r *MemoryFeeRepository) GetByType(ctx context.Context, paymentType string) (core.PaymentFee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fee, ok := r.fees[paymentType]
	if !ok {
		return core.PaymentFee{}, core.ErrNotFound
	}
	return fee, nil
}

// MemoryPaymentRepository is an in-memory PaymentRepository. Like the bun
// implementation it tracks at most one payment per product.
type MemoryPaymentRepository struct {
	byID      map[string]core.ListingPayment
	byProduct map[string]string
	mu        sync.RWMutex
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{
		byID:      make(map[string]core.ListingPayment),
		byProduct: make(map[string]string),
	}
}

func (r *MemoryPaymentRepository) GetByProduct(ctx context.Context, productID string) (core.ListingPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byProduct[productID]
	if !ok {
		return core.ListingPayment{}, core.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryPaymentRepository) GetByID(ctx context.Context, id string) (core.ListingPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.byID[id]
	if !ok {
		return core.ListingPayment{}, core.ErrNotFound
	}
	return payment, nil
}

func (r *MemoryPaymentRepository) Create(ctx context.Context, payment core.ListingPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byProduct[payment.ProductID]; ok {
		return core.ErrConflict
	}
	r.byID[payment.ID] = payment
	r.byProduct[payment.ProductID] = payment.ID
	return nil
}

func (r *MemoryPaymentRepository) UpdateStatus(ctx context.Context, id string, status core.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	payment.Status = status
	r.byID[id] = payment
	return nil
}

// MemoryProductRepository is an in-memory ProductRepository seeded via Add.
type MemoryProductRepository struct {
	statuses map[string]core.ProductStatus
	mu       sync.RWMutex
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		statuses: make(map[string]core.ProductStatus),
	}
}

func (r *MemoryProductRepository) Add(id string, status core.ProductStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statuses[id] = status
}

func (r *MemoryProductRepository) Status(id string) (core.ProductStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, ok := r.statuses[id]
	return status, ok
}

func (r *MemoryProductRepository) UpdateStatus(ctx context.Context, id string, status core.ProductStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.statuses[id]; !ok {
		return core.ErrNotFound
	}
	r.statuses[id] = status
	return nil
}

// MemoryNonceGuard is an in-memory NonceGuard.
type MemoryNonceGuard struct {
	used map[string]time.Time
	mu   sync.Mutex
}

func NewMemoryNonceGuard() *MemoryNonceGuard {
	return &MemoryNonceGuard{
		used: make(map[string]time.Time),
	}
}

func (g *MemoryNonceGuard) Consume(ctx context.Context, nonce string, ttl time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if expiry, ok := g.used[nonce]; ok && time.Now().Before(expiry) {
		return core.ErrInvalidNonce
	}
	g.used[nonce] = time.Now().Add(ttl)
	return nil
}
