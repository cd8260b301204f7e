package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/pasar-labs/pasar/core"
)

// BunPaymentRepository persists listing payments. The product_id column is
// unique, so the table holds at most one tracked payment per product and
// concurrent initiations are resolved by the conditional insert in Create.
type BunPaymentRepository struct {
	db *bun.DB
}

func NewBunPaymentRepository(ctx context.Context, db *bun.DB) (*BunPaymentRepository, error) {
	r := &BunPaymentRepository{
		db: db,
	}
	_, err := db.NewCreateTable().
		Model((*listingPayment)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create repository: %w", err)
	}
	return r, nil
}

func (r *BunPaymentRepository) GetByProduct(ctx context.Context, productID string) (core.ListingPayment, error) {
	row := new(listingPayment)
	err := r.db.NewSelect().
		Model(row).
		Where("product_id = ?", productID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = core.ErrNotFound
		}
		return core.ListingPayment{}, fmt.Errorf("failed to get payment: %w", err)
	}
	return row.toDomain(), nil
}

func (r *BunPaymentRepository) GetByID(ctx context.Context, id string) (core.ListingPayment, error) {
	row := new(listingPayment)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = core.ErrNotFound
		}
		return core.ListingPayment{}, fmt.Errorf("failed to get payment: %w", err)
	}
	return row.toDomain(), nil
}

func (r *BunPaymentRepository) Create(ctx context.Context, payment core.ListingPayment) error {
	row := &listingPayment{
		ID:        payment.ID,
		ProductID: payment.ProductID,
		SellerID:  payment.SellerID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Status:    string(payment.Status),
	}
	res, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (product_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// A concurrent initiation inserted a row for this product first.
		return core.ErrConflict
	}
	return nil
}

func (r *BunPaymentRepository) UpdateStatus(ctx context.Context, id string, status core.PaymentStatus) error {
	row := &listingPayment{ID: id, Status: string(status)}
	res, err := r.db.NewUpdate().
		Model(row).
		Column("status").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update payment status: %w", core.ErrNotFound)
	}
	return nil
}

type listingPayment struct {
	bun.BaseModel `bun:"table:listing_payments"`

	ID        string          `bun:",pk"`
	ProductID string          `bun:",unique,notnull"`
	SellerID  string          `bun:",notnull"`
	Amount    decimal.Decimal `bun:"amount,notnull,type:numeric"`
	Currency  *string         `bun:""`
	Status    string          `bun:",notnull"`
}

func (row *listingPayment) toDomain() core.ListingPayment {
	return core.ListingPayment{
		ID:        row.ID,
		ProductID: row.ProductID,
		SellerID:  row.SellerID,
		Amount:    row.Amount,
		Currency:  row.Currency,
		Status:    core.PaymentStatus(row.Status),
	}
}
