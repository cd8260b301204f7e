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

// BunFeeRepository reads the payment fee schedule from the payment_fees
// table. The schedule is reference data; this repository never writes it.
type BunFeeRepository struct {
	db *bun.DB
}

func NewBunFeeRepository(ctx context.Context, db *bun.DB) (*BunFeeRepository, error) {
	r := &BunFeeRepository{
		db: db,
	}
	_, err := db.NewCreateTable().
		Model((*paymentFee)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create repository: %w", err)
	}
	return r, nil
}

func (r *BunFeeRepository) GetByType(ctx context.Context, paymentType string) (core.PaymentFee, error) {
	row := new(paymentFee)
	fee := core.PaymentFee{}
	err := r.db.NewSelect().
		Model(row).
		Where("payment_type = ?", paymentType).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = core.ErrNotFound
		}
		return fee, fmt.Errorf("failed to get fee: %w", err)
	}
	fee.PaymentType = row.PaymentType
	fee.Amount = row.Amount
	return fee, nil
}

type paymentFee struct {
	bun.BaseModel `bun:"table:payment_fees"`

	PaymentType string          `bun:",pk"`
	Amount      decimal.Decimal `bun:"amount,notnull,type:numeric"`
}
