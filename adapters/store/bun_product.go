package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/pasar-labs/pasar/core"
)

// BunProductRepository updates product listing status. Products are owned
// by the wider marketplace; this service only flips their status column on
// payment completion, so no create path exists here.
type BunProductRepository struct {
	db *bun.DB
}

func NewBunProductRepository(db *bun.DB) *BunProductRepository {
	return &BunProductRepository{
		db: db,
	}
}

func (r *BunProductRepository) UpdateStatus(ctx context.Context, id string, status core.ProductStatus) error {
	row := &product{ID: id, Status: string(status)}
	res, err := r.db.NewUpdate().
		Model(row).
		Column("status").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update product status: %w", core.ErrNotFound)
	}
	return nil
}

type product struct {
	bun.BaseModel `bun:"table:products"`

	ID     string `bun:",pk"`
	Status string `bun:",notnull"`
}
