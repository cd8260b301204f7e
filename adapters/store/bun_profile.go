package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"

	"github.com/pasar-labs/pasar/core"
)

// BunProfileRepository persists user profiles in the user_profiles table.
type BunProfileRepository struct {
	db *bun.DB
}

func NewBunProfileRepository(ctx context.Context, db *bun.DB) (*BunProfileRepository, error) {
	r := &BunProfileRepository{
		db: db,
	}
	_, err := db.NewCreateTable().
		Model((*userProfile)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create repository: %w", err)
	}
	return r, nil
}

func (r *BunProfileRepository) GetByWallet(ctx context.Context, walletAddress string) (core.UserProfile, error) {
	row := new(userProfile)
	profile := core.UserProfile{}
	err := r.db.NewSelect().
		Model(row).
		Where("wallet_address = ?", walletAddress).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = core.ErrNotFound
		}
		return profile, fmt.Errorf("failed to get profile: %w", err)
	}
	copier.Copy(&profile, row)
	return profile, nil
}

func (r *BunProfileRepository) Create(ctx context.Context, profile core.UserProfile) error {
	row := new(userProfile)
	copier.Copy(row, &profile)
	res, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (wallet_address) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// A concurrent sign-in inserted the same wallet first.
		return core.ErrConflict
	}
	return nil
}

type userProfile struct {
	bun.BaseModel `bun:"table:user_profiles"`

	ID                string   `bun:",pk"`
	WalletAddress     string   `bun:",unique,notnull"`
	Username          string   `bun:",nullzero"`
	ProfilePictureURL string   `bun:"profile_picture_url,nullzero"`
	NullifierHash     string   `bun:",nullzero"`
	VerificationLevel string   `bun:",nullzero"`
	IsVerified        bool     `bun:",notnull"`
	IsSeller          bool     `bun:",notnull"`
	Rating            *float64 `bun:""`
}
