// Package shop implements read access to shops using PostgreSQL.
package shop

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// Repo provides shop lookups backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new shop repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

var columns = []string{"id", "name", "location", "is_home", "created_at"}

// GetByID returns the shop with the given id.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Shop, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From("shops").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select shop: %w", err)
	}

	var s domain.Shop
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &s, query, args...); err != nil {
		return nil, postgres.MapError(err, "shop", id)
	}
	return &s, nil
}

// List returns all shops, home shop first.
func (r *Repo) List(ctx context.Context) ([]domain.Shop, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From("shops").
		OrderBy("is_home DESC", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list shops: %w", err)
	}

	var shops []domain.Shop
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &shops, query, args...); err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	return shops, nil
}
