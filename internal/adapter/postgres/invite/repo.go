// Package invite implements the UserInvite repository using PostgreSQL.
package invite

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

const table = "user_invites"

// Repo provides invitation persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new invite repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// Create stores a new invitation. Only the token hash is persisted.
func (r *Repo) Create(ctx context.Context, inv domain.UserInvite) error {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns("user_id", "token_hash", "expires_at").
		Values(inv.UserID, inv.TokenHash, inv.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert invite: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "user_invite", inv.UserID)
	}
	return nil
}

// GetByHash returns an invitation by token hash, used or not.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.UserInvite, error) {
	query, args, err := postgres.Builder.
		Select("id", "user_id", "token_hash", "expires_at", "used_at", "created_at").
		From(table).
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select invite: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "user_invite", 0)
	}

	return &domain.UserInvite{
		ID:        rw.ID,
		UserID:    rw.UserID,
		TokenHash: rw.TokenHash,
		ExpiresAt: rw.ExpiresAt,
		UsedAt:    rw.UsedAt,
		CreatedAt: rw.CreatedAt,
	}, nil
}

// MarkUsed redeems an unused invitation.
// Returns domain.ErrNotFound if it does not exist or was already used.
func (r *Repo) MarkUsed(ctx context.Context, id int64) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("used_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "used_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update invite: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "user_invite", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user_invite %d unused: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteExpired removes invitations that expired before the given time or were
// used. Returns the number of deleted rows.
func (r *Repo) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	query, args, err := postgres.Builder.
		Delete(table).
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": before},
			squirrel.NotEq{"used_at": nil},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete invites: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired invites: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
