// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

const table = "users"

var columns = []string{
	"id", "username", "full_name", "role", "password_hash",
	"must_reset_password", "is_active", "created_at", "updated_at",
}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new user repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID                int64     `db:"id"`
	Username          string    `db:"username"`
	FullName          string    `db:"full_name"`
	Role              string    `db:"role"`
	PasswordHash      *string   `db:"password_hash"`
	MustResetPassword bool      `db:"must_reset_password"`
	IsActive          bool      `db:"is_active"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r row) toDomain() domain.User {
	return domain.User{
		ID:                r.ID,
		Username:          r.Username,
		FullName:          r.FullName,
		Role:              domain.UserRole(r.Role),
		PasswordHash:      r.PasswordHash,
		MustResetPassword: r.MustResetPassword,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a user and returns the stored row.
// Returns domain.ErrDuplicateUsername if the username is taken.
func (r *Repo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns("username", "full_name", "role", "password_hash", "must_reset_password", "is_active").
		Values(u.Username, u.FullName, string(u.Role), u.PasswordHash, u.MustResetPassword, u.IsActive).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert user: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, query, args...); err != nil {
		mapped := postgres.MapError(err, "user", 0)
		if errors.Is(mapped, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("user %q: %w", u.Username, domain.ErrDuplicateUsername)
		}
		return nil, mapped
	}

	created := rw.toDomain()
	return &created, nil
}

// SetActive sets is_active. Setting the current value again is not an error.
func (r *Repo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.update(ctx, id, map[string]any{"is_active": active})
}

// SetPassword stores a new password hash and the must_reset flag.
func (r *Repo) SetPassword(ctx context.Context, id int64, hash string, mustReset bool) error {
	return r.update(ctx, id, map[string]any{
		"password_hash":       hash,
		"must_reset_password": mustReset,
	})
}

// SetRole changes a user's role.
func (r *Repo) SetRole(ctx context.Context, id int64, role domain.UserRole) error {
	return r.update(ctx, id, map[string]any{"role": string(role)})
}

func (r *Repo) update(ctx context.Context, id int64, set map[string]any) error {
	query, args, err := postgres.Builder.
		Update(table).
		SetMap(set).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, id)
}

// GetByUsername returns a user by username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username}, 0)
}

func (r *Repo) getOne(ctx context.Context, where squirrel.Eq, id int64) (*domain.User, error) {
	query, args, err := postgres.Builder.Select(columns...).From(table).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	u := rw.toDomain()
	return &u, nil
}

// ExistsByUsername reports whether the username is taken.
func (r *Repo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).
		Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "user", 0)
	}
	return exists, nil
}

// List returns users ordered by username.
func (r *Repo) List(ctx context.Context, limit, offset, maxLimit int) ([]domain.User, error) {
	q := postgres.Builder.Select(columns...).From(table).OrderBy("username")
	query, args, err := postgres.Page(q, limit, offset, maxLimit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]domain.User, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
