// Package activity implements the activity log repository using PostgreSQL.
// It provides append-only operations: entries are never updated or deleted.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

const table = "activity_log"

var columns = []string{"id", "user_id", "action_type", "description", "entity_type", "entity_id", "created_at"}

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new activity repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	ActionType  string    `db:"action_type"`
	Description string    `db:"description"`
	EntityType  *string   `db:"entity_type"`
	EntityID    *int64    `db:"entity_id"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r row) toDomain() domain.ActivityEntry {
	e := domain.ActivityEntry{
		ID:          r.ID,
		UserID:      r.UserID,
		Action:      domain.ActivityAction(r.ActionType),
		Description: r.Description,
		EntityID:    r.EntityID,
		CreatedAt:   r.CreatedAt,
	}
	if r.EntityType != nil {
		et := domain.EntityType(*r.EntityType)
		e.EntityType = &et
	}
	return e
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Log appends an entry. It joins the caller's transaction when ctx carries one,
// so the entry commits or rolls back together with the change it describes.
func (r *Repo) Log(ctx context.Context, entry domain.ActivityEntry) error {
	if entry.UserID <= 0 {
		return errors.New("activity: user id is required")
	}
	if entry.Action == "" {
		return errors.New("activity: action is required")
	}

	var entityType *string
	if entry.EntityType != nil {
		s := string(*entry.EntityType)
		entityType = &s
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("user_id", "action_type", "description", "entity_type", "entity_id").
		Values(entry.UserID, string(entry.Action), entry.Description, entityType, entry.EntityID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert activity: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "activity", entry.UserID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns entries matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.ActivityFilter, maxLimit int) ([]domain.ActivityEntry, error) {
	q := postgres.Builder.Select(columns...).From(table).OrderBy("created_at DESC", "id DESC")

	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Action != nil {
		q = q.Where(squirrel.Eq{"action_type": string(*filter.Action)})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.To})
	}
	q = postgres.Page(q, filter.Limit, filter.Offset, maxLimit)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list activity: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	out := make([]domain.ActivityEntry, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
