// Package accessory implements the Accessory repository using PostgreSQL.
package accessory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

const table = "accessories"

var columns = []string{
	"id", "name", "category", "brand", "buying_price", "selling_price",
	"quantity", "status", "registered_by", "created_at",
}

// Repo provides accessory persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new accessory repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	Category     string          `db:"category"`
	Brand        string          `db:"brand"`
	BuyingPrice  decimal.Decimal `db:"buying_price"`
	SellingPrice decimal.Decimal `db:"selling_price"`
	Quantity     int             `db:"quantity"`
	Status       string          `db:"status"`
	RegisteredBy int64           `db:"registered_by"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (r row) toDomain() domain.Accessory {
	return domain.Accessory{
		ID:           r.ID,
		Name:         r.Name,
		Category:     r.Category,
		Brand:        r.Brand,
		BuyingPrice:  r.BuyingPrice,
		SellingPrice: r.SellingPrice,
		Quantity:     r.Quantity,
		Status:       domain.AccessoryStatus(r.Status),
		RegisteredBy: r.RegisteredBy,
		CreatedAt:    r.CreatedAt,
	}
}

// statusExpr mirrors domain.DeriveAccessoryStatus for the quantity left after
// subtracting n from the current row.
func statusExpr(n int) squirrel.Sqlizer {
	return squirrel.Expr("CASE WHEN quantity - ? <= 0 THEN ? ELSE ? END",
		n, string(domain.DeriveAccessoryStatus(0)), string(domain.DeriveAccessoryStatus(1)))
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an accessory row and returns its id.
func (r *Repo) Create(ctx context.Context, a domain.Accessory) (int64, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns("name", "category", "brand", "buying_price", "selling_price",
			"quantity", "status", "registered_by").
		Values(a.Name, a.Category, a.Brand, a.BuyingPrice, a.SellingPrice,
			a.Quantity, string(domain.DeriveAccessoryStatus(a.Quantity)), a.RegisteredBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert accessory: %w", err)
	}

	var id int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "accessory", 0)
	}
	return id, nil
}

// IncrementQuantity adds n units to an in-stock row. Prices are left untouched.
func (r *Repo) IncrementQuantity(ctx context.Context, id int64, n int) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("quantity", squirrel.Expr("quantity + ?", n)).
		Where(squirrel.Eq{"id": id, "status": string(domain.AccessoryStatusInStock)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build increment accessory: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "accessory", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("accessory %d in stock: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DecrementStock removes n units in a single conditional update and returns
// the row as it is afterwards. The status is recomputed from the remaining
// quantity in the same statement.
//
// Returns domain.ErrNotFound when the accessory does not exist or has been
// retired, and domain.ErrInsufficientStock when fewer than n units remain.
func (r *Repo) DecrementStock(ctx context.Context, id int64, n int) (*domain.Accessory, error) {
	query, args, err := postgres.Builder.
		Update(table).
		Set("quantity", squirrel.Expr("quantity - ?", n)).
		Set("status", statusExpr(n)).
		Where(squirrel.Eq{"id": id, "status": string(domain.AccessoryStatusInStock)}).
		Where(squirrel.GtOrEq{"quantity": n}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build decrement accessory: %w", err)
	}

	var rw row
	err = pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, query, args...)
	if err == nil {
		a := rw.toDomain()
		return &a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, "accessory", id)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Retired rows keep their quantity; only a short in-stock or sold-out row
	// is reported as insufficient.
	if current.Status == domain.AccessoryStatusUnavailable || current.Quantity >= n {
		return nil, fmt.Errorf("accessory %d is %s: %w", id, current.Status, domain.ErrNotFound)
	}
	return nil, fmt.Errorf("accessory %d has %d, requested %d: %w",
		id, current.Quantity, n, domain.ErrInsufficientStock)
}

// SetStatus unconditionally sets the status of an existing accessory.
// The quantity is left as is.
func (r *Repo) SetStatus(ctx context.Context, id int64, status domain.AccessoryStatus) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update accessory status: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "accessory", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("accessory %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// WriteOff empties the stock of an existing accessory: quantity 0 and
// out_of_stock in one statement, so the pair never disagrees.
func (r *Repo) WriteOff(ctx context.Context, id int64) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("quantity", 0).
		Set("status", string(domain.DeriveAccessoryStatus(0))).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build write off accessory: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "accessory", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("accessory %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an accessory in any status.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Accessory, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select accessory: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "accessory", id)
	}

	a := rw.toDomain()
	return &a, nil
}

// FindInStockForUpdate returns the in-stock row with the given name and category,
// locking it until the surrounding transaction ends.
// Returns domain.ErrNotFound when there is no such row.
func (r *Repo) FindInStockForUpdate(ctx context.Context, name, category string) (*domain.Accessory, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"name":     name,
			"category": category,
			"status":   string(domain.AccessoryStatusInStock),
		}).
		OrderBy("id").
		Limit(1).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find accessory: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "accessory", 0)
	}

	a := rw.toDomain()
	return &a, nil
}

// List returns accessories matching the filter, newest first.
// Search matches name, category or brand (case-insensitive).
func (r *Repo) List(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Accessory, error) {
	q := postgres.Builder.Select(columns...).From(table).OrderBy("created_at DESC", "id DESC")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Search != nil && *filter.Search != "" {
		like := "%" + *filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": like},
			squirrel.ILike{"category": like},
			squirrel.ILike{"brand": like},
		})
	}
	q = postgres.Page(q, filter.Limit, filter.Offset, maxLimit)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list accessories: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}

	out := make([]domain.Accessory, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
