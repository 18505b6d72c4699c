// Package phone implements the Phone repository using PostgreSQL.
// Every status change is a conditional update guarded by the current status,
// so concurrent sells and transfers of the same unit cannot both succeed.
package phone

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

const table = "phones"

// imeiIndex is the partial unique index over in-stock IMEIs.
const imeiIndex = "ux_phones_imei_in_stock"

var columns = []string{
	"id", "imei", "brand", "model", "color", "memory", "buying_price", "selling_price",
	"notes", "status", "registered_by", "current_shop_id", "sold_price", "sold_at", "created_at",
}

// Repo provides phone persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new phone repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID            int64            `db:"id"`
	IMEI          string           `db:"imei"`
	Brand         string           `db:"brand"`
	Model         string           `db:"model"`
	Color         string           `db:"color"`
	Memory        string           `db:"memory"`
	BuyingPrice   decimal.Decimal  `db:"buying_price"`
	SellingPrice  decimal.Decimal  `db:"selling_price"`
	Notes         string           `db:"notes"`
	Status        string           `db:"status"`
	RegisteredBy  int64            `db:"registered_by"`
	CurrentShopID int64            `db:"current_shop_id"`
	SoldPrice     *decimal.Decimal `db:"sold_price"`
	SoldAt        *time.Time       `db:"sold_at"`
	CreatedAt     time.Time        `db:"created_at"`
}

func (r row) toDomain() domain.Phone {
	return domain.Phone{
		ID:            r.ID,
		IMEI:          r.IMEI,
		Brand:         r.Brand,
		Model:         r.Model,
		Color:         r.Color,
		Memory:        r.Memory,
		BuyingPrice:   r.BuyingPrice,
		SellingPrice:  r.SellingPrice,
		Notes:         r.Notes,
		Status:        domain.PhoneStatus(r.Status),
		RegisteredBy:  r.RegisteredBy,
		CurrentShopID: r.CurrentShopID,
		SoldPrice:     r.SoldPrice,
		SoldAt:        r.SoldAt,
		CreatedAt:     r.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an in-stock phone and returns its id.
// Returns domain.ErrDuplicateImei if another in-stock phone holds the same IMEI.
func (r *Repo) Create(ctx context.Context, p domain.Phone) (int64, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns("imei", "brand", "model", "color", "memory", "buying_price", "selling_price",
			"notes", "status", "registered_by", "current_shop_id").
		Values(p.IMEI, p.Brand, p.Model, p.Color, p.Memory, p.BuyingPrice, p.SellingPrice,
			p.Notes, string(domain.PhoneStatusInStock), p.RegisteredBy, p.CurrentShopID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert phone: %w", err)
	}

	var id int64
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if postgres.ConstraintName(err) == imeiIndex {
			return 0, fmt.Errorf("phone imei %s: %w", p.IMEI, domain.ErrDuplicateImei)
		}
		return 0, postgres.MapError(err, "phone", 0)
	}

	return id, nil
}

// MarkSold moves an in-stock phone to sold and records price and time.
// Returns domain.ErrNotFound if the phone is missing or no longer in stock.
func (r *Repo) MarkSold(ctx context.Context, id int64, price decimal.Decimal, soldAt time.Time) error {
	return r.updateInStock(ctx, id, map[string]any{
		"status":     string(domain.PhoneStatusSold),
		"sold_price": price,
		"sold_at":    soldAt,
	})
}

// MarkTransferred moves an in-stock phone to another shop.
// Returns domain.ErrNotFound if the phone is missing or no longer in stock.
func (r *Repo) MarkTransferred(ctx context.Context, id, destinationShopID int64) error {
	return r.updateInStock(ctx, id, map[string]any{
		"status":          string(domain.PhoneStatusTransferred),
		"current_shop_id": destinationShopID,
	})
}

func (r *Repo) updateInStock(ctx context.Context, id int64, set map[string]any) error {
	query, args, err := postgres.Builder.
		Update(table).
		SetMap(set).
		Where(squirrel.Eq{"id": id, "status": string(domain.PhoneStatusInStock)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update phone: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "phone", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("phone %d in stock: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetStatus unconditionally sets the status of an existing phone.
// Setting the status a phone already has is not an error.
func (r *Repo) SetStatus(ctx context.Context, id int64, status domain.PhoneStatus) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update phone status: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "phone", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("phone %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a phone in any status.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Phone, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select phone: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "phone", id)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("phone %d: %w", id, domain.ErrNotFound)
	}

	p := rows[0].toDomain()
	return &p, nil
}

// ExistsInStockIMEI reports whether an in-stock phone already holds imei.
func (r *Repo) ExistsInStockIMEI(ctx context.Context, imei string) (bool, error) {
	query, args, err := postgres.Builder.
		Select("1").
		From(table).
		Where(squirrel.Eq{"imei": imei, "status": string(domain.PhoneStatusInStock)}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists phone: %w", err)
	}

	var exists bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "phone", 0)
	}
	return exists, nil
}

// List returns phones matching the filter, newest first.
// Search matches IMEI, brand or model (case-insensitive).
func (r *Repo) List(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Phone, error) {
	q := postgres.Builder.Select(columns...).From(table).OrderBy("created_at DESC", "id DESC")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Search != nil && *filter.Search != "" {
		like := "%" + *filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"imei": like},
			squirrel.ILike{"brand": like},
			squirrel.ILike{"model": like},
		})
	}
	q = postgres.Page(q, filter.Limit, filter.Offset, maxLimit)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list phones: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}

	phones := make([]domain.Phone, len(rows))
	for i, rw := range rows {
		phones[i] = rw.toDomain()
	}
	return phones, nil
}
