// Package sale implements the append-only Sale repository using PostgreSQL.
package sale

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

const table = "sales"

var columns = []string{
	"id", "item_id", "item_type", "quantity", "sale_price", "customer_name", "customer_phone",
	"payment_method", "notes", "sold_by", "shop_id", "sale_date",
}

// Repo provides sale persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new sale repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID            int64           `db:"id"`
	ItemID        int64           `db:"item_id"`
	ItemType      string          `db:"item_type"`
	Quantity      int             `db:"quantity"`
	SalePrice     decimal.Decimal `db:"sale_price"`
	CustomerName  string          `db:"customer_name"`
	CustomerPhone string          `db:"customer_phone"`
	PaymentMethod string          `db:"payment_method"`
	Notes         string          `db:"notes"`
	SoldBy        int64           `db:"sold_by"`
	ShopID        int64           `db:"shop_id"`
	SaleDate      time.Time       `db:"sale_date"`
}

func (r row) toDomain() domain.Sale {
	return domain.Sale{
		ID:            r.ID,
		ItemID:        r.ItemID,
		ItemType:      domain.ItemType(r.ItemType),
		Quantity:      r.Quantity,
		SalePrice:     r.SalePrice,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Notes:         r.Notes,
		SoldBy:        r.SoldBy,
		ShopID:        r.ShopID,
		SaleDate:      r.SaleDate,
	}
}

// Create inserts a sale and returns its id. SaleDate defaults to now() when zero.
func (r *Repo) Create(ctx context.Context, s domain.Sale) (int64, error) {
	cols := []string{"item_id", "item_type", "quantity", "sale_price", "customer_name",
		"customer_phone", "payment_method", "notes", "sold_by", "shop_id"}
	vals := []any{s.ItemID, string(s.ItemType), s.Quantity, s.SalePrice, s.CustomerName,
		s.CustomerPhone, string(s.PaymentMethod), s.Notes, s.SoldBy, s.ShopID}
	if !s.SaleDate.IsZero() {
		cols = append(cols, "sale_date")
		vals = append(vals, s.SaleDate)
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert sale: %w", err)
	}

	var id int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "sale", 0)
	}
	return id, nil
}

// List returns sales matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.SaleFilter, maxLimit int) ([]domain.Sale, error) {
	q := postgres.Builder.Select(columns...).From(table).OrderBy("sale_date DESC", "id DESC")

	if filter.ItemType != nil {
		q = q.Where(squirrel.Eq{"item_type": string(*filter.ItemType)})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"sale_date": *filter.To})
	}
	q = postgres.Page(q, filter.Limit, filter.Offset, maxLimit)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	out := make([]domain.Sale, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
