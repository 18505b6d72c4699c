// Package report implements read-only aggregate queries over stock, sales and
// transfers using PostgreSQL.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// Repo runs reporting aggregates.
type Repo struct {
	db postgres.DB
}

// New creates a new report repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// PhonesInStock counts sellable phones.
func (r *Repo) PhonesInStock(ctx context.Context) (int, error) {
	var n int
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, `SELECT count(*) FROM phones WHERE status = $1`, string(domain.PhoneStatusInStock)).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count phones in stock: %w", err)
	}
	return n, nil
}

// AccessoryStock returns units and lines in stock plus the number of sold-out lines.
func (r *Repo) AccessoryStock(ctx context.Context) (domain.AccessoryStock, error) {
	inStock := string(domain.AccessoryStatusInStock)
	query, args, err := postgres.Builder.
		Select().
		Column(squirrel.Expr("COALESCE(SUM(quantity) FILTER (WHERE status = ?), 0) AS units", inStock)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?) AS lines", inStock)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?) AS out_of_stock",
			string(domain.AccessoryStatusOutOfStock))).
		From("accessories").
		ToSql()
	if err != nil {
		return domain.AccessoryStock{}, fmt.Errorf("build accessory stock: %w", err)
	}

	var s domain.AccessoryStock
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &s, query, args...); err != nil {
		return domain.AccessoryStock{}, fmt.Errorf("accessory stock: %w", err)
	}
	return s, nil
}

// SalesTotals groups sales in [from, to) by item type. Nil bounds are open.
func (r *Repo) SalesTotals(ctx context.Context, from, to *time.Time) ([]domain.SalesTotal, error) {
	q := postgres.Builder.
		Select(
			"item_type",
			"COUNT(*) AS sales_count",
			"COALESCE(SUM(quantity), 0) AS units",
			"COALESCE(SUM(sale_price), 0)::text AS revenue",
		).
		From("sales").
		GroupBy("item_type").
		OrderBy("item_type")
	q = period(q, "sale_date", from, to)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sales totals: %w", err)
	}

	var totals []domain.SalesTotal
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &totals, query, args...); err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}
	return totals, nil
}

// TransferTotals counts transfers in [from, to) and the units moved per item type.
func (r *Repo) TransferTotals(ctx context.Context, from, to *time.Time) (domain.TransferTotals, error) {
	q := postgres.Builder.
		Select(
			"COUNT(*) AS transfers_count",
			"COALESCE(SUM(quantity) FILTER (WHERE item_type = 'phone'), 0) AS phone_units",
			"COALESCE(SUM(quantity) FILTER (WHERE item_type = 'accessory'), 0) AS accessory_units",
		).
		From("transfers")
	q = period(q, "transfer_date", from, to)

	query, args, err := q.ToSql()
	if err != nil {
		return domain.TransferTotals{}, fmt.Errorf("build transfer totals: %w", err)
	}

	var t domain.TransferTotals
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &t, query, args...); err != nil {
		return domain.TransferTotals{}, fmt.Errorf("transfer totals: %w", err)
	}
	return t, nil
}

func period(q squirrel.SelectBuilder, column string, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{column: *from})
	}
	if to != nil {
		q = q.Where(squirrel.Lt{column: *to})
	}
	return q
}
