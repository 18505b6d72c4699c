// Package transfer implements the append-only Transfer repository using PostgreSQL.
package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

const table = "transfers"

var columns = []string{
	"id", "item_id", "item_type", "quantity", "source_shop_id", "destination_shop_id",
	"transferred_by", "notes", "transfer_date",
}

// Repo provides transfer persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new transfer repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID                int64     `db:"id"`
	ItemID            int64     `db:"item_id"`
	ItemType          string    `db:"item_type"`
	Quantity          int       `db:"quantity"`
	SourceShopID      int64     `db:"source_shop_id"`
	DestinationShopID int64     `db:"destination_shop_id"`
	TransferredBy     int64     `db:"transferred_by"`
	Notes             string    `db:"notes"`
	TransferDate      time.Time `db:"transfer_date"`
}

func (r row) toDomain() domain.Transfer {
	return domain.Transfer{
		ID:                r.ID,
		ItemID:            r.ItemID,
		ItemType:          domain.ItemType(r.ItemType),
		Quantity:          r.Quantity,
		SourceShopID:      r.SourceShopID,
		DestinationShopID: r.DestinationShopID,
		TransferredBy:     r.TransferredBy,
		Notes:             r.Notes,
		TransferDate:      r.TransferDate,
	}
}

// Create inserts a transfer and returns its id.
func (r *Repo) Create(ctx context.Context, t domain.Transfer) (int64, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns("item_id", "item_type", "quantity", "source_shop_id", "destination_shop_id",
			"transferred_by", "notes").
		Values(t.ItemID, string(t.ItemType), t.Quantity, t.SourceShopID, t.DestinationShopID,
			t.TransferredBy, t.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert transfer: %w", err)
	}

	var id int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "transfer", 0)
	}
	return id, nil
}

// List returns transfers matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.SaleFilter, maxLimit int) ([]domain.Transfer, error) {
	q := postgres.Builder.Select(columns...).From(table).OrderBy("transfer_date DESC", "id DESC")

	if filter.ItemType != nil {
		q = q.Where(squirrel.Eq{"item_type": string(*filter.ItemType)})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"transfer_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"transfer_date": *filter.To})
	}
	q = postgres.Page(q, filter.Limit, filter.Offset, maxLimit)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list transfers: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	out := make([]domain.Transfer, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
