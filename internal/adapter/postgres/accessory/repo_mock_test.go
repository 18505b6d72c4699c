package accessory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/accessory"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

var accessoryColumns = []string{
	"id", "name", "category", "brand", "buying_price", "selling_price",
	"quantity", "status", "registered_by", "created_at",
}

func newMockRepo(t *testing.T) (*accessory.Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return accessory.New(mock), mock
}

func TestRepo_Mock_DecrementStock_SingleConditionalUpdate(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := pgxmock.NewRows(accessoryColumns).
		AddRow(int64(7), "USB Cable", "cables", "", "800", "1200", 6, "in_stock", int64(1), time.Now())
	mock.ExpectQuery(`UPDATE accessories SET quantity = quantity - \$1, status = CASE WHEN quantity - \$2 <= 0 THEN \$3 ELSE \$4 END WHERE .*quantity >= \$7 RETURNING`).
		WithArgs(4, 4, "out_of_stock", "in_stock", int64(7), "in_stock", 4).
		WillReturnRows(rows)

	got, err := repo.DecrementStock(context.Background(), 7, 4)
	if err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}
	if got.Quantity != 6 {
		t.Errorf("Quantity = %d, want 6", got.Quantity)
	}
}

func TestRepo_Mock_DecrementStock_Insufficient(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE accessories`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT .* FROM accessories WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(accessoryColumns).
			AddRow(int64(7), "USB Cable", "cables", "", "800", "1200", 2, "in_stock", int64(1), time.Now()))

	_, err := repo.DecrementStock(context.Background(), 7, 3)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
}

func TestRepo_Mock_WriteOff_ZeroesQuantityWithStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE accessories SET quantity = \$1, status = \$2 WHERE id = \$3`).
		WithArgs(0, "out_of_stock", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.WriteOff(context.Background(), 7); err != nil {
		t.Fatalf("WriteOff: %v", err)
	}
}

func TestRepo_Mock_WriteOff_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE accessories`).
		WithArgs(0, "out_of_stock", int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.WriteOff(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
