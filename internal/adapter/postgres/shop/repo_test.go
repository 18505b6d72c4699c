package shop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/shop"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

func TestRepo_GetByID_HomeShop(t *testing.T) {
	t.Parallel()
	repo := shop.New(testhelper.SetupTestDB(t))

	got, err := repo.GetByID(context.Background(), testhelper.HomeShopID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsHome || got.Name != "Main Shop" {
		t.Errorf("unexpected home shop: %+v", got)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo := shop.New(testhelper.SetupTestDB(t))

	_, err := repo.GetByID(context.Background(), 999_999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_List(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := shop.New(pool)
	seeded := testhelper.SeedShop(t, pool)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) < 4 {
		t.Fatalf("expected the three migrated shops plus one seeded, got %d", len(got))
	}
	var found bool
	for _, s := range got {
		if s.ID == seeded.ID {
			found = true
		}
	}
	if !found {
		t.Error("seeded shop not listed")
	}
}
