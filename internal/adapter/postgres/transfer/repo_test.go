package transfer_test

import (
	"context"
	"testing"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/transfer"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

func TestRepo_Create_And_List(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := transfer.New(pool)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)
	dest := testhelper.SeedShop(t, pool)
	acc := testhelper.SeedAccessory(t, pool, user.ID, 6)

	id, err := repo.Create(ctx, domain.Transfer{
		ItemID:            acc.ID,
		ItemType:          domain.ItemTypeAccessory,
		Quantity:          6,
		SourceShopID:      testhelper.HomeShopID,
		DestinationShopID: dest.ID,
		TransferredBy:     user.ID,
		Notes:             "restock branch",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.List(ctx, domain.SaleFilter{Limit: 500}, 500)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, tr := range got {
		if tr.ID != id {
			continue
		}
		if tr.Quantity != 6 || tr.SourceShopID != testhelper.HomeShopID || tr.DestinationShopID != dest.ID {
			t.Errorf("unexpected transfer: %+v", tr)
		}
		return
	}
	t.Fatalf("transfer %d not listed", id)
}

func TestRepo_Create_SameShopRejected(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := transfer.New(pool)
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)

	_, err := repo.Create(context.Background(), domain.Transfer{
		ItemID:            1,
		ItemType:          domain.ItemTypePhone,
		Quantity:          1,
		SourceShopID:      testhelper.HomeShopID,
		DestinationShopID: testhelper.HomeShopID,
		TransferredBy:     user.ID,
	})
	if err == nil {
		t.Fatal("expected check violation for identical source and destination")
	}
}
