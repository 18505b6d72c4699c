package phone_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/phone"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

func newRepo(t *testing.T) (*phone.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return phone.New(pool), pool
}

func buildPhone(userID int64, imei string) domain.Phone {
	return domain.Phone{
		IMEI:          imei,
		Brand:         "Tecno",
		Model:         "Spark 20",
		Color:         "Blue",
		Memory:        "256GB",
		BuyingPrice:   decimal.NewFromInt(400000),
		SellingPrice:  decimal.NewFromInt(520000),
		RegisteredBy:  userID,
		CurrentShopID: testhelper.HomeShopID,
	}
}

func TestRepo_Create_And_GetByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)

	input := buildPhone(user.ID, testhelper.UniqueIMEI())
	id, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.IMEI != input.IMEI || got.Brand != "Tecno" || got.Model != "Spark 20" {
		t.Errorf("unexpected phone: %+v", got)
	}
	if got.Status != domain.PhoneStatusInStock {
		t.Errorf("Status = %s, want in_stock", got.Status)
	}
	if !got.BuyingPrice.Equal(input.BuyingPrice) {
		t.Errorf("BuyingPrice = %s, want %s", got.BuyingPrice, input.BuyingPrice)
	}
	if got.SoldPrice != nil || got.SoldAt != nil {
		t.Error("fresh phone must not carry sold fields")
	}
}

func TestRepo_Create_DuplicateInStockIMEI(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)
	imei := testhelper.UniqueIMEI()

	if _, err := repo.Create(ctx, buildPhone(user.ID, imei)); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := repo.Create(ctx, buildPhone(user.ID, imei))
	if !errors.Is(err, domain.ErrDuplicateImei) {
		t.Fatalf("expected ErrDuplicateImei, got: %v", err)
	}
}

func TestRepo_Create_IMEIReusableAfterSale(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)
	imei := testhelper.UniqueIMEI()

	id, err := repo.Create(ctx, buildPhone(user.ID, imei))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.MarkSold(ctx, id, decimal.NewFromInt(500000), time.Now()); err != nil {
		t.Fatalf("MarkSold: %v", err)
	}

	exists, err := repo.ExistsInStockIMEI(ctx, imei)
	if err != nil {
		t.Fatalf("ExistsInStockIMEI: %v", err)
	}
	if exists {
		t.Fatal("sold phone must not count as in stock")
	}

	if _, err := repo.Create(ctx, buildPhone(user.ID, imei)); err != nil {
		t.Fatalf("re-registering a sold IMEI should succeed: %v", err)
	}
}

func TestRepo_MarkSold_OnlyOnce(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)
	p := testhelper.SeedPhone(t, pool, user.ID)

	price := decimal.NewFromInt(150000)
	if err := repo.MarkSold(ctx, p.ID, price, time.Now()); err != nil {
		t.Fatalf("MarkSold: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.PhoneStatusSold {
		t.Errorf("Status = %s, want sold", got.Status)
	}
	if got.SoldPrice == nil || !got.SoldPrice.Equal(price) {
		t.Errorf("SoldPrice = %v, want %s", got.SoldPrice, price)
	}
	if got.SoldAt == nil {
		t.Error("SoldAt should be set")
	}

	err = repo.MarkSold(ctx, p.ID, price, time.Now())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second MarkSold: expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_MarkTransferred(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)
	p := testhelper.SeedPhone(t, pool, user.ID)
	dest := testhelper.SeedShop(t, pool)

	if err := repo.MarkTransferred(ctx, p.ID, dest.ID); err != nil {
		t.Fatalf("MarkTransferred: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.PhoneStatusTransferred {
		t.Errorf("Status = %s, want transferred", got.Status)
	}
	if got.CurrentShopID != dest.ID {
		t.Errorf("CurrentShopID = %d, want %d", got.CurrentShopID, dest.ID)
	}
}

func TestRepo_SetStatus_Idempotent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)
	p := testhelper.SeedPhone(t, pool, user.ID)

	for range 2 {
		if err := repo.SetStatus(ctx, p.ID, domain.PhoneStatusDamaged); err != nil {
			t.Fatalf("SetStatus: %v", err)
		}
	}

	if err := repo.SetStatus(ctx, 999_999_999, domain.PhoneStatusDamaged); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing phone, got: %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), 999_999_999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_List_SearchAndStatus(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleAdmin)
	p := testhelper.SeedPhone(t, pool, user.ID)

	search := p.IMEI
	status := string(domain.PhoneStatusInStock)
	got, err := repo.List(ctx, domain.InventoryFilter{Search: &search, Status: &status}, 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != p.ID {
		t.Fatalf("expected exactly the seeded phone, got %d rows", len(got))
	}

	sold := string(domain.PhoneStatusSold)
	got, err = repo.List(ctx, domain.InventoryFilter{Search: &search, Status: &sold}, 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no sold phones, got %d", len(got))
	}
}
