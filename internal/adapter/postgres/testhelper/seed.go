package testhelper

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// HomeShopID is the home shop seeded by the initial migration.
const HomeShopID int64 = 1

// UniqueSuffix returns a short unique string for generating non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueIMEI returns a random 15-digit IMEI.
func UniqueIMEI() string {
	return fmt.Sprintf("%015d", rand.Int64N(1_000_000_000_000_000))
}

// SeedUser creates an active user with the given role and a throwaway password hash.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.UserRole) domain.User {
	t.Helper()

	hash := "$2a$04$seededhashseededhashseededhashseededhashseededhash12"
	user := domain.User{
		Username:     "user_" + UniqueSuffix(),
		FullName:     "Test User",
		Role:         role,
		PasswordHash: &hash,
		IsActive:     true,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, full_name, role, password_hash, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id, created_at, updated_at`,
		user.Username, user.FullName, string(user.Role), hash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return user
}

// SeedShop creates a non-home shop.
func SeedShop(t *testing.T, pool *pgxpool.Pool) domain.Shop {
	t.Helper()

	shop := domain.Shop{Name: "Shop " + UniqueSuffix(), Location: "Test street"}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO shops (name, location) VALUES ($1, $2) RETURNING id, created_at`,
		shop.Name, shop.Location,
	).Scan(&shop.ID, &shop.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedShop: %v", err)
	}

	return shop
}

// SeedPhone creates an in-stock phone in the home shop registered by userID.
func SeedPhone(t *testing.T, pool *pgxpool.Pool, userID int64) domain.Phone {
	t.Helper()

	phone := domain.Phone{
		IMEI:          UniqueIMEI(),
		Brand:         "Samsung",
		Model:         "Galaxy A54",
		Color:         "Black",
		Memory:        "128GB",
		BuyingPrice:   decimal.NewFromInt(100000),
		SellingPrice:  decimal.NewFromInt(150000),
		Status:        domain.PhoneStatusInStock,
		RegisteredBy:  userID,
		CurrentShopID: HomeShopID,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO phones (imei, brand, model, color, memory, buying_price, selling_price,
		                     status, registered_by, current_shop_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'in_stock', $8, $9)
		 RETURNING id, created_at`,
		phone.IMEI, phone.Brand, phone.Model, phone.Color, phone.Memory,
		phone.BuyingPrice, phone.SellingPrice, phone.RegisteredBy, phone.CurrentShopID,
	).Scan(&phone.ID, &phone.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedPhone: %v", err)
	}

	return phone
}

// SeedAccessory creates an in-stock accessory with a unique name.
func SeedAccessory(t *testing.T, pool *pgxpool.Pool, userID int64, quantity int) domain.Accessory {
	t.Helper()

	acc := domain.Accessory{
		Name:         "Cable " + UniqueSuffix(),
		Category:     "cables",
		Brand:        "Anker",
		BuyingPrice:  decimal.NewFromInt(800),
		SellingPrice: decimal.NewFromInt(1200),
		Quantity:     quantity,
		Status:       domain.DeriveAccessoryStatus(quantity),
		RegisteredBy: userID,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO accessories (name, category, brand, buying_price, selling_price,
		                          quantity, status, registered_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		acc.Name, acc.Category, acc.Brand, acc.BuyingPrice, acc.SellingPrice,
		acc.Quantity, string(acc.Status), acc.RegisteredBy,
	).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedAccessory: %v", err)
	}

	return acc
}
