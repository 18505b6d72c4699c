package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of a completed sale.
// SalePrice is the total for the line, never the per-unit price.
type Sale struct {
	ID            int64
	ItemID        int64
	ItemType      ItemType
	Quantity      int
	SalePrice     decimal.Decimal
	CustomerName  string
	CustomerPhone string
	PaymentMethod PaymentMethod
	Notes         string
	SoldBy        int64
	ShopID        int64
	SaleDate      time.Time
}

// Transfer is an immutable record of stock moved to another shop.
type Transfer struct {
	ID                int64
	ItemID            int64
	ItemType          ItemType
	Quantity          int
	SourceShopID      int64
	DestinationShopID int64
	TransferredBy     int64
	Notes             string
	TransferDate      time.Time
}

// Shop is a physical location stock can live in.
type Shop struct {
	ID        int64
	Name      string
	Location  string
	IsHome    bool
	CreatedAt time.Time
}

// TotalPrice returns pricePerUnit * quantity.
func TotalPrice(pricePerUnit decimal.Decimal, quantity int) decimal.Decimal {
	return pricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
}
