package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Accessory is a named, categorized stock row tracked by quantity.
// Rows are merged on (Name, Category) while in stock.
type Accessory struct {
	ID           int64
	Name         string
	Category     string
	Brand        string
	BuyingPrice  decimal.Decimal
	SellingPrice decimal.Decimal
	Quantity     int
	Status       AccessoryStatus
	RegisteredBy int64
	CreatedAt    time.Time
}

// DeriveAccessoryStatus maps a remaining quantity to the stock status.
// Every path that changes an accessory quantity goes through it.
func DeriveAccessoryStatus(quantity int) AccessoryStatus {
	if quantity <= 0 {
		return AccessoryStatusOutOfStock
	}
	return AccessoryStatusInStock
}

// RetiredAccessoryStatus returns the status a retire request moves an accessory to.
// The admin outcome is a write-off: quantity drops to 0 along with the status.
func RetiredAccessoryStatus(role UserRole) AccessoryStatus {
	if role.IsAdmin() {
		return AccessoryStatusOutOfStock
	}
	return AccessoryStatusUnavailable
}
