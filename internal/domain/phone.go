package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IMEILength is the number of digits a phone IMEI must have.
const IMEILength = 15

// Phone is a single physical handset identified by its IMEI.
type Phone struct {
	ID            int64
	IMEI          string
	Brand         string
	Model         string
	Color         string
	Memory        string
	BuyingPrice   decimal.Decimal
	SellingPrice  decimal.Decimal
	Notes         string
	Status        PhoneStatus
	RegisteredBy  int64
	CurrentShopID int64
	CreatedAt     time.Time
	SoldPrice     *decimal.Decimal
	SoldAt        *time.Time
}

// IsInStock reports whether the phone can still be sold or transferred.
func (p *Phone) IsInStock() bool {
	return p.Status == PhoneStatusInStock
}

// IsValidIMEI reports whether s consists of exactly IMEILength ASCII digits.
func IsValidIMEI(s string) bool {
	if len(s) != IMEILength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// RetiredPhoneStatus returns the status a retire request leaves a phone in.
// Admins confirm the unit is gone; employees only flag it for review. Sold,
// transferred and damaged phones are settled and keep their status.
func RetiredPhoneStatus(current PhoneStatus, role UserRole) PhoneStatus {
	switch current {
	case PhoneStatusSold, PhoneStatusTransferred, PhoneStatusDamaged:
		return current
	}
	if role.IsAdmin() {
		return PhoneStatusDamaged
	}
	return PhoneStatusUnavailable
}
