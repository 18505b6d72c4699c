package inventory

import "github.com/heartmarshall/phoneshop-backend/internal/domain"

// AddAccessoryResult reports the affected row and whether it was created or merged.
type AddAccessoryResult struct {
	ID       int64
	Created  bool
	Quantity int
}

// Inventory is a listing of both stock kinds.
type Inventory struct {
	Phones      []domain.Phone
	Accessories []domain.Accessory
}
