package domain

import "time"

// InventoryFilter contains filtering/pagination parameters for stock listings.
type InventoryFilter struct {
	Search *string
	Status *string
	Limit  int
	Offset int
}

// SaleFilter narrows sale and transfer listings.
type SaleFilter struct {
	ItemType *ItemType
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// InventorySummary is the aggregate view used by the dashboard and reports.
type InventorySummary struct {
	PhonesInStock        int
	AccessoryUnits       int
	AccessoryLines       int
	OutOfStockAccessory  int
	Sales                []SalesTotal
	TransfersCount       int
	TransferredPhones    int
	TransferredAccessory int
}

// SalesTotal aggregates sales for one item type.
type SalesTotal struct {
	ItemType ItemType `db:"item_type"`
	Count    int      `db:"sales_count"`
	Units    int      `db:"units"`
	Revenue  string   `db:"revenue"`
}

// AccessoryStock aggregates accessory rows.
type AccessoryStock struct {
	Units      int `db:"units"`
	Lines      int `db:"lines"`
	OutOfStock int `db:"out_of_stock"`
}

// TransferTotals aggregates transfers in a period.
type TransferTotals struct {
	Count          int `db:"transfers_count"`
	PhoneUnits     int `db:"phone_units"`
	AccessoryUnits int `db:"accessory_units"`
}
