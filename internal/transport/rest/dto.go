package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

func money(d decimal.Decimal) string { return d.StringFixed(2) }

type phoneResponse struct {
	ID            int64      `json:"id"`
	IMEI          string     `json:"imei"`
	Brand         string     `json:"brand"`
	Model         string     `json:"model"`
	Color         string     `json:"color,omitempty"`
	Memory        string     `json:"memory,omitempty"`
	BuyingPrice   string     `json:"buying_price"`
	SellingPrice  string     `json:"selling_price"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status"`
	CurrentShopID int64      `json:"current_shop_id"`
	RegisteredBy  int64      `json:"registered_by"`
	CreatedAt     time.Time  `json:"created_at"`
	SoldPrice     *string    `json:"sold_price,omitempty"`
	SoldAt        *time.Time `json:"sold_at,omitempty"`
}

func toPhoneResponse(p domain.Phone) phoneResponse {
	resp := phoneResponse{
		ID:            p.ID,
		IMEI:          p.IMEI,
		Brand:         p.Brand,
		Model:         p.Model,
		Color:         p.Color,
		Memory:        p.Memory,
		BuyingPrice:   money(p.BuyingPrice),
		SellingPrice:  money(p.SellingPrice),
		Notes:         p.Notes,
		Status:        p.Status.String(),
		CurrentShopID: p.CurrentShopID,
		RegisteredBy:  p.RegisteredBy,
		CreatedAt:     p.CreatedAt,
		SoldAt:        p.SoldAt,
	}
	if p.SoldPrice != nil {
		s := money(*p.SoldPrice)
		resp.SoldPrice = &s
	}
	return resp
}

type accessoryResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Brand        string    `json:"brand,omitempty"`
	BuyingPrice  string    `json:"buying_price"`
	SellingPrice string    `json:"selling_price"`
	Quantity     int       `json:"quantity"`
	Status       string    `json:"status"`
	RegisteredBy int64     `json:"registered_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAccessoryResponse(a domain.Accessory) accessoryResponse {
	return accessoryResponse{
		ID:           a.ID,
		Name:         a.Name,
		Category:     a.Category,
		Brand:        a.Brand,
		BuyingPrice:  money(a.BuyingPrice),
		SellingPrice: money(a.SellingPrice),
		Quantity:     a.Quantity,
		Status:       a.Status.String(),
		RegisteredBy: a.RegisteredBy,
		CreatedAt:    a.CreatedAt,
	}
}

type saleResponse struct {
	ID            int64     `json:"id"`
	ItemType      string    `json:"item_type"`
	ItemID        int64     `json:"item_id"`
	Quantity      int       `json:"quantity"`
	SalePrice     string    `json:"sale_price"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes,omitempty"`
	SoldBy        int64     `json:"sold_by"`
	ShopID        int64     `json:"shop_id"`
	SaleDate      time.Time `json:"sale_date"`
}

func toSaleResponse(s domain.Sale) saleResponse {
	return saleResponse{
		ID:            s.ID,
		ItemType:      s.ItemType.String(),
		ItemID:        s.ItemID,
		Quantity:      s.Quantity,
		SalePrice:     money(s.SalePrice),
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		PaymentMethod: s.PaymentMethod.String(),
		Notes:         s.Notes,
		SoldBy:        s.SoldBy,
		ShopID:        s.ShopID,
		SaleDate:      s.SaleDate,
	}
}

type transferResponse struct {
	ID                int64     `json:"id"`
	ItemType          string    `json:"item_type"`
	ItemID            int64     `json:"item_id"`
	Quantity          int       `json:"quantity"`
	SourceShopID      int64     `json:"source_shop_id"`
	DestinationShopID int64     `json:"destination_shop_id"`
	TransferredBy     int64     `json:"transferred_by"`
	Notes             string    `json:"notes,omitempty"`
	TransferDate      time.Time `json:"transfer_date"`
}

func toTransferResponse(t domain.Transfer) transferResponse {
	return transferResponse{
		ID:                t.ID,
		ItemType:          t.ItemType.String(),
		ItemID:            t.ItemID,
		Quantity:          t.Quantity,
		SourceShopID:      t.SourceShopID,
		DestinationShopID: t.DestinationShopID,
		TransferredBy:     t.TransferredBy,
		Notes:             t.Notes,
		TransferDate:      t.TransferDate,
	}
}

type shopResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	IsHome   bool   `json:"is_home"`
}

type userResponse struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	FullName          string    `json:"full_name,omitempty"`
	Role              string    `json:"role"`
	IsActive          bool      `json:"is_active"`
	MustResetPassword bool      `json:"must_reset_password"`
	PendingInvite     bool      `json:"pending_invite"`
	CreatedAt         time.Time `json:"created_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:                u.ID,
		Username:          u.Username,
		FullName:          u.FullName,
		Role:              u.Role.String(),
		IsActive:          u.IsActive,
		MustResetPassword: u.MustResetPassword,
		PendingInvite:     u.PasswordHash == nil,
		CreatedAt:         u.CreatedAt,
	}
}

type activityResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Action      string    `json:"action_type"`
	Description string    `json:"description"`
	EntityType  *string   `json:"entity_type,omitempty"`
	EntityID    *int64    `json:"entity_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toActivityResponse(e domain.ActivityEntry) activityResponse {
	resp := activityResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Action:      e.Action.String(),
		Description: e.Description,
		EntityID:    e.EntityID,
		CreatedAt:   e.CreatedAt,
	}
	if e.EntityType != nil {
		s := e.EntityType.String()
		resp.EntityType = &s
	}
	return resp
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
