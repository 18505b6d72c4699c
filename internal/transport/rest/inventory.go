package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/service/inventory"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/middleware"
)

// inventoryService is the part of the inventory core used by the JSON API and
// the form handlers.
type inventoryService interface {
	AddPhone(ctx context.Context, auth domain.AuthContext, input inventory.AddPhoneInput) (int64, error)
	AddAccessory(ctx context.Context, auth domain.AuthContext, input inventory.AddAccessoryInput) (*inventory.AddAccessoryResult, error)
	SellPhone(ctx context.Context, auth domain.AuthContext, input inventory.SellPhoneInput) (int64, error)
	SellAccessory(ctx context.Context, auth domain.AuthContext, input inventory.SellAccessoryInput) (int64, error)
	TransferItem(ctx context.Context, auth domain.AuthContext, input inventory.TransferInput) (int64, error)
	RetireItem(ctx context.Context, auth domain.AuthContext, input inventory.RetireInput) error
	ListInventory(ctx context.Context, auth domain.AuthContext, input inventory.ListInventoryInput) (*inventory.Inventory, error)
	ListSales(ctx context.Context, auth domain.AuthContext, filter domain.SaleFilter) ([]domain.Sale, error)
	ListTransfers(ctx context.Context, auth domain.AuthContext, filter domain.SaleFilter) ([]domain.Transfer, error)
	ListShops(ctx context.Context, auth domain.AuthContext) ([]domain.Shop, error)
}

// InventoryHandler serves the admin JSON API over the inventory core.
type InventoryHandler struct {
	svc inventoryService
	log *slog.Logger
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(svc inventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, log: logger.With("handler", "inventory")}
}

type itemTypeEnvelope struct {
	ItemType domain.ItemType `json:"item_type"`
}

// AddItem handles POST /api/add_item. The body carries item_type plus the
// fields of the phone or accessory.
func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	var env itemTypeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		handleError(h.log, w, r, errInvalidBody)
		return
	}

	actor := middleware.Actor(r.Context())
	switch env.ItemType {
	case domain.ItemTypePhone:
		var in inventory.AddPhoneInput
		if err := json.Unmarshal(raw, &in); err != nil {
			handleError(h.log, w, r, errInvalidBody)
			return
		}
		id, err := h.svc.AddPhone(r.Context(), actor, in)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, map[string]any{"id": id, "item_type": domain.ItemTypePhone})

	case domain.ItemTypeAccessory:
		var in inventory.AddAccessoryInput
		if err := json.Unmarshal(raw, &in); err != nil {
			handleError(h.log, w, r, errInvalidBody)
			return
		}
		res, err := h.svc.AddAccessory(r.Context(), actor, in)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeSuccess(w, status, map[string]any{
			"id":        res.ID,
			"item_type": domain.ItemTypeAccessory,
			"created":   res.Created,
			"quantity":  res.Quantity,
		})

	default:
		handleError(h.log, w, r, domain.NewValidationError("item_type", "must be one of: phone accessory"))
	}
}

// DeleteItem handles POST /api/delete_item.
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	var in inventory.RetireInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := h.svc.RetireItem(r.Context(), middleware.Actor(r.Context()), in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

// GetInventory handles GET /api/get_inventory.
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	itemType, err := parseItemType(q.Get("item_type"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	limit, offset, err := parsePage(q)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	inv, err := h.svc.ListInventory(r.Context(), middleware.Actor(r.Context()), inventory.ListInventoryInput{
		ItemType: itemType,
		Status:   optionalString(q, "status"),
		Search:   optionalString(q, "search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"phones":      mapSlice(inv.Phones, toPhoneResponse),
		"accessories": mapSlice(inv.Accessories, toAccessoryResponse),
	})
}

type sellItemRequest struct {
	ItemType domain.ItemType `json:"item_type"`
	ItemID   int64           `json:"item_id"`
	Quantity int             `json:"quantity"`
	// Price is the phone's sale price or the accessory's price per unit.
	Price decimal.Decimal `json:"price"`
	inventory.SaleDetails
}

// SellItem handles POST /api/sell_item.
func (h *InventoryHandler) SellItem(w http.ResponseWriter, r *http.Request) {
	var req sellItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	saleID, err := sell(r.Context(), h.svc, middleware.Actor(r.Context()), req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"sale_id": saleID})
}

func sell(ctx context.Context, svc inventoryService, actor domain.AuthContext, req sellItemRequest) (int64, error) {
	switch req.ItemType {
	case domain.ItemTypePhone:
		return svc.SellPhone(ctx, actor, inventory.SellPhoneInput{
			PhoneID:     req.ItemID,
			SalePrice:   req.Price,
			SaleDetails: req.SaleDetails,
		})
	case domain.ItemTypeAccessory:
		return svc.SellAccessory(ctx, actor, inventory.SellAccessoryInput{
			AccessoryID:  req.ItemID,
			Quantity:     req.Quantity,
			PricePerUnit: req.Price,
			SaleDetails:  req.SaleDetails,
		})
	default:
		return 0, domain.NewValidationError("item_type", "must be one of: phone accessory")
	}
}

// TransferItem handles POST /api/transfer_item.
func (h *InventoryHandler) TransferItem(w http.ResponseWriter, r *http.Request) {
	var in inventory.TransferInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	id, err := h.svc.TransferItem(r.Context(), middleware.Actor(r.Context()), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"transfer_id": id})
}

func saleFilter(r *http.Request) (domain.SaleFilter, error) {
	q := r.URL.Query()
	itemType, err := parseItemType(q.Get("item_type"))
	if err != nil {
		return domain.SaleFilter{}, err
	}
	from, to, err := parsePeriod(q)
	if err != nil {
		return domain.SaleFilter{}, err
	}
	limit, offset, err := parsePage(q)
	if err != nil {
		return domain.SaleFilter{}, err
	}
	return domain.SaleFilter{ItemType: itemType, From: from, To: to, Limit: limit, Offset: offset}, nil
}

// ListSales handles GET /api/sales.
func (h *InventoryHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	filter, err := saleFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	sales, err := h.svc.ListSales(r.Context(), middleware.Actor(r.Context()), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"sales": mapSlice(sales, toSaleResponse)})
}

// ListTransfers handles GET /api/transfers.
func (h *InventoryHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	filter, err := saleFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	transfers, err := h.svc.ListTransfers(r.Context(), middleware.Actor(r.Context()), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"transfers": mapSlice(transfers, toTransferResponse)})
}

// ListShops handles GET /api/shops.
func (h *InventoryHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.svc.ListShops(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"shops": mapSlice(shops, func(s domain.Shop) shopResponse {
		return shopResponse{ID: s.ID, Name: s.Name, Location: s.Location, IsHome: s.IsHome}
	})})
}
