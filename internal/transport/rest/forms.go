package rest

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/service/inventory"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/middleware"
)

const defaultFormRedirect = "/dashboard"

// Status flags appended to the redirect after a successful form submission.
const (
	FlagPhoneAdded       = "phone_added"
	FlagAccessoryAdded   = "accessory_added"
	FlagAccessoryUpdated = "accessory_updated"
	FlagPhoneSold        = "phone_sold"
	FlagAccessorySold    = "accessory_sold"
	FlagItemTransferred  = "item_transferred"
	FlagItemRetired      = "item_retired"
)

// FormHandler serves the url-encoded forms used by the shop floor pages. Every
// outcome is a 303 redirect so that a browser refresh never resubmits.
type FormHandler struct {
	svc inventoryService
	log *slog.Logger
}

// NewFormHandler creates a FormHandler.
func NewFormHandler(svc inventoryService, logger *slog.Logger) *FormHandler {
	return &FormHandler{svc: svc, log: logger.With("handler", "form")}
}

// AddPhone handles POST /forms/phones.
func (h *FormHandler) AddPhone(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parse(w, r)
	if !ok {
		return
	}
	in := inventory.AddPhoneInput{
		IMEI:         f.str("imei"),
		Brand:        f.str("brand"),
		Model:        f.str("model"),
		Color:        f.str("color"),
		Memory:       f.str("memory"),
		BuyingPrice:  f.money("buying_price"),
		SellingPrice: f.money("selling_price"),
		Notes:        f.str("notes"),
	}
	if f.err != nil {
		h.fail(w, r, f.err)
		return
	}

	if _, err := h.svc.AddPhone(r.Context(), middleware.Actor(r.Context()), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.succeed(w, r, FlagPhoneAdded)
}

// AddAccessory handles POST /forms/accessories. Adding stock of an existing
// accessory merges into it.
func (h *FormHandler) AddAccessory(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parse(w, r)
	if !ok {
		return
	}
	in := inventory.AddAccessoryInput{
		Name:         f.str("name"),
		Category:     f.str("category"),
		Brand:        f.str("brand"),
		BuyingPrice:  f.money("buying_price"),
		SellingPrice: f.money("selling_price"),
		Quantity:     f.integer("quantity", 1),
	}
	if f.err != nil {
		h.fail(w, r, f.err)
		return
	}

	res, err := h.svc.AddAccessory(r.Context(), middleware.Actor(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if res.Created {
		h.succeed(w, r, FlagAccessoryAdded)
		return
	}
	h.succeed(w, r, FlagAccessoryUpdated)
}

func saleDetails(f *formReader) inventory.SaleDetails {
	return inventory.SaleDetails{
		CustomerName:  f.str("customer_name"),
		CustomerPhone: f.str("customer_phone"),
		PaymentMethod: domain.PaymentMethod(strings.ToLower(f.str("payment_method"))),
		Notes:         f.str("notes"),
	}
}

// SellPhone handles POST /forms/phones/{id}/sell.
func (h *FormHandler) SellPhone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	f, ok := h.parse(w, r)
	if !ok {
		return
	}
	in := inventory.SellPhoneInput{
		PhoneID:     id,
		SalePrice:   f.money("sale_price"),
		SaleDetails: saleDetails(f),
	}
	if f.err != nil {
		h.fail(w, r, f.err)
		return
	}

	if _, err := h.svc.SellPhone(r.Context(), middleware.Actor(r.Context()), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.succeed(w, r, FlagPhoneSold)
}

// SellAccessory handles POST /forms/accessories/{id}/sell.
func (h *FormHandler) SellAccessory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	f, ok := h.parse(w, r)
	if !ok {
		return
	}
	in := inventory.SellAccessoryInput{
		AccessoryID:  id,
		Quantity:     f.integer("quantity", 1),
		PricePerUnit: f.money("price_per_unit"),
		SaleDetails:  saleDetails(f),
	}
	if f.err != nil {
		h.fail(w, r, f.err)
		return
	}

	if _, err := h.svc.SellAccessory(r.Context(), middleware.Actor(r.Context()), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.succeed(w, r, FlagAccessorySold)
}

// Transfer handles POST /forms/transfers.
func (h *FormHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parse(w, r)
	if !ok {
		return
	}
	in := inventory.TransferInput{
		ItemType:          domain.ItemType(strings.ToLower(f.str("item_type"))),
		ItemID:            f.id("item_id"),
		Quantity:          f.integer("quantity", 1),
		DestinationShopID: f.id("destination_shop_id"),
		Notes:             f.str("notes"),
	}
	if f.err != nil {
		h.fail(w, r, f.err)
		return
	}

	if _, err := h.svc.TransferItem(r.Context(), middleware.Actor(r.Context()), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.succeed(w, r, FlagItemTransferred)
}

// Retire handles POST /forms/retire.
func (h *FormHandler) Retire(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parse(w, r)
	if !ok {
		return
	}
	in := inventory.RetireInput{
		ItemType: domain.ItemType(strings.ToLower(f.str("item_type"))),
		ItemID:   f.id("item_id"),
	}
	if f.err != nil {
		h.fail(w, r, f.err)
		return
	}

	if err := h.svc.RetireItem(r.Context(), middleware.Actor(r.Context()), in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.succeed(w, r, FlagItemRetired)
}

func (h *FormHandler) parse(w http.ResponseWriter, r *http.Request) (*formReader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, domain.NewValidationError("body", "invalid form"))
		return nil, false
	}
	return &formReader{values: r.PostForm}, true
}

func (h *FormHandler) succeed(w http.ResponseWriter, r *http.Request, flag string) {
	http.Redirect(w, r, withQuery(formRedirect(r), "status", flag), http.StatusSeeOther)
}

func (h *FormHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "form submission failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	http.Redirect(w, r, withQuery(formRedirect(r), "error", publicMessage(err)), http.StatusSeeOther)
}

// formRedirect returns the local path named by the redirect field. Absolute
// and scheme-relative targets fall back to the default.
func formRedirect(r *http.Request) string {
	target := strings.TrimSpace(r.PostFormValue("redirect"))
	if target == "" || !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultFormRedirect
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return defaultFormRedirect
	}
	return target
}

func withQuery(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: defaultFormRedirect}
	}
	q := u.Query()
	q.Del("status")
	q.Del("error")
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
