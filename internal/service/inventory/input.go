package inventory

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/pkg/validate"
)

// Money fields fit NUMERIC(14,2) and quantities stay well inside INTEGER; the
// validate tags below spell out the same bounds.
const (
	MaxMoney    = "999999999999.99"
	MaxQuantity = 100000
)

var maxMoney = decimal.RequireFromString(MaxMoney)

// AddPhoneInput holds parameters for AddPhone.
type AddPhoneInput struct {
	IMEI         string          `json:"imei"          validate:"required,imei"`
	Brand        string          `json:"brand"         validate:"required,max=100"`
	Model        string          `json:"model"         validate:"required,max=100"`
	Color        string          `json:"color"         validate:"max=50"`
	Memory       string          `json:"memory"        validate:"max=50"`
	BuyingPrice  decimal.Decimal `json:"buying_price"  validate:"gte=0,lte=999999999999.99,cents"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"gte=0,lte=999999999999.99,cents"`
	Notes        string          `json:"notes"         validate:"max=1000"`
}

func (i *AddPhoneInput) normalize() {
	i.IMEI = domain.CleanText(i.IMEI)
	i.Brand = domain.CleanText(i.Brand)
	i.Model = domain.CleanText(i.Model)
	i.Color = domain.CleanText(i.Color)
	i.Memory = domain.CleanText(i.Memory)
	i.Notes = domain.CleanText(i.Notes)
}

// Validate validates the add phone input.
func (i AddPhoneInput) Validate() error {
	return validate.Struct(i)
}

// AddAccessoryInput holds parameters for AddAccessory.
type AddAccessoryInput struct {
	Name         string          `json:"name"          validate:"required,max=150"`
	Category     string          `json:"category"      validate:"required,max=100"`
	Brand        string          `json:"brand"         validate:"max=100"`
	BuyingPrice  decimal.Decimal `json:"buying_price"  validate:"gte=0,lte=999999999999.99,cents"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"gte=0,lte=999999999999.99,cents"`
	Quantity     int             `json:"quantity"      validate:"gte=1,lte=100000"`
}

func (i *AddAccessoryInput) normalize() {
	i.Name = domain.CleanText(i.Name)
	i.Category = domain.CleanText(i.Category)
	i.Brand = domain.CleanText(i.Brand)
}

// Validate validates the add accessory input.
func (i AddAccessoryInput) Validate() error {
	return validate.Struct(i)
}

// SaleDetails are the customer and payment fields shared by both sale kinds.
type SaleDetails struct {
	CustomerName  string               `json:"customer_name"  validate:"max=150"`
	CustomerPhone string               `json:"customer_phone" validate:"max=30"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash mobile_money card credit"`
	Notes         string               `json:"notes"          validate:"max=1000"`
}

func (d *SaleDetails) normalize() {
	d.CustomerName = domain.CleanText(d.CustomerName)
	d.CustomerPhone = domain.CleanText(d.CustomerPhone)
	d.Notes = domain.CleanText(d.Notes)
	if d.PaymentMethod == "" {
		d.PaymentMethod = domain.PaymentMethodCash
	}
}

// SellPhoneInput holds parameters for SellPhone.
type SellPhoneInput struct {
	PhoneID   int64           `json:"phone_id"   validate:"gt=0"`
	SalePrice decimal.Decimal `json:"sale_price" validate:"gt=0,lte=999999999999.99,cents"`
	SaleDetails
}

// Validate validates the sell phone input.
func (i SellPhoneInput) Validate() error {
	return validate.Struct(i)
}

// SellAccessoryInput holds parameters for SellAccessory.
type SellAccessoryInput struct {
	AccessoryID  int64           `json:"accessory_id"   validate:"gt=0"`
	Quantity     int             `json:"quantity"       validate:"gte=1,lte=100000"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"gt=0,lte=999999999999.99,cents"`
	SaleDetails
}

// Validate validates the sell accessory input.
func (i SellAccessoryInput) Validate() error {
	return validate.Struct(i)
}

// TransferInput holds parameters for TransferItem.
// Quantity is ignored for phones.
type TransferInput struct {
	ItemType          domain.ItemType `json:"item_type"           validate:"required,oneof=phone accessory"`
	ItemID            int64           `json:"item_id"             validate:"gt=0"`
	Quantity          int             `json:"quantity"`
	DestinationShopID int64           `json:"destination_shop_id" validate:"gt=0"`
	Notes             string          `json:"notes"               validate:"max=1000"`
}

// Validate validates the transfer input.
func (i TransferInput) Validate() error {
	if err := validate.Struct(i); err != nil {
		return err
	}
	if i.ItemType == domain.ItemTypeAccessory {
		if i.Quantity < 1 {
			return domain.NewValidationError("quantity", "must be at least 1")
		}
		if i.Quantity > MaxQuantity {
			return domain.NewValidationError("quantity", "must be at most "+strconv.Itoa(MaxQuantity))
		}
	}
	return nil
}

// RetireInput identifies the item to retire.
type RetireInput struct {
	ItemType domain.ItemType `json:"item_type" validate:"required,oneof=phone accessory"`
	ItemID   int64           `json:"item_id"   validate:"gt=0"`
}

// Validate validates the retire input.
func (i RetireInput) Validate() error {
	return validate.Struct(i)
}

// ListInventoryInput narrows ListInventory. A nil ItemType lists both kinds.
type ListInventoryInput struct {
	ItemType *domain.ItemType
	Status   *string
	Search   *string
	Limit    int
	Offset   int
}
