package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/pkg/validate"
)

// SellPhone records the sale of one in-stock phone and returns the sale id.
// The sale row and the status change commit together or not at all.
func (s *Service) SellPhone(ctx context.Context, auth domain.AuthContext, input SellPhoneInput) (int64, error) {
	const op = "SellPhone"
	if err := requireActor(auth); err != nil {
		return 0, s.finish(ctx, op, err)
	}

	input.normalize()
	if err := input.Validate(); err != nil {
		return 0, s.finish(ctx, op, err)
	}
	customerPhone, err := validate.PhoneNumber(input.CustomerPhone, s.cfg.PhoneRegion)
	if err != nil {
		return 0, s.finish(ctx, op, err)
	}

	var saleID int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		phone, err := s.phones.GetByID(ctx, input.PhoneID)
		if err != nil {
			return fmt.Errorf("get phone: %w", err)
		}
		if !phone.IsInStock() {
			return fmt.Errorf("phone %d is %s: %w", phone.ID, phone.Status, domain.ErrNotFound)
		}

		now := s.now()
		saleID, err = s.sales.Create(ctx, domain.Sale{
			ItemID:        phone.ID,
			ItemType:      domain.ItemTypePhone,
			Quantity:      1,
			SalePrice:     input.SalePrice,
			CustomerName:  input.CustomerName,
			CustomerPhone: customerPhone,
			PaymentMethod: input.PaymentMethod,
			Notes:         input.Notes,
			SoldBy:        auth.ActorID,
			ShopID:        s.cfg.HomeShopID,
			SaleDate:      now,
		})
		if err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		if err := s.phones.MarkSold(ctx, phone.ID, input.SalePrice, now); err != nil {
			return fmt.Errorf("mark sold: %w", err)
		}

		return s.activity.Log(ctx, domain.NewActivity(auth.ActorID, domain.ActionSellPhone, domain.EntityTypePhone, phone.ID,
			fmt.Sprintf("Sold %s %s for %s", phone.Brand, phone.Model, money(input.SalePrice))))
	})
	if err := s.finish(ctx, op, err); err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "phone sold",
		slog.Int64("sale_id", saleID),
		slog.Int64("phone_id", input.PhoneID),
		slog.Int64("actor_id", auth.ActorID),
	)
	return saleID, nil
}

// SellAccessory sells quantity units at pricePerUnit and returns the sale id.
// The stored sale price is the line total.
func (s *Service) SellAccessory(ctx context.Context, auth domain.AuthContext, input SellAccessoryInput) (int64, error) {
	const op = "SellAccessory"
	if err := requireActor(auth); err != nil {
		return 0, s.finish(ctx, op, err)
	}

	input.normalize()
	if err := input.Validate(); err != nil {
		return 0, s.finish(ctx, op, err)
	}
	customerPhone, err := validate.PhoneNumber(input.CustomerPhone, s.cfg.PhoneRegion)
	if err != nil {
		return 0, s.finish(ctx, op, err)
	}

	total := domain.TotalPrice(input.PricePerUnit, input.Quantity)
	if total.GreaterThan(maxMoney) {
		return 0, s.finish(ctx, op, domain.NewValidationError("price_per_unit", "sale total must be at most "+MaxMoney))
	}

	var saleID int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		acc, err := s.accessories.DecrementStock(ctx, input.AccessoryID, input.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		saleID, err = s.sales.Create(ctx, domain.Sale{
			ItemID:        acc.ID,
			ItemType:      domain.ItemTypeAccessory,
			Quantity:      input.Quantity,
			SalePrice:     total,
			CustomerName:  input.CustomerName,
			CustomerPhone: customerPhone,
			PaymentMethod: input.PaymentMethod,
			Notes:         input.Notes,
			SoldBy:        auth.ActorID,
			ShopID:        s.cfg.HomeShopID,
			SaleDate:      s.now(),
		})
		if err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		return s.activity.Log(ctx, domain.NewActivity(auth.ActorID, domain.ActionSellAccessory, domain.EntityTypeAccessory, acc.ID,
			fmt.Sprintf("Sold %d x %s for %s (%s each)", input.Quantity, acc.Name, money(total), money(input.PricePerUnit))))
	})
	if err := s.finish(ctx, op, err); err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "accessory sold",
		slog.Int64("sale_id", saleID),
		slog.Int64("accessory_id", input.AccessoryID),
		slog.Int("quantity", input.Quantity),
		slog.Int64("actor_id", auth.ActorID),
	)
	return saleID, nil
}
