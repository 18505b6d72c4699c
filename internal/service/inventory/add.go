package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// AddPhone registers a new in-stock phone in the home shop and returns its id.
func (s *Service) AddPhone(ctx context.Context, auth domain.AuthContext, input AddPhoneInput) (int64, error) {
	const op = "AddPhone"
	if err := requireActor(auth); err != nil {
		return 0, s.finish(ctx, op, err)
	}

	input.normalize()
	if err := input.Validate(); err != nil {
		return 0, s.finish(ctx, op, err)
	}

	var id int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		exists, err := s.phones.ExistsInStockIMEI(ctx, input.IMEI)
		if err != nil {
			return fmt.Errorf("check imei: %w", err)
		}
		if exists {
			return fmt.Errorf("imei %s: %w", input.IMEI, domain.ErrDuplicateImei)
		}

		id, err = s.phones.Create(ctx, domain.Phone{
			IMEI:          input.IMEI,
			Brand:         input.Brand,
			Model:         input.Model,
			Color:         input.Color,
			Memory:        input.Memory,
			BuyingPrice:   costFor(auth, input.BuyingPrice),
			SellingPrice:  input.SellingPrice,
			Notes:         input.Notes,
			Status:        domain.PhoneStatusInStock,
			RegisteredBy:  auth.ActorID,
			CurrentShopID: s.cfg.HomeShopID,
		})
		if err != nil {
			return fmt.Errorf("create phone: %w", err)
		}

		return s.activity.Log(ctx, domain.NewActivity(auth.ActorID, domain.ActionAddPhone, domain.EntityTypePhone, id,
			fmt.Sprintf("Added phone %s %s (IMEI %s)", input.Brand, input.Model, input.IMEI)))
	})
	if err := s.finish(ctx, op, err); err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "phone added",
		slog.Int64("phone_id", id),
		slog.Int64("actor_id", auth.ActorID),
	)
	return id, nil
}

// AddAccessory adds stock. An in-stock row with the same name and category
// absorbs the quantity; otherwise a new row is created.
func (s *Service) AddAccessory(ctx context.Context, auth domain.AuthContext, input AddAccessoryInput) (*AddAccessoryResult, error) {
	const op = "AddAccessory"
	if err := requireActor(auth); err != nil {
		return nil, s.finish(ctx, op, err)
	}

	input.normalize()
	if err := input.Validate(); err != nil {
		return nil, s.finish(ctx, op, err)
	}

	var result AddAccessoryResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.accessories.FindInStockForUpdate(ctx, input.Name, input.Category)
		switch {
		case err == nil:
			if err := s.accessories.IncrementQuantity(ctx, existing.ID, input.Quantity); err != nil {
				return fmt.Errorf("increment accessory: %w", err)
			}
			result = AddAccessoryResult{ID: existing.ID, Quantity: existing.Quantity + input.Quantity}
			return s.activity.Log(ctx, domain.NewActivity(auth.ActorID, domain.ActionUpdateAccessory,
				domain.EntityTypeAccessory, existing.ID,
				fmt.Sprintf("Added %d to %s (%s), now %d", input.Quantity, input.Name, input.Category, result.Quantity)))

		case errors.Is(err, domain.ErrNotFound):
			id, err := s.accessories.Create(ctx, domain.Accessory{
				Name:         input.Name,
				Category:     input.Category,
				Brand:        input.Brand,
				BuyingPrice:  costFor(auth, input.BuyingPrice),
				SellingPrice: input.SellingPrice,
				Quantity:     input.Quantity,
				Status:       domain.DeriveAccessoryStatus(input.Quantity),
				RegisteredBy: auth.ActorID,
			})
			if err != nil {
				return fmt.Errorf("create accessory: %w", err)
			}
			result = AddAccessoryResult{ID: id, Created: true, Quantity: input.Quantity}
			return s.activity.Log(ctx, domain.NewActivity(auth.ActorID, domain.ActionAddAccessory,
				domain.EntityTypeAccessory, id,
				fmt.Sprintf("Added accessory %s (%s), quantity %d", input.Name, input.Category, input.Quantity)))

		default:
			return fmt.Errorf("find accessory: %w", err)
		}
	})
	if err := s.finish(ctx, op, err); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "accessory stocked",
		slog.Int64("accessory_id", result.ID),
		slog.Bool("created", result.Created),
		slog.Int("quantity", result.Quantity),
	)
	return &result, nil
}
