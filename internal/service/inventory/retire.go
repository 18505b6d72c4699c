package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// RetireItem takes an item out of sellable stock without a sale. Admins mark a
// phone damaged or write an accessory's stock off to zero; employees flag
// either unavailable for review. Sold, transferred and damaged phones keep
// their status. Every call is logged and retiring again is not an error.
func (s *Service) RetireItem(ctx context.Context, auth domain.AuthContext, input RetireInput) error {
	const op = "RetireItem"
	if err := requireActor(auth); err != nil {
		return s.finish(ctx, op, err)
	}
	if err := input.Validate(); err != nil {
		return s.finish(ctx, op, err)
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		switch input.ItemType {
		case domain.ItemTypePhone:
			phone, err := s.phones.GetByID(ctx, input.ItemID)
			if err != nil {
				return fmt.Errorf("get phone: %w", err)
			}
			status := domain.RetiredPhoneStatus(phone.Status, auth.Role)
			if status != phone.Status {
				if err := s.phones.SetStatus(ctx, phone.ID, status); err != nil {
					return fmt.Errorf("set phone status: %w", err)
				}
			}
			action := domain.ActionMarkUnavailablePhone
			if auth.IsAdmin() {
				action = domain.ActionDeletePhone
			}
			return s.activity.Log(ctx, domain.NewActivity(auth.ActorID, action, domain.EntityTypePhone, phone.ID,
				fmt.Sprintf("Phone %s %s (IMEI %s) marked %s", phone.Brand, phone.Model, phone.IMEI, status)))

		default:
			acc, err := s.accessories.GetByID(ctx, input.ItemID)
			if err != nil {
				return fmt.Errorf("get accessory: %w", err)
			}
			status := domain.RetiredAccessoryStatus(auth.Role)
			if auth.IsAdmin() {
				err = s.accessories.WriteOff(ctx, acc.ID)
			} else {
				err = s.accessories.SetStatus(ctx, acc.ID, status)
			}
			if err != nil {
				return fmt.Errorf("retire accessory: %w", err)
			}
			action := domain.ActionMarkUnavailableAccessory
			if auth.IsAdmin() {
				action = domain.ActionDeleteAccessory
			}
			return s.activity.Log(ctx, domain.NewActivity(auth.ActorID, action, domain.EntityTypeAccessory, acc.ID,
				fmt.Sprintf("Accessory %s (%s) marked %s", acc.Name, acc.Category, status)))
		}
	})
	if err := s.finish(ctx, op, err); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "item retired",
		slog.String("item_type", input.ItemType.String()),
		slog.Int64("item_id", input.ItemID),
		slog.String("role", auth.Role.String()),
	)
	return nil
}
