package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// TransferItem moves stock from the home shop to another shop and returns the
// transfer id. Phones always move as a single unit.
func (s *Service) TransferItem(ctx context.Context, auth domain.AuthContext, input TransferInput) (int64, error) {
	const op = "TransferItem"
	if err := requireActor(auth); err != nil {
		return 0, s.finish(ctx, op, err)
	}

	input.Notes = domain.CleanText(input.Notes)
	if input.ItemType == domain.ItemTypePhone {
		input.Quantity = 1
	}
	if err := input.Validate(); err != nil {
		return 0, s.finish(ctx, op, err)
	}
	if input.DestinationShopID == s.cfg.HomeShopID {
		return 0, s.finish(ctx, op, domain.NewValidationError("destination_shop_id", "must differ from the home shop"))
	}

	dest, err := s.shops.GetByID(ctx, input.DestinationShopID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.NewValidationError("destination_shop_id", "unknown shop")
		}
		return 0, s.finish(ctx, op, err)
	}

	var transferID int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var (
			action      domain.ActivityAction
			entityType  domain.EntityType
			description string
		)

		switch input.ItemType {
		case domain.ItemTypePhone:
			phone, err := s.phones.GetByID(ctx, input.ItemID)
			if err != nil {
				return fmt.Errorf("get phone: %w", err)
			}
			if !phone.IsInStock() {
				return fmt.Errorf("phone %d is %s: %w", phone.ID, phone.Status, domain.ErrNotFound)
			}
			if err := s.phones.MarkTransferred(ctx, phone.ID, dest.ID); err != nil {
				return fmt.Errorf("mark transferred: %w", err)
			}
			action, entityType = domain.ActionTransferPhone, domain.EntityTypePhone
			description = fmt.Sprintf("Transferred %s %s (IMEI %s) to %s", phone.Brand, phone.Model, phone.IMEI, dest.Name)

		case domain.ItemTypeAccessory:
			acc, err := s.accessories.DecrementStock(ctx, input.ItemID, input.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			action, entityType = domain.ActionTransferAccessory, domain.EntityTypeAccessory
			description = fmt.Sprintf("Transferred %d x %s to %s", input.Quantity, acc.Name, dest.Name)
		}

		var err error
		transferID, err = s.transfers.Create(ctx, domain.Transfer{
			ItemID:            input.ItemID,
			ItemType:          input.ItemType,
			Quantity:          input.Quantity,
			SourceShopID:      s.cfg.HomeShopID,
			DestinationShopID: dest.ID,
			TransferredBy:     auth.ActorID,
			Notes:             input.Notes,
		})
		if err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}

		return s.activity.Log(ctx, domain.NewActivity(auth.ActorID, action, entityType, input.ItemID, description))
	})
	if err := s.finish(ctx, op, err); err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "item transferred",
		slog.Int64("transfer_id", transferID),
		slog.String("item_type", input.ItemType.String()),
		slog.Int64("item_id", input.ItemID),
		slog.Int64("destination_shop_id", dest.ID),
	)
	return transferID, nil
}
