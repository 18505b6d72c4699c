package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// ListInventory lists phones and/or accessories. Buying prices are hidden
// from non-admins.
func (s *Service) ListInventory(ctx context.Context, auth domain.AuthContext, input ListInventoryInput) (*Inventory, error) {
	if err := requireActor(auth); err != nil {
		return nil, err
	}
	if input.ItemType != nil && !input.ItemType.IsValid() {
		return nil, domain.NewValidationError("item_type", "must be phone or accessory")
	}

	filter := domain.InventoryFilter{
		Search: input.Search,
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	}

	var inv Inventory
	if input.ItemType == nil || *input.ItemType == domain.ItemTypePhone {
		phones, err := s.phones.List(ctx, filter, s.cfg.ListLimit)
		if err != nil {
			return nil, fmt.Errorf("inventory.ListInventory: phones: %w", err)
		}
		for i := range phones {
			hidePhoneCost(auth, &phones[i])
		}
		inv.Phones = phones
	}
	if input.ItemType == nil || *input.ItemType == domain.ItemTypeAccessory {
		accessories, err := s.accessories.List(ctx, filter, s.cfg.ListLimit)
		if err != nil {
			return nil, fmt.Errorf("inventory.ListInventory: accessories: %w", err)
		}
		for i := range accessories {
			hideAccessoryCost(auth, &accessories[i])
		}
		inv.Accessories = accessories
	}
	return &inv, nil
}

// GetPhone returns a phone in any status.
func (s *Service) GetPhone(ctx context.Context, auth domain.AuthContext, id int64) (*domain.Phone, error) {
	if err := requireActor(auth); err != nil {
		return nil, err
	}
	p, err := s.phones.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inventory.GetPhone: %w", err)
	}
	hidePhoneCost(auth, p)
	return p, nil
}

// GetAccessory returns an accessory in any status.
func (s *Service) GetAccessory(ctx context.Context, auth domain.AuthContext, id int64) (*domain.Accessory, error) {
	if err := requireActor(auth); err != nil {
		return nil, err
	}
	a, err := s.accessories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inventory.GetAccessory: %w", err)
	}
	hideAccessoryCost(auth, a)
	return a, nil
}

// ListSales returns sales, newest first. Admin only.
func (s *Service) ListSales(ctx context.Context, auth domain.AuthContext, filter domain.SaleFilter) ([]domain.Sale, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}
	sales, err := s.sales.List(ctx, filter, s.cfg.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("inventory.ListSales: %w", err)
	}
	return sales, nil
}

// ListTransfers returns transfers, newest first. Admin only.
func (s *Service) ListTransfers(ctx context.Context, auth domain.AuthContext, filter domain.SaleFilter) ([]domain.Transfer, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}
	transfers, err := s.transfers.List(ctx, filter, s.cfg.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("inventory.ListTransfers: %w", err)
	}
	return transfers, nil
}

// ListShops returns every shop; forms use it to offer transfer destinations.
func (s *Service) ListShops(ctx context.Context, auth domain.AuthContext) ([]domain.Shop, error) {
	if err := requireActor(auth); err != nil {
		return nil, err
	}
	shops, err := s.shops.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory.ListShops: %w", err)
	}
	return shops, nil
}

func requireAdmin(auth domain.AuthContext) error {
	if err := requireActor(auth); err != nil {
		return err
	}
	if !auth.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func hidePhoneCost(auth domain.AuthContext, p *domain.Phone) {
	if !auth.IsAdmin() {
		p.BuyingPrice = decimal.Zero
	}
}

func hideAccessoryCost(auth domain.AuthContext, a *domain.Accessory) {
	if !auth.IsAdmin() {
		a.BuyingPrice = decimal.Zero
	}
}
