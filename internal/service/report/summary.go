package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// Summary aggregates stock, sales and transfers for the period. The four
// queries run concurrently.
func (s *Service) Summary(ctx context.Context, auth domain.AuthContext, period Period) (*domain.InventorySummary, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}
	if err := period.validate(); err != nil {
		return nil, err
	}

	var (
		phones    int
		stock     domain.AccessoryStock
		sales     []domain.SalesTotal
		transfers domain.TransferTotals
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		phones, err = s.reports.PhonesInStock(gctx)
		if err != nil {
			return fmt.Errorf("phones in stock: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		stock, err = s.reports.AccessoryStock(gctx)
		if err != nil {
			return fmt.Errorf("accessory stock: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		sales, err = s.reports.SalesTotals(gctx, period.From, period.To)
		if err != nil {
			return fmt.Errorf("sales totals: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		transfers, err = s.reports.TransferTotals(gctx, period.From, period.To)
		if err != nil {
			return fmt.Errorf("transfer totals: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("report.Summary: %w", err)
	}

	return &domain.InventorySummary{
		PhonesInStock:        phones,
		AccessoryUnits:       stock.Units,
		AccessoryLines:       stock.Lines,
		OutOfStockAccessory:  stock.OutOfStock,
		Sales:                sales,
		TransfersCount:       transfers.Count,
		TransferredPhones:    transfers.PhoneUnits,
		TransferredAccessory: transfers.AccessoryUnits,
	}, nil
}

// ListActivity returns activity log entries, newest first.
func (s *Service) ListActivity(ctx context.Context, auth domain.AuthContext, filter domain.ActivityFilter) ([]domain.ActivityEntry, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}
	if err := (Period{From: filter.From, To: filter.To}).validate(); err != nil {
		return nil, err
	}
	entries, err := s.activity.List(ctx, filter, activityMax)
	if err != nil {
		return nil, fmt.Errorf("report.ListActivity: %w", err)
	}
	return entries, nil
}
