package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// XLSXContentType is the MIME type of the exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names of the exported workbooks.
const (
	SheetSales       = "Sales"
	SheetSummary     = "Summary"
	SheetPhones      = "Phones"
	SheetAccessories = "Accessories"
)

// ExportSalesXLSX renders the sales of the period and their per-type totals.
func (s *Service) ExportSalesXLSX(ctx context.Context, auth domain.AuthContext, period Period) ([]byte, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}
	if err := period.validate(); err != nil {
		return nil, err
	}

	sales, err := s.sales.List(ctx, domain.SaleFilter{From: period.From, To: period.To, Limit: exportLimit}, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("report.ExportSalesXLSX: list sales: %w", err)
	}
	totals, err := s.reports.SalesTotals(ctx, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("report.ExportSalesXLSX: totals: %w", err)
	}

	w := newWorkbook(SheetSales)
	defer w.close()

	w.row(SheetSales, "ID", "Date", "Item type", "Item ID", "Quantity", "Total", "Payment", "Customer", "Customer phone", "Sold by", "Notes")
	for _, sale := range sales {
		w.row(SheetSales,
			sale.ID,
			sale.SaleDate.Format("2006-01-02 15:04"),
			sale.ItemType.String(),
			sale.ItemID,
			sale.Quantity,
			sale.SalePrice.InexactFloat64(),
			sale.PaymentMethod.String(),
			sale.CustomerName,
			sale.CustomerPhone,
			sale.SoldBy,
			sale.Notes,
		)
	}

	w.sheet(SheetSummary)
	w.row(SheetSummary, "Item type", "Sales", "Units", "Revenue")
	for _, t := range totals {
		revenue, err := decimal.NewFromString(t.Revenue)
		if err != nil {
			return nil, fmt.Errorf("report.ExportSalesXLSX: revenue %q: %w", t.Revenue, err)
		}
		w.row(SheetSummary, t.ItemType.String(), t.Count, t.Units, revenue.InexactFloat64())
	}

	out, err := w.bytes()
	if err != nil {
		return nil, fmt.Errorf("report.ExportSalesXLSX: %w", err)
	}
	s.log.InfoContext(ctx, "sales exported", slog.Int("rows", len(sales)))
	return out, nil
}

// ExportInventoryXLSX renders every phone and accessory row, in any status.
func (s *Service) ExportInventoryXLSX(ctx context.Context, auth domain.AuthContext) ([]byte, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}

	all := domain.InventoryFilter{Limit: exportLimit}
	phones, err := s.phones.List(ctx, all, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("report.ExportInventoryXLSX: list phones: %w", err)
	}
	accessories, err := s.accessories.List(ctx, all, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("report.ExportInventoryXLSX: list accessories: %w", err)
	}

	w := newWorkbook(SheetPhones)
	defer w.close()

	w.row(SheetPhones, "ID", "IMEI", "Brand", "Model", "Color", "Memory", "Buying price", "Selling price", "Status", "Shop", "Added")
	for _, p := range phones {
		w.row(SheetPhones,
			p.ID, p.IMEI, p.Brand, p.Model, p.Color, p.Memory,
			p.BuyingPrice.InexactFloat64(), p.SellingPrice.InexactFloat64(),
			p.Status.String(), p.CurrentShopID, p.CreatedAt.Format("2006-01-02"),
		)
	}

	w.sheet(SheetAccessories)
	w.row(SheetAccessories, "ID", "Name", "Category", "Brand", "Quantity", "Buying price", "Selling price", "Status", "Added")
	for _, a := range accessories {
		w.row(SheetAccessories,
			a.ID, a.Name, a.Category, a.Brand, a.Quantity,
			a.BuyingPrice.InexactFloat64(), a.SellingPrice.InexactFloat64(),
			a.Status.String(), a.CreatedAt.Format("2006-01-02"),
		)
	}

	out, err := w.bytes()
	if err != nil {
		return nil, fmt.Errorf("report.ExportInventoryXLSX: %w", err)
	}
	s.log.InfoContext(ctx, "inventory exported",
		slog.Int("phones", len(phones)),
		slog.Int("accessories", len(accessories)),
	)
	return out, nil
}

// workbook appends rows sheet by sheet and keeps the first write error.
type workbook struct {
	f    *excelize.File
	next map[string]int
	err  error
}

func newWorkbook(first string) *workbook {
	f := excelize.NewFile()
	w := &workbook{f: f, next: map[string]int{}}
	w.err = f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), first)
	w.next[first] = 1
	return w
}

func (w *workbook) sheet(name string) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("new sheet %s: %w", name, err)
		return
	}
	w.next[name] = 1
}

func (w *workbook) row(sheet string, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		return
	}
	w.next[sheet]++
}

func (w *workbook) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	var buf bytes.Buffer
	if err := w.f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *workbook) close() {
	_ = w.f.Close()
}
