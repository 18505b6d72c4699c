package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/service/report"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/middleware"
)

type reportService interface {
	Summary(ctx context.Context, auth domain.AuthContext, period report.Period) (*domain.InventorySummary, error)
	ExportSalesXLSX(ctx context.Context, auth domain.AuthContext, period report.Period) ([]byte, error)
	ExportInventoryXLSX(ctx context.Context, auth domain.AuthContext) ([]byte, error)
	ListActivity(ctx context.Context, auth domain.AuthContext, filter domain.ActivityFilter) ([]domain.ActivityEntry, error)
}

// ReportHandler serves summaries, spreadsheet exports and the activity log.
type ReportHandler struct {
	svc reportService
	now func() time.Time
	log *slog.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(svc reportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, now: time.Now, log: logger.With("handler", "report")}
}

type salesTotalResponse struct {
	ItemType string `json:"item_type"`
	Count    int    `json:"count"`
	Units    int    `json:"units"`
	Revenue  string `json:"revenue"`
}

type summaryResponse struct {
	PhonesInStock         int                  `json:"phones_in_stock"`
	AccessoryUnits        int                  `json:"accessory_units"`
	AccessoryLines        int                  `json:"accessory_lines"`
	OutOfStockAccessories int                  `json:"out_of_stock_accessories"`
	Sales                 []salesTotalResponse `json:"sales"`
	TransfersCount        int                  `json:"transfers_count"`
	TransferredPhones     int                  `json:"transferred_phones"`
	TransferredAccessory  int                  `json:"transferred_accessory_units"`
}

// Summary handles GET /api/reports/summary.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := parsePeriod(r.URL.Query())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	sum, err := h.svc.Summary(r.Context(), middleware.Actor(r.Context()), report.Period{From: from, To: to})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"summary": summaryResponse{
		PhonesInStock:         sum.PhonesInStock,
		AccessoryUnits:        sum.AccessoryUnits,
		AccessoryLines:        sum.AccessoryLines,
		OutOfStockAccessories: sum.OutOfStockAccessory,
		Sales: mapSlice(sum.Sales, func(t domain.SalesTotal) salesTotalResponse {
			return salesTotalResponse{ItemType: t.ItemType.String(), Count: t.Count, Units: t.Units, Revenue: t.Revenue}
		}),
		TransfersCount:       sum.TransfersCount,
		TransferredPhones:    sum.TransferredPhones,
		TransferredAccessory: sum.TransferredAccessory,
	}})
}

// SalesXLSX handles GET /api/reports/sales.xlsx.
func (h *ReportHandler) SalesXLSX(w http.ResponseWriter, r *http.Request) {
	from, to, err := parsePeriod(r.URL.Query())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	data, err := h.svc.ExportSalesXLSX(r.Context(), middleware.Actor(r.Context()), report.Period{From: from, To: to})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.writeWorkbook(w, "sales", data)
}

// InventoryXLSX handles GET /api/reports/inventory.xlsx.
func (h *ReportHandler) InventoryXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportInventoryXLSX(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.writeWorkbook(w, "inventory", data)
}

func (h *ReportHandler) writeWorkbook(w http.ResponseWriter, kind string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", kind, h.now().Format(time.DateOnly))
	w.Header().Set("Content-Type", report.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// Activity handles GET /api/activity.
func (h *ReportHandler) Activity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := parsePeriod(q)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	limit, offset, err := parsePage(q)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	filter := domain.ActivityFilter{From: from, To: to, Limit: limit, Offset: offset}
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handleError(h.log, w, r, domain.NewValidationError("user_id", "must be a positive integer"))
			return
		}
		filter.UserID = &id
	}
	if raw := q.Get("action_type"); raw != "" {
		action := domain.ActivityAction(raw)
		if !action.IsValid() {
			handleError(h.log, w, r, domain.NewValidationError("action_type", "unknown action"))
			return
		}
		filter.Action = &action
	}

	entries, err := h.svc.ListActivity(r.Context(), middleware.Actor(r.Context()), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"activity": mapSlice(entries, toActivityResponse)})
}
