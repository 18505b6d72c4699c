package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

type reportRepo interface {
	PhonesInStock(ctx context.Context) (int, error)
	AccessoryStock(ctx context.Context) (domain.AccessoryStock, error)
	SalesTotals(ctx context.Context, from, to *time.Time) ([]domain.SalesTotal, error)
	TransferTotals(ctx context.Context, from, to *time.Time) (domain.TransferTotals, error)
}

type saleRepo interface {
	List(ctx context.Context, filter domain.SaleFilter, maxLimit int) ([]domain.Sale, error)
}

type phoneRepo interface {
	List(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Phone, error)
}

type accessoryRepo interface {
	List(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Accessory, error)
}

type activityRepo interface {
	List(ctx context.Context, filter domain.ActivityFilter, maxLimit int) ([]domain.ActivityEntry, error)
}

const (
	// exportLimit caps the rows written to a single workbook sheet.
	exportLimit = 50000
	activityMax = 500
)

// Service produces read-only summaries and spreadsheet exports. Admin only.
type Service struct {
	log         *slog.Logger
	reports     reportRepo
	sales       saleRepo
	phones      phoneRepo
	accessories accessoryRepo
	activity    activityRepo
}

// NewService creates a new report service.
func NewService(
	logger *slog.Logger,
	reports reportRepo,
	sales saleRepo,
	phones phoneRepo,
	accessories accessoryRepo,
	activity activityRepo,
) *Service {
	return &Service{
		log:         logger.With("service", "report"),
		reports:     reports,
		sales:       sales,
		phones:      phones,
		accessories: accessories,
		activity:    activity,
	}
}

func requireAdmin(auth domain.AuthContext) error {
	if !auth.Valid() {
		return domain.ErrUnauthorized
	}
	if !auth.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// Period is a half-open [From, To) reporting window. Nil bounds are open.
type Period struct {
	From *time.Time
	To   *time.Time
}

func (p Period) validate() error {
	if p.From != nil && p.To != nil && !p.From.Before(*p.To) {
		return domain.NewValidationError("to", "must be after from")
	}
	return nil
}
