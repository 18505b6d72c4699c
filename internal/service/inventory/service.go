package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/config"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type phoneRepo interface {
	Create(ctx context.Context, p domain.Phone) (int64, error)
	MarkSold(ctx context.Context, id int64, price decimal.Decimal, soldAt time.Time) error
	MarkTransferred(ctx context.Context, id, destinationShopID int64) error
	SetStatus(ctx context.Context, id int64, status domain.PhoneStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Phone, error)
	ExistsInStockIMEI(ctx context.Context, imei string) (bool, error)
	List(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Phone, error)
}

type accessoryRepo interface {
	Create(ctx context.Context, a domain.Accessory) (int64, error)
	IncrementQuantity(ctx context.Context, id int64, n int) error
	DecrementStock(ctx context.Context, id int64, n int) (*domain.Accessory, error)
	SetStatus(ctx context.Context, id int64, status domain.AccessoryStatus) error
	WriteOff(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Accessory, error)
	FindInStockForUpdate(ctx context.Context, name, category string) (*domain.Accessory, error)
	List(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Accessory, error)
}

type saleRepo interface {
	Create(ctx context.Context, s domain.Sale) (int64, error)
	List(ctx context.Context, filter domain.SaleFilter, maxLimit int) ([]domain.Sale, error)
}

type transferRepo interface {
	Create(ctx context.Context, t domain.Transfer) (int64, error)
	List(ctx context.Context, filter domain.SaleFilter, maxLimit int) ([]domain.Transfer, error)
}

type shopRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Shop, error)
	List(ctx context.Context) ([]domain.Shop, error)
}

type activityLog interface {
	Log(ctx context.Context, entry domain.ActivityEntry) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type operationRecorder interface {
	ObserveOperation(operation string, err error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the stock-mutating operations and the inventory reads.
// Every mutation runs in one transaction together with its activity entry.
type Service struct {
	log         *slog.Logger
	phones      phoneRepo
	accessories accessoryRepo
	sales       saleRepo
	transfers   transferRepo
	shops       shopRepo
	activity    activityLog
	tx          txManager
	metrics     operationRecorder
	cfg         config.InventoryConfig
	now         func() time.Time
}

// NewService creates a new inventory service.
func NewService(
	logger *slog.Logger,
	phones phoneRepo,
	accessories accessoryRepo,
	sales saleRepo,
	transfers transferRepo,
	shops shopRepo,
	activity activityLog,
	tx txManager,
	cfg config.InventoryConfig,
) *Service {
	return &Service{
		log:         logger.With("service", "inventory"),
		phones:      phones,
		accessories: accessories,
		sales:       sales,
		transfers:   transfers,
		shops:       shops,
		activity:    activity,
		tx:          tx,
		metrics:     nopRecorder{},
		cfg:         cfg,
		now:         time.Now,
	}
}

// SetMetrics injects the optional operation recorder.
func (s *Service) SetMetrics(m operationRecorder) {
	s.metrics = m
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error) {}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// finish records the outcome of op and wraps its error. Failures that are not
// one of the domain kinds are logged and surface as ErrTransactionFailed.
func (s *Service) finish(ctx context.Context, op string, err error) error {
	if err != nil && !isDomainError(err) {
		s.log.ErrorContext(ctx, "transaction failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		err = domain.ErrTransactionFailed
	}
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		return fmt.Errorf("inventory.%s: %w", op, err)
	}
	return nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrDuplicateImei,
		domain.ErrInsufficientStock,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func requireActor(auth domain.AuthContext) error {
	if !auth.Valid() {
		return domain.ErrUnauthorized
	}
	return nil
}

// costFor returns the buying price the actor is allowed to record.
// Employees never set cost prices.
func costFor(auth domain.AuthContext, price decimal.Decimal) decimal.Decimal {
	if auth.IsAdmin() {
		return price
	}
	return decimal.Zero
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
