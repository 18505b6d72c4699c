package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockPhoneRepo struct {
	CreateFunc            func(ctx context.Context, p domain.Phone) (int64, error)
	MarkSoldFunc          func(ctx context.Context, id int64, price decimal.Decimal, soldAt time.Time) error
	MarkTransferredFunc   func(ctx context.Context, id, destinationShopID int64) error
	SetStatusFunc         func(ctx context.Context, id int64, status domain.PhoneStatus) error
	GetByIDFunc           func(ctx context.Context, id int64) (*domain.Phone, error)
	ExistsInStockIMEIFunc func(ctx context.Context, imei string) (bool, error)
	ListFunc              func(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Phone, error)

	mu      sync.Mutex
	created []domain.Phone
}

func (m *mockPhoneRepo) Create(ctx context.Context, p domain.Phone) (int64, error) {
	m.mu.Lock()
	m.created = append(m.created, p)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return 1, nil
}

func (m *mockPhoneRepo) MarkSold(ctx context.Context, id int64, price decimal.Decimal, soldAt time.Time) error {
	if m.MarkSoldFunc != nil {
		return m.MarkSoldFunc(ctx, id, price, soldAt)
	}
	return nil
}

func (m *mockPhoneRepo) MarkTransferred(ctx context.Context, id, destinationShopID int64) error {
	if m.MarkTransferredFunc != nil {
		return m.MarkTransferredFunc(ctx, id, destinationShopID)
	}
	return nil
}

func (m *mockPhoneRepo) SetStatus(ctx context.Context, id int64, status domain.PhoneStatus) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockPhoneRepo) GetByID(ctx context.Context, id int64) (*domain.Phone, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPhoneRepo) ExistsInStockIMEI(ctx context.Context, imei string) (bool, error) {
	if m.ExistsInStockIMEIFunc != nil {
		return m.ExistsInStockIMEIFunc(ctx, imei)
	}
	return false, nil
}

func (m *mockPhoneRepo) List(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Phone, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, maxLimit)
	}
	return nil, nil
}

type mockAccessoryRepo struct {
	CreateFunc               func(ctx context.Context, a domain.Accessory) (int64, error)
	IncrementQuantityFunc    func(ctx context.Context, id int64, n int) error
	DecrementStockFunc       func(ctx context.Context, id int64, n int) (*domain.Accessory, error)
	SetStatusFunc            func(ctx context.Context, id int64, status domain.AccessoryStatus) error
	WriteOffFunc             func(ctx context.Context, id int64) error
	GetByIDFunc              func(ctx context.Context, id int64) (*domain.Accessory, error)
	FindInStockForUpdateFunc func(ctx context.Context, name, category string) (*domain.Accessory, error)
	ListFunc                 func(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Accessory, error)
}

func (m *mockAccessoryRepo) Create(ctx context.Context, a domain.Accessory) (int64, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return 1, nil
}

func (m *mockAccessoryRepo) IncrementQuantity(ctx context.Context, id int64, n int) error {
	if m.IncrementQuantityFunc != nil {
		return m.IncrementQuantityFunc(ctx, id, n)
	}
	return nil
}

func (m *mockAccessoryRepo) DecrementStock(ctx context.Context, id int64, n int) (*domain.Accessory, error) {
	if m.DecrementStockFunc != nil {
		return m.DecrementStockFunc(ctx, id, n)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccessoryRepo) SetStatus(ctx context.Context, id int64, status domain.AccessoryStatus) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockAccessoryRepo) WriteOff(ctx context.Context, id int64) error {
	if m.WriteOffFunc != nil {
		return m.WriteOffFunc(ctx, id)
	}
	return nil
}

func (m *mockAccessoryRepo) GetByID(ctx context.Context, id int64) (*domain.Accessory, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccessoryRepo) FindInStockForUpdate(ctx context.Context, name, category string) (*domain.Accessory, error) {
	if m.FindInStockForUpdateFunc != nil {
		return m.FindInStockForUpdateFunc(ctx, name, category)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccessoryRepo) List(ctx context.Context, filter domain.InventoryFilter, maxLimit int) ([]domain.Accessory, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, maxLimit)
	}
	return nil, nil
}

type mockSaleRepo struct {
	CreateFunc func(ctx context.Context, s domain.Sale) (int64, error)
	ListFunc   func(ctx context.Context, filter domain.SaleFilter, maxLimit int) ([]domain.Sale, error)

	mu      sync.Mutex
	created []domain.Sale
}

func (m *mockSaleRepo) Create(ctx context.Context, s domain.Sale) (int64, error) {
	m.mu.Lock()
	m.created = append(m.created, s)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return 100, nil
}

func (m *mockSaleRepo) List(ctx context.Context, filter domain.SaleFilter, maxLimit int) ([]domain.Sale, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, maxLimit)
	}
	return nil, nil
}

type mockTransferRepo struct {
	mu      sync.Mutex
	created []domain.Transfer
}

func (m *mockTransferRepo) Create(_ context.Context, t domain.Transfer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, t)
	return int64(200 + len(m.created)), nil
}

func (m *mockTransferRepo) List(context.Context, domain.SaleFilter, int) ([]domain.Transfer, error) {
	return nil, nil
}

type mockShopRepo struct {
	shops map[int64]domain.Shop
}

func (m *mockShopRepo) GetByID(_ context.Context, id int64) (*domain.Shop, error) {
	s, ok := m.shops[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *mockShopRepo) List(context.Context) ([]domain.Shop, error) {
	out := make([]domain.Shop, 0, len(m.shops))
	for _, s := range m.shops {
		out = append(out, s)
	}
	return out, nil
}

type mockActivityLog struct {
	LogFunc func(ctx context.Context, entry domain.ActivityEntry) error

	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (m *mockActivityLog) Log(ctx context.Context, entry domain.ActivityEntry) error {
	if m.LogFunc != nil {
		if err := m.LogFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

func (m *mockActivityLog) Entries() []domain.ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActivityEntry(nil), m.entries...)
}

// mockTxManager runs fn directly and counts calls.
type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type recordingMetrics struct {
	ops map[string][]error
}

func (r *recordingMetrics) ObserveOperation(op string, err error) {
	if r.ops == nil {
		r.ops = make(map[string][]error)
	}
	r.ops[op] = append(r.ops[op], err)
}
