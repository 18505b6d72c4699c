package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/service/auth"
	"github.com/heartmarshall/phoneshop-backend/internal/service/inventory"
	"github.com/heartmarshall/phoneshop-backend/internal/service/report"
	"github.com/heartmarshall/phoneshop-backend/internal/service/user"
	"github.com/heartmarshall/phoneshop-backend/pkg/ctxutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// asActor attaches an authenticated identity to the request, the way the auth
// middleware does.
func asActor(r *http.Request, id int64, role domain.UserRole) *http.Request {
	ctx := ctxutil.WithUserID(r.Context(), id)
	ctx = ctxutil.WithUserRole(ctx, role.String())
	return r.WithContext(ctx)
}

var (
	adminActor    = domain.AuthContext{ActorID: 1, Role: domain.UserRoleAdmin}
	employeeActor = domain.AuthContext{ActorID: 2, Role: domain.UserRoleEmployee}
)

// ---------------------------------------------------------------------------
// inventoryServiceMock
// ---------------------------------------------------------------------------

type inventoryServiceMock struct {
	AddPhoneFunc      func(ctx context.Context, a domain.AuthContext, in inventory.AddPhoneInput) (int64, error)
	AddAccessoryFunc  func(ctx context.Context, a domain.AuthContext, in inventory.AddAccessoryInput) (*inventory.AddAccessoryResult, error)
	SellPhoneFunc     func(ctx context.Context, a domain.AuthContext, in inventory.SellPhoneInput) (int64, error)
	SellAccessoryFunc func(ctx context.Context, a domain.AuthContext, in inventory.SellAccessoryInput) (int64, error)
	TransferItemFunc  func(ctx context.Context, a domain.AuthContext, in inventory.TransferInput) (int64, error)
	RetireItemFunc    func(ctx context.Context, a domain.AuthContext, in inventory.RetireInput) error
	ListInventoryFunc func(ctx context.Context, a domain.AuthContext, in inventory.ListInventoryInput) (*inventory.Inventory, error)
	ListSalesFunc     func(ctx context.Context, a domain.AuthContext, f domain.SaleFilter) ([]domain.Sale, error)
	ListTransfersFunc func(ctx context.Context, a domain.AuthContext, f domain.SaleFilter) ([]domain.Transfer, error)
	ListShopsFunc     func(ctx context.Context, a domain.AuthContext) ([]domain.Shop, error)
}

func (m *inventoryServiceMock) AddPhone(ctx context.Context, a domain.AuthContext, in inventory.AddPhoneInput) (int64, error) {
	return m.AddPhoneFunc(ctx, a, in)
}

func (m *inventoryServiceMock) AddAccessory(ctx context.Context, a domain.AuthContext, in inventory.AddAccessoryInput) (*inventory.AddAccessoryResult, error) {
	return m.AddAccessoryFunc(ctx, a, in)
}

func (m *inventoryServiceMock) SellPhone(ctx context.Context, a domain.AuthContext, in inventory.SellPhoneInput) (int64, error) {
	return m.SellPhoneFunc(ctx, a, in)
}

func (m *inventoryServiceMock) SellAccessory(ctx context.Context, a domain.AuthContext, in inventory.SellAccessoryInput) (int64, error) {
	return m.SellAccessoryFunc(ctx, a, in)
}

func (m *inventoryServiceMock) TransferItem(ctx context.Context, a domain.AuthContext, in inventory.TransferInput) (int64, error) {
	return m.TransferItemFunc(ctx, a, in)
}

func (m *inventoryServiceMock) RetireItem(ctx context.Context, a domain.AuthContext, in inventory.RetireInput) error {
	return m.RetireItemFunc(ctx, a, in)
}

func (m *inventoryServiceMock) ListInventory(ctx context.Context, a domain.AuthContext, in inventory.ListInventoryInput) (*inventory.Inventory, error) {
	return m.ListInventoryFunc(ctx, a, in)
}

func (m *inventoryServiceMock) ListSales(ctx context.Context, a domain.AuthContext, f domain.SaleFilter) ([]domain.Sale, error) {
	return m.ListSalesFunc(ctx, a, f)
}

func (m *inventoryServiceMock) ListTransfers(ctx context.Context, a domain.AuthContext, f domain.SaleFilter) ([]domain.Transfer, error) {
	return m.ListTransfersFunc(ctx, a, f)
}

func (m *inventoryServiceMock) ListShops(ctx context.Context, a domain.AuthContext) ([]domain.Shop, error) {
	return m.ListShopsFunc(ctx, a)
}

// ---------------------------------------------------------------------------
// authServiceMock
// ---------------------------------------------------------------------------

type authServiceMock struct {
	LoginFunc          func(ctx context.Context, in auth.LoginInput) (*auth.AuthResult, error)
	AcceptInviteFunc   func(ctx context.Context, in auth.AcceptInviteInput) (*auth.AuthResult, error)
	ChangePasswordFunc func(ctx context.Context, a domain.AuthContext, in auth.ChangePasswordInput) error
}

func (m *authServiceMock) Login(ctx context.Context, in auth.LoginInput) (*auth.AuthResult, error) {
	return m.LoginFunc(ctx, in)
}

func (m *authServiceMock) AcceptInvite(ctx context.Context, in auth.AcceptInviteInput) (*auth.AuthResult, error) {
	return m.AcceptInviteFunc(ctx, in)
}

func (m *authServiceMock) ChangePassword(ctx context.Context, a domain.AuthContext, in auth.ChangePasswordInput) error {
	return m.ChangePasswordFunc(ctx, a, in)
}

// ---------------------------------------------------------------------------
// userServiceMock
// ---------------------------------------------------------------------------

type userServiceMock struct {
	AddUserFunc        func(ctx context.Context, a domain.AuthContext, in user.AddUserInput) (*user.AddUserResult, error)
	DeactivateUserFunc func(ctx context.Context, a domain.AuthContext, id int64) error
	ReactivateUserFunc func(ctx context.Context, a domain.AuthContext, id int64) error
	SetUserRoleFunc    func(ctx context.Context, a domain.AuthContext, id int64, role domain.UserRole) error
	ListUsersFunc      func(ctx context.Context, a domain.AuthContext, limit, offset int) ([]domain.User, error)
	GetUserFunc        func(ctx context.Context, a domain.AuthContext, id int64) (*domain.User, error)
}

func (m *userServiceMock) AddUser(ctx context.Context, a domain.AuthContext, in user.AddUserInput) (*user.AddUserResult, error) {
	return m.AddUserFunc(ctx, a, in)
}

func (m *userServiceMock) DeactivateUser(ctx context.Context, a domain.AuthContext, id int64) error {
	return m.DeactivateUserFunc(ctx, a, id)
}

func (m *userServiceMock) ReactivateUser(ctx context.Context, a domain.AuthContext, id int64) error {
	return m.ReactivateUserFunc(ctx, a, id)
}

func (m *userServiceMock) SetUserRole(ctx context.Context, a domain.AuthContext, id int64, role domain.UserRole) error {
	return m.SetUserRoleFunc(ctx, a, id, role)
}

func (m *userServiceMock) ListUsers(ctx context.Context, a domain.AuthContext, limit, offset int) ([]domain.User, error) {
	return m.ListUsersFunc(ctx, a, limit, offset)
}

func (m *userServiceMock) GetUser(ctx context.Context, a domain.AuthContext, id int64) (*domain.User, error) {
	return m.GetUserFunc(ctx, a, id)
}

// ---------------------------------------------------------------------------
// reportServiceMock
// ---------------------------------------------------------------------------

type reportServiceMock struct {
	SummaryFunc             func(ctx context.Context, a domain.AuthContext, p report.Period) (*domain.InventorySummary, error)
	ExportSalesXLSXFunc     func(ctx context.Context, a domain.AuthContext, p report.Period) ([]byte, error)
	ExportInventoryXLSXFunc func(ctx context.Context, a domain.AuthContext) ([]byte, error)
	ListActivityFunc        func(ctx context.Context, a domain.AuthContext, f domain.ActivityFilter) ([]domain.ActivityEntry, error)
}

func (m *reportServiceMock) Summary(ctx context.Context, a domain.AuthContext, p report.Period) (*domain.InventorySummary, error) {
	return m.SummaryFunc(ctx, a, p)
}

func (m *reportServiceMock) ExportSalesXLSX(ctx context.Context, a domain.AuthContext, p report.Period) ([]byte, error) {
	return m.ExportSalesXLSXFunc(ctx, a, p)
}

func (m *reportServiceMock) ExportInventoryXLSX(ctx context.Context, a domain.AuthContext) ([]byte, error) {
	return m.ExportInventoryXLSXFunc(ctx, a)
}

func (m *reportServiceMock) ListActivity(ctx context.Context, a domain.AuthContext, f domain.ActivityFilter) ([]domain.ActivityEntry, error) {
	return m.ListActivityFunc(ctx, a, f)
}
