package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/config"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/middleware"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/rest"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (domain.AuthContext, error)
}

type httpMetrics interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
	Handler() http.Handler
}

// Handlers groups the REST handlers mounted by NewRouter.
type Handlers struct {
	Health    *rest.HealthHandler
	Auth      *rest.AuthHandler
	Inventory *rest.InventoryHandler
	Users     *rest.UserHandler
	Reports   *rest.ReportHandler
	Forms     *rest.FormHandler
}

// RouterConfig holds everything NewRouter needs besides the handlers.
type RouterConfig struct {
	Logger         *slog.Logger
	Tokens         tokenValidator
	CORS           config.CORSConfig
	SessionCookie  string
	Limiter        *middleware.RateLimiter
	RequestsPerMin int
	// Metrics is optional; nil disables both the per-route observer and the
	// scrape endpoint.
	Metrics     httpMetrics
	MetricsPath string
}

// NewRouter builds the HTTP handler: global middleware around a ServeMux with
// per-route metrics, role gates and request throttling.
func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, handler http.HandlerFunc, mws ...middleware.Middleware) {
		if cfg.Metrics != nil {
			mws = append([]middleware.Middleware{middleware.Metrics(cfg.Metrics)}, mws...)
		}
		mux.Handle(pattern, middleware.Chain(mws...)(handler))
	}

	throttle := cfg.Limiter.Limit(cfg.RequestsPerMin)
	admin := []middleware.Middleware{throttle, middleware.RequireAdmin()}
	staff := []middleware.Middleware{throttle, middleware.RequireStaff()}

	// Health and metrics.
	route("GET /live", h.Health.Live)
	route("GET /ready", h.Health.Ready)
	route("GET /health", h.Health.Health)
	if cfg.Metrics != nil {
		mux.Handle("GET "+cfg.MetricsPath, cfg.Metrics.Handler())
	}

	// Auth. Login attempts are limited per username and address by the auth
	// service itself.
	route("POST /auth/login", h.Auth.Login)
	route("POST /auth/invite/accept", h.Auth.AcceptInvite, throttle)
	route("POST /auth/password", h.Auth.ChangePassword, staff...)
	route("POST /auth/logout", h.Auth.Logout)

	// Admin JSON API.
	route("POST /api/add_item", h.Inventory.AddItem, admin...)
	route("POST /api/delete_item", h.Inventory.DeleteItem, admin...)
	route("GET /api/get_inventory", h.Inventory.GetInventory, admin...)
	route("POST /api/sell_item", h.Inventory.SellItem, admin...)
	route("POST /api/transfer_item", h.Inventory.TransferItem, admin...)
	route("GET /api/sales", h.Inventory.ListSales, admin...)
	route("GET /api/transfers", h.Inventory.ListTransfers, admin...)
	route("GET /api/shops", h.Inventory.ListShops, staff...)
	route("GET /api/activity", h.Reports.Activity, admin...)
	route("GET /api/reports/summary", h.Reports.Summary, admin...)
	route("GET /api/reports/sales.xlsx", h.Reports.SalesXLSX, admin...)
	route("GET /api/reports/inventory.xlsx", h.Reports.InventoryXLSX, admin...)
	route("POST /api/users", h.Users.Create, admin...)
	route("GET /api/users", h.Users.List, admin...)
	route("POST /api/users/{id}/deactivate", h.Users.Deactivate, admin...)
	route("POST /api/users/{id}/reactivate", h.Users.Reactivate, admin...)
	route("POST /api/users/{id}/role", h.Users.SetRole, admin...)
	route("GET /api/me", h.Users.Me, staff...)

	// Shop floor forms.
	route("POST /forms/phones", h.Forms.AddPhone, staff...)
	route("POST /forms/accessories", h.Forms.AddAccessory, staff...)
	route("POST /forms/phones/{id}/sell", h.Forms.SellPhone, staff...)
	route("POST /forms/accessories/{id}/sell", h.Forms.SellAccessory, staff...)
	route("POST /forms/transfers", h.Forms.Transfer, staff...)
	route("POST /forms/retire", h.Forms.Retire, staff...)

	return middleware.Chain(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.Logger(cfg.Logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(cfg.Tokens, cfg.SessionCookie),
	)(mux)
}
