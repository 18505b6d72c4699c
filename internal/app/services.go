package app

import (
	"log/slog"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/accessory"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/invite"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/phone"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/report"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/sale"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/shop"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/transfer"
	userrepo "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/user"
	authpkg "github.com/heartmarshall/phoneshop-backend/internal/auth"
	"github.com/heartmarshall/phoneshop-backend/internal/config"
	"github.com/heartmarshall/phoneshop-backend/internal/metrics"
	"github.com/heartmarshall/phoneshop-backend/internal/ratelimit"
	authsvc "github.com/heartmarshall/phoneshop-backend/internal/service/auth"
	"github.com/heartmarshall/phoneshop-backend/internal/service/inventory"
	reportsvc "github.com/heartmarshall/phoneshop-backend/internal/service/report"
	usersvc "github.com/heartmarshall/phoneshop-backend/internal/service/user"
)

// Services is the wired service layer shared by the server and the commands.
type Services struct {
	Inventory *inventory.Service
	Users     *usersvc.Service
	Auth      *authsvc.Service
	Reports   *reportsvc.Service
}

// NewServices builds repositories over db and the services on top of them.
// m may be nil when metrics are disabled.
func NewServices(logger *slog.Logger, db postgres.DB, cfg *config.Config, loginLimiter *ratelimit.Limiter, m *metrics.Metrics) *Services {
	txm := postgres.NewTxManager(db)

	phones := phone.New(db)
	accessories := accessory.New(db)
	sales := sale.New(db)
	transfers := transfer.New(db)
	shops := shop.New(db)
	activityRepo := activity.New(db)
	users := userrepo.New(db)
	invites := invite.New(db)
	reports := report.New(db)

	jwtMgr := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	hasher := authpkg.NewPasswordHasher(cfg.Auth.PasswordHashCost)

	s := &Services{
		Inventory: inventory.NewService(logger, phones, accessories, sales, transfers, shops, activityRepo, txm, cfg.Inventory),
		Users:     usersvc.NewService(logger, users, invites, activityRepo, txm, hasher, cfg.Auth),
		Auth:      authsvc.NewService(logger, users, invites, activityRepo, txm, jwtMgr, hasher, loginLimiter, cfg.Auth.AccessTokenTTL),
		Reports:   reportsvc.NewService(logger, reports, sales, phones, accessories, activityRepo),
	}

	if m != nil {
		s.Inventory.SetMetrics(m)
		s.Users.SetMetrics(m)
		s.Auth.SetMetrics(m)
	}
	return s
}
