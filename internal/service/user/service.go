package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/auth"
	"github.com/heartmarshall/phoneshop-backend/internal/config"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetRole(ctx context.Context, id int64, role domain.UserRole) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, limit, offset, maxLimit int) ([]domain.User, error)
}

// inviteRepo stores invitation token hashes.
type inviteRepo interface {
	Create(ctx context.Context, inv domain.UserInvite) error
}

type activityLog interface {
	Log(ctx context.Context, entry domain.ActivityEntry) error
}

// txManager defines the transaction manager interface needed by user service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type operationRecorder interface {
	ObserveOperation(operation string, err error)
}

const maxListLimit = 200

// Service implements user administration.
type Service struct {
	log      *slog.Logger
	users    userRepo
	invites  inviteRepo
	activity activityLog
	tx       txManager
	hasher   passwordHasher
	metrics  operationRecorder
	cfg      config.AuthConfig

	newInviteToken func() (raw, hash string, err error)
	now            func() time.Time
}

// NewService creates a new user service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	invites inviteRepo,
	activity activityLog,
	tx txManager,
	hasher passwordHasher,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:            logger.With("service", "user"),
		users:          users,
		invites:        invites,
		activity:       activity,
		tx:             tx,
		hasher:         hasher,
		metrics:        nopRecorder{},
		cfg:            cfg,
		newInviteToken: auth.GenerateInviteToken,
		now:            time.Now,
	}
}

// SetMetrics injects the optional operation recorder.
func (s *Service) SetMetrics(m operationRecorder) {
	s.metrics = m
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error) {}

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
		return fmt.Errorf("user.%s: %w", op, err)
	}
	return nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrDuplicateUsername,
		domain.ErrSelfDeactivationForbidden,
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

func requireAdmin(auth domain.AuthContext) error {
	if !auth.Valid() {
		return domain.ErrUnauthorized
	}
	if !auth.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
