package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// userRepo defines the user repository interface needed by auth service.
type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	SetPassword(ctx context.Context, id int64, hash string, mustReset bool) error
}

// inviteRepo defines the invitation store needed by auth service.
type inviteRepo interface {
	GetByHash(ctx context.Context, tokenHash string) (*domain.UserInvite, error)
	MarkUsed(ctx context.Context, id int64) error
}

type activityLog interface {
	Log(ctx context.Context, entry domain.ActivityEntry) error
}

// txManager defines the transaction manager interface needed by auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// jwtManager defines the JWT token management interface needed by auth service.
type jwtManager interface {
	GenerateAccessToken(userID int64, role string) (string, error)
	ValidateAccessToken(token string) (int64, string, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// loginLimiter throttles login attempts per client key.
type loginLimiter interface {
	Allow(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type authMetrics interface {
	ObserveOperation(operation string, err error)
	LoginRateLimited()
}

// Service implements login, invitation acceptance and password changes.
type Service struct {
	log      *slog.Logger
	users    userRepo
	invites  inviteRepo
	activity activityLog
	tx       txManager
	jwt      jwtManager
	hasher   passwordHasher
	limiter  loginLimiter
	metrics  authMetrics
	tokenTTL time.Duration
	now      func() time.Time

	decoyOnce sync.Once
	decoyHash string
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	invites inviteRepo,
	activity activityLog,
	tx txManager,
	jwt jwtManager,
	hasher passwordHasher,
	limiter loginLimiter,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		users:    users,
		invites:  invites,
		activity: activity,
		tx:       tx,
		jwt:      jwt,
		hasher:   hasher,
		limiter:  limiter,
		metrics:  nopMetrics{},
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// SetMetrics injects the optional metrics recorder.
func (s *Service) SetMetrics(m authMetrics) {
	s.metrics = m
}

// decoyCompare runs a password comparison whose result is ignored, so that
// rejecting an unknown or passwordless user costs as much as rejecting a wrong
// password and response time does not reveal which usernames exist.
func (s *Service) decoyCompare(password string) {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("phoneshop-login-decoy")
		if err != nil {
			s.log.Warn("build login decoy hash", slog.String("error", err.Error()))
			return
		}
		s.decoyHash = hash
	})
	if s.decoyHash != "" {
		_ = s.hasher.Compare(s.decoyHash, password)
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error) {}
func (nopMetrics) LoginRateLimited()              {}

// issueToken signs an access token for user.
func (s *Service) issueToken(user *domain.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResult{
		AccessToken:       token,
		ExpiresAt:         s.now().Add(s.tokenTTL),
		User:              user,
		MustResetPassword: user.MustResetPassword,
	}, nil
}

func (s *Service) finish(ctx context.Context, op string, err error) error {
	if err != nil && !isDomainError(err) {
		s.log.ErrorContext(ctx, "auth operation failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		err = domain.ErrTransactionFailed
	}
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		return fmt.Errorf("auth.%s: %w", op, err)
	}
	return nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrUnauthorized,
		domain.ErrRateLimited,
		domain.ErrNotFound,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
