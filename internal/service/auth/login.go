package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/ratelimit"
)

// Login authenticates a user with username + password.
// Unknown users, inactive users, pending invitations and wrong passwords all
// return ErrUnauthorized. Attempts beyond the limiter budget return a
// *ratelimit.ExceededError.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	const op = "Login"
	in.Username = normalizeUsername(in.Username)
	if err := in.Validate(); err != nil {
		return nil, s.finish(ctx, op, err)
	}

	key := ratelimit.Key(in.ClientAddr, in.Username)
	if err := s.limiter.Allow(ctx, key); err != nil {
		var exceeded *ratelimit.ExceededError
		if errors.As(err, &exceeded) {
			s.metrics.LoginRateLimited()
			s.log.WarnContext(ctx, "login rate limited",
				slog.String("username", in.Username),
				slog.Duration("retry_after", exceeded.RetryAfter),
			)
			return nil, s.finish(ctx, op, err)
		}
		// A broken attempt store must not lock every user out.
		s.log.WarnContext(ctx, "login limiter unavailable", slog.String("error", err.Error()))
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.decoyCompare(in.Password)
			return nil, s.finish(ctx, op, domain.ErrUnauthorized)
		}
		return nil, s.finish(ctx, op, fmt.Errorf("get user: %w", err))
	}
	if !user.CanLogin() {
		s.decoyCompare(in.Password)
		return nil, s.finish(ctx, op, domain.ErrUnauthorized)
	}
	if !s.hasher.Compare(*user.PasswordHash, in.Password) {
		return nil, s.finish(ctx, op, domain.ErrUnauthorized)
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, s.finish(ctx, op, err)
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log.WarnContext(ctx, "reset login attempts", slog.String("error", err.Error()))
	}
	if err := s.activity.Log(ctx, domain.NewActivity(user.ID, domain.ActionLogin, domain.EntityTypeUser, user.ID, "Logged in")); err != nil {
		s.log.WarnContext(ctx, "log login activity", slog.String("error", err.Error()))
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
		slog.Bool("must_reset_password", user.MustResetPassword),
	)
	return result, s.finish(ctx, op, nil)
}

// ValidateToken resolves an access token to the caller's AuthContext.
// The account is re-read so deactivation and role changes apply immediately.
func (s *Service) ValidateToken(ctx context.Context, token string) (domain.AuthContext, error) {
	userID, _, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return domain.AuthContext{}, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AuthContext{}, domain.ErrUnauthorized
		}
		return domain.AuthContext{}, fmt.Errorf("auth.ValidateToken: %w", err)
	}
	if !user.IsActive {
		return domain.AuthContext{}, domain.ErrUnauthorized
	}

	return domain.AuthContext{ActorID: user.ID, Role: user.Role}, nil
}
