package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/phoneshop-backend/internal/auth"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// AcceptInvite redeems a single-use invitation: it sets the password, clears
// the reset flag and logs the user in. Unknown, used and expired tokens return
// ErrUnauthorized.
func (s *Service) AcceptInvite(ctx context.Context, in AcceptInviteInput) (*AuthResult, error) {
	const op = "AcceptInvite"
	if err := in.Validate(); err != nil {
		return nil, s.finish(ctx, op, err)
	}

	var user *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		inv, err := s.invites.GetByHash(ctx, auth.HashToken(in.Token))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUnauthorized
			}
			return fmt.Errorf("get invite: %w", err)
		}
		if inv.IsUsed() || inv.IsExpired(s.now()) {
			return domain.ErrUnauthorized
		}

		user, err = s.users.GetByID(ctx, inv.UserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !user.IsActive {
			return domain.ErrUnauthorized
		}

		hash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := s.users.SetPassword(ctx, user.ID, hash, false); err != nil {
			return fmt.Errorf("set password: %w", err)
		}
		// MarkUsed only matches unused rows, so a concurrent redemption loses here.
		if err := s.invites.MarkUsed(ctx, inv.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUnauthorized
			}
			return fmt.Errorf("mark invite used: %w", err)
		}
		if err := s.activity.Log(ctx, domain.NewActivity(user.ID, domain.ActionAcceptInvite, domain.EntityTypeUser, user.ID, "Accepted invitation")); err != nil {
			return fmt.Errorf("log activity: %w", err)
		}

		user.PasswordHash = &hash
		user.MustResetPassword = false
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, op, err)
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, s.finish(ctx, op, err)
	}

	s.log.InfoContext(ctx, "invitation accepted", slog.Int64("user_id", user.ID))
	return result, s.finish(ctx, op, nil)
}

// ChangePassword replaces the caller's password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, actor domain.AuthContext, in ChangePasswordInput) error {
	const op = "ChangePassword"
	if !actor.Valid() {
		return s.finish(ctx, op, domain.ErrUnauthorized)
	}
	if err := in.Validate(); err != nil {
		return s.finish(ctx, op, err)
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, actor.ActorID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUnauthorized
			}
			return fmt.Errorf("get user: %w", err)
		}
		if !user.CanLogin() || !s.hasher.Compare(*user.PasswordHash, in.OldPassword) {
			return domain.ErrUnauthorized
		}

		hash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := s.users.SetPassword(ctx, user.ID, hash, false); err != nil {
			return fmt.Errorf("set password: %w", err)
		}
		if err := s.activity.Log(ctx, domain.NewActivity(user.ID, domain.ActionChangePassword, domain.EntityTypeUser, user.ID, "Changed password")); err != nil {
			return fmt.Errorf("log activity: %w", err)
		}
		return nil
	})
	return s.finish(ctx, op, err)
}
