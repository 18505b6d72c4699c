package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// AddUser creates a staff account (admin only).
func (s *Service) AddUser(ctx context.Context, auth domain.AuthContext, in AddUserInput) (*AddUserResult, error) {
	const op = "AddUser"
	if err := requireAdmin(auth); err != nil {
		return nil, s.finish(ctx, op, err)
	}
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, s.finish(ctx, op, err)
	}

	var res AddUserResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		taken, err := s.users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return fmt.Errorf("user %q: %w", in.Username, domain.ErrDuplicateUsername)
		}

		u := domain.User{
			Username: in.Username,
			FullName: in.FullName,
			Role:     in.Role,
			IsActive: true,
		}
		if in.Password != "" {
			hash, err := s.hasher.Hash(in.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u.PasswordHash = &hash
		} else {
			u.MustResetPassword = true
		}

		created, err := s.users.Create(ctx, u)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		res.User = *created

		if in.Password == "" {
			raw, hash, err := s.newInviteToken()
			if err != nil {
				return fmt.Errorf("generate invite: %w", err)
			}
			expires := s.now().Add(s.cfg.InviteTTL)
			if err := s.invites.Create(ctx, domain.UserInvite{
				UserID:    created.ID,
				TokenHash: hash,
				ExpiresAt: expires,
			}); err != nil {
				return fmt.Errorf("create invite: %w", err)
			}
			res.InviteToken = raw
			res.InviteExpiresAt = &expires
		}

		desc := fmt.Sprintf("Added user %s (%s)", created.Username, created.Role)
		if err := s.activity.Log(ctx, domain.NewActivity(auth.ActorID, domain.ActionAddUser, domain.EntityTypeUser, created.ID, desc)); err != nil {
			return fmt.Errorf("log activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, op, err)
	}

	s.log.InfoContext(ctx, "user added",
		slog.Int64("user_id", res.User.ID),
		slog.String("role", res.User.Role.String()),
		slog.Bool("invited", res.InviteToken != ""),
	)
	return &res, s.finish(ctx, op, nil)
}

// DeactivateUser soft-deletes an account. Deactivating an inactive user is not
// an error.
func (s *Service) DeactivateUser(ctx context.Context, auth domain.AuthContext, targetID int64) error {
	const op = "DeactivateUser"
	if err := requireAdmin(auth); err != nil {
		return s.finish(ctx, op, err)
	}
	if targetID == auth.ActorID {
		return s.finish(ctx, op, domain.ErrSelfDeactivationForbidden)
	}
	return s.finish(ctx, op, s.setActive(ctx, auth, targetID, false))
}

// ReactivateUser restores a deactivated account.
func (s *Service) ReactivateUser(ctx context.Context, auth domain.AuthContext, targetID int64) error {
	const op = "ReactivateUser"
	if err := requireAdmin(auth); err != nil {
		return s.finish(ctx, op, err)
	}
	return s.finish(ctx, op, s.setActive(ctx, auth, targetID, true))
}

func (s *Service) setActive(ctx context.Context, auth domain.AuthContext, targetID int64, active bool) error {
	action, verb := domain.ActionReactivateUser, "Reactivated"
	if !active {
		action, verb = domain.ActionDeactivateUser, "Deactivated"
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByID(ctx, targetID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if err := s.users.SetActive(ctx, targetID, active); err != nil {
			return fmt.Errorf("set active: %w", err)
		}
		desc := fmt.Sprintf("%s user %s", verb, target.Username)
		if err := s.activity.Log(ctx, domain.NewActivity(auth.ActorID, action, domain.EntityTypeUser, targetID, desc)); err != nil {
			return fmt.Errorf("log activity: %w", err)
		}
		return nil
	})
}

// SetUserRole changes the role of a user (admin only). Admins cannot demote
// themselves.
func (s *Service) SetUserRole(ctx context.Context, auth domain.AuthContext, targetID int64, role domain.UserRole) error {
	const op = "SetUserRole"
	if err := requireAdmin(auth); err != nil {
		return s.finish(ctx, op, err)
	}
	if !role.IsValid() {
		return s.finish(ctx, op, domain.NewValidationError("role", "must be one of: admin employee"))
	}
	if targetID == auth.ActorID && role != domain.UserRoleAdmin {
		return s.finish(ctx, op, domain.NewValidationError("role", "cannot demote yourself"))
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByID(ctx, targetID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if err := s.users.SetRole(ctx, targetID, role); err != nil {
			return fmt.Errorf("set role: %w", err)
		}
		desc := fmt.Sprintf("Changed role of %s to %s", target.Username, role)
		if err := s.activity.Log(ctx, domain.NewActivity(auth.ActorID, domain.ActionChangeRole, domain.EntityTypeUser, targetID, desc)); err != nil {
			return fmt.Errorf("log activity: %w", err)
		}
		return nil
	})
	return s.finish(ctx, op, err)
}

// ListUsers returns a page of users ordered by username (admin only).
func (s *Service) ListUsers(ctx context.Context, auth domain.AuthContext, limit, offset int) ([]domain.User, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	users, err := s.users.List(ctx, limit, offset, maxListLimit)
	if err != nil {
		return nil, fmt.Errorf("user.ListUsers: %w", err)
	}
	return users, nil
}

// GetUser returns one account. Staff may read their own record; anyone else
// requires the admin role.
func (s *Service) GetUser(ctx context.Context, auth domain.AuthContext, id int64) (*domain.User, error) {
	if !auth.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if id != auth.ActorID && !auth.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.GetUser: %w", err)
	}
	return u, nil
}
