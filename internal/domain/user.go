package domain

import "time"

// User is a shop staff account.
type User struct {
	ID                int64
	Username          string
	FullName          string
	Role              UserRole
	PasswordHash      *string
	MustResetPassword bool
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanLogin reports whether the account is active and has a password set.
func (u *User) CanLogin() bool {
	return u.IsActive && u.PasswordHash != nil && *u.PasswordHash != ""
}

// UserInvite is a single-use token that lets a new user choose a password.
type UserInvite struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsUsed returns true if the invite has already been redeemed.
func (i *UserInvite) IsUsed() bool {
	return i.UsedAt != nil
}

// IsExpired returns true if the invite has expired relative to now.
func (i *UserInvite) IsExpired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}

// AuthContext identifies who is performing an operation.
// It is resolved by the transport layer and passed explicitly into services.
type AuthContext struct {
	ActorID int64
	Role    UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a AuthContext) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// Valid reports whether the context carries a known actor and role.
func (a AuthContext) Valid() bool {
	return a.ActorID > 0 && a.Role.IsValid()
}
