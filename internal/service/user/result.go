package user

import (
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// AddUserResult is returned by AddUser. InviteToken is only set for accounts
// created without a password and is never stored in plain form.
type AddUserResult struct {
	User            domain.User
	InviteToken     string
	InviteExpiresAt *time.Time
}
