package auth

import (
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// AuthResult is returned by Login and AcceptInvite.
type AuthResult struct {
	AccessToken       string
	ExpiresAt         time.Time
	User              *domain.User
	MustResetPassword bool
}
