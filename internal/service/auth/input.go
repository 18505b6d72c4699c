package auth

import (
	"strings"

	"github.com/heartmarshall/phoneshop-backend/pkg/validate"
)

// LoginInput holds parameters for Login. ClientAddr is the remote address used
// to key the attempt limiter.
type LoginInput struct {
	Username   string `json:"username" validate:"required,max=50"`
	Password   string `json:"password" validate:"required,max=72"`
	ClientAddr string `json:"-"`
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	return validate.Struct(i)
}

// AcceptInviteInput holds parameters for AcceptInvite.
type AcceptInviteInput struct {
	Token       string `json:"token"        validate:"required,max=512"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// Validate validates the accept invite input.
func (i AcceptInviteInput) Validate() error {
	return validate.Struct(i)
}

// ChangePasswordInput holds parameters for ChangePassword.
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required,max=72"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72,nefield=OldPassword"`
}

// Validate validates the change password input.
func (i ChangePasswordInput) Validate() error {
	return validate.Struct(i)
}

func normalizeUsername(s string) string {
	return strings.TrimSpace(s)
}
