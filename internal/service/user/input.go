package user

import (
	"strings"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/pkg/validate"
)

// AddUserInput holds parameters for AddUser. An empty Password creates a
// pending account that is activated through an invitation.
type AddUserInput struct {
	Username string          `json:"username"  validate:"required,min=3,max=50,username"`
	FullName string          `json:"full_name" validate:"max=150"`
	Role     domain.UserRole `json:"role"      validate:"required,oneof=admin employee"`
	Password string          `json:"password"  validate:"omitempty,min=8,max=72"`
}

func (i *AddUserInput) normalize() {
	i.Username = strings.TrimSpace(i.Username)
	i.FullName = domain.CleanText(i.FullName)
	i.Role = domain.UserRole(strings.ToLower(strings.TrimSpace(string(i.Role))))
}

// Validate validates the add user input.
func (i AddUserInput) Validate() error {
	return validate.Struct(i)
}
