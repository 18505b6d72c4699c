package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/service/user"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/middleware"
)

type userService interface {
	AddUser(ctx context.Context, auth domain.AuthContext, in user.AddUserInput) (*user.AddUserResult, error)
	DeactivateUser(ctx context.Context, auth domain.AuthContext, targetID int64) error
	ReactivateUser(ctx context.Context, auth domain.AuthContext, targetID int64) error
	SetUserRole(ctx context.Context, auth domain.AuthContext, targetID int64, role domain.UserRole) error
	ListUsers(ctx context.Context, auth domain.AuthContext, limit, offset int) ([]domain.User, error)
	GetUser(ctx context.Context, auth domain.AuthContext, id int64) (*domain.User, error)
}

// UserHandler serves staff account management.
type UserHandler struct {
	svc userService
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "user")}
}

// Create handles POST /api/users. Accounts created without a password carry
// a one-time invite token in the response; it is never shown again.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in user.AddUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.svc.AddUser(r.Context(), middleware.Actor(r.Context()), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	fields := map[string]any{"user": toUserResponse(res.User)}
	if res.InviteToken != "" {
		fields["invite_token"] = res.InviteToken
		fields["invite_expires_at"] = res.InviteExpiresAt
	}
	writeSuccess(w, http.StatusCreated, fields)
}

// Deactivate handles POST /api/users/{id}/deactivate.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.withTarget(w, r, h.svc.DeactivateUser)
}

// Reactivate handles POST /api/users/{id}/reactivate.
func (h *UserHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.withTarget(w, r, h.svc.ReactivateUser)
}

func (h *UserHandler) withTarget(w http.ResponseWriter, r *http.Request, fn func(context.Context, domain.AuthContext, int64) error) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := fn(r.Context(), middleware.Actor(r.Context()), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

type setRoleRequest struct {
	Role domain.UserRole `json:"role"`
}

// SetRole handles POST /api/users/{id}/role.
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	var req setRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := h.svc.SetUserRole(r.Context(), middleware.Actor(r.Context()), id, req.Role); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePage(r.URL.Query())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	users, err := h.svc.ListUsers(r.Context(), middleware.Actor(r.Context()), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": mapSlice(users, toUserResponse)})
}

// Me handles GET /api/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	u, err := h.svc.GetUser(r.Context(), actor, actor.ActorID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"user": toUserResponse(*u)})
}
