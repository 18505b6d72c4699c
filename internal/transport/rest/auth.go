package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/service/auth"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/middleware"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Login(ctx context.Context, in auth.LoginInput) (*auth.AuthResult, error)
	AcceptInvite(ctx context.Context, in auth.AcceptInviteInput) (*auth.AuthResult, error)
	ChangePassword(ctx context.Context, actor domain.AuthContext, in auth.ChangePasswordInput) error
}

// SessionCookie configures the cookie carrying the access token for browser
// clients.
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthHandler serves auth REST endpoints.
type AuthHandler struct {
	svc    authService
	cookie SessionCookie
	log    *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, cookie SessionCookie, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie, log: logger.With("handler", "auth")}
}

type authResponse struct {
	AccessToken       string       `json:"access_token"`
	ExpiresAt         time.Time    `json:"expires_at"`
	MustResetPassword bool         `json:"must_reset_password"`
	User              userResponse `json:"user"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	in.ClientAddr = r.RemoteAddr

	result, err := h.svc.Login(r.Context(), in)
	h.respondWithSession(w, r, result, err)
}

// AcceptInvite handles POST /auth/invite/accept. The invited user sets a
// password and is signed in.
func (h *AuthHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var in auth.AcceptInviteInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.svc.AcceptInvite(r.Context(), in)
	h.respondWithSession(w, r, result, err)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, result *auth.AuthResult, err error) {
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    result.AccessToken,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	resp := authResponse{
		AccessToken:       result.AccessToken,
		ExpiresAt:         result.ExpiresAt,
		MustResetPassword: result.MustResetPassword,
	}
	if result.User != nil {
		resp.User = toUserResponse(*result.User)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ChangePassword handles POST /auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in auth.ChangePasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), middleware.Actor(r.Context()), in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only clears
// the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, http.StatusOK, nil)
}
