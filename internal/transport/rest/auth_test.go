package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/ratelimit"
	"github.com/heartmarshall/phoneshop-backend/internal/service/auth"
)

var testCookie = SessionCookie{Name: "session", Secure: true}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie.Name {
			return c
		}
	}
	return nil
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	t.Parallel()

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	svc := &authServiceMock{
		LoginFunc: func(_ context.Context, in auth.LoginInput) (*auth.AuthResult, error) {
			assert.Equal(t, "grace", in.Username)
			assert.Equal(t, "10.0.0.7:5123", in.ClientAddr)
			return &auth.AuthResult{
				AccessToken: "jwt-token",
				ExpiresAt:   expires,
				User:        &domain.User{ID: 2, Username: "grace", Role: domain.UserRoleEmployee},
			}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"grace","password":"secret-pass"}`))
	req.RemoteAddr = "10.0.0.7:5123"
	rec := httptest.NewRecorder()
	NewAuthHandler(svc, testCookie, discardLogger()).Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "jwt-token", body["access_token"])
	assert.Equal(t, "grace", body["user"].(map[string]any)["username"])

	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.Equal(t, "jwt-token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
}

func TestLogin_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		wantCode       int
		wantRetryAfter string
	}{
		{"bad credentials", domain.ErrUnauthorized, http.StatusUnauthorized, ""},
		{"rate limited", fmt.Errorf("auth.Login: %w", &ratelimit.ExceededError{RetryAfter: 90 * time.Second}), http.StatusTooManyRequests, "90"},
		{"validation", domain.NewValidationError("username", "required"), http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &authServiceMock{
				LoginFunc: func(context.Context, auth.LoginInput) (*auth.AuthResult, error) { return nil, tt.err },
			}
			rec := httptest.NewRecorder()
			NewAuthHandler(svc, testCookie, discardLogger()).Login(rec,
				httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"grace","password":"x"}`)))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRetryAfter, rec.Header().Get("Retry-After"))
			assert.Nil(t, sessionCookie(rec))
		})
	}
}

func TestAcceptInvite(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{
		AcceptInviteFunc: func(_ context.Context, in auth.AcceptInviteInput) (*auth.AuthResult, error) {
			assert.Equal(t, "invite-raw", in.Token)
			return &auth.AuthResult{AccessToken: "fresh", ExpiresAt: time.Now().Add(time.Hour), User: &domain.User{ID: 9}}, nil
		},
	}
	rec := httptest.NewRecorder()
	NewAuthHandler(svc, testCookie, discardLogger()).AcceptInvite(rec,
		httptest.NewRequest(http.MethodPost, "/auth/invite/accept", strings.NewReader(`{"token":"invite-raw","new_password":"new-password"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh", sessionCookie(rec).Value)
}

func TestChangePassword_UsesActor(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{
		ChangePasswordFunc: func(_ context.Context, a domain.AuthContext, in auth.ChangePasswordInput) error {
			assert.Equal(t, employeeActor, a)
			assert.Equal(t, "old-password", in.OldPassword)
			return nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/password", strings.NewReader(`{"old_password":"old-password","new_password":"new-password"}`))
	rec := httptest.NewRecorder()
	NewAuthHandler(svc, testCookie, discardLogger()).ChangePassword(rec, asActor(req, employeeActor.ActorID, employeeActor.Role))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewAuthHandler(&authServiceMock{}, testCookie, discardLogger()).Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}
