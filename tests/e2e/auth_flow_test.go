//go:build e2e

package e2e_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

func TestE2E_LiveAndHealth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.get(t, "/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := ts.doJSON(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	components := body["components"].(map[string]any)
	assert.Equal(t, "ok", components["database"].(map[string]any)["status"])
}

func TestE2E_InviteFlow(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.createUser(t, domain.UserRoleAdmin)
	adminToken := ts.login(t, admin.Username, testPassword)

	username := "clerk_" + testhelper.UniqueSuffix()
	status, body := ts.doJSON(t, http.MethodPost, "/api/users", adminToken, map[string]any{
		"username":  username,
		"full_name": "Shop Clerk",
		"role":      "employee",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	invite, ok := body["invite_token"].(string)
	require.True(t, ok)
	assert.Equal(t, true, body["user"].(map[string]any)["pending_invite"])

	// A pending account cannot log in yet.
	status, _ = ts.doJSON(t, http.MethodPost, "/auth/login", "", map[string]any{"username": username, "password": "anything-at-all"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = ts.doJSON(t, http.MethodPost, "/auth/invite/accept", "", map[string]any{
		"token":        invite,
		"new_password": "clerk-password-1",
	})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.NotEmpty(t, body["access_token"])

	// The invite is single use.
	status, _ = ts.doJSON(t, http.MethodPost, "/auth/invite/accept", "", map[string]any{
		"token":        invite,
		"new_password": "clerk-password-2",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	clerkToken := ts.login(t, username, "clerk-password-1")
	status, body = ts.doJSON(t, http.MethodGet, "/api/me", clerkToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, username, body["user"].(map[string]any)["username"])
}

func TestE2E_DuplicateUsername(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.createUser(t, domain.UserRoleAdmin)
	token := ts.login(t, admin.Username, testPassword)

	status, _ := ts.doJSON(t, http.MethodPost, "/api/users", token, map[string]any{
		"username": admin.Username,
		"role":     "employee",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestE2E_LoginAttemptLimit(t *testing.T) {
	ts := setupTestServer(t)
	u := ts.createUser(t, domain.UserRoleEmployee)

	for i := range 3 {
		status, _ := ts.doJSON(t, http.MethodPost, "/auth/login", "", map[string]any{
			"username": u.Username,
			"password": fmt.Sprintf("wrong-%d", i),
		})
		require.Equal(t, http.StatusUnauthorized, status)
	}

	// Even the right password is refused once the window is used up.
	status, body := ts.doJSON(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": u.Username,
		"password": testPassword,
	})
	assert.Equal(t, http.StatusTooManyRequests, status, "%v", body)
}

func TestE2E_ChangePassword(t *testing.T) {
	ts := setupTestServer(t)
	u := ts.createUser(t, domain.UserRoleEmployee)
	token := ts.login(t, u.Username, testPassword)

	status, _ := ts.doJSON(t, http.MethodPost, "/auth/password", token, map[string]any{
		"old_password": "not-my-password",
		"new_password": "brand-new-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = ts.doJSON(t, http.MethodPost, "/auth/password", token, map[string]any{
		"old_password": testPassword,
		"new_password": "brand-new-password",
	})
	require.Equal(t, http.StatusOK, status)

	ts.login(t, u.Username, "brand-new-password")
}
