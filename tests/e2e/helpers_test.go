//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/testhelper"
	authpkg "github.com/heartmarshall/phoneshop-backend/internal/auth"
	"github.com/heartmarshall/phoneshop-backend/internal/app"
	"github.com/heartmarshall/phoneshop-backend/internal/config"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/metrics"
	"github.com/heartmarshall/phoneshop-backend/internal/ratelimit"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/middleware"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/rest"
)

const testPassword = "correct-horse-battery"

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret-at-least-32-chars-long!!",
			JWTIssuer:        "test-issuer",
			AccessTokenTTL:   time.Hour,
			InviteTTL:        72 * time.Hour,
			PasswordHashCost: 4,
			SessionCookie:    "session",
		},
		Inventory: config.InventoryConfig{
			HomeShopID:  testhelper.HomeShopID,
			PhoneRegion: "UG",
			ListLimit:   500,
		},
		RateLimit: config.RateLimitConfig{
			RequestsPerMin:   10_000,
			LoginMaxAttempts: 3,
			LoginWindow:      time.Minute,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
			MaxAge:         86400,
		},
	}
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	cfg := testConfig()

	store := ratelimit.NewMemoryStore(time.Minute)
	t.Cleanup(store.Stop)
	loginLimiter := ratelimit.New(store, cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow)

	m := metrics.New()
	svc := app.NewServices(logger, pool, cfg, loginLimiter, m)

	requestLimiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(requestLimiter.Stop)

	handler := app.NewRouter(app.RouterConfig{
		Logger:         logger,
		Tokens:         svc.Auth,
		CORS:           cfg.CORS,
		SessionCookie:  cfg.Auth.SessionCookie,
		Limiter:        requestLimiter,
		RequestsPerMin: cfg.RateLimit.RequestsPerMin,
		Metrics:        m,
		MetricsPath:    "/metrics",
	}, app.NewHandlers(logger, svc, cfg, []rest.HealthCheck{{Name: "database", Pinger: pool}}))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	return &testServer{URL: srv.URL, Client: client, Pool: pool}
}

// createUser seeds an active user whose password is testPassword.
func (ts *testServer) createUser(t *testing.T, role domain.UserRole) domain.User {
	t.Helper()

	u := testhelper.SeedUser(t, ts.Pool, role)
	hash, err := authpkg.NewPasswordHasher(4).Hash(testPassword)
	require.NoError(t, err)
	_, err = ts.Pool.Exec(context.Background(), `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, u.ID)
	require.NoError(t, err)
	return u
}

// login signs in through the API and returns the access token.
func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, "login failed: %v", body)
	token, ok := body["access_token"].(string)
	require.True(t, ok)
	return token
}

// doJSON sends a JSON request and decodes the JSON response.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, ts.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

// postForm submits a url-encoded form with the session cookie and returns the
// redirect target.
func (ts *testServer) postForm(t *testing.T, path, token string, values url.Values) *url.URL {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "session", Value: token})

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return loc
}

// get performs an authenticated GET and returns the raw response.
func (ts *testServer) get(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// adminToken creates a fresh admin and signs in.
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	admin := ts.createUser(t, domain.UserRoleAdmin)
	return ts.login(t, admin.Username, testPassword)
}
