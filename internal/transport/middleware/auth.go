package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (domain.AuthContext, error)
}

type userRecorder interface {
	SetUserID(id int64)
}

// Auth resolves the caller from a bearer token or, failing that, the session
// cookie. Requests without credentials pass through anonymously. An invalid
// bearer token is rejected with 401. An invalid session cookie is expired and
// the request continues anonymously, so a browser holding a stale cookie can
// still reach login, logout and health; role gates reject it where needed.
func Auth(validator tokenValidator, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := extractBearerToken(r), false
			if token == "" {
				token, fromCookie = extractCookieToken(r, cookieName), true
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				if !fromCookie {
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				if errors.Is(err, domain.ErrUnauthorized) {
					expireCookie(w, cookieName)
				}
				next.ServeHTTP(w, r)
				return
			}
			if rec, ok := w.(userRecorder); ok {
				rec.SetUserID(actor.ActorID)
			}
			ctx := ctxutil.WithUserID(r.Context(), actor.ActorID)
			ctx = ctxutil.WithUserRole(ctx, actor.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Actor returns the AuthContext stored by Auth. The zero value is not Valid.
func Actor(ctx context.Context) domain.AuthContext {
	id, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.AuthContext{}
	}
	return domain.AuthContext{ActorID: id, Role: domain.UserRole(ctxutil.UserRoleFromCtx(ctx))}
}

func extractBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func extractCookieToken(r *http.Request, name string) string {
	if name == "" {
		return ""
	}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
