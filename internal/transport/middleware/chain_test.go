package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tag(name string, trace *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestChain(t *testing.T) {
	tests := []struct {
		name  string
		build func(trace *[]string) Middleware
		want  []string
	}{
		{
			name: "first is outermost",
			build: func(trace *[]string) Middleware {
				return Chain(tag("throttle", trace), tag("role", trace))
			},
			want: []string{"throttle", "role", "handler"},
		},
		{
			name:  "empty",
			build: func(*[]string) Middleware { return Chain() },
			want:  []string{"handler"},
		},
		{
			name: "nil entries skipped",
			build: func(trace *[]string) Middleware {
				return Chain(nil, tag("metrics", trace), nil)
			},
			want: []string{"metrics", "handler"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trace []string
			h := tt.build(&trace)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, "handler")
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/shops", nil))

			assert.Equal(t, tt.want, trace)
		})
	}
}
