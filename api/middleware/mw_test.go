package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/authn"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/credentials"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims authn.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	JWTMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddleware_InvalidFormat(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Add("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	JWTMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddleware_InvalidBearerToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Add("Authorization", "Bearer invalid-token")
	w := httptest.NewRecorder()
	JWTMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddleware_PopulatesContext(t *testing.T) {
	token := signedToken(t, authn.Claims{User: "admin", Groups: []string{authn.AdminGroup}})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, "admin", claims.User)

		credential, err := credentials.FromContext{}.Credential(r.Context())
		require.NoError(t, err)
		assert.Equal(t, token, credential)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Add("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	WithLogger(JWTMiddleware(next)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		ctx    context.Context
		status int
	}{
		{"no claims", context.Background(), http.StatusUnauthorized},
		{"not admin", WithClaims(context.Background(), authn.Claims{User: "bob"}), http.StatusForbidden},
		{"admin", WithClaims(context.Background(), authn.Claims{User: "admin", Groups: []string{authn.AdminGroup}}), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil).WithContext(tt.ctx)
			w := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		err    error
	}{
		{"", "", errMissingHeader},
		{"Basic abc", "", errNotBearer},
		{"Bearer", "", errNotBearer},
		{"Bearer ", "", errNotBearer},
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			token, err := bearerToken(req)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestRequestCacheIsPerRequest(t *testing.T) {
	var seen []*directory.Cache
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cache, ok := directory.CacheFromContext(r.Context())
		require.True(t, ok)
		seen = append(seen, cache)
	})

	handler := RequestCache(next)
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))
	}

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
}
