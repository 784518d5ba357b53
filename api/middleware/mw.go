package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/authn"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/credentials"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const claimsKey contextKey = "claims"

var (
	errMissingHeader = errors.New("authorization header missing")
	errNotBearer     = errors.New("invalid token format")
)

// WithClaims returns a copy of ctx carrying the claims of the request token.
func WithClaims(ctx context.Context, claims authn.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the claims stored by JWTMiddleware.
func ClaimsFrom(ctx context.Context) (authn.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(authn.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errNotBearer
	}
	return token, nil
}

// JWTMiddleware parses the bearer token, stores its claims in the request
// context and makes the token the directory credential of the request.
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).With().
				Str("handler", "JWTMiddleware").Logger()

			token, err := bearerToken(r)
			if err != nil {
				logger.Debug().Err(err).Msg("request rejected")
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := authn.ParseClaims(token)
			if err != nil {
				logger.Error().Err(err).Msg("invalid bearer jwt token")
				http.Error(w, "invalid bearer jwt token", http.StatusUnauthorized)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = credentials.WithCredential(ctx, token)

			// Tag the request logger with the token holder
			requestLogger := zerolog.Ctx(ctx).With().Str("user", claims.User).Logger()
			ctx = requestLogger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

// RequireAdmin rejects tokens whose holder is not in the directory admin
// group. It must run after JWTMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				http.Error(w, "claims missing", http.StatusUnauthorized)
				return
			}

			if !claims.IsAdmin() {
				zerolog.Ctx(r.Context()).Warn().Str("user", claims.User).
					Msg("non-admin token rejected")
				http.Error(w, "admin group membership required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		},
	)
}

// RequestCache gives each request its own directory cache, so merged entities
// never outlive the request or cross between token holders.
func RequestCache(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			ctx := directory.WithCache(r.Context(), directory.NewCache())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

// WithLogger adds a request-scoped logger to the context.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Time("received", time.Now()).
				Logger()

			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
		},
	)
}
