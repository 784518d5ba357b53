// Package credentials supplies the bearer credential attached to directory
// requests.
package credentials

import (
	"context"
	"os"
	"strings"
)

// Provider returns the current credential. An empty credential with a nil
// error means no credential is available.
type Provider interface {
	Credential(ctx context.Context) (string, error)
}

// Static always returns the same credential.
type Static string

func (s Static) Credential(context.Context) (string, error) {
	return string(s), nil
}

// Env reads the credential from the named environment variable.
type Env string

func (e Env) Credential(context.Context) (string, error) {
	return strings.TrimSpace(os.Getenv(string(e))), nil
}

type contextKey struct{}

// WithCredential returns a copy of ctx carrying credential.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, contextKey{}, credential)
}

// FromContext returns the credential placed in the request context by
// WithCredential. It is used by the admin API, where every request brings
// its own bearer token.
type FromContext struct{}

func (FromContext) Credential(ctx context.Context) (string, error) {
	credential, _ := ctx.Value(contextKey{}).(string)
	return credential, nil
}
