package handlers

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog"
)

// ProxyPaths are forwarded unchanged to the directory server, so browser
// clients can use a single origin for the GraphQL API and the auth endpoints.
var ProxyPaths = []string{
	"/api/graphql",
	"/auth/simple/login",
	"/auth/refresh",
}

// DirectoryProxy forwards requests to the directory server at target,
// keeping the request path, headers and cookies.
func DirectoryProxy(target *url.URL) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("target", target.String()).
				Msg("directory proxy request failed")
			http.Error(w, "directory server unreachable", http.StatusBadGateway)
		},
	}
}
