package cmd

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/EO-DataHub/eodhp-directory-admin/api/handlers"
	"github.com/EO-DataHub/eodhp-directory-admin/api/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the proxy only",
	Long:  `Forward the GraphQL and authentication endpoints to the directory server, without the admin API`,
	Run: func(cmd *cobra.Command, args []string) {
		if listenAddr != "" {
			appCfg.Host = listenAddr
		}

		target, err := url.Parse(appCfg.Directory.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid directory url")
		}

		server := &http.Server{Addr: appCfg.Host, Handler: newProxyServer(target)}
		go func() {
			<-cmd.Context().Done()
			_ = server.Close()
		}()

		log.Info().Str("addr", appCfg.Host).Str("directory", target.String()).Msg("Proxy started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(proxyCmd)
	proxyCmd.Flags().StringVar(&listenAddr, "listen", "", "address to run the proxy on, overrides the config host")
}

// newProxyServer registers the directory proxy routes and the health check.
func newProxyServer(target *url.URL) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.WithLogger)

	proxy := handlers.DirectoryProxy(target)
	for _, p := range handlers.ProxyPaths {
		r.Handle(p, proxy)
	}
	r.HandleFunc("/health", handlers.Health()).Methods(http.MethodGet)
	return r
}
