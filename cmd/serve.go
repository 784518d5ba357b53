package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/EO-DataHub/eodhp-directory-admin/api/handlers"
	"github.com/EO-DataHub/eodhp-directory-admin/api/middleware"
	"github.com/EO-DataHub/eodhp-directory-admin/api/services"
	docs "github.com/EO-DataHub/eodhp-directory-admin/docs"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/credentials"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpSwagger "github.com/swaggo/http-swagger"
)

var listenAddr string

// @title EODHP Directory Admin API
// @version v1
// @description This is the API for administering the users, groups and schemas of the platform directory.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling admin API requests",
	Run: func(cmd *cobra.Command, args []string) {
		if listenAddr != "" {
			appCfg.Host = listenAddr
		}

		target, err := url.Parse(appCfg.Directory.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid directory url")
		}

		// Initialize event publisher
		notifier := newNotifier()
		defer notifier.Close()

		// Every API request authenticates with its own bearer token
		client := newDirectoryClient(credentials.FromContext{})
		client.Metrics = directory.NewMetrics(prometheus.DefaultRegisterer)

		service := services.NewService(appCfg, catalog.New(client), notifier)
		handler := newServer(appCfg, service, target, promhttp.Handler())

		server := &http.Server{
			Addr:              appCfg.Host,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-cmd.Context().Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("server shutdown failed")
			}
		}()

		log.Info().Str("addr", appCfg.Host).Str("directory", target.String()).Msg("Server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("could not start server")
		}
		log.Info().Msg("Server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "address to run the server on, overrides the config host")
}

// newServer registers the proxy, API, docs and operational routes.
func newServer(cfg *appconfig.Config, service *services.Service, target *url.URL, metrics http.Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.WithLogger)

	// Directory endpoints forwarded as they are
	proxy := handlers.DirectoryProxy(target)
	for _, p := range handlers.ProxyPaths {
		r.Handle(p, proxy)
	}

	r.HandleFunc("/health", handlers.Health()).Methods(http.MethodGet)
	r.Handle("/metrics", metrics).Methods(http.MethodGet)

	// Register the routes
	api := r.PathPrefix(cfg.BasePath).Subrouter()

	// Apply the middleware to the API routes
	api.Use(middleware.JWTMiddleware)
	api.Use(middleware.RequireAdmin)
	api.Use(middleware.RequestCache)

	// User routes
	api.HandleFunc("/users", handlers.ListUsers(service)).Methods(http.MethodGet)
	api.HandleFunc("/users", handlers.CreateUser(service)).Methods(http.MethodPost)
	api.HandleFunc("/users/{user-id}", handlers.GetUser(service)).Methods(http.MethodGet)
	api.HandleFunc("/users/{user-id}", handlers.UpdateUser(service)).Methods(http.MethodPut)
	api.HandleFunc("/users/{user-id}", handlers.DeleteUser(service)).Methods(http.MethodDelete)

	// Group routes
	api.HandleFunc("/groups", handlers.ListGroups(service)).Methods(http.MethodGet)
	api.HandleFunc("/groups", handlers.CreateGroup(service)).Methods(http.MethodPost)
	api.HandleFunc("/groups/{group-id}", handlers.GetGroup(service)).Methods(http.MethodGet)
	api.HandleFunc("/groups/{group-id}", handlers.DeleteGroup(service)).Methods(http.MethodDelete)
	api.HandleFunc("/groups/{group-id}/members", handlers.GetGroupMembers(service)).Methods(http.MethodGet)

	// Schema routes
	api.HandleFunc("/schema/{entity}/attributes", handlers.CreateAttribute(service)).Methods(http.MethodPost)
	api.HandleFunc("/schema/{entity}/attributes/{name}", handlers.DeleteAttribute(service)).Methods(http.MethodDelete)

	// Docs
	docs.SwaggerInfo.Host = cfg.Host
	docs.SwaggerInfo.BasePath = cfg.BasePath
	r.PathPrefix(cfg.DocsPath).Handler(httpSwagger.Handler(
		httpSwagger.URL(path.Join(cfg.DocsPath, "/doc.json")),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)
}
