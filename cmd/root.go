package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/credentials"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	appCfg     *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "directory-admin",
	Short: "Directory Admin",
	Long: `Directory Admin manages the users, groups and attribute schemas of the
platform directory, from the command line or through its admin API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load the config and set up logging
		commonSetUp()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("DIRECTORY_ADMIN_CONFIG"),
		"path to the config file")
}

// commonSetUp sets the log level and loads the config file.
func commonSetUp() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
}

// commandContext returns the command context carrying the global logger.
func commandContext(cmd *cobra.Command) context.Context {
	return log.Logger.WithContext(cmd.Context())
}

// newDirectoryClient returns a client for the configured directory server.
func newDirectoryClient(creds directory.CredentialSource) *directory.Client {
	client := directory.NewClient(appCfg.Directory.URL, creds)
	client.GraphQLPath = appCfg.Directory.GraphQLPath
	return client
}

// newCatalog returns a catalog authenticated by the configured credential
// source.
func newCatalog(ctx context.Context) *catalog.Catalog {
	provider, err := credentials.New(ctx, appCfg.Credentials, appCfg.AWS.Region)
	if err != nil {
		log.Fatal().Err(err).Str("source", appCfg.Credentials.Source).Msg("failed to initialize credentials")
	}
	return catalog.New(newDirectoryClient(provider))
}

// newNotifier returns a Pulsar publisher when a broker is configured.
func newNotifier() events.Notifier {
	if appCfg.Pulsar.URL == "" || appCfg.Pulsar.TopicProducer == "" {
		return events.NoopNotifier{}
	}

	publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}
	return publisher
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
