package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"ceylonhomes-api-io/api/internal/config"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ceylonhomes",
		Short:         "CeylonHomes listings API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		seedCmd(),
		tokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and binds sentry when a DSN is set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.SentryDSN != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			Release:          cfg.Version,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry.Init: %w", err)
		}
		log.Println("Sentry initialized")
	}
	return cfg, nil
}
