package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ceylonhomes-api-io/api/internal/container"
	"ceylonhomes-api-io/api/internal/routers"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer sentry.Flush(2 * time.Second)
			gin.SetMode(cfg.GinMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sc, err := container.NewServiceContainer(ctx, cfg)
			if err != nil {
				return err
			}
			defer sc.Close(context.Background())

			if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
				if err := sc.Store.Migrate(ctx); err != nil {
					return err
				}
			}
			sc.Start(ctx)

			srv := &http.Server{
				Addr:              "0.0.0.0:" + cfg.Port,
				Handler:           routers.InitRoute(sc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("listening on %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Println("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().Bool("migrate", false, "apply schema and indexes before serving")
	return cmd
}
