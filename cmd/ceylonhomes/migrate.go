package main

import (
	"context"
	"fmt"
	"time"

	"ceylonhomes-api-io/api/internal/container"
	"ceylonhomes-api-io/api/pkg/store/mongostore"

	"github.com/spf13/cobra"
)

// migrationReporter is implemented by stores that track data migrations.
type migrationReporter interface {
	MigrationStatus(ctx context.Context) ([]mongostore.MigrationStatus, []string, error)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables (SQL) or indexes (mongo) for the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			st, err := container.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if statusOnly, _ := cmd.Flags().GetBool("status"); statusOnly {
				reporter, ok := st.(migrationReporter)
				if !ok {
					fmt.Printf("%s store has no data migrations.\n", cfg.StoreDriver)
					return nil
				}
				applied, pending, err := reporter.MigrationStatus(ctx)
				if err != nil {
					return err
				}
				for _, m := range applied {
					fmt.Printf("%s  applied %s  success=%t\n", m.Version, m.AppliedAt.Format(time.RFC3339), m.Success)
				}
				fmt.Printf("pending: %v\n", pending)
				return nil
			}

			if err := st.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate %s store: %w", cfg.StoreDriver, err)
			}
			fmt.Printf("%s store migrated.\n", cfg.StoreDriver)
			return nil
		},
	}
	cmd.Flags().Bool("status", false, "print data migration status instead of migrating")
	return cmd
}
