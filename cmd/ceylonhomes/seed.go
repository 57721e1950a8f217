package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ceylonhomes-api-io/api/internal/container"
	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/store"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

type seedAccount struct {
	name, email, password string
	role                  models.Role
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and a demo seller",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			adminEmail, _ := cmd.Flags().GetString("admin-email")
			adminPassword, _ := cmd.Flags().GetString("admin-password")
			if adminPassword == "" {
				return fmt.Errorf("--admin-password is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			st, err := container.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			accounts := []seedAccount{
				{name: "Administrator", email: adminEmail, password: adminPassword, role: models.RoleAdmin},
				{name: "Demo Seller", email: "seller@ceylonhomes.lk", password: adminPassword, role: models.RoleSeller},
			}
			for _, a := range accounts {
				u, err := seedUser(ctx, st, a)
				if err != nil {
					return err
				}
				fmt.Printf("%-6s %s (%s)\n", u.Role, u.Email, u.ID)
			}
			return nil
		},
	}
	cmd.Flags().String("admin-email", "admin@ceylonhomes.lk", "admin account email")
	cmd.Flags().String("admin-password", "", "password for the seeded accounts")
	return cmd
}

// seedUser creates the account or refreshes an existing one with the same email.
func seedUser(ctx context.Context, st store.Store, a seedAccount) (*models.User, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var out *models.User
	err = st.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		now := time.Now().UTC()
		email := strings.ToLower(strings.TrimSpace(a.email))
		u, err := tx.Users().FindByEmail(ctx, email)
		if errs.Is(err, errs.NotFound) {
			u, err = &models.User{ID: models.NewID(), Email: email, CreatedAt: now}, nil
		}
		if err != nil {
			return err
		}
		u.Name = a.name
		u.Role = a.role
		u.Active = true
		u.PasswordDigest = string(digest)
		u.UpdatedAt = now
		if err := tx.Users().Upsert(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}
