package main

import (
	"context"
	"fmt"
	"time"

	"ceylonhomes-api-io/api/internal/auth"
	"ceylonhomes-api-io/api/internal/container"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Issue an access token for an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ttl, _ := cmd.Flags().GetDuration("ttl")

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, err := container.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			u, err := st.Reader().Users().FindByEmail(ctx, args[0])
			if err != nil {
				return err
			}
			tok, exp, err := auth.GenerateJWT(cfg.Secret, u, ttl)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			fmt.Printf("expires %s\n", time.Unix(exp, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().Duration("ttl", auth.AccessTokenExpirationTime, "token lifetime")
	return cmd
}
