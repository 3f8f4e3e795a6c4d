package main

import (
	"fmt"
	"strings"

	"easypro-api/internal/config"
	"easypro-api/internal/database"
	"easypro-api/internal/models"

	"github.com/spf13/cobra"
)

func newPromoteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to a registered user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := database.InitDB(cfg.Database); err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			email := strings.ToLower(strings.TrimSpace(args[0]))
			res := database.GetDB().Model(&models.User{}).Where("email = ?", email).Update("role", models.RoleAdmin)
			if res.Error != nil {
				return fmt.Errorf("promote %s: %w", email, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("no user with email %s", email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", email)
			return nil
		},
	}
}
