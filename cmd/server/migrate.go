package main

import (
	"fmt"
	"log"

	"easypro-api/internal/config"
	"easypro-api/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := database.InitDB(cfg.Database); err != nil {
				return err
			}
			log.Println("migrations applied")
			return database.Close()
		},
	}
}
