package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"casting-tracker/internal/storage/sqlstore"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			storage, err := sqlstore.New(cfg.Storage)
			if err != nil {
				return err
			}
			defer storage.Close()

			if err := storage.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("migrations applied"), "("+cfg.Storage.Driver+")")
			return nil
		},
	}
}
