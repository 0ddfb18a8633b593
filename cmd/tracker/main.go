package main

import (
	"os"

	"github.com/spf13/cobra"

	"casting-tracker/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type configLoader func() (*config.Config, error)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Casting production tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the YAML config (default $CONFIG_PATH or "+config.DefaultPath+")")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newSeedCmd(load),
		newCreateAdminCmd(load),
	)
	return root
}
