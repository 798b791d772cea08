package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spine/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the home directory and a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := setupHome()
		if err != nil {
			return err
		}

		if dir.ConfigExists() && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", dir.ConfigPath())
		}

		if err := config.WriteDefault(dir.ConfigPath()); err != nil {
			return err
		}

		fmt.Printf("Initialized spine home at %s\n", dir.Path())
		fmt.Printf("Config written to %s\n", dir.ConfigPath())
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
