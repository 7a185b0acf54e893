package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/storyloomhq/storyloom/internal/auth"
	"github.com/storyloomhq/storyloom/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved login token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		creds := auth.NewStore(cfg.DataDir)
		if creds.Load() == nil {
			fmt.Println("Not logged in")
			return nil
		}
		if err := creds.Clear(); err != nil {
			return fmt.Errorf("clearing credentials: %w", err)
		}

		fmt.Println("Logged out")
		return nil
	},
}
