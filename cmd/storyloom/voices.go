package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/storyloomhq/storyloom/internal/auth"
	"github.com/storyloomhq/storyloom/internal/config"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the available narrator voices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		client, err := newClient(cfg, auth.NewStore(cfg.DataDir))
		if err != nil {
			return err
		}

		voices, err := client.ListVoices(ctx)
		if err != nil {
			return fmt.Errorf("listing voices: %w", err)
		}
		if len(voices) == 0 {
			fmt.Println("No voices available")
			return nil
		}

		for _, v := range voices {
			line := fmt.Sprintf("%-20s %s", v.ID, v.Name)
			if v.Language != "" {
				line += fmt.Sprintf(" (%s)", v.Language)
			}
			fmt.Println(line)
		}
		return nil
	},
}
