package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/storyloomhq/storyloom/internal/config"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create a storyloom configuration file",
	Long: `Create a storyloom configuration file with sensible defaults.

By default, creates a global config at ~/.config/storyloom/storyloom.yml.
Use --project to create a project-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && config.Exists() {
		return fmt.Errorf("config file already exists\n\nUse --force to overwrite")
	}

	cfg := &config.Config{
		APIURL:    "https://api.storyloom.io/v1",
		DataDir:   ".storyloom",
		LogLevel:  "info",
		Watermark: true,
	}

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'storyloom login' and then 'storyloom create' to get started.")
	return nil
}
