package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/storyloomhq/storyloom/internal/logger"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

const (
	logoText1 = "█▀ ▀█▀ █▀█ █▀█ █▄█ █   █▀█ █▀█ █▀▄▀█"
	logoText2 = "▄█  █  █▄█ █▀▄  █  █▄▄ █▄█ █▄█ █ ▀ █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storyloom",
	Short: "Turn your photos and stories into narrated videos",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

storyloom is a terminal client for the StoryLoom service. It walks you
through a wizard: pick photos, tell their story, approve the generated
script, choose a look and a narrator, and render a shareable video.
Drafts persist locally via embedded NATS JetStream, so you can resume
an unfinished story at any time.`

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(setupCmd)
}
