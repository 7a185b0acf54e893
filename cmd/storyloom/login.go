package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/auth"
	"github.com/storyloomhq/storyloom/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the storyloom backend",
	Long: `Authenticate against the storyloom backend and save the bearer token.

The token is stored in the data directory and used by all other commands
until it expires or 'storyloom logout' removes it.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	email, password, err := promptCredentials()
	if err != nil {
		return err
	}

	client := api.New(cfg.APIURL)
	token, err := client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	creds := auth.NewStore(cfg.DataDir)
	if err := creds.Save(&auth.Credentials{Token: token, Email: email}); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	fmt.Printf("Logged in as %s\n", email)
	return nil
}

func promptCredentials() (email, password string, err error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err = reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("reading email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(os.Stdin.Fd())
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("reading password: %w", err)
	}
	password = string(raw)
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}

	return email, password, nil
}
