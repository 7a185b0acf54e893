package main

import (
	"fmt"

	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/auth"
	"github.com/storyloomhq/storyloom/internal/config"
	"github.com/storyloomhq/storyloom/internal/logger"
)

// newClient builds an API client from saved credentials. A 401 from the
// backend wipes the stale credentials so the next run prompts for login.
func newClient(cfg *config.Config, creds *auth.Store) (*api.Client, error) {
	saved := creds.Load()
	if saved == nil {
		return nil, fmt.Errorf("not logged in, run `storyloom login` first")
	}

	client := api.New(cfg.APIURL,
		api.WithToken(saved.Token),
		api.WithOnUnauthorized(func() {
			logger.Warn("Session expired, clearing saved credentials")
			_ = creds.Clear()
		}),
	)
	return client, nil
}
