package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/storyloomhq/storyloom/internal/auth"
	"github.com/storyloomhq/storyloom/internal/config"
	"github.com/storyloomhq/storyloom/internal/draft"
	"github.com/storyloomhq/storyloom/internal/logger"
	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/storyloomhq/storyloom/internal/tui"
)

// draftID is the key for the single in-progress draft. One draft at a
// time keeps resume unambiguous.
const draftID = "current"

var createFlags struct {
	resume  bool
	noDraft bool
	dataDir string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new photo-story video",
	Long: `Start the wizard that turns photos and a story into a narrated video.

The wizard walks through photo upload, story entry, script approval,
theme and audio selection, a watermarked preview, and the final render.
Progress is saved to a local draft after every step, so an interrupted
session can be resumed with --resume.`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().BoolVarP(&createFlags.resume, "resume", "r", false, "Jump straight back into the saved draft")
	createCmd.Flags().BoolVar(&createFlags.noDraft, "no-draft", false, "Disable local draft persistence")
	createCmd.Flags().StringVar(&createFlags.dataDir, "data-dir", "", "Data directory for draft storage (default: from config)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := cfg.DataDir
	if createFlags.dataDir != "" {
		dataDir = createFlags.dataDir
	}

	creds := auth.NewStore(dataDir)
	client, err := newClient(cfg, creds)
	if err != nil {
		return err
	}

	ctrl := session.NewController()

	var store *draft.Store
	var restored *draft.State
	if !createFlags.noDraft {
		s, shutdown, err := draft.Open(ctx, dataDir)
		if err != nil {
			// Drafts are a convenience; the wizard still works without them
			logger.Warn("Draft storage unavailable, continuing without persistence: %v", err)
		} else {
			defer shutdown()
			store = s
			restored, err = store.Load(ctx, draftID)
			if err != nil {
				logger.Warn("Loading draft failed: %v", err)
				restored = nil
			}
		}
	}

	if createFlags.resume {
		if restored == nil || restored.Session.IsEmpty() {
			return fmt.Errorf("no draft to resume")
		}
		ctrl.Restore(restored.Session, restored.Completed, restored.Current)
		restored = nil // Already applied, don't offer it again on the welcome screen
	}

	return tui.Run(ctx, tui.Options{
		Ctrl:           ctrl,
		Client:         client,
		Store:          store,
		DraftID:        draftID,
		Restored:       restored,
		WatermarkFinal: cfg.Watermark,
		DefaultVoice:   cfg.Voice,
		DefaultTheme:   cfg.Theme,
	})
}
