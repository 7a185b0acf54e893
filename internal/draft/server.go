// Package draft persists in-progress wizard sessions as an append-only event
// log in embedded NATS JetStream, so a draft survives the process and can be
// resumed with `storyloom create --resume`.
package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/storyloomhq/storyloom/internal/logger"
)

const streamName = "storyloom_drafts"

// Event types appended to the draft log.
const (
	EventTypeAdvance  = "advance"
	EventTypeAnalysis = "analysis"
	EventTypeReset    = "reset"
)

// SubjectForDraft returns the wildcard subject matching all events of one
// draft. Example: "storyloom.draft.9f3a.>"
func SubjectForDraft(draftID string) string {
	return fmt.Sprintf("storyloom.draft.%s.>", draftID)
}

// SubjectForEvent returns the subject for one event type within a draft.
func SubjectForEvent(draftID, eventType string) string {
	return fmt.Sprintf("storyloom.draft.%s.%s", draftID, eventType)
}

// StartEmbedded starts an embedded NATS server with JetStream enabled, using
// dataDir for file-backed storage. The server listens on no network ports.
func StartEmbedded(dataDir string) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server with data dir: %s", dataDir)

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("creating NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		return nil, errors.New("nats server failed to start within timeout")
	}
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		return nil, fmt.Errorf("connecting in-process: %w", err)
	}
	return conn, nil
}

// SetupStream creates or updates the draft event stream. Drafts are kept for
// 14 days; an abandoned draft ages out on its own.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"storyloom.draft.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   14 * 24 * time.Hour,
	})
}

// Open starts the embedded server and returns a ready Store along with a
// shutdown function.
func Open(ctx context.Context, dataDir string) (*Store, func(), error) {
	ns, err := StartEmbedded(dataDir)
	if err != nil {
		return nil, nil, err
	}

	nc, err := ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	stream, err := SetupStream(ctx, js)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, nil, fmt.Errorf("setting up draft stream: %w", err)
	}

	shutdown := func() { Shutdown(nc, ns) }
	return NewStore(js, stream), shutdown, nil
}

// Shutdown drains the connection and stops the server, bounding each phase
// with a timeout so a wedged server cannot hang process exit.
func Shutdown(nc *nats.Conn, ns *server.Server) {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() { drainDone <- nc.Drain() }()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out, forcing close")
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
		case <-time.After(5 * time.Second):
			logger.Error("NATS server shutdown timed out after 5s")
		}
	}
}
