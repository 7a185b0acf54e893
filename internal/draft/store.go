package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/storyloomhq/storyloom/internal/logger"
	"github.com/storyloomhq/storyloom/internal/session"
)

// Event is one entry in a draft's append-only log. Advance events carry the
// step and its payload; analysis events carry the attached analysis; reset
// events carry nothing and wipe everything before them on replay.
type Event struct {
	Timestamp time.Time       `json:"timestamp"`
	Draft     string          `json:"draft"`
	Type      string          `json:"type"`
	Step      session.Step    `json:"step,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Store appends draft events to JetStream and replays them back into state.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store over an existing JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream}
}

// Append publishes one event to the draft's log.
func (s *Store) Append(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling draft event: %w", err)
	}

	subject := SubjectForEvent(event.Draft, event.Type)
	if _, err := s.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publishing draft event: %w", err)
	}
	logger.Debug("Draft event appended: draft=%s type=%s step=%s", event.Draft, event.Type, event.Step)
	return nil
}

// RecordAdvance appends a step commit with its payload.
func (s *Store) RecordAdvance(ctx context.Context, draftID string, step session.Step, payload session.Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}
	return s.Append(ctx, Event{Draft: draftID, Type: EventTypeAdvance, Step: step, Data: data})
}

// RecordAnalysis appends an attached image-analysis result.
func (s *Store) RecordAnalysis(ctx context.Context, draftID string, analysis *session.ImageAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}
	return s.Append(ctx, Event{Draft: draftID, Type: EventTypeAnalysis, Data: data})
}

// RecordReset appends a reset marker. Everything before it is ignored on
// replay.
func (s *Store) RecordReset(ctx context.Context, draftID string) error {
	return s.Append(ctx, Event{Draft: draftID, Type: EventTypeReset})
}

// State is a draft reconstructed from its event log.
type State struct {
	Draft     string
	Session   *session.Session
	Completed map[session.Step]bool
	Current   session.Step
}

func newState(draftID string) *State {
	return &State{
		Draft:     draftID,
		Session:   session.NewSession(),
		Completed: make(map[session.Step]bool),
		Current:   session.StepUpload,
	}
}

// Apply reduces one event into the state, mirroring the controller's commit
// semantics: merge the payload, mark the step completed, move to its
// successor.
func (st *State) Apply(event Event) {
	switch event.Type {
	case EventTypeReset:
		fresh := newState(st.Draft)
		*st = *fresh

	case EventTypeAdvance:
		payload, err := decodePayload(event.Step, event.Data)
		if err != nil {
			logger.Warn("Skipping undecodable %s event for step %s: %v", event.Type, event.Step, err)
			return
		}
		if payload != nil {
			st.Session.Merge(payload)
		}
		st.Completed[event.Step] = true
		if next, ok := event.Step.Next(); ok {
			st.Current = next
		}

	case EventTypeAnalysis:
		var analysis session.ImageAnalysis
		if err := json.Unmarshal(event.Data, &analysis); err != nil {
			logger.Warn("Skipping undecodable analysis event: %v", err)
			return
		}
		st.Session.Analysis = &analysis
	}
}

// decodePayload unmarshals an advance event's data into the payload type for
// its step.
func decodePayload(step session.Step, data json.RawMessage) (session.Payload, error) {
	switch step {
	case session.StepUpload:
		var p session.UploadPayload
		return p, json.Unmarshal(data, &p)
	case session.StepStory:
		var p session.StoryPayload
		return p, json.Unmarshal(data, &p)
	case session.StepScript:
		var p session.ScriptPayload
		return p, json.Unmarshal(data, &p)
	case session.StepTheme:
		var p session.ThemePayload
		return p, json.Unmarshal(data, &p)
	case session.StepAudio:
		var p session.AudioPayload
		return p, json.Unmarshal(data, &p)
	case session.StepPreview:
		var p session.PreviewPayload
		return p, json.Unmarshal(data, &p)
	case session.StepFinal:
		return session.FinalPayload{}, nil
	default:
		return nil, fmt.Errorf("unknown step %q", step)
	}
}

// Load replays a draft's event log into a State. A draft with no events (or
// only a trailing reset) comes back at the upload step with an empty session.
func (s *Store) Load(ctx context.Context, draftID string) (*State, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: SubjectForDraft(draftID),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("creating draft consumer: %w", err)
	}

	state := newState(draftID)

	const batchSize = 500
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				logger.Warn("Skipping malformed draft event: %v", err)
				_ = msg.Ack()
				continue
			}
			state.Apply(event)
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	logger.Debug("Draft %s loaded: current=%s, %d steps completed",
		draftID, state.Current, len(state.Completed))
	return state, nil
}
