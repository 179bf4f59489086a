// Package history records a session's device interactions in the ledger.
package history

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/keylight/internal/control"
	"github.com/dokzlo13/keylight/internal/ledger"
	"github.com/dokzlo13/keylight/internal/light"
)

// Appender is the write side of ledger.Ledger.
type Appender interface {
	Append(e ledger.Entry) error
}

// Recorder wraps a Pusher and appends one ledger entry per push.
// Ledger failures are logged and never reach the caller.
type Recorder struct {
	next      control.Pusher
	ledger    Appender
	sessionID string
	address   string
}

// NewRecorder creates a Recorder with a fresh session ID.
func NewRecorder(next control.Pusher, l Appender, address string) *Recorder {
	return &Recorder{
		next:      next,
		ledger:    l,
		sessionID: uuid.NewString(),
		address:   address,
	}
}

// SessionID returns the ID shared by all entries of this run.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Push implements control.Pusher.
func (r *Recorder) Push(ctx context.Context, desired light.Snapshot) error {
	err := r.next.Push(ctx, desired)

	payload := snapshotPayload(desired)
	eventType := ledger.EventPushCompleted
	if err != nil {
		eventType = ledger.EventPushFailed
		payload["error"] = err.Error()
	}

	r.append(eventType, uuid.NewString(), payload)
	return err
}

// Started records the state fetched at startup.
func (r *Recorder) Started(initial light.Snapshot) {
	r.append(ledger.EventSessionStarted, "", snapshotPayload(initial))
}

// Stopped records the end of the session with the last local state.
func (r *Recorder) Stopped(final light.Snapshot, cause error) {
	payload := snapshotPayload(final)
	if cause != nil {
		payload["error"] = cause.Error()
	}
	r.append(ledger.EventSessionStopped, "", payload)
}

func (r *Recorder) append(eventType ledger.EventType, key string, payload map[string]any) {
	err := r.ledger.Append(ledger.Entry{
		EventType:      eventType,
		SessionID:      r.sessionID,
		IdempotencyKey: key,
		Address:        r.address,
		Payload:        payload,
	})
	if err != nil {
		log.Warn().Err(err).Str("session", r.sessionID).Str("event", string(eventType)).Msg("Failed to append to ledger")
	}
}

func snapshotPayload(s light.Snapshot) map[string]any {
	return map[string]any{
		"on":          s.On,
		"brightness":  s.Brightness,
		"temperature": s.Temperature,
		"kelvin":      s.Kelvin(),
	}
}
