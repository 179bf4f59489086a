// Package control runs the interactive session: read an input event, apply it
// to the light state, push the result to the device and redraw.
package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/keylight/internal/light"
)

// Status is the state of the loop.
type Status int

const (
	StatusRunning Status = iota
	StatusStopped
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Input delivers input events. Next blocks until one is available.
type Input interface {
	Next() (Event, error)
}

// Renderer draws a frame. It must not retain or mutate anything and must
// return promptly.
type Renderer interface {
	Render(light.Snapshot)
}

// Pusher sends the full desired state to the device.
type Pusher interface {
	Push(ctx context.Context, desired light.Snapshot) error
}

// DeviceClient is the push half of device.Client.
type DeviceClient interface {
	PushState(ctx context.Context, desired light.Snapshot) (light.Snapshot, error)
}

// BlockingPusher pushes inline. The acknowledged state is discarded: the
// local state stays authoritative.
type BlockingPusher struct {
	Client DeviceClient
}

// Push implements Pusher.
func (p BlockingPusher) Push(ctx context.Context, desired light.Snapshot) error {
	_, err := p.Client.PushState(ctx, desired)
	return err
}

// ErrInputClosed may be returned by an Input whose source went away.
var ErrInputClosed = errors.New("input closed")

// Loop is the session state machine. It exclusively owns state.
type Loop struct {
	state    *light.State
	input    Input
	renderer Renderer
	pusher   Pusher
	status   Status
}

// NewLoop creates a loop in the running state.
func NewLoop(state *light.State, input Input, renderer Renderer, pusher Pusher) *Loop {
	return &Loop{
		state:    state,
		input:    input,
		renderer: renderer,
		pusher:   pusher,
		status:   StatusRunning,
	}
}

// Status returns the current loop status.
func (l *Loop) Status() Status {
	return l.status
}

// Snapshot returns the current light state.
func (l *Loop) Snapshot() light.Snapshot {
	return l.state.Snapshot()
}

// Run draws, reads and handles events until the loop stops.
// It returns nil on a user quit and the first push or input error otherwise.
func (l *Loop) Run(ctx context.Context) error {
	log.Info().Msg("Control loop started")
	defer func() {
		log.Info().Msg("Control loop stopped")
	}()

	for l.status == StatusRunning {
		l.renderer.Render(l.state.Snapshot())

		ev, err := l.input.Next()
		if err != nil {
			l.status = StatusStopped
			if errors.Is(err, ErrInputClosed) {
				log.Info().Msg("Input closed, stopping")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := l.Handle(ctx, ev); err != nil {
			return err
		}
	}

	return nil
}

// Handle applies a single event. A push failure stops the loop and is
// returned.
func (l *Loop) Handle(ctx context.Context, ev Event) error {
	if l.status != StatusRunning {
		return nil
	}

	outcome := Apply(l.state, ev)

	switch outcome {
	case OutcomeStop:
		l.status = StatusStopped
		log.Info().Msg("Quit requested")
		return nil

	case OutcomeFailed:
		l.status = StatusStopped
		return fmt.Errorf("sync failed: %w", ev.Err)

	case OutcomeChanged:
		desired := l.state.Snapshot()
		log.Debug().
			Str("event", ev.Kind.String()).
			Int("step", ev.Step).
			Bool("on", desired.On).
			Int("brightness", desired.Brightness).
			Int("temperature", desired.Temperature).
			Msg("State changed")

		if err := l.pusher.Push(ctx, desired); err != nil {
			l.status = StatusStopped
			return fmt.Errorf("failed to push light state: %w", err)
		}
	}

	return nil
}
