package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/keylight/internal/config"
	"github.com/dokzlo13/keylight/internal/control"
	"github.com/dokzlo13/keylight/internal/history"
	"github.com/dokzlo13/keylight/internal/keymap"
	"github.com/dokzlo13/keylight/internal/light"
	"github.com/dokzlo13/keylight/internal/syncer"
	"github.com/dokzlo13/keylight/internal/ui"
)

// Terminal is what a session needs from the UI.
type Terminal interface {
	control.Input
	control.Renderer
	Inject(ev control.Event) error
	Close()
}

// App is the main application container. It owns the services and runs a
// single interactive session.
type App struct {
	cfg      *config.Config
	services *Services

	openTerminal func(km *keymap.Keymap) (Terminal, error)
}

// New validates the configuration and creates all services. Nothing touches
// the device or the terminal until Run.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	services, err := NewServices(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
		openTerminal: func(km *keymap.Keymap) (Terminal, error) {
			return ui.Open(km)
		},
	}, nil
}

// Run fetches the light state, takes over the terminal and runs the control
// loop until the user quits or a device call fails. The terminal is restored
// before Run returns. A nil error means the user quit.
func (a *App) Run(ctx context.Context) error {
	client := a.services.Device

	initial, err := client.FetchState(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch light state from %s: %w", client.Address(), err)
	}

	log.Info().
		Str("address", client.Address()).
		Bool("on", initial.On).
		Int("brightness", initial.Brightness).
		Int("temperature", initial.Temperature).
		Int("kelvin", initial.Kelvin()).
		Msg("Fetched light state")

	term, err := a.openTerminal(a.services.Keymap)
	if err != nil {
		return err
	}
	defer term.Close()

	sessionDone := make(chan struct{})
	defer close(sessionDone)

	// Signals only ever end the session through a quit event.
	go func() {
		select {
		case <-ctx.Done():
			if err := term.Inject(control.Quit()); err != nil {
				log.Warn().Err(err).Msg("Failed to deliver quit")
			}
		case <-sessionDone:
		}
	}()

	var pusher control.Pusher = control.BlockingPusher{Client: client}

	var recorder *history.Recorder
	if a.services.Ledger != nil {
		recorder = history.NewRecorder(pusher, a.services.Ledger, client.Address())
		recorder.Started(initial)
		pusher = recorder
		log.Info().Str("session", recorder.SessionID()).Msg("Session started")
	}

	var background *syncer.Syncer
	asyncErr := make(chan error, 1)
	syncCtx, stopSync := context.WithCancel(context.WithoutCancel(ctx))
	defer stopSync()

	if a.cfg.Control.SyncMode == config.SyncAsync {
		background = syncer.New(pusher, a.cfg.Control.RateLimitRPS, func(err error) {
			asyncErr <- err
			if ierr := term.Inject(control.Failure(err)); ierr != nil {
				log.Warn().Err(ierr).Msg("Failed to deliver push failure")
			}
		})
		go background.Run(syncCtx)
		pusher = background
	}

	// Pushes are bounded by the client's timeout, never by the signal context.
	loop := control.NewLoop(light.FromSnapshot(initial), term, term, pusher)
	runErr := loop.Run(context.WithoutCancel(ctx))

	if background != nil {
		stopSync()
		<-background.Done()

		select {
		case err := <-asyncErr:
			if runErr == nil {
				runErr = fmt.Errorf("failed to push light state: %w", err)
			}
		default:
		}
	}

	final := loop.Snapshot()
	if recorder != nil {
		recorder.Stopped(final, runErr)
	}

	log.Info().
		Bool("on", final.On).
		Int("brightness", final.Brightness).
		Int("temperature", final.Temperature).
		Str("status", loop.Status().String()).
		Msg("Session ended")

	return runErr
}

// Close releases all resources.
func (a *App) Close() {
	if a.services != nil {
		a.services.Close()
	}
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
