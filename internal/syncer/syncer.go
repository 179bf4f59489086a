// Package syncer pushes light state in the background, coalescing bursts of
// changes into a single push of the latest state.
package syncer

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dokzlo13/keylight/internal/control"
	"github.com/dokzlo13/keylight/internal/light"
)

// Syncer is an asynchronous control.Pusher.
type Syncer struct {
	next    control.Pusher
	limiter *rate.Limiter
	onError func(error)

	mu      sync.Mutex
	pending *light.Snapshot
	failed  bool

	// Channel to trigger a push
	trigger chan struct{}
	done    chan struct{}
}

// New creates a Syncer. onError is called at most once, with the first push
// error; after that the syncer drops all work.
func New(next control.Pusher, rateLimitRPS float64, onError func(error)) *Syncer {
	if rateLimitRPS == 0 {
		rateLimitRPS = 10.0
	}

	return &Syncer{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rateLimitRPS), 1),
		onError: onError,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Push records desired as the latest state and returns immediately.
func (s *Syncer) Push(ctx context.Context, desired light.Snapshot) error {
	s.mu.Lock()
	if s.failed {
		s.mu.Unlock()
		return nil
	}
	s.pending = &desired
	s.mu.Unlock()

	select {
	case s.trigger <- struct{}{}:
	default:
		// Already triggered
	}
	return nil
}

// Run pushes pending state until ctx is cancelled. The last pending state is
// flushed before returning.
func (s *Syncer) Run(ctx context.Context) {
	defer close(s.done)
	log.Debug().Float64("rate_limit_rps", float64(s.limiter.Limit())).Msg("Syncer started")

	for {
		select {
		case <-ctx.Done():
			s.flush(context.WithoutCancel(ctx))
			log.Debug().Msg("Syncer stopped")
			return

		case <-s.trigger:
			if err := s.limiter.Wait(ctx); err != nil {
				// Cancelled while waiting; the flush above picks it up.
				continue
			}
			s.flush(ctx)
		}
	}
}

// Done is closed when Run returns.
func (s *Syncer) Done() <-chan struct{} {
	return s.done
}

func (s *Syncer) flush(ctx context.Context) {
	s.mu.Lock()
	desired := s.pending
	s.pending = nil
	failed := s.failed
	s.mu.Unlock()

	if desired == nil || failed {
		return
	}

	if err := s.next.Push(ctx, *desired); err != nil {
		s.mu.Lock()
		s.failed = true
		s.pending = nil
		s.mu.Unlock()

		log.Error().Err(err).Msg("Background push failed")
		if s.onError != nil {
			s.onError(err)
		}
	}
}
