package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dokzlo13/keylight/internal/light"
)

type gatedPusher struct {
	mu     sync.Mutex
	pushed []light.Snapshot
	gate   chan struct{}
	err    error
	calls  chan struct{}
}

func newGatedPusher() *gatedPusher {
	return &gatedPusher{
		gate:  make(chan struct{}),
		calls: make(chan struct{}, 16),
	}
}

func (p *gatedPusher) Push(ctx context.Context, desired light.Snapshot) error {
	p.calls <- struct{}{}
	<-p.gate

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, desired)
	return p.err
}

func (p *gatedPusher) snapshot() []light.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]light.Snapshot(nil), p.pushed...)
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestSyncer_CoalescesToLatest(t *testing.T) {
	pusher := newGatedPusher()
	s := New(pusher, 1000, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	s.Push(ctx, light.Snapshot{Brightness: 10, Temperature: 200})
	waitFor(t, pusher.calls, "first push")

	// Queued while the first push is in flight.
	for _, b := range []int{20, 30, 40} {
		s.Push(ctx, light.Snapshot{Brightness: b, Temperature: 200})
	}

	pusher.gate <- struct{}{}
	waitFor(t, pusher.calls, "coalesced push")
	pusher.gate <- struct{}{}

	cancel()
	waitFor(t, s.Done(), "syncer stop")

	got := pusher.snapshot()
	if len(got) != 2 {
		t.Fatalf("pushes = %d, want 2: %+v", len(got), got)
	}
	if got[1].Brightness != 40 {
		t.Errorf("second push brightness = %d, want 40", got[1].Brightness)
	}
}

func TestSyncer_ReportsFirstErrorOnce(t *testing.T) {
	pusher := newGatedPusher()
	pusher.err = errors.New("unexpected status code: 500")
	close(pusher.gate)

	errs := make(chan error, 4)
	s := New(pusher, 1000, func(err error) { errs <- err })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Push(ctx, light.Snapshot{Brightness: 10, Temperature: 200})

	select {
	case err := <-errs:
		if !errors.Is(err, pusher.err) {
			t.Errorf("onError(%v), want %v", err, pusher.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onError not called")
	}

	// Dropped after the failure.
	s.Push(ctx, light.Snapshot{Brightness: 20, Temperature: 200})
	cancel()
	waitFor(t, s.Done(), "syncer stop")

	if n := len(pusher.snapshot()); n != 1 {
		t.Errorf("pushes = %d, want 1", n)
	}
	if len(errs) != 0 {
		t.Errorf("onError called %d extra times", len(errs))
	}
}

func TestSyncer_FlushesOnStop(t *testing.T) {
	pusher := newGatedPusher()
	close(pusher.gate)

	s := New(pusher, 1000, nil)
	s.Push(context.Background(), light.Snapshot{On: true, Brightness: 70, Temperature: 250})

	// Cancelled before Run starts: the pending state is still delivered.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)

	got := pusher.snapshot()
	if len(got) != 1 || got[0].Brightness != 70 {
		t.Errorf("pushes = %+v, want one with brightness 70", got)
	}
}
