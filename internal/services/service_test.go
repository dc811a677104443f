package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
	"fintrack/internal/storage"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []amqp.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev *amqp.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *ev)
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Resource+"."+ev.Action)
	}
	return out
}

// steppingClock advances one second on every call so timestamps of
// successive mutations are distinguishable.
type steppingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store     *storage.Store
	publisher *recordingPublisher
	opts      Options
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := storage.Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	pub := &recordingPublisher{}
	clock := &steppingClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return fixture{
		store:     store,
		publisher: pub,
		opts: Options{
			Publisher: pub,
			Logger:    log.New(log.Config{Output: io.Discard}),
			Now:       clock.Now,
		},
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")
	svc := NewAccountService(f.store, f.opts)

	_, err := svc.Create(context.Background(), accountInput("Wallet"))
	require.NoError(t, err)
}

func TestNilPublisher(t *testing.T) {
	f := newFixture(t)
	f.opts.Publisher = nil
	svc := NewCategoryService(f.store, f.opts)

	_, err := svc.Create(context.Background(), categoryInput("Rent"))
	require.NoError(t, err)
}
