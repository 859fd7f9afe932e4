package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// CatalogSubscriber opens a live subscription on the services collection.
// CatalogService implements it.
type CatalogSubscriber interface {
	Subscribe(ctx context.Context) (<-chan driven.CatalogEvent, func(), error)
}

// FeedState is a point-in-time view of the feed. Loaded is false until the
// first snapshot arrives. Err is the last subscription error; it is cleared
// by the next successful snapshot.
type FeedState struct {
	Records []model.ServiceRecord
	Loaded  bool
	Err     error
	Version uint64
}

// CatalogFeed holds the process-wide local copy of the catalog. Each event
// replaces the copy wholesale; nothing is merged. Watchers are told when the
// copy changes so open pages can refresh.
type CatalogFeed struct {
	logger *slog.Logger

	mu       sync.RWMutex
	state    FeedState
	watchers map[chan struct{}]struct{}

	dispose func()
	done    chan struct{}
}

// NewCatalogFeed creates an idle feed. Call Start to subscribe.
func NewCatalogFeed(logger *slog.Logger) *CatalogFeed {
	return &CatalogFeed{
		logger:   logger,
		watchers: make(map[chan struct{}]struct{}),
	}
}

// Start subscribes and consumes events in the background until Close is
// called or ctx is canceled.
func (f *CatalogFeed) Start(ctx context.Context, sub CatalogSubscriber) error {
	events, dispose, err := sub.Subscribe(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.dispose != nil {
		f.mu.Unlock()
		dispose()
		return errors.New("catalog feed already started")
	}
	f.dispose = dispose
	f.done = make(chan struct{})
	f.mu.Unlock()

	go f.run(events)
	return nil
}

func (f *CatalogFeed) run(events <-chan driven.CatalogEvent) {
	defer close(f.done)

	for ev := range events {
		f.apply(ev)
	}
	f.logger.Info("catalog feed stopped")
}

func (f *CatalogFeed) apply(ev driven.CatalogEvent) {
	f.mu.Lock()
	if ev.Err != nil {
		f.state.Err = ev.Err
		f.mu.Unlock()
		f.logger.Warn("catalog subscription error", "error", ev.Err)
		return
	}

	records := ev.Records
	if records == nil {
		records = []model.ServiceRecord{}
	}
	f.state = FeedState{
		Records: records,
		Loaded:  true,
		Version: f.state.Version + 1,
	}
	for ch := range f.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	f.mu.Unlock()

	f.logger.Debug("catalog snapshot received", "records", len(records))
}

// State returns the current state. The returned slice is a copy.
func (f *CatalogFeed) State() FeedState {
	f.mu.RLock()
	defer f.mu.RUnlock()

	state := f.state
	if state.Records != nil {
		state.Records = append([]model.ServiceRecord(nil), state.Records...)
	}
	return state
}

// Find returns the record with the given id from the current copy.
func (f *CatalogFeed) Find(id string) (model.ServiceRecord, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, r := range f.state.Records {
		if r.ID == id {
			return r, true
		}
	}
	return model.ServiceRecord{}, false
}

// Watch returns a channel that receives a signal after each change, and a
// function that releases it. Signals coalesce: a slow watcher sees one
// pending signal, not one per change.
func (f *CatalogFeed) Watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	f.watchers[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.watchers, ch)
			f.mu.Unlock()
		})
	}
}

// Close disposes the subscription and waits for the consumer to stop. It is
// safe to call more than once and on a feed that never started.
func (f *CatalogFeed) Close() {
	f.mu.Lock()
	dispose, done := f.dispose, f.done
	f.mu.Unlock()

	if dispose == nil {
		return
	}
	dispose()
	<-done
}
