package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/juristmind/newsroom/pkg/news"
)

// Status is the phase of a Feed.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// State is a snapshot of a Feed. Items is never shared with the Feed.
type State struct {
	Status  Status
	Items   []*news.Item
	Loading bool
	// Err is the display message of the last failure, empty when none.
	Err string
}

// API is the subset of Client a Feed needs.
type API interface {
	List(ctx context.Context) ([]*news.Item, error)
	Create(ctx context.Context, req news.CreateItemRequest) (*news.Item, error)
	Update(ctx context.Context, req news.UpdateItemRequest) (*news.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Feed holds the published list for presentation code. Every mutation is
// followed by a full re-fetch; local state is never patched in place.
type Feed struct {
	api    API
	logger *slog.Logger

	mu    sync.Mutex
	state State
	// gen identifies the most recently started fetch. Results of older
	// fetches are discarded so the latest request always wins.
	gen    uint64
	subs   map[int]chan State
	nextID int
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithFeedLogger sets the logger for fetch failures.
func WithFeedLogger(logger *slog.Logger) FeedOption {
	return func(f *Feed) {
		f.logger = logger
	}
}

// NewFeed creates an idle feed. Call Start to perform the initial load.
func NewFeed(api API, opts ...FeedOption) *Feed {
	f := &Feed{
		api:    api,
		logger: slog.Default(),
		state:  State{Status: StatusIdle, Items: []*news.Item{}},
		subs:   make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start performs the initial load in the background.
func (f *Feed) Start(ctx context.Context) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.beginLocked()
	f.mu.Unlock()

	go func() {
		_ = f.fetch(ctx, gen)
	}()
}

// State returns the current snapshot.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Subscribe returns a channel receiving snapshots after every state change,
// starting with the current one. Slow readers only see the latest snapshot.
// The returned function cancels the subscription and closes the channel.
func (f *Feed) Subscribe() (<-chan State, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan State, 1)
	ch <- f.snapshotLocked()
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
}

// Load re-fetches the list. The error is also recorded in the state.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.beginLocked()
	f.mu.Unlock()

	return f.fetch(ctx, gen)
}

// Create stores a new item and then re-fetches the list.
func (f *Feed) Create(ctx context.Context, req news.CreateItemRequest) (*news.Item, error) {
	item, err := f.api.Create(ctx, req)
	if err != nil {
		f.fail(err)
		return nil, err
	}
	_ = f.Load(ctx)
	return item, nil
}

// Update changes an item and then re-fetches the list.
func (f *Feed) Update(ctx context.Context, req news.UpdateItemRequest) (*news.Item, error) {
	item, err := f.api.Update(ctx, req)
	if err != nil {
		f.fail(err)
		return nil, err
	}
	_ = f.Load(ctx)
	return item, nil
}

// Delete removes an item and then re-fetches the list.
func (f *Feed) Delete(ctx context.Context, id uuid.UUID) error {
	if err := f.api.Delete(ctx, id); err != nil {
		f.fail(err)
		return err
	}
	_ = f.Load(ctx)
	return nil
}

func (f *Feed) fetch(ctx context.Context, gen uint64) error {
	items, err := f.api.List(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		// A newer fetch started while this one was in flight.
		return err
	}

	f.state.Loading = false
	if err != nil {
		f.logger.Error("failed to fetch news", "error", err)
		f.state.Status = StatusErrored
		f.state.Err = err.Error()
	} else {
		f.state.Status = StatusReady
		f.state.Items = items
	}
	f.publishLocked()
	return err
}

func (f *Feed) beginLocked() {
	f.state.Status = StatusLoading
	f.state.Loading = true
	f.state.Err = ""
	f.publishLocked()
}

// fail records a mutation failure without touching the list.
func (f *Feed) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Err = err.Error()
	if !f.state.Loading {
		f.state.Status = StatusErrored
	}
	f.publishLocked()
}

func (f *Feed) snapshotLocked() State {
	s := f.state
	s.Items = make([]*news.Item, len(f.state.Items))
	for i, item := range f.state.Items {
		s.Items[i] = item.Clone()
	}
	return s
}

func (f *Feed) publishLocked() {
	if len(f.subs) == 0 {
		return
	}
	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- f.snapshotLocked()
	}
}
