// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package shadow keeps a client-local copy of each book's collected flag and
applies toggles to it optimistically.

# Flow

  - Toggle flips the shadow value immediately and returns it.
  - The mutation is dispatched on its own goroutine.
  - On failure the shadow value is flipped back and a [Notification] is emitted.

Under [PolicyIndependent] overlapping toggles of the same book are independent
round-trips and every failure reverts by flipping, so the shadow may disagree
with the store until the next [Coordinator.Reset]. [PolicyPendingLock] refuses
a toggle while another one for the same book is in flight.

A failure that settles after [Coordinator.Reset] leaves the fresh value alone:
the failed mutation never reached the store, so the reloaded state is already
the pre-toggle state.
*/
package shadow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/darkshelf/internal/catalog"
)

// # Errors

var (
	// ErrUnknownBook is returned when toggling a book the shadow was never seeded with.
	ErrUnknownBook = errors.New("shadow: unknown book")

	// ErrTogglePending is returned under [PolicyPendingLock] while a toggle is in flight.
	ErrTogglePending = errors.New("shadow: toggle already pending")
)

// # Collaborators

// Mutator performs the real toggle against the catalog.
type Mutator interface {
	ToggleCollected(context context.Context, bookID int) (catalog.ToggleResult, error)
}

// MutatorFunc adapts a function to [Mutator].
type MutatorFunc func(context context.Context, bookID int) (catalog.ToggleResult, error)

// ToggleCollected implements [Mutator].
func (f MutatorFunc) ToggleCollected(context context.Context, bookID int) (catalog.ToggleResult, error) {
	return f(context, bookID)
}

// ServiceMutator adapts an in-process [catalog.Service].
func ServiceMutator(service *catalog.Service) Mutator {
	return MutatorFunc(func(context context.Context, bookID int) (catalog.ToggleResult, error) {
		return service.ToggleCollected(context, bookID), nil
	})
}

// Notification reports the settled outcome of one optimistic toggle.
type Notification struct {
	BookID  int
	Success bool

	// Message is the store's message on success, or the failure text.
	Message string

	// Collected is the shadow value after the outcome was applied.
	Collected bool
}

// Policy selects how overlapping toggles of the same book are handled.
type Policy int

const (
	// PolicyIndependent lets overlapping toggles race.
	PolicyIndependent Policy = iota

	// PolicyPendingLock refuses a toggle while one is in flight for the same book.
	PolicyPendingLock
)

// # Coordinator

// Coordinator owns the shadow state. It is safe for concurrent use.
type Coordinator struct {
	mutator Mutator
	policy  Policy
	notify  func(Notification)
	logger  *slog.Logger
	timeout time.Duration

	mu        sync.Mutex
	collected map[int]bool
	pending   map[int]int

	// generation is bumped by Reset; dispatches from an older generation never revert
	generation uint64

	inflight sync.WaitGroup
}

// Option customises a [Coordinator].
type Option func(*Coordinator)

// WithPolicy selects the overlap policy. The default is [PolicyIndependent].
func WithPolicy(policy Policy) Option {
	return func(coordinator *Coordinator) { coordinator.policy = policy }
}

// WithNotifier receives every settled toggle. It is called from the dispatch goroutine.
func WithNotifier(notify func(Notification)) Option {
	return func(coordinator *Coordinator) { coordinator.notify = notify }
}

// WithLogger sets the logger used for failed dispatches.
func WithLogger(logger *slog.Logger) Option {
	return func(coordinator *Coordinator) { coordinator.logger = logger }
}

// WithTimeout bounds each dispatched mutation. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(coordinator *Coordinator) { coordinator.timeout = timeout }
}

// New seeds a coordinator from the last fetched book list.
func New(mutator Mutator, books []*catalog.BookView, opts ...Option) *Coordinator {
	coordinator := &Coordinator{
		mutator: mutator,
		policy:  PolicyIndependent,
		notify:  func(Notification) {},
		logger:  slog.Default(),
		pending: map[int]int{},
	}

	for _, opt := range opts {
		opt(coordinator)
	}

	coordinator.collected = seed(books)
	return coordinator
}

/*
Toggle flips a book's shadow value and dispatches the real mutation.

Description: Returns as soon as the shadow is updated. The dispatch outlives
ctx cancellation so a settled outcome is always applied.

Parameters:
  - context: context.Context (values are kept, cancellation is not)
  - bookID: int

Returns:
  - bool: The new shadow value
  - error: ErrUnknownBook, or ErrTogglePending under PolicyPendingLock
*/
func (coordinator *Coordinator) Toggle(context context.Context, bookID int) (bool, error) {
	coordinator.mu.Lock()

	current, ok := coordinator.collected[bookID]
	if !ok {
		coordinator.mu.Unlock()
		return false, ErrUnknownBook
	}

	if coordinator.policy == PolicyPendingLock && coordinator.pending[bookID] > 0 {
		coordinator.mu.Unlock()
		return current, ErrTogglePending
	}

	next := !current
	coordinator.collected[bookID] = next
	coordinator.pending[bookID]++
	coordinator.inflight.Add(1)
	generation := coordinator.generation

	coordinator.mu.Unlock()

	go coordinator.dispatch(detach(context), bookID, generation)

	return next, nil
}

// dispatch performs the mutation and settles the shadow seeded at generation.
func (coordinator *Coordinator) dispatch(ctx context.Context, bookID int, generation uint64) {
	defer coordinator.inflight.Done()

	if coordinator.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, coordinator.timeout)
		defer cancel()
	}

	result, err := coordinator.mutator.ToggleCollected(ctx, bookID)

	notification := Notification{BookID: bookID, Success: err == nil && result.Success}
	switch {
	case err != nil:
		notification.Message = err.Error()
	case !result.Success:
		notification.Message = result.Error
	default:
		notification.Message = result.Message
	}

	coordinator.mu.Lock()
	current, known := coordinator.collected[bookID]
	if known && !notification.Success && generation == coordinator.generation {
		coordinator.collected[bookID] = !current
	}
	coordinator.pending[bookID]--
	if coordinator.pending[bookID] <= 0 {
		delete(coordinator.pending, bookID)
	}
	notification.Collected = coordinator.collected[bookID]
	coordinator.mu.Unlock()

	if !notification.Success {
		if notification.Message == "" {
			notification.Message = "Failed to update"
		}
		coordinator.logger.WarnContext(ctx, "optimistic_toggle_reverted",
			slog.Int("book_id", bookID),
			slog.String("reason", notification.Message),
		)
	}

	coordinator.notify(notification)
}

// Collected returns the shadow value of a book and whether it is known.
func (coordinator *Coordinator) Collected(bookID int) (bool, bool) {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	value, ok := coordinator.collected[bookID]
	return value, ok
}

// Pending reports whether a toggle for the book is in flight.
func (coordinator *Coordinator) Pending(bookID int) bool {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.pending[bookID] > 0
}

// Snapshot returns a copy of the whole shadow state.
func (coordinator *Coordinator) Snapshot() map[int]bool {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	snapshot := make(map[int]bool, len(coordinator.collected))
	for id, value := range coordinator.collected {
		snapshot[id] = value
	}
	return snapshot
}

// Apply overlays the shadow values onto a book list, returning copies.
func (coordinator *Coordinator) Apply(books []*catalog.BookView) []*catalog.BookView {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	out := make([]*catalog.BookView, 0, len(books))
	for _, book := range books {
		copied := *book
		if value, ok := coordinator.collected[book.ID]; ok {
			copied.Collected = value
		}
		out = append(out, &copied)
	}
	return out
}

// Reset replaces the shadow with a freshly fetched book list.
// Dispatches still in flight settle without touching the new values.
func (coordinator *Coordinator) Reset(books []*catalog.BookView) {
	fresh := seed(books)

	coordinator.mu.Lock()
	coordinator.collected = fresh
	coordinator.generation++
	coordinator.mu.Unlock()
}

// Wait blocks until every dispatched toggle has settled.
func (coordinator *Coordinator) Wait() {
	coordinator.inflight.Wait()
}

func seed(books []*catalog.BookView) map[int]bool {
	collected := make(map[int]bool, len(books))
	for _, book := range books {
		collected[book.ID] = book.Collected
	}
	return collected
}

func detach(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
