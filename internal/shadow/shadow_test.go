// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shadow_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/darkshelf/internal/catalog"
	"github.com/taibuivan/darkshelf/internal/shadow"
)

// gatedMutator blocks every call until release is closed, then answers with respond.
type gatedMutator struct {
	release chan struct{}
	respond func(bookID int) (catalog.ToggleResult, error)
}

func (m *gatedMutator) ToggleCollected(_ context.Context, bookID int) (catalog.ToggleResult, error) {
	<-m.release
	return m.respond(bookID)
}

func succeed(bookID int) (catalog.ToggleResult, error) {
	value := true
	return catalog.ToggleResult{
		Outcome:   catalog.Outcome{Success: true, Message: catalog.MessageCollected},
		Collected: &value,
	}, nil
}

func fail(int) (catalog.ToggleResult, error) {
	return catalog.ToggleResult{Outcome: catalog.Outcome{Success: false, Error: "Catalog store is unavailable"}}, nil
}

type notifications struct {
	mu  sync.Mutex
	all []shadow.Notification
}

func (n *notifications) add(notification shadow.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, notification)
}

func (n *notifications) list() []shadow.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]shadow.Notification(nil), n.all...)
}

func books() []*catalog.BookView {
	return []*catalog.BookView{
		{Book: catalog.Book{ID: 1, Title: "Vampire: The Masquerade", Collected: false}},
		{Book: catalog.Book{ID: 2, Title: "Chicago by Night", Collected: true}},
	}
}

func TestCoordinator_ToggleSuccess(t *testing.T) {
	mutator := &gatedMutator{release: make(chan struct{}), respond: succeed}
	seen := &notifications{}
	coordinator := shadow.New(mutator, books(), shadow.WithNotifier(seen.add))

	value, err := coordinator.Toggle(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, value)

	// Rendered before the mutation settles
	current, ok := coordinator.Collected(1)
	assert.True(t, ok)
	assert.True(t, current)
	assert.True(t, coordinator.Pending(1))

	close(mutator.release)
	coordinator.Wait()

	current, _ = coordinator.Collected(1)
	assert.True(t, current)
	assert.False(t, coordinator.Pending(1))

	require.Len(t, seen.list(), 1)
	assert.Equal(t, shadow.Notification{BookID: 1, Success: true, Message: catalog.MessageCollected, Collected: true}, seen.list()[0])
}

func TestCoordinator_ToggleFailureReverts(t *testing.T) {
	mutator := &gatedMutator{release: make(chan struct{}), respond: fail}
	seen := &notifications{}
	coordinator := shadow.New(mutator, books(), shadow.WithNotifier(seen.add))

	value, err := coordinator.Toggle(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, value)

	close(mutator.release)
	coordinator.Wait()

	current, _ := coordinator.Collected(1)
	assert.False(t, current)

	require.Len(t, seen.list(), 1)
	notification := seen.list()[0]
	assert.False(t, notification.Success)
	assert.Equal(t, "Catalog store is unavailable", notification.Message)
	assert.False(t, notification.Collected)
}

func TestCoordinator_TransportErrorReverts(t *testing.T) {
	mutator := shadow.MutatorFunc(func(context.Context, int) (catalog.ToggleResult, error) {
		return catalog.ToggleResult{}, errors.New("connection refused")
	})
	seen := &notifications{}
	coordinator := shadow.New(mutator, books(), shadow.WithNotifier(seen.add))

	value, err := coordinator.Toggle(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, value)

	coordinator.Wait()

	current, _ := coordinator.Collected(2)
	assert.True(t, current)
	require.Len(t, seen.list(), 1)
	assert.Equal(t, "connection refused", seen.list()[0].Message)
}

func TestCoordinator_UnknownBook(t *testing.T) {
	coordinator := shadow.New(shadow.MutatorFunc(func(context.Context, int) (catalog.ToggleResult, error) {
		t.Fatal("must not dispatch")
		return catalog.ToggleResult{}, nil
	}), books())

	_, err := coordinator.Toggle(context.Background(), 99)
	assert.ErrorIs(t, err, shadow.ErrUnknownBook)
}

func TestCoordinator_PendingLock(t *testing.T) {
	mutator := &gatedMutator{release: make(chan struct{}), respond: succeed}
	coordinator := shadow.New(mutator, books(), shadow.WithPolicy(shadow.PolicyPendingLock))

	value, err := coordinator.Toggle(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, value)

	// Second toggle refused while the first is in flight
	value, err = coordinator.Toggle(context.Background(), 1)
	assert.ErrorIs(t, err, shadow.ErrTogglePending)
	assert.True(t, value)

	// Other books are unaffected
	_, err = coordinator.Toggle(context.Background(), 2)
	assert.NoError(t, err)

	close(mutator.release)
	coordinator.Wait()

	_, err = coordinator.Toggle(context.Background(), 1)
	assert.NoError(t, err)
	coordinator.Wait()
}

func TestCoordinator_IndependentOverlap(t *testing.T) {
	mutator := &gatedMutator{release: make(chan struct{}), respond: fail}
	coordinator := shadow.New(mutator, books())

	first, err := coordinator.Toggle(context.Background(), 1)
	require.NoError(t, err)
	second, err := coordinator.Toggle(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	// Both fail and both revert by flipping
	close(mutator.release)
	coordinator.Wait()

	current, _ := coordinator.Collected(1)
	assert.False(t, current)
}

func TestCoordinator_FailureAfterResetKeepsFreshState(t *testing.T) {
	mutator := &gatedMutator{release: make(chan struct{}), respond: fail}
	seen := &notifications{}
	coordinator := shadow.New(mutator, books(), shadow.WithNotifier(seen.add))

	value, err := coordinator.Toggle(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, value)

	// Reload from the store while the toggle is in flight; it never wrote
	coordinator.Reset(books())

	close(mutator.release)
	coordinator.Wait()

	current, ok := coordinator.Collected(1)
	require.True(t, ok)
	assert.False(t, current)
	assert.False(t, coordinator.Pending(1))

	require.Len(t, seen.list(), 1)
	notification := seen.list()[0]
	assert.False(t, notification.Success)
	assert.False(t, notification.Collected)
}

func TestCoordinator_ToggleAfterResetStillReverts(t *testing.T) {
	mutator := &gatedMutator{release: make(chan struct{}), respond: fail}
	coordinator := shadow.New(mutator, books())

	coordinator.Reset(books())

	value, err := coordinator.Toggle(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, value)

	close(mutator.release)
	coordinator.Wait()

	current, _ := coordinator.Collected(2)
	assert.True(t, current)
}

func TestCoordinator_ResetAndApply(t *testing.T) {
	coordinator := shadow.New(shadow.MutatorFunc(succeed2), books())

	fresh := books()
	fresh[0].Collected = true
	coordinator.Reset(fresh)

	assert.Equal(t, map[int]bool{1: true, 2: true}, coordinator.Snapshot())

	_, err := coordinator.Toggle(context.Background(), 2)
	require.NoError(t, err)
	coordinator.Wait()

	applied := coordinator.Apply(books())
	assert.True(t, applied[0].Collected)
	assert.False(t, applied[1].Collected)
}

func succeed2(_ context.Context, bookID int) (catalog.ToggleResult, error) {
	return succeed(bookID)
}
