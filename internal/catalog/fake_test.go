// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/darkshelf/internal/catalog"
	"github.com/taibuivan/darkshelf/internal/platform/apperr"
	"github.com/taibuivan/darkshelf/pkg/pointer"
)

// fakeRepository is an in-memory [catalog.Repository].
type fakeRepository struct {
	mu       sync.Mutex
	books    map[int]*catalog.BookView
	lines    []*catalog.ProductLineSummary
	editions []*catalog.Edition

	// err, when set, is returned by every method
	err error

	writes int
}

func newFakeRepository() *fakeRepository {
	vampire := catalog.ProductLine{ID: 1, Name: "Vampire: The Masquerade", World: pointer.To(catalog.WorldOld)}
	requiem := catalog.ProductLine{ID: 2, Name: "Vampire: The Requiem", World: pointer.To(catalog.WorldChronicles)}
	empty := catalog.ProductLine{ID: 3, Name: "Wraith: The Oblivion", World: pointer.To(catalog.WorldOld)}
	first := &catalog.Edition{ID: 1, Name: "1st Edition", SortOrder: 1}

	repo := &fakeRepository{
		books: map[int]*catalog.BookView{},
		lines: []*catalog.ProductLineSummary{
			{ProductLine: vampire}, {ProductLine: requiem}, {ProductLine: empty},
		},
		editions: []*catalog.Edition{first},
	}

	add := func(id int, title string, line *catalog.ProductLine, year *int, collected bool) {
		view := &catalog.BookView{Book: catalog.Book{ID: id, Title: title, PublicationYear: year, Collected: collected}}
		if line != nil {
			view.ProductLineID = pointer.To(line.ID)
			lineCopy := *line
			view.ProductLine = &lineCopy
		}
		repo.books[id] = view
	}

	add(1, "Vampire: The Masquerade", &vampire, pointer.To(1991), true)
	add(2, "Chicago by Night", &vampire, pointer.To(2001), true)
	add(3, "Clanbook: Brujah", &vampire, nil, false)
	add(4, "Vampire: The Requiem", &requiem, pointer.To(2001), false)
	add(5, "Unsorted Pamphlet", nil, pointer.To(1999), true)

	return repo
}

func (repository *fakeRepository) ListBooks(context.Context) ([]*catalog.BookView, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}

	books := make([]*catalog.BookView, 0, len(repository.books))
	for _, book := range repository.books {
		copied := *book
		books = append(books, &copied)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (repository *fakeRepository) GetBook(_ context.Context, id int) (*catalog.BookView, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}

	book, ok := repository.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	copied := *book
	return &copied, nil
}

func (repository *fakeRepository) ListProductLines(context.Context) ([]*catalog.ProductLineSummary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}

	lines := make([]*catalog.ProductLineSummary, 0, len(repository.lines))
	for _, line := range repository.lines {
		summary := *line
		summary.BookCount = 0
		for _, book := range repository.books {
			if book.ProductLineID != nil && *book.ProductLineID == line.ID {
				summary.BookCount++
			}
		}
		lines = append(lines, &summary)
	}
	return lines, nil
}

func (repository *fakeRepository) ListEditions(context.Context) ([]*catalog.Edition, error) {
	if repository.err != nil {
		return nil, repository.err
	}
	return repository.editions, nil
}

func (repository *fakeRepository) ListPublicationYears(context.Context) ([]int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}

	seen := map[int]bool{}
	years := []int{}
	for _, book := range repository.books {
		if book.PublicationYear != nil && !seen[*book.PublicationYear] {
			seen[*book.PublicationYear] = true
			years = append(years, *book.PublicationYear)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// CompletionByProductLine reports raw counts with a deliberately wrong percentage
// so tests can observe the service recomputing it.
func (repository *fakeRepository) CompletionByProductLine(context.Context) ([]*catalog.ProductLineCompletion, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}

	stats := make([]*catalog.ProductLineCompletion, 0, len(repository.lines))
	for _, line := range repository.lines {
		entry := &catalog.ProductLineCompletion{ID: line.ID, Name: line.Name}
		for _, book := range repository.books {
			if book.ProductLineID != nil && *book.ProductLineID == line.ID {
				entry.TotalBooks++
				if book.Collected {
					entry.CollectedBooks++
				}
			}
		}
		entry.Percentage = -1
		stats = append(stats, entry)
	}
	return stats, nil
}

func (repository *fakeRepository) OverallCompletion(context.Context) (catalog.CompletionStats, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return catalog.CompletionStats{}, repository.err
	}

	stats := catalog.CompletionStats{Percentage: -1}
	for _, book := range repository.books {
		stats.TotalBooks++
		if book.Collected {
			stats.CollectedBooks++
		}
	}
	return stats, nil
}

func (repository *fakeRepository) CompletionByWorld(context.Context) ([]*catalog.WorldCompletion, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}

	stats := make([]*catalog.WorldCompletion, 0, len(catalog.Worlds))
	for _, world := range catalog.Worlds {
		entry := &catalog.WorldCompletion{World: world}
		for _, book := range repository.books {
			if book.ProductLine != nil && book.ProductLine.World != nil && *book.ProductLine.World == world {
				entry.TotalBooks++
				if book.Collected {
					entry.CollectedBooks++
				}
			}
		}
		stats = append(stats, entry)
	}
	return stats, nil
}

func (repository *fakeRepository) ToggleCollected(_ context.Context, id int, updatedAt time.Time) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return false, repository.err
	}

	book, ok := repository.books[id]
	if !ok {
		return false, apperr.NotFound("Book")
	}

	repository.writes++
	book.Collected = !book.Collected
	book.UpdatedAt = pointer.To(updatedAt)
	return book.Collected, nil
}

func (repository *fakeRepository) SetCollected(_ context.Context, ids []int, value bool, updatedAt time.Time) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return 0, repository.err
	}

	repository.writes++
	var affected int64
	for _, id := range ids {
		if book, ok := repository.books[id]; ok {
			book.Collected = value
			book.UpdatedAt = pointer.To(updatedAt)
			affected++
		}
	}
	return affected, nil
}

func (repository *fakeRepository) UpdateBook(_ context.Context, id int, patch catalog.BookPatch, updatedAt time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return repository.err
	}

	book, ok := repository.books[id]
	if !ok {
		return apperr.NotFound("Book")
	}

	repository.writes++
	if title, ok := patch.Title.Get(); ok {
		book.Title = title
	}
	if year, ok := patch.PublicationYear.Get(); ok {
		book.PublicationYear = year
	}
	if collected, ok := patch.Collected.Get(); ok {
		book.Collected = collected
	}
	book.UpdatedAt = pointer.To(updatedAt)
	return nil
}

func (repository *fakeRepository) book(id int) catalog.BookView {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return *repository.books[id]
}

func (repository *fakeRepository) writeCount() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.writes
}

// recordingInvalidator captures every staleness signal.
type recordingInvalidator struct {
	mu      sync.Mutex
	reasons []string
	ids     [][]int
	version int64
	err     error
}

func (invalidator *recordingInvalidator) Invalidate(_ context.Context, reason string, bookIDs []int) error {
	invalidator.mu.Lock()
	defer invalidator.mu.Unlock()
	if invalidator.err != nil {
		return invalidator.err
	}
	invalidator.version++
	invalidator.reasons = append(invalidator.reasons, reason)
	invalidator.ids = append(invalidator.ids, bookIDs)
	return nil
}

func (invalidator *recordingInvalidator) Version(context.Context) (int64, error) {
	invalidator.mu.Lock()
	defer invalidator.mu.Unlock()
	return invalidator.version, invalidator.err
}

func (invalidator *recordingInvalidator) signals() []string {
	invalidator.mu.Lock()
	defer invalidator.mu.Unlock()
	return append([]string(nil), invalidator.reasons...)
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService() (*catalog.Service, *fakeRepository, *recordingInvalidator) {
	repo := newFakeRepository()
	invalidator := &recordingInvalidator{}
	service := catalog.NewService(repo, invalidator, catalog.WithClock(func() time.Time { return fixedNow }))
	return service, repo, invalidator
}
