// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"

	"github.com/taibuivan/darkshelf/internal/platform/apperr"
	"github.com/taibuivan/darkshelf/internal/platform/validate"
)

// # Book Queries

/*
ListBooks returns the full joined book list, ordered by title.

Parameters:
  - context: context.Context

Returns:
  - []*BookView: Every book in the catalog
  - error: STORE_UNAVAILABLE or internal failures, never a partial list
*/
func (service *Service) ListBooks(context context.Context) ([]*BookView, error) {
	return service.repo.ListBooks(context)
}

/*
GetBook returns a single joined book with its author credits.

Parameters:
  - context: context.Context
  - id: int book identifier

Returns:
  - *BookView: The book
  - error: Validation, not found or storage errors
*/
func (service *Service) GetBook(context context.Context, id int) (*BookView, error) {
	if err := validateBookID(id); err != nil {
		return nil, err
	}
	return service.repo.GetBook(context, id)
}

// # Reference Queries

// ListProductLines returns every product line with its book count.
func (service *Service) ListProductLines(context context.Context) ([]*ProductLineSummary, error) {
	return service.repo.ListProductLines(context)
}

// ListEditions returns every edition in display order.
func (service *Service) ListEditions(context context.Context) ([]*Edition, error) {
	return service.repo.ListEditions(context)
}

// ListPublicationYears returns the distinct publication years, newest first.
func (service *Service) ListPublicationYears(context context.Context) ([]int, error) {
	return service.repo.ListPublicationYears(context)
}

// # Statistics Queries

/*
CompletionByProductLine returns the completion of every product line.

Description: Percentages are recomputed from the counts so that the rounding
rule lives in one place regardless of the store.

Parameters:
  - context: context.Context

Returns:
  - []*ProductLineCompletion: Per-line triples ordered by name
  - error: Storage errors
*/
func (service *Service) CompletionByProductLine(context context.Context) ([]*ProductLineCompletion, error) {
	stats, err := service.repo.CompletionByProductLine(context)
	if err != nil {
		return nil, err
	}

	for _, line := range stats {
		line.CompletionStats = NewCompletionStats(line.TotalBooks, line.CollectedBooks)
	}
	return stats, nil
}

// OverallCompletion returns the completion across the whole catalog.
func (service *Service) OverallCompletion(context context.Context) (CompletionStats, error) {
	stats, err := service.repo.OverallCompletion(context)
	if err != nil {
		return CompletionStats{}, err
	}
	return NewCompletionStats(stats.TotalBooks, stats.CollectedBooks), nil
}

// CompletionByWorld returns the completion of each known world, in [Worlds] order.
func (service *Service) CompletionByWorld(context context.Context) ([]*WorldCompletion, error) {
	stats, err := service.repo.CompletionByWorld(context)
	if err != nil {
		return nil, err
	}

	for _, world := range stats {
		world.CompletionStats = NewCompletionStats(world.TotalBooks, world.CollectedBooks)
	}
	return stats, nil
}

// # Staleness

// Version returns the current staleness counter. Any increase means previously
// fetched projections are outdated.
func (service *Service) Version(context context.Context) (int64, error) {
	version, err := service.invalidator.Version(context)
	if err != nil {
		return 0, apperr.StoreUnavailable(err)
	}
	return version, nil
}

// validateBookID rejects identifiers that can never exist.
func validateBookID(id int) error {
	validator := &validate.Validator{}
	validator.PositiveIDs(FieldBookID, []int{id})
	return validator.Err()
}
