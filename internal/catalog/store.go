// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"time"
)

// # Catalog Data Access

// Repository defines the data access contract for the catalog store.
//
// Read methods never write. Write methods touch only the books table and always
// stamp updated_at with the supplied time.
type Repository interface {

	// ## Book Projections

	/*
		ListBooks retrieves every book joined with its product line and edition.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*BookView: Books ordered by title (store collation)
		  - error: Database retrieval failures
	*/
	ListBooks(context context.Context) ([]*BookView, error)

	/*
		GetBook retrieves a single joined book together with its author credits.

		Parameters:
		  - context: context.Context
		  - id: int book identifier

		Returns:
		  - *BookView: The hydrated book
		  - error: apperr.NotFound if missing
	*/
	GetBook(context context.Context, id int) (*BookView, error)

	// ## Reference Projections

	// ListProductLines retrieves all product lines with their book counts, ordered by name.
	ListProductLines(context context.Context) ([]*ProductLineSummary, error)

	// ListEditions retrieves all editions ordered by sort order.
	ListEditions(context context.Context) ([]*Edition, error)

	// ListPublicationYears retrieves the distinct non-null years, newest first.
	ListPublicationYears(context context.Context) ([]int, error)

	// ## Completion Statistics

	// CompletionByProductLine computes the completion of every product line, ordered by name.
	CompletionByProductLine(context context.Context) ([]*ProductLineCompletion, error)

	// OverallCompletion computes the completion across all books.
	OverallCompletion(context context.Context) (CompletionStats, error)

	// CompletionByWorld computes completion per known world, in [Worlds] order.
	CompletionByWorld(context context.Context) ([]*WorldCompletion, error)

	// ## Collected State Mutations

	/*
		ToggleCollected flips the collected flag of one book.

		Parameters:
		  - context: context.Context
		  - id: int book identifier
		  - updatedAt: time.Time modification stamp

		Returns:
		  - bool: The new collected value
		  - error: apperr.NotFound if the book does not exist
	*/
	ToggleCollected(context context.Context, id int, updatedAt time.Time) (bool, error)

	/*
		SetCollected sets the collected flag of every listed book in one transaction.

		Parameters:
		  - context: context.Context
		  - ids: []int book identifiers (unknown ids are ignored)
		  - value: bool target state
		  - updatedAt: time.Time modification stamp

		Returns:
		  - int64: Number of rows actually updated
		  - error: Database execution errors
	*/
	SetCollected(context context.Context, ids []int, value bool, updatedAt time.Time) (int64, error)

	// UpdateBook applies the set fields of a patch to one book.
	UpdateBook(context context.Context, id int, patch BookPatch, updatedAt time.Time) error
}
