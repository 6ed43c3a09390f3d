// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/darkshelf/internal/platform/apperr"
	"github.com/taibuivan/darkshelf/internal/platform/ctxutil"
	"github.com/taibuivan/darkshelf/internal/platform/validate"
	"github.com/taibuivan/darkshelf/pkg/slice"
)

// # Mutation Results

// Outcome is the structured success/failure envelope shared by every mutation.
//
// Mutations never return a bare error to their caller: failures are folded
// into Outcome so a shell can branch on Success alone.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`

	err *apperr.AppError
}

// Err returns the classified failure, or nil on success.
//
// Outcomes decoded from JSON rebuild it from Code and Error.
func (o Outcome) Err() *apperr.AppError {
	if o.Success {
		return nil
	}
	if o.err != nil {
		return o.err
	}
	return &apperr.AppError{Code: o.Code, Message: o.Error}
}

// ToggleResult reports the outcome of [Service.ToggleCollected].
type ToggleResult struct {
	Outcome
	Collected *bool `json:"collected,omitempty"`
}

// BulkResult reports the outcome of [Service.BulkSetCollected].
//
// Count is the number of distinct identifiers requested; Affected is the number
// of rows the store actually changed (unknown ids are ignored).
type BulkResult struct {
	Outcome
	Count    *int   `json:"count,omitempty"`
	Affected *int64 `json:"affected,omitempty"`
}

// UpdateResult reports the outcome of [Service.UpdateBook].
type UpdateResult struct {
	Outcome
}

// Messages returned on success.
const (
	MessageCollected   = "Book marked as collected"
	MessageUncollected = "Book unmarked"
	MessageUpdated     = "Book updated"
)

// # Mutation Methods

/*
ToggleCollected flips the collected flag of a book.

Description: The flip is a single atomic statement in the store. A missing
book yields a NOT_FOUND failure and no write. On success consumers are told
that cached projections are stale.

Parameters:
  - context: context.Context
  - bookID: int

Returns:
  - ToggleResult: Success with the new value, or a classified failure
*/
func (service *Service) ToggleCollected(context context.Context, bookID int) ToggleResult {
	if err := validateBookID(bookID); err != nil {
		return ToggleResult{Outcome: service.fail(context, "toggle_collected_failed", err, slog.Int("book_id", bookID))}
	}

	collected, err := service.repo.ToggleCollected(context, bookID, service.now())
	if err != nil {
		return ToggleResult{Outcome: service.fail(context, "toggle_collected_failed", err, slog.Int("book_id", bookID))}
	}

	service.signal(context, ReasonToggle, []int{bookID})

	message := MessageUncollected
	if collected {
		message = MessageCollected
	}

	return ToggleResult{
		Outcome:   Outcome{Success: true, Message: message},
		Collected: &collected,
	}
}

/*
BulkSetCollected sets the collected flag of several books at once.

Description: Duplicates are collapsed. An empty list succeeds with a count
of 0 without touching the store. All rows are written in one transaction.

Parameters:
  - context: context.Context
  - bookIDs: []int
  - value: bool target state

Returns:
  - BulkResult: Success with counts, or a classified failure
*/
func (service *Service) BulkSetCollected(context context.Context, bookIDs []int, value bool) BulkResult {
	ids := slice.Unique(bookIDs)
	if len(ids) == 0 {
		count, affected := 0, int64(0)
		return BulkResult{
			Outcome:  Outcome{Success: true, Message: bulkMessage(0)},
			Count:    &count,
			Affected: &affected,
		}
	}

	validator := &validate.Validator{}
	validator.PositiveIDs(FieldBookIDs, ids)
	if err := validator.Err(); err != nil {
		return BulkResult{Outcome: service.fail(context, "bulk_set_collected_failed", err, slog.Any("book_ids", ids))}
	}

	affected, err := service.repo.SetCollected(context, ids, value, service.now())
	if err != nil {
		return BulkResult{Outcome: service.fail(context, "bulk_set_collected_failed", err, slog.Any("book_ids", ids))}
	}

	service.signal(context, ReasonBulk, ids)

	count := len(ids)
	return BulkResult{
		Outcome:  Outcome{Success: true, Message: bulkMessage(count)},
		Count:    &count,
		Affected: &affected,
	}
}

/*
UpdateBook applies a partial update to a book's editable columns.

Parameters:
  - context: context.Context
  - bookID: int
  - patch: BookPatch (only set fields are written)

Returns:
  - UpdateResult: Success, or a classified failure
*/
func (service *Service) UpdateBook(context context.Context, bookID int, patch BookPatch) UpdateResult {
	if err := validateBookID(bookID); err != nil {
		return UpdateResult{Outcome: service.fail(context, "update_book_failed", err, slog.Int("book_id", bookID))}
	}

	if err := patch.Validate(); err != nil {
		return UpdateResult{Outcome: service.fail(context, "update_book_failed", err, slog.Int("book_id", bookID))}
	}

	if err := service.repo.UpdateBook(context, bookID, patch, service.now()); err != nil {
		return UpdateResult{Outcome: service.fail(context, "update_book_failed", err, slog.Int("book_id", bookID))}
	}

	service.signal(context, ReasonUpdate, []int{bookID})

	return UpdateResult{Outcome: Outcome{Success: true, Message: MessageUpdated}}
}

// # Helpers

// fail classifies err, logs it, and folds it into an [Outcome].
func (service *Service) fail(context context.Context, event string, err error, attrs ...any) Outcome {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	logger := ctxutil.LoggerOr(context, service.logger)
	logger.ErrorContext(context, event,
		append(attrs,
			slog.String("code", appError.Code),
			slog.Any("error", err),
		)...,
	)

	return Outcome{
		Success: false,
		Error:   appError.Message,
		Code:    appError.Code,
		err:     appError,
	}
}

// signal tells consumers that projections are stale. Failures are only logged.
func (service *Service) signal(context context.Context, reason string, bookIDs []int) {
	if err := service.invalidator.Invalidate(context, reason, bookIDs); err != nil {
		ctxutil.LoggerOr(context, service.logger).WarnContext(context, "catalog_invalidate_failed",
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}
}

func bulkMessage(count int) string {
	return fmt.Sprintf("%d book(s) updated", count)
}
