// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/taibuivan/darkshelf/internal/platform/apperr"
	requestutil "github.com/taibuivan/darkshelf/internal/platform/request"
	"github.com/taibuivan/darkshelf/internal/platform/respond"
	"github.com/taibuivan/darkshelf/internal/platform/validate"
)

// BulkRequest is the body of POST /api/v1/catalog/books/collected.
type BulkRequest struct {
	BookIDs   []int `json:"book_ids"`
	Collected *bool `json:"collected"`
}

/*
POST /api/v1/catalog/books/{id}/toggle.

Description: Flips the collected flag of one book.

Request:
  - id: int (Path)

Response:
  - 200: ToggleResult with success true
  - 400/404/409/503: ToggleResult with success false
*/
func (handler *Handler) toggleCollected(writer http.ResponseWriter, request *http.Request) {

	// Extract id from URL
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respondFailure(writer, err, func(outcome Outcome) any { return ToggleResult{Outcome: outcome} })
		return
	}

	result := handler.service.ToggleCollected(request.Context(), id)
	respond.Result(writer, result.Err(), result)
}

/*
POST /api/v1/catalog/books/collected.

Description: Sets the collected flag of every listed book in one transaction.

Request:
  - BulkRequest: {book_ids, collected}

Response:
  - 200: BulkResult with success true (count is 0 for an empty list)
  - 400/503: BulkResult with success false
*/
func (handler *Handler) bulkSetCollected(writer http.ResponseWriter, request *http.Request) {
	wrap := func(outcome Outcome) any { return BulkResult{Outcome: outcome} }

	// Decode body
	var body BulkRequest
	if err := requestutil.DecodeStrictJSON(request, &body); err != nil {
		respondFailure(writer, err, wrap)
		return
	}

	if body.Collected == nil {
		respondFailure(writer, validate.RequiredError(FieldCollected, "This field is required"), wrap)
		return
	}

	result := handler.service.BulkSetCollected(request.Context(), body.BookIDs, *body.Collected)
	respond.Result(writer, result.Err(), result)
}

/*
PATCH /api/v1/catalog/books/{id}.

Description: Applies a partial update. Absent fields are untouched, explicit
nulls clear nullable columns.

Request:
  - id: int (Path)
  - BookPatch: (Body)

Response:
  - 200: UpdateResult with success true
  - 400/404/409/503: UpdateResult with success false
*/
func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	wrap := func(outcome Outcome) any { return UpdateResult{Outcome: outcome} }

	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respondFailure(writer, err, wrap)
		return
	}

	var patch BookPatch
	if err := requestutil.DecodeStrictJSON(request, &patch); err != nil {
		respondFailure(writer, err, wrap)
		return
	}

	result := handler.service.UpdateBook(request.Context(), id, patch)
	respond.Result(writer, result.Err(), result)
}

// respondFailure renders a transport-level failure in the shape of the endpoint's result.
func respondFailure(writer http.ResponseWriter, err error, wrap func(Outcome) any) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	outcome := Outcome{Success: false, Error: appError.Message, Code: appError.Code, err: appError}
	respond.Result(writer, appError, wrap(outcome))
}
