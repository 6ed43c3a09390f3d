// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	requestutil "github.com/taibuivan/darkshelf/internal/platform/request"
	"github.com/taibuivan/darkshelf/internal/platform/respond"
)

/*
GET /api/v1/catalog/books.

Description: Retrieves every book joined with its product line and edition, ordered by title.

Response:
  - 200: []BookView
  - 503: STORE_UNAVAILABLE
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {

	// Full list, filtering happens in the shell
	books, err := handler.service.ListBooks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, books)
}

/*
GET /api/v1/catalog/books/{id}.

Description: Retrieves one book with its product line, edition and author credits.

Request:
  - id: int (Path)

Response:
  - 200: BookView
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {

	// Extract id from URL
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// GET /api/v1/catalog/product-lines.
func (handler *Handler) listProductLines(writer http.ResponseWriter, request *http.Request) {
	lines, err := handler.service.ListProductLines(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, lines)
}

// GET /api/v1/catalog/editions.
func (handler *Handler) listEditions(writer http.ResponseWriter, request *http.Request) {
	editions, err := handler.service.ListEditions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, editions)
}

// GET /api/v1/catalog/years.
func (handler *Handler) listPublicationYears(writer http.ResponseWriter, request *http.Request) {
	years, err := handler.service.ListPublicationYears(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, years)
}

// GET /api/v1/catalog/stats/product-lines.
func (handler *Handler) completionByProductLine(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.CompletionByProductLine(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

// GET /api/v1/catalog/stats/overall.
func (handler *Handler) overallCompletion(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.OverallCompletion(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

// GET /api/v1/catalog/stats/worlds.
func (handler *Handler) completionByWorld(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.CompletionByWorld(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

/*
GET /api/v1/catalog/page.

Description: Retrieves every projection in one round-trip. Fails as a whole
if any projection fails.

Response:
  - 200: Page
  - 503: STORE_UNAVAILABLE
*/
func (handler *Handler) loadPage(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.LoadPage(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

// VersionResponse is the body of GET /api/v1/catalog/version.
type VersionResponse struct {
	Version int64 `json:"version"`
}

// GET /api/v1/catalog/version.
func (handler *Handler) version(writer http.ResponseWriter, request *http.Request) {
	version, err := handler.service.Version(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, VersionResponse{Version: version})
}
