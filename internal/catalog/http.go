// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"github.com/go-chi/chi/v5"
)

// Handler implements the HTTP layer for the catalog.
// It translates web requests into [Service] calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalog endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// # Books
	router.Route("/books", func(bookRoute chi.Router) {
		bookRoute.Get("/", handler.listBooks)
		bookRoute.Post("/collected", handler.bulkSetCollected)

		bookRoute.Get("/{id}", handler.getBook)
		bookRoute.Patch("/{id}", handler.updateBook)
		bookRoute.Post("/{id}/toggle", handler.toggleCollected)
	})

	// # Reference Data
	router.Get("/product-lines", handler.listProductLines)
	router.Get("/editions", handler.listEditions)
	router.Get("/years", handler.listPublicationYears)

	// # Statistics
	router.Route("/stats", func(statsRoute chi.Router) {
		statsRoute.Get("/product-lines", handler.completionByProductLine)
		statsRoute.Get("/overall", handler.overallCompletion)
		statsRoute.Get("/worlds", handler.completionByWorld)
	})

	// # Page Load & Staleness
	router.Get("/page", handler.loadPage)
	router.Get("/version", handler.version)

	return router
}
