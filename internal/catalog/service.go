// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"log/slog"
	"time"
)

// # Service Layer

// Service orchestrates the query and mutation layers of the catalog.
//
// Reads pass straight through to the [Repository]. Writes are validated,
// stamped with the service clock, and followed by a staleness signal.
type Service struct {
	repo        Repository
	invalidator Invalidator
	logger      *slog.Logger
	now         func() time.Time
}

// Option customises a [Service] at construction.
type Option func(*Service)

// WithClock overrides the clock used to stamp updated_at.
func WithClock(now func() time.Time) Option {
	return func(service *Service) {
		service.now = now
	}
}

// WithLogger sets the fallback logger used when the request carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(service *Service) {
		service.logger = logger
	}
}

// NewService constructs a new catalog [Service].
//
// A nil invalidator disables the staleness signal.
func NewService(repo Repository, invalidator Invalidator, opts ...Option) *Service {
	if invalidator == nil {
		invalidator = NopInvalidator{}
	}

	service := &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      slog.Default(),
		now:         func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}
