// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
//   - pgx.ErrNoRows: NOT_FOUND
//   - SQLSTATE class 23 (integrity constraint violation): CONSTRAINT_VIOLATION
//   - SQLSTATE class 08/53/57, dial/network failures, deadlines: STORE_UNAVAILABLE
//   - Anything else: INTERNAL_ERROR
package dberr

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/darkshelf/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action names the failed operation (e.g. "list_books") and is kept in the
// cause chain for server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	cause := fmt.Errorf("%s: %w", action, err)

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	// 2. Server-reported SQLSTATE
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
			return apperr.ConstraintViolation(constraintMessage(pgErr), cause)
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsOperatorIntervention(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code):
			return apperr.StoreUnavailable(cause)
		}
		return apperr.Internal(cause)
	}

	// 3. Transport-level failures never reached the server
	if IsUnavailable(err) {
		return apperr.StoreUnavailable(cause)
	}

	return apperr.Internal(cause)
}

// IsUnavailable reports whether err stems from the store being unreachable rather
// than from the statement itself.
func IsUnavailable(err error) bool {
	var connectErr *pgconn.ConnectError
	var netErr net.Error

	switch {
	case errors.As(err, &connectErr):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.As(err, &netErr):
		return true
	case pgconn.Timeout(err):
		return true
	}
	return false
}

// constraintMessage produces a client-safe description of an integrity failure.
func constraintMessage(pgErr *pgconn.PgError) string {
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return "Referenced record does not exist"
	case pgerrcode.UniqueViolation:
		return "Record already exists"
	case pgerrcode.NotNullViolation:
		return "Required value is missing"
	case pgerrcode.CheckViolation:
		return "Value is out of the allowed range"
	}
	return "Data integrity constraint violated"
}
