// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr maps pgx errors onto [apperr.AppError] values.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/rickmorty/internal/platform/apperr"
)

// ErrNotFound is returned when a queried row doesn't exist.
var ErrNotFound = apperr.NotFound("Record")

/*
Wrap classifies a database error.

Mapping:
  - pgx.ErrNoRows: [ErrNotFound]
  - unique_violation: 409 Conflict
  - query_canceled (statement_timeout): 503 Service Unavailable
  - anything else: 500 Internal, with action recorded in the cause

Returns nil when err is nil.
*/
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict("Record already exists")
			conflict.Cause = fmt.Errorf("%s: %w", action, err)
			return conflict
		case pgerrcode.QueryCanceled:
			unavailable := apperr.ServiceUnavailable("The archive is busy, try again later")
			unavailable.Cause = fmt.Errorf("%s: %w", action, err)
			return unavailable
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
