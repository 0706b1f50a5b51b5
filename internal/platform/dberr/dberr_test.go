// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickmorty/internal/platform/apperr"
	"github.com/taibuivan/rickmorty/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no_rows", pgx.ErrNoRows, http.StatusNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"unique_violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"statement_timeout", &pgconn.PgError{Code: "57014"}, http.StatusServiceUnavailable},
		{"other_pg_error", &pgconn.PgError{Code: "42P01"}, http.StatusInternalServerError},
		{"plain", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "list_characters"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.status, ae.HTTPStatus)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

func TestWrap_KeepsActionInCause(t *testing.T) {
	ae := apperr.As(dberr.Wrap(errors.New("boom"), "upsert_character"))
	require.NotNil(t, ae)
	assert.EqualError(t, ae.Cause, "upsert_character: boom")
}
