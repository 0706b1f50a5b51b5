// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickmorty/internal/api"
	"github.com/taibuivan/rickmorty/internal/platform/config"
)

// routeStub answers every registered path with its own name.
type routeStub struct {
	method string
	path   string
	name   string
}

func (stub routeStub) RegisterRoutes(router chi.Router) {
	router.Method(stub.method, stub.path, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(writer, stub.name)
	}))
}

func newTestServer(t *testing.T, deps api.HealthDependencies, withArchive bool) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Detail:    routeStub{http.MethodGet, "/{id}", "detail"},
		Sessions:  routeStub{http.MethodPost, "/", "sessions"},
	}
	if withArchive {
		handlers.Archive = routeStub{http.MethodGet, "/", "archive"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{ServerPort: "0", Environment: "development"}
	return api.NewServer(ctx, cfg, logger, handlers).Handler()
}

func get(handler http.Handler, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
	return recorder
}

/*
TestServer_Routes verifies each handler set is mounted at its prefix.
*/
func TestServer_Routes(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{}, true)

	assert.Equal(t, "detail", get(handler, http.MethodGet, "/api/v1/characters/1").Body.String())
	assert.Equal(t, "archive", get(handler, http.MethodGet, "/api/v1/characters").Body.String())
	assert.Equal(t, "sessions", get(handler, http.MethodPost, "/api/v1/sessions").Body.String())

	recorder := get(handler, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

/*
TestServer_ArchiveOptional verifies the listing is absent without an archive.
*/
func TestServer_ArchiveOptional(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{}, false)

	assert.Equal(t, http.StatusNotFound, get(handler, http.MethodGet, "/api/v1/characters").Code)
	assert.Equal(t, "detail", get(handler, http.MethodGet, "/api/v1/characters/2").Body.String())
}

/*
TestReadiness verifies configured checks decide readiness.
*/
func TestReadiness(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		deps       api.HealthDependencies
		wantStatus int
		wantChecks int
	}{
		{"nothing_configured", api.HealthDependencies{}, http.StatusOK, 0},
		{"all_healthy", api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}, http.StatusOK, 2},
		{"cache_down", api.HealthDependencies{CheckDatabase: healthy, CheckCache: broken}, http.StatusServiceUnavailable, 2},
		{"only_database", api.HealthDependencies{CheckDatabase: broken}, http.StatusServiceUnavailable, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := get(newTestServer(t, tt.deps, false), http.MethodGet, "/ready")
			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body struct {
				Data struct {
					Status string            `json:"status"`
					Checks []json.RawMessage `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Len(t, body.Data.Checks, tt.wantChecks)
		})
	}
}
