// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/taibuivan/rickmorty/internal/character"
)

const pageOneBody = `{
  "info": {"count": 826, "pages": 42, "next": "https://rickandmortyapi.com/api/character/?page=2", "prev": null},
  "results": [
    {
      "id": 1, "name": "Rick Sanchez", "status": "Alive", "species": "Human", "type": "", "gender": "Male",
      "origin": {"name": "Earth (C-137)", "url": "https://rickandmortyapi.com/api/location/1"},
      "location": {"name": "Citadel of Ricks", "url": "https://rickandmortyapi.com/api/location/3"},
      "image": "https://rickandmortyapi.com/api/character/avatar/1.jpeg",
      "episode": ["https://rickandmortyapi.com/api/episode/1", "https://rickandmortyapi.com/api/episode/2"],
      "url": "https://rickandmortyapi.com/api/character/1",
      "created": "2017-11-04T18:48:46.250Z"
    },
    {
      "id": 2, "name": "Morty Smith", "status": "Alive", "species": "Human", "type": "", "gender": "Male",
      "origin": {"name": "unknown", "url": ""},
      "location": {"name": "Citadel of Ricks", "url": "https://rickandmortyapi.com/api/location/3"},
      "image": "https://rickandmortyapi.com/api/character/avatar/2.jpeg",
      "episode": ["https://rickandmortyapi.com/api/episode/1"],
      "url": "https://rickandmortyapi.com/api/character/2",
      "created": "2017-11-04T18:50:21.651Z"
    }
  ]
}`

const lastPageBody = `{
  "info": {"count": 826, "pages": 42, "next": null, "prev": "https://rickandmortyapi.com/api/character/?page=41"},
  "results": []
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newUpstream fakes the character API.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/character/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")

		switch request.URL.Path {
		case "/character/":
			switch request.URL.Query().Get("page") {
			case "1":
				_, _ = io.WriteString(writer, pageOneBody)
			case "42":
				_, _ = io.WriteString(writer, lastPageBody)
			case "43":
				writer.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(writer, `{"error":"There is nothing here"}`)
			case "500":
				writer.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(writer, `upstream exploded`)
			case "garbage":
				_, _ = io.WriteString(writer, `{"info": [}`)
			default:
				_, _ = io.WriteString(writer, `{"info": {"count": 0}, "results": "nope"}`)
			}
		case "/character/1":
			_, _ = io.WriteString(writer, `{"id": 1, "name": "Rick Sanchez", "status": "Alive", "species": "Human",
				"origin": {"name": "Earth (C-137)", "url": ""}, "location": {"name": "Earth", "url": ""},
				"episode": [], "created": "2017-11-04T18:48:46.250Z"}`)
		case "/character/9999":
			writer.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(writer, `{"error":"Character not found"}`)
		default:
			writer.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

/*
TestClient_FetchPage verifies DTO mapping and pagination info.
*/
func TestClient_FetchPage(t *testing.T) {
	upstream := newUpstream(t)
	client := character.NewClient(upstream.URL+"/", upstream.Client(), nil, discardLogger())

	page, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Number)
	assert.True(t, page.HasNext)
	assert.Equal(t, 42, page.TotalPages)
	assert.Equal(t, 826, page.TotalCount)
	require.Len(t, page.Characters, 2)

	rick := page.Characters[0]
	assert.Equal(t, 1, rick.ID)
	assert.Equal(t, "Rick Sanchez", rick.Name)
	assert.Equal(t, "Alive", rick.Status)
	assert.Equal(t, "Human", rick.Species)
	assert.Equal(t, "Male", rick.Gender)
	assert.Equal(t, "Earth (C-137)", rick.Origin.Name)
	assert.Equal(t, "Citadel of Ricks", rick.Location.Name)
	assert.Len(t, rick.Episodes, 2)
	assert.Equal(t, time.Date(2017, 11, 4, 18, 48, 46, 250000000, time.UTC), rick.Created.UTC())

	assert.Equal(t, "Morty Smith", page.Characters[1].Name)
}

/*
TestClient_FetchPage_LastPage verifies a null "next" link ends pagination.
*/
func TestClient_FetchPage_LastPage(t *testing.T) {
	upstream := newUpstream(t)
	client := character.NewClient(upstream.URL, upstream.Client(), nil, discardLogger())

	page, err := client.FetchPage(context.Background(), 42)
	require.NoError(t, err)

	assert.False(t, page.HasNext)
	assert.Empty(t, page.Characters)
}

/*
TestClient_Classification verifies the client/server/data taxonomy.
*/
func TestClient_Classification(t *testing.T) {
	upstream := newUpstream(t)
	client := character.NewClient(upstream.URL, upstream.Client(), nil, discardLogger())

	tests := []struct {
		name     string
		fetch    func() error
		kind     character.ErrorKind
		status   int
		notFound bool
	}{
		{
			name:     "past_last_page",
			fetch:    func() error { _, err := client.FetchPage(context.Background(), 43); return err },
			kind:     character.KindClient,
			status:   http.StatusNotFound,
			notFound: true,
		},
		{
			name:   "invalid_page_number",
			fetch:  func() error { _, err := client.FetchPage(context.Background(), 0); return err },
			kind:   character.KindClient,
			status: 0,
		},
		{
			name:   "server_failure",
			fetch:  func() error { _, err := client.FetchPage(context.Background(), 500); return err },
			kind:   character.KindServer,
			status: http.StatusInternalServerError,
		},
		{
			name:  "malformed_json",
			fetch: func() error { _, err := client.FetchPage(context.Background(), 7); return err },
			kind:  character.KindData,
		},
		{
			name:     "character_not_found",
			fetch:    func() error { _, err := client.FetchCharacter(context.Background(), 9999); return err },
			kind:     character.KindClient,
			status:   http.StatusNotFound,
			notFound: true,
		},
		{
			name:   "unknown_route",
			fetch:  func() error { _, err := client.FetchCharacter(context.Background(), 5); return err },
			kind:   character.KindServer,
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fetch()
			require.Error(t, err)

			var fe *character.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.kind, fe.Kind)
			assert.Equal(t, tt.status, fe.Status)
			assert.Equal(t, tt.notFound, fe.NotFound())
		})
	}
}

/*
TestClient_UpstreamErrorMessage verifies the upstream error body is kept as the cause.
*/
func TestClient_UpstreamErrorMessage(t *testing.T) {
	upstream := newUpstream(t)
	client := character.NewClient(upstream.URL, upstream.Client(), nil, discardLogger())

	_, err := client.FetchPage(context.Background(), 43)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "There is nothing here")
}

/*
TestClient_TransportFailure verifies an unreachable host is a data error.
*/
func TestClient_TransportFailure(t *testing.T) {
	upstream := newUpstream(t)
	baseURL := upstream.URL
	upstream.Close()

	client := character.NewClient(baseURL, &http.Client{Timeout: time.Second}, nil, discardLogger())

	_, err := client.FetchPage(context.Background(), 1)
	assert.Equal(t, character.KindData, character.KindOf(err))
}

/*
TestClient_RateLimiterCancelled verifies a limiter wait aborted by the context
is a data error and sends no request.
*/
func TestClient_RateLimiterCancelled(t *testing.T) {
	var hits int
	upstream := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits++ }))
	defer upstream.Close()

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	client := character.NewClient(upstream.URL, upstream.Client(), limiter, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.FetchCharacter(ctx, 1)
	assert.Equal(t, character.KindData, character.KindOf(err))
	assert.Zero(t, hits)
}

/*
TestClient_FetchCharacter verifies single-character lookups.
*/
func TestClient_FetchCharacter(t *testing.T) {
	upstream := newUpstream(t)
	client := character.NewClient(upstream.URL, upstream.Client(), rate.NewLimiter(rate.Inf, 1), discardLogger())

	rick, err := client.FetchCharacter(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Rick Sanchez", rick.Name)
	assert.Equal(t, "Earth", rick.Location.Name)
	assert.NotNil(t, rick.Episodes)
}
