// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rickmorty/internal/character"
	"github.com/taibuivan/rickmorty/internal/platform/sec"
	"github.com/taibuivan/rickmorty/internal/session"
)

// pagedSource serves two pages; page 2 waits on gate when it is set.
type pagedSource struct {
	gate    chan struct{}
	entered chan int
}

func (source *pagedSource) FetchPage(ctx context.Context, page int) (character.Page, error) {
	if source.entered != nil {
		source.entered <- page
	}

	switch page {
	case 1:
		return character.Page{Number: 1, HasNext: true, Characters: []character.Character{
			{ID: 1, Name: "Rick Sanchez", Species: "Human", Status: "Alive"},
			{ID: 47, Name: "Birdperson", Species: "Alien", Status: "Dead"},
		}}, nil
	case 2:
		if source.gate != nil {
			select {
			case <-source.gate:
			case <-ctx.Done():
				return character.Page{}, &character.FetchError{Kind: character.KindData, Cause: ctx.Err()}
			}
		}
		return character.Page{Number: 2, Characters: []character.Character{
			{ID: 331, Name: "Squanchy", Species: "Alien", Status: "Alive"},
		}}, nil
	default:
		return character.Page{}, &character.FetchError{Kind: character.KindClient, Status: http.StatusNotFound}
	}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Code string          `json:"code"`
}

type harness struct {
	t      *testing.T
	router http.Handler
}

func newHarness(t *testing.T, source *pagedSource) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewSessionTokens("0123456789abcdef0123456789abcdef", "test", "rickmorty.test", time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	registry := session.NewRegistry(source, time.Hour, logger)
	handler := session.NewHandler(ctx, registry, tokens, 5*time.Second, logger)

	router := chi.NewRouter()
	router.Route("/sessions", handler.RegisterRoutes)
	return &harness{t: t, router: router}
}

func (h *harness) do(method, path, token, body string) (int, envelope) {
	h.t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)

	var parsed envelope
	if recorder.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(recorder.Body.Bytes(), &parsed))
	}
	return recorder.Code, parsed
}

func (h *harness) state(token string) session.StateView {
	h.t.Helper()
	status, body := h.do(http.MethodGet, "/sessions/state", token, "")
	require.Equal(h.t, http.StatusOK, status)

	var view session.StateView
	require.NoError(h.t, json.Unmarshal(body.Data, &view))
	return view
}

// create opens a session and waits for its background first-page load.
func (h *harness) create() session.Created {
	h.t.Helper()
	status, body := h.do(http.MethodPost, "/sessions/", "", "")
	require.Equal(h.t, http.StatusCreated, status)

	var created session.Created
	require.NoError(h.t, json.Unmarshal(body.Data, &created))
	require.NotEmpty(h.t, created.Token)

	require.Eventually(h.t, func() bool {
		return h.state(created.Token).Kind == "loaded"
	}, 2*time.Second, 10*time.Millisecond)
	return created
}

func names(view session.StateView) []string {
	out := make([]string, 0, len(view.Characters))
	for _, c := range view.Characters {
		out = append(out, c.Name)
	}
	return out
}

/*
TestHandler_CreateLoadsFirstPage verifies a new session renders page 1.
*/
func TestHandler_CreateLoadsFirstPage(t *testing.T) {
	h := newHarness(t, &pagedSource{})
	created := h.create()

	view := h.state(created.Token)
	assert.Equal(t, []string{"Rick Sanchez", "Birdperson"}, names(view))
	require.NotNil(t, view.HasNext)
	assert.True(t, *view.HasNext)
	assert.Equal(t, 1, view.Page)
}

/*
TestHandler_FilterAndPaginate verifies filters apply across appended pages.
*/
func TestHandler_FilterAndPaginate(t *testing.T) {
	h := newHarness(t, &pagedSource{})
	created := h.create()

	status, _ := h.do(http.MethodPut, "/sessions/filter", created.Token, `{"species":"alien","status":null}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Birdperson"}, names(h.state(created.Token)))

	status, body := h.do(http.MethodPost, "/sessions/next", created.Token, "")
	require.Equal(t, http.StatusOK, status)

	var view session.StateView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, []string{"Birdperson", "Squanchy"}, names(view))
	assert.Equal(t, 2, view.Page)
	require.NotNil(t, view.Filter.Species)
	assert.Equal(t, "alien", *view.Filter.Species)

	status, _ = h.do(http.MethodPut, "/sessions/filter", created.Token, `{"species":null,"status":null}`)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, h.state(created.Token).Characters, 3)
}

/*
TestHandler_NextPastTheEndFails verifies a rejected page becomes a failed state.
*/
func TestHandler_NextPastTheEndFails(t *testing.T) {
	h := newHarness(t, &pagedSource{})
	created := h.create()

	h.do(http.MethodPost, "/sessions/next", created.Token, "")
	status, body := h.do(http.MethodPost, "/sessions/next", created.Token, "")
	require.Equal(t, http.StatusOK, status)

	var view session.StateView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, "failed", view.Kind)
	assert.Equal(t, character.ReasonClient, view.Reason)
	assert.Equal(t, 2, view.Page)
}

/*
TestHandler_RejectsInvalidFilter verifies the filter body is validated.
*/
func TestHandler_RejectsInvalidFilter(t *testing.T) {
	h := newHarness(t, &pagedSource{})
	created := h.create()

	tests := []struct {
		name string
		body string
	}{
		{"too_long", `{"species":"` + strings.Repeat("x", 65) + `"}`},
		{"blank", `{"status":"  "}`},
		{"malformed", `{"species":`},
		{"unknown_field", `{"gender":"Male"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.do(http.MethodPut, "/sessions/filter", created.Token, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_ERROR", body.Code)
		})
	}
}

/*
TestHandler_RequiresToken verifies session routes reject missing or forged tokens.
*/
func TestHandler_RequiresToken(t *testing.T) {
	h := newHarness(t, &pagedSource{})

	status, _ := h.do(http.MethodGet, "/sessions/state", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = h.do(http.MethodGet, "/sessions/state", "forged.token.value", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

/*
TestHandler_Delete verifies a deleted session is gone for its token.
*/
func TestHandler_Delete(t *testing.T) {
	h := newHarness(t, &pagedSource{})
	created := h.create()

	status, _ := h.do(http.MethodDelete, "/sessions/", created.Token, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body := h.do(http.MethodGet, "/sessions/state", created.Token, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

/*
TestHandler_OverlappingLoadConflicts verifies ErrBusy maps to 409.
*/
func TestHandler_OverlappingLoadConflicts(t *testing.T) {
	source := &pagedSource{gate: make(chan struct{})}
	h := newHarness(t, source)
	created := h.create()

	source.entered = make(chan int, 1)
	done := make(chan int, 1)
	go func() {
		status, _ := h.do(http.MethodPost, "/sessions/next", created.Token, "")
		done <- status
	}()
	require.Equal(t, 2, <-source.entered)

	status, body := h.do(http.MethodPost, "/sessions/load", created.Token, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body.Code)

	close(source.gate)
	assert.Equal(t, http.StatusOK, <-done)
}

/*
TestHandler_StreamEvents verifies the event stream delivers state changes.
*/
func TestHandler_StreamEvents(t *testing.T) {
	h := newHarness(t, &pagedSource{})
	created := h.create()

	server := httptest.NewServer(h.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/sessions/events?token="+created.Token, nil)
	require.NoError(t, err)
	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "text/event-stream", response.Header.Get("Content-Type"))

	events := make(chan session.StateView)
	go func() {
		scanner := bufio.NewScanner(response.Body)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue
			}
			var view session.StateView
			if json.Unmarshal([]byte(data), &view) == nil {
				select {
				case events <- view:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	first := <-events
	assert.Equal(t, "loaded", first.Kind)
	assert.Len(t, first.Characters, 2)

	status, _ := h.do(http.MethodPut, "/sessions/filter", created.Token, `{"species":"Human"}`)
	require.Equal(t, http.StatusOK, status)

	require.Eventually(t, func() bool {
		select {
		case view := <-events:
			return len(view.Characters) == 1 && view.Characters[0].Name == "Rick Sanchez"
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
