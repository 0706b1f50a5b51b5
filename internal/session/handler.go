// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/rickmorty/internal/character"
	"github.com/taibuivan/rickmorty/internal/character/list"
	"github.com/taibuivan/rickmorty/internal/platform/apperr"
	"github.com/taibuivan/rickmorty/internal/platform/constants"
	"github.com/taibuivan/rickmorty/internal/platform/ctxutil"
	"github.com/taibuivan/rickmorty/internal/platform/middleware"
	requestutil "github.com/taibuivan/rickmorty/internal/platform/request"
	"github.com/taibuivan/rickmorty/internal/platform/respond"
	"github.com/taibuivan/rickmorty/internal/platform/validate"
)

// Tokens issues and verifies session handles.
type Tokens interface {
	middleware.SessionVerifier
	Issue(sessionID string) (string, error)
}

// Handler exposes sessions over HTTP.
type Handler struct {
	baseCtx        context.Context
	registry       *Registry
	tokens         Tokens
	requestTimeout time.Duration
	logger         *slog.Logger
}

/*
NewHandler constructs a [Handler].

Parameters:
  - ctx: Server lifetime; bounds the first-page load started on creation
  - registry: *Registry
  - tokens: Tokens
  - requestTimeout: Deadline for every route except the event stream
  - logger: *slog.Logger
*/
func NewHandler(ctx context.Context, registry *Registry, tokens Tokens, requestTimeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		baseCtx:        ctx,
		registry:       registry,
		tokens:         tokens,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// RegisterRoutes mounts the session routes on router.
//
// The event stream is the only route without the request deadline.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(timed chi.Router) {
		timed.Use(chimw.Timeout(handler.requestTimeout))

		timed.Post("/", handler.createSession)

		timed.Group(func(owned chi.Router) {
			owned.Use(middleware.RequireSession(handler.tokens))

			owned.Get("/state", handler.getState)
			owned.Post("/load", handler.loadFirstPage)
			owned.Post("/next", handler.loadNextPage)
			owned.Put("/filter", handler.setFilter)
			owned.Delete("/", handler.deleteSession)
		})
	})

	router.With(middleware.RequireSession(handler.tokens)).Get("/events", handler.streamEvents)
}

// # Wire Types

// StateView is the JSON rendering of a session's list.
type StateView struct {
	Kind       string                `json:"kind"`
	Characters []character.Character `json:"characters,omitempty"`
	HasNext    *bool                 `json:"has_next,omitempty"`
	Reason     string                `json:"reason,omitempty"`
	Page       int                   `json:"page"`
	Filter     character.Filter      `json:"filter"`
}

// Created is the response body of POST /.
type Created struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// FilterInput is the request body of PUT /filter. Null clears a constraint.
type FilterInput struct {
	Species *string `json:"species"`
	Status  *string `json:"status"`
}

// NewStateView renders state together with the controller's cursor and filter.
func NewStateView(state list.State, page int, filter character.Filter) StateView {
	view := StateView{Kind: list.Kind(state), Page: page, Filter: filter}

	switch s := state.(type) {
	case list.Loaded:
		view.Characters = s.Visible
		if view.Characters == nil {
			view.Characters = []character.Character{}
		}
		hasNext := s.HasNext
		view.HasNext = &hasNext
	case list.Failed:
		view.Reason = s.Reason
	case list.Loading:
	}
	return view
}

func viewOf(controller *list.Controller) StateView {
	return NewStateView(controller.State(), controller.Page(), controller.Filter())
}

// # Handlers

func (handler *Handler) createSession(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.registry.Create(request.Context())
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	token, err := handler.tokens.Issue(session.ID)
	if err != nil {
		handler.registry.Delete(session.ID)
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	go handler.loadInBackground(session)

	respond.Created(writer, Created{ID: session.ID, Token: token})
}

// loadInBackground requests the first page the way a freshly opened screen would.
func (handler *Handler) loadInBackground(session *Session) {
	ctx, cancel := context.WithTimeout(handler.baseCtx, constants.BackgroundLoadTimeout)
	defer cancel()

	if err := session.Controller.LoadFirstPage(ctx); err != nil && !errors.Is(err, list.ErrBusy) {
		handler.logger.WarnContext(ctx, "session_initial_load_failed",
			slog.String("session_id", session.ID),
			slog.Any("error", err),
		)
	}
}

func (handler *Handler) getState(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, viewOf(session.Controller))
}

// loadFirstPage handles POST /load. A failed fetch still answers 200: the
// failure is part of the returned state.
func (handler *Handler) loadFirstPage(writer http.ResponseWriter, request *http.Request) {
	handler.runLoad(writer, request, (*list.Controller).LoadFirstPage)
}

func (handler *Handler) loadNextPage(writer http.ResponseWriter, request *http.Request) {
	handler.runLoad(writer, request, (*list.Controller).LoadNextPage)
}

func (handler *Handler) runLoad(writer http.ResponseWriter, request *http.Request, load func(*list.Controller, context.Context) error) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := load(session.Controller, request.Context()); errors.Is(err, list.ErrBusy) {
		respond.Error(writer, request, apperr.Conflict("A page is already loading for this session"))
		return
	}

	respond.OK(writer, viewOf(session.Controller))
}

func (handler *Handler) setFilter(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input FilterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Optional(character.FieldSpecies, input.Species, constants.MaxFilterLength).
		Optional(character.FieldStatus, input.Status, constants.MaxFilterLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session.Controller.SetFilter(character.Filter{Species: input.Species, Status: input.Status})

	respond.OK(writer, viewOf(session.Controller))
}

func (handler *Handler) deleteSession(writer http.ResponseWriter, request *http.Request) {
	if !handler.registry.Delete(ctxutil.GetSessionID(request.Context())) {
		respond.Error(writer, request, apperr.NotFound("Session"))
		return
	}
	respond.NoContent(writer)
}

/*
streamEvents handles GET /events as a Server-Sent Events stream.

Every published state is sent as an "state" event carrying a [StateView].
The stream ends when the client disconnects or the session is deleted or
evicted.
*/
func (handler *Handler) streamEvents(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	controller := http.NewResponseController(writer)
	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	writer.WriteHeader(http.StatusOK)

	states, cancel := session.Controller.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(constants.StreamHeartbeatInterval)
	defer heartbeat.Stop()

	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case state, ok := <-states:
			if !ok {
				return
			}
			session.Touch(time.Now())

			payload, err := json.Marshal(NewStateView(state, session.Controller.Page(), session.Controller.Filter()))
			if err != nil {
				logger.ErrorContext(ctx, "session_event_encode_failed", slog.Any("error", err))
				return
			}
			if _, err := fmt.Fprintf(writer, "event: state\ndata: %s\n\n", payload); err != nil {
				return
			}
			if err := controller.Flush(); err != nil {
				return
			}

		case <-heartbeat.C:
			session.Touch(time.Now())
			if _, err := fmt.Fprint(writer, ": ping\n\n"); err != nil {
				return
			}
			if err := controller.Flush(); err != nil {
				return
			}
		}
	}
}

// session resolves the session named by the verified token.
func (handler *Handler) session(request *http.Request) (*Session, error) {
	session, ok := handler.registry.Get(ctxutil.GetSessionID(request.Context()))
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}
