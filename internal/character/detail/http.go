// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package detail

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/rickmorty/internal/character"
	"github.com/taibuivan/rickmorty/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/rickmorty/internal/platform/request"
	"github.com/taibuivan/rickmorty/internal/platform/respond"
)

// Handler serves single-character lookups through a per-request [Controller].
type Handler struct {
	finder Finder
}

// NewHandler constructs a [Handler].
func NewHandler(finder Finder) *Handler {
	return &Handler{finder: finder}
}

// RegisterRoutes mounts GET /{id} on router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{id}", handler.getCharacter)
}

func (handler *Handler) getCharacter(writer http.ResponseWriter, request *http.Request) {
	characterID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	controller := New(handler.finder, ctxutil.GetLogger(request.Context()))
	defer controller.Close()

	if err := controller.Load(request.Context(), characterID); err != nil {
		respond.Error(writer, request, character.ToAppError(err))
		return
	}

	switch state := controller.State().(type) {
	case Loaded:
		respond.OK(writer, state.Character)
	default:
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "detail_unexpected_state",
			slog.Int("id", characterID),
		)
		respond.Error(writer, request, character.ToAppError(&character.FetchError{Kind: character.KindData, Op: "fetch_character"}))
	}
}
