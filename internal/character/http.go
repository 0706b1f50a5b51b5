// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/rickmorty/internal/platform/constants"
	requestutil "github.com/taibuivan/rickmorty/internal/platform/request"
	"github.com/taibuivan/rickmorty/internal/platform/respond"
	"github.com/taibuivan/rickmorty/internal/platform/validate"
	"github.com/taibuivan/rickmorty/pkg/pagination"
)

// ArchiveLister is the read side of the archive the handler needs.
type ArchiveLister interface {
	ListArchived(ctx context.Context, filter Filter, limit, offset int) ([]Character, int, error)
}

// ArchiveHandler serves the archived character catalogue.
type ArchiveHandler struct {
	archive ArchiveLister
}

// NewArchiveHandler constructs an [ArchiveHandler].
func NewArchiveHandler(archive ArchiveLister) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

// RegisterRoutes mounts GET / on router.
func (handler *ArchiveHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listCharacters)
}

/*
listCharacters handles GET /api/v1/characters.

Query:
  - species, status: optional, case-insensitive exact match
  - page, limit: see [pagination.FromRequest]
*/
func (handler *ArchiveHandler) listCharacters(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Species: requestutil.OptionalQuery(request, FieldSpecies),
		Status:  requestutil.OptionalQuery(request, FieldStatus),
	}

	validator := &validate.Validator{}
	validator.
		Optional(FieldSpecies, filter.Species, constants.MaxFilterLength).
		Optional(FieldStatus, filter.Status, constants.MaxFilterLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	characters, total, err := handler.archive.ListArchived(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, characters, pagination.NewMeta(paginationParams, total))
}
