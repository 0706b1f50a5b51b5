// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"log/slog"
)

// # Repository

// Repository decorates a [Source] with a write-through [Archive].
//
// Every successful fetch is persisted so the catalogue of seen characters
// can be browsed without contacting the upstream. Archive failures never
// fail the fetch; they are logged and dropped.
type Repository struct {
	source  Source
	archive Archive
	logger  *slog.Logger
}

// NewRepository constructs a [Repository].
func NewRepository(source Source, archive Archive, logger *slog.Logger) *Repository {
	return &Repository{
		source:  source,
		archive: archive,
		logger:  logger,
	}
}

// FetchPage fetches from the source and archives the result.
func (repository *Repository) FetchPage(ctx context.Context, page int) (Page, error) {
	result, err := repository.source.FetchPage(ctx, page)
	if err != nil {
		return Page{}, err
	}

	repository.archiveAll(ctx, result.Characters)
	return result, nil
}

/*
FetchCharacter fetches from the source and archives the result.

When the upstream is unavailable (server or data error) the archived copy is
served instead. Client errors, 404 included, are returned as-is.
*/
func (repository *Repository) FetchCharacter(ctx context.Context, id int) (Character, error) {
	result, err := repository.source.FetchCharacter(ctx, id)
	if err != nil {
		if KindOf(err) == KindClient {
			return Character{}, err
		}

		archived, findErr := repository.archive.FindByID(ctx, id)
		if findErr != nil {
			return Character{}, err
		}

		repository.logger.WarnContext(ctx, "character_served_from_archive",
			slog.Int("id", id),
			slog.Any("error", err),
		)
		return *archived, nil
	}

	repository.archiveAll(ctx, []Character{result})
	return result, nil
}

/*
ListArchived returns a window of archived characters matching filter.

Parameters:
  - ctx: context.Context
  - filter: Filter (species/status constraints)
  - limit: int (Max records to return)
  - offset: int (Pagination cursor)

Returns:
  - []Character: Matching characters ordered by ID
  - int: Total number of matches (for pagination metadata)
  - error: Storage failures
*/
func (repository *Repository) ListArchived(ctx context.Context, filter Filter, limit, offset int) ([]Character, int, error) {
	return repository.archive.List(ctx, filter, limit, offset)
}

func (repository *Repository) archiveAll(ctx context.Context, characters []Character) {
	if err := repository.archive.UpsertMany(ctx, characters); err != nil {
		repository.logger.WarnContext(ctx, "character_archive_failed",
			slog.Int("count", len(characters)),
			slog.Any("error", err),
		)
	}
}
