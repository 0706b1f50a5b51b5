// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/rickmorty/internal/platform/database/schema"
	"github.com/taibuivan/rickmorty/internal/platform/dberr"
)

// # Archive Contract

// Archive persists every character the service has seen.
type Archive interface {
	UpsertMany(ctx context.Context, characters []Character) error
	FindByID(ctx context.Context, id int) (*Character, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Character, int, error)
}

// PostgresArchive implements [Archive] using a pgx pool.
type PostgresArchive struct {
	db *pgxpool.Pool
}

// NewPostgresArchive creates a new Postgres-backed [Archive].
func NewPostgresArchive(db *pgxpool.Pool) *PostgresArchive {
	return &PostgresArchive{db: db}
}

var characterColumns = strings.Join(schema.CatalogCharacter.Columns(), ", ")

/*
UpsertMany inserts or refreshes a batch of characters in one transaction.

Parameters:
  - ctx: context.Context
  - characters: []Character

Returns:
  - error: Storage failures wrapped by dberr
*/
func (archive *PostgresArchive) UpsertMany(ctx context.Context, characters []Character) error {
	if len(characters) == 0 {
		return nil
	}

	c := schema.CatalogCharacter
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = now()
	`,
		c.Table, characterColumns, c.ID,
		c.Name, c.Name, c.Status, c.Status, c.Species, c.Species,
		c.Type, c.Type, c.Gender, c.Gender, c.OriginName, c.OriginName,
		c.OriginURL, c.OriginURL, c.LocationName, c.LocationName, c.LocationURL, c.LocationURL,
		c.Image, c.Image, c.Episodes, c.Episodes, c.URL, c.URL,
		c.CreatedAt, c.CreatedAt, c.ArchivedAt,
	)

	batch := &pgx.Batch{}
	for _, ch := range characters {
		// A nil slice encodes as NULL, which the column rejects.
		episodes := ch.Episodes
		if episodes == nil {
			episodes = []string{}
		}

		batch.Queue(query,
			ch.ID, ch.Name, ch.Status, ch.Species, ch.Type, ch.Gender,
			ch.Origin.Name, ch.Origin.URL, ch.Location.Name, ch.Location.URL,
			ch.Image, episodes, ch.URL, ch.Created,
		)
	}

	return pgx.BeginFunc(ctx, archive.db, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for range characters {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return dberr.Wrap(err, "upsert_character")
			}
		}
		return dberr.Wrap(results.Close(), "upsert_character_batch")
	})
}

/*
FindByID fetches a single archived character.

Returns:
  - *Character: The archived value
  - error: dberr.ErrNotFound when absent
*/
func (archive *PostgresArchive) FindByID(ctx context.Context, id int) (*Character, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		characterColumns, schema.CatalogCharacter.Table, schema.CatalogCharacter.ID)

	character, err := scanCharacter(archive.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_character_by_id")
	}
	return character, nil
}

/*
List returns archived characters matching filter, ordered by ID.

Species and status comparisons are case-insensitive, matching [Filter.Match]
for ASCII values.

Returns:
  - []Character: The requested window
  - int: Total number of matching rows
  - error: Storage failures wrapped by dberr
*/
func (archive *PostgresArchive) List(ctx context.Context, filter Filter, limit, offset int) ([]Character, int, error) {
	c := schema.CatalogCharacter

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE TRUE`,
		characterColumns, c.Table))

	if filter.Species != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND lower(%s) = lower($%d)", c.Species, argID))
		args = append(args, *filter.Species)
		argID++
	}

	if filter.Status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND lower(%s) = lower($%d)", c.Status, argID))
		args = append(args, *filter.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", c.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := archive.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_characters")
	}
	defer rows.Close()

	characters := make([]Character, 0, limit)
	total := 0

	for rows.Next() {
		var ch Character
		if err := rows.Scan(append(scanTargets(&ch), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_character")
		}
		characters = append(characters, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_characters_rows")
	}

	return characters, total, nil
}

func scanCharacter(row pgx.Row) (*Character, error) {
	var ch Character
	if err := row.Scan(scanTargets(&ch)...); err != nil {
		return nil, err
	}
	return &ch, nil
}

// scanTargets returns pointers in [schema.CatalogCharacterTable.Columns] order.
func scanTargets(ch *Character) []any {
	return []any{
		&ch.ID, &ch.Name, &ch.Status, &ch.Species, &ch.Type, &ch.Gender,
		&ch.Origin.Name, &ch.Origin.URL, &ch.Location.Name, &ch.Location.URL,
		&ch.Image, &ch.Episodes, &ch.URL, &ch.Created,
	}
}
