// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package character defines the character catalogue domain: the immutable
[Character] value, the remote data source that pages through the public
Rick and Morty API, and the storage adapters layered on top of it.

Architecture:

  - [Client] is the leaf source and speaks HTTP to the upstream API.
  - [CachedSource] decorates any source with a Redis page cache.
  - [Repository] decorates any source with a write-through Postgres archive.

Every layer satisfies the same two methods (FetchPage, FetchCharacter), so the
list and detail controllers never know which combination they are talking to.
*/
package character

import (
	"context"
	"time"
)

// # Domain Model

// Character is a single record returned by the character API.
//
// It is treated as an immutable value once constructed: callers must not
// mutate the Episodes slice of a shared Character.
type Character struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`  // Alive, Dead or unknown
	Species  string    `json:"species"` // Human, Alien, ...
	Type     string    `json:"type"`
	Gender   string    `json:"gender"`
	Origin   Location  `json:"origin"`
	Location Location  `json:"location"`
	Image    string    `json:"image"`
	Episodes []string  `json:"episodes"`
	URL      string    `json:"url"`
	Created  time.Time `json:"created"`
}

// Location is a named place reference (origin or last known location).
type Location struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page is one bounded batch of characters for a 1-based page index.
type Page struct {
	Number     int         `json:"number"`
	Characters []Character `json:"characters"`
	HasNext    bool        `json:"has_next"`
	TotalPages int         `json:"total_pages"`
	TotalCount int         `json:"total_count"`
}

// # Source Contract

// Source is the full character data source contract.
//
// Page numbering is 1-based. Failures are returned as [*FetchError].
type Source interface {
	FetchPage(ctx context.Context, page int) (Page, error)
	FetchCharacter(ctx context.Context, id int) (Character, error)
}

// # Field Identifiers

const (
	FieldSpecies = "species"
	FieldStatus  = "status"
)
