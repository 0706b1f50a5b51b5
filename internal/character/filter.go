// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"golang.org/x/text/cases"

	"github.com/taibuivan/rickmorty/pkg/pointer"
	"github.com/taibuivan/rickmorty/pkg/slice"
)

// # Client-side Filtering

// Filter is an optional species and status constraint, combined with AND.
//
// A nil field places no constraint on that attribute. Matching is exact after
// Unicode case folding, so "human", "HUMAN" and "Human" are equivalent.
type Filter struct {
	Species *string `json:"species"`
	Status  *string `json:"status"`
}

// Match reports whether c satisfies every active constraint.
func (f Filter) Match(c Character) bool {
	return f.matcher()(c)
}

// matcher binds a fresh caser to f. A cases.Caser is stateful and must not be
// shared between goroutines.
func (f Filter) matcher() func(Character) bool {
	folder := cases.Fold()
	equalFold := func(want *string, got string) bool {
		if want == nil {
			return true
		}
		return folder.String(*want) == folder.String(got)
	}

	return func(c Character) bool {
		return equalFold(f.Species, c.Species) && equalFold(f.Status, c.Status)
	}
}

// Apply returns the order-preserving subset of characters that match f.
//
// The input is never modified and the result never aliases it.
func (f Filter) Apply(characters []Character) []Character {
	if f.IsEmpty() {
		out := make([]Character, len(characters))
		copy(out, characters)
		return out
	}

	return slice.Filter(characters, f.matcher())
}

// IsEmpty reports whether the filter places no constraint at all.
func (f Filter) IsEmpty() bool {
	return f.Species == nil && f.Status == nil
}

// WithSpecies returns a copy of f with the species constraint replaced.
func (f Filter) WithSpecies(species *string) Filter {
	f.Species = pointer.Clone(species)
	return f
}

// WithStatus returns a copy of f with the status constraint replaced.
func (f Filter) WithStatus(status *string) Filter {
	f.Status = pointer.Clone(status)
	return f
}
