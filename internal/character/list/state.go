// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package list

import "github.com/taibuivan/rickmorty/internal/character"

// # List State

// State is the value published to rendering layers.
//
// It is a closed sum type: the only implementations are [Loading], [Loaded]
// and [Failed]. Renderers should use an exhaustive type switch.
type State interface {
	isListState()
}

// Loading means no data is available yet.
type Loading struct{}

// Loaded carries the visible (filtered) characters.
type Loaded struct {
	Visible []character.Character
	// HasNext reports whether the upstream advertised another page.
	HasNext bool
}

// Failed carries a human-readable reason for the last failed fetch.
type Failed struct {
	Reason string
}

func (Loading) isListState() {}
func (Loaded) isListState()  {}
func (Failed) isListState()  {}

// Wire names for each variant.
const (
	KindLoading = "loading"
	KindLoaded  = "loaded"
	KindFailed  = "failed"
)

// Kind returns the wire name of state.
func Kind(state State) string {
	switch state.(type) {
	case Loaded:
		return KindLoaded
	case Failed:
		return KindFailed
	default:
		return KindLoading
	}
}
