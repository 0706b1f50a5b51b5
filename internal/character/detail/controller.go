// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package detail implements the single-character detail controller.
package detail

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/taibuivan/rickmorty/internal/character"
	"github.com/taibuivan/rickmorty/pkg/observable"
)

// ErrBusy is returned when a load is requested while another is in flight.
var ErrBusy = errors.New("detail: a fetch is already in flight")

// Finder is the capability the controller consumes.
type Finder interface {
	FetchCharacter(ctx context.Context, id int) (character.Character, error)
}

// State is a closed sum type: [Loading], [Loaded] or [Failed].
type State interface {
	isDetailState()
}

// Loading means the character has not arrived yet. ID is zero before the
// first load.
type Loading struct {
	ID int
}

// Loaded carries the fetched character.
type Loaded struct {
	Character character.Character
}

// Failed carries the requested ID and a human-readable reason.
type Failed struct {
	ID     int
	Reason string
}

func (Loading) isDetailState() {}
func (Loaded) isDetailState()  {}
func (Failed) isDetailState()  {}

// TargetID returns the character ID a state refers to.
func TargetID(state State) int {
	switch state := state.(type) {
	case Loading:
		return state.ID
	case Loaded:
		return state.Character.ID
	case Failed:
		return state.ID
	default:
		return 0
	}
}

// Controller loads one character at a time and publishes its [State].
type Controller struct {
	finder Finder
	logger *slog.Logger
	state  *observable.Value[State]

	mu       sync.Mutex
	inFlight bool
}

// New constructs a [Controller] in the [Loading] state.
func New(finder Finder, logger *slog.Logger) *Controller {
	return &Controller{
		finder: finder,
		logger: logger,
		state:  observable.New[State](Loading{}),
	}
}

/*
Load fetches the character with the given ID.

It publishes [Loading], then [Loaded] or [Failed]. A 404 from the upstream is
reported as "Character not found".

Returns:
  - error: ErrBusy, or the classified fetch error (state already published)
*/
func (controller *Controller) Load(ctx context.Context, id int) error {
	controller.mu.Lock()
	if controller.inFlight {
		controller.mu.Unlock()
		return ErrBusy
	}
	controller.inFlight = true
	controller.state.Set(Loading{ID: id})
	controller.mu.Unlock()

	result, err := controller.finder.FetchCharacter(ctx, id)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.inFlight = false

	if err != nil {
		controller.state.Set(Failed{ID: id, Reason: reason(err)})
		controller.logger.WarnContext(ctx, "detail_fetch_failed",
			slog.Int("id", id),
			slog.String("kind", character.KindOf(err).String()),
			slog.Any("error", err),
		)
		return err
	}

	controller.state.Set(Loaded{Character: result})
	return nil
}

// State returns the currently published state.
func (controller *Controller) State() State {
	return controller.state.Get()
}

// Subscribe registers an observer; call cancel when it goes away.
func (controller *Controller) Subscribe() (<-chan State, func()) {
	return controller.state.Subscribe()
}

// Close terminates every subscription.
func (controller *Controller) Close() {
	controller.state.Close()
}

func reason(err error) string {
	var fe *character.FetchError
	if errors.As(err, &fe) && fe.NotFound() {
		return character.ReasonNotFound
	}
	return character.Reason(err)
}
