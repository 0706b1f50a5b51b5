// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package list implements the paginated character list controller.

The controller owns the pagination cursor, the accumulated result set, the
active filter and the derived visible list, and publishes a single [State]
value that rendering layers observe.

Invariants:

  - Visible is always Accumulated filtered by the active filter, recomputed
    from scratch whenever either changes.
  - The page cursor only moves forward on a successful fetch. A failed
    next-page load rolls the optimistic increment back, so a retry targets
    the same page.
  - At most one fetch is in flight; overlapping loads return [ErrBusy].
*/
package list

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/taibuivan/rickmorty/internal/character"
	"github.com/taibuivan/rickmorty/pkg/observable"
)

// ErrBusy is returned when a load is requested while another is in flight.
var ErrBusy = errors.New("list: a fetch is already in flight")

// firstPage is the 1-based index of the first page.
const firstPage = 1

// PageSource is the capability the controller consumes.
type PageSource interface {
	FetchPage(ctx context.Context, page int) (character.Page, error)
}

// Controller is the character list state machine.
//
// # Concurrency
//
// All methods are safe for concurrent use. The network call runs outside the
// lock; mutation of page, accumulated and filter plus the publish happen in
// one critical section so observers see states in mutation order.
type Controller struct {
	source PageSource
	logger *slog.Logger
	state  *observable.Value[State]

	mu          sync.Mutex
	page        int
	accumulated []character.Character
	filter      character.Filter
	hasNext     bool
	inFlight    bool
}

// New constructs a [Controller] in the [Loading] state with page 1.
func New(source PageSource, logger *slog.Logger) *Controller {
	return &Controller{
		source: source,
		logger: logger,
		state:  observable.New[State](Loading{}),
		page:   firstPage,
	}
}

// # Commands

/*
LoadFirstPage fetches page 1 and replaces the accumulated set.

It publishes [Loading] first, then [Loaded] or [Failed]. On failure the page
cursor and accumulated set keep their prior values.

Returns:
  - error: ErrBusy, or the classified fetch error (state already published)
*/
func (controller *Controller) LoadFirstPage(ctx context.Context) error {
	controller.mu.Lock()
	if controller.inFlight {
		controller.mu.Unlock()
		return ErrBusy
	}
	controller.inFlight = true
	controller.state.Set(Loading{})
	controller.mu.Unlock()

	result, err := controller.source.FetchPage(ctx, firstPage)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.inFlight = false

	if err != nil {
		controller.fail(ctx, firstPage, err)
		return err
	}

	controller.page = firstPage
	controller.accumulated = append([]character.Character(nil), result.Characters...)
	controller.hasNext = result.HasNext
	controller.publishLoaded()

	controller.logger.InfoContext(ctx, "list_first_page_loaded",
		slog.Int("count", len(result.Characters)),
		slog.Bool("has_next", result.HasNext),
	)
	return nil
}

/*
LoadNextPage fetches the page after the current cursor and appends it.

The cursor is incremented optimistically and decremented again on failure.
The accumulated set is never touched by a failed attempt. No [Loading] state
is published, so the current list stays visible while the page loads.

Returns:
  - error: ErrBusy, or the classified fetch error (state already published)
*/
func (controller *Controller) LoadNextPage(ctx context.Context) error {
	controller.mu.Lock()
	if controller.inFlight {
		controller.mu.Unlock()
		return ErrBusy
	}
	controller.inFlight = true
	controller.page++
	target := controller.page
	controller.mu.Unlock()

	result, err := controller.source.FetchPage(ctx, target)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.inFlight = false

	if err != nil {
		controller.page--
		controller.fail(ctx, target, err)
		return err
	}

	controller.accumulated = append(controller.accumulated, result.Characters...)
	controller.hasNext = result.HasNext
	controller.publishLoaded()

	controller.logger.InfoContext(ctx, "list_page_loaded",
		slog.Int("page", target),
		slog.Int("count", len(result.Characters)),
		slog.Int("accumulated", len(controller.accumulated)),
	)
	return nil
}

// SetSpeciesFilter replaces the species constraint. Nil clears it.
func (controller *Controller) SetSpeciesFilter(species *string) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.filter = controller.filter.WithSpecies(species)
	controller.refilter()
}

// SetStatusFilter replaces the status constraint. Nil clears it.
func (controller *Controller) SetStatusFilter(status *string) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.filter = controller.filter.WithStatus(status)
	controller.refilter()
}

// SetFilter replaces both constraints at once, publishing a single state.
func (controller *Controller) SetFilter(filter character.Filter) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.filter = character.Filter{}.WithSpecies(filter.Species).WithStatus(filter.Status)
	controller.refilter()
}

// # Observation

// State returns the currently published state.
func (controller *Controller) State() State {
	return controller.state.Get()
}

// Subscribe registers an observer. The channel immediately holds the current
// state; call cancel when the observer goes away.
func (controller *Controller) Subscribe() (<-chan State, func()) {
	return controller.state.Subscribe()
}

// Close terminates every subscription.
func (controller *Controller) Close() {
	controller.state.Close()
}

// Page returns the page cursor. Outside an in-flight next-page load this is
// the highest successfully fetched page.
func (controller *Controller) Page() int {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.page
}

// Accumulated returns a copy of every character fetched so far.
func (controller *Controller) Accumulated() []character.Character {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return append([]character.Character(nil), controller.accumulated...)
}

// Filter returns the active filter.
func (controller *Controller) Filter() character.Filter {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.filter
}

// # Internals (callers hold mu)

// refilter republishes only when the list is already showing; otherwise the
// filter is applied by the next successful fetch.
func (controller *Controller) refilter() {
	if _, ok := controller.state.Get().(Loaded); ok {
		controller.publishLoaded()
	}
}

func (controller *Controller) publishLoaded() {
	controller.state.Set(Loaded{
		Visible: controller.filter.Apply(controller.accumulated),
		HasNext: controller.hasNext,
	})
}

func (controller *Controller) fail(ctx context.Context, page int, err error) {
	controller.state.Set(Failed{Reason: character.Reason(err)})

	controller.logger.WarnContext(ctx, "list_fetch_failed",
		slog.Int("page", page),
		slog.String("kind", character.KindOf(err).String()),
		slog.Any("error", err),
	)
}
