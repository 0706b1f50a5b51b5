// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tui is the terminal front-end for the character browser.

It owns one list controller and one detail controller and renders whatever
state they publish. Controller updates reach the bubbletea loop through
commands that block on the subscription channels.
*/
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taibuivan/rickmorty/internal/character"
	"github.com/taibuivan/rickmorty/internal/character/detail"
	"github.com/taibuivan/rickmorty/internal/character/list"
	"github.com/taibuivan/rickmorty/pkg/pointer"
)

// Filter choices cycled by the s and a keys. The empty string clears.
var (
	speciesChoices = []string{"", "Human", "Alien", "Humanoid", "Robot"}
	statusChoices  = []string{"", "Alive", "Dead", "unknown"}
)

type screen int

const (
	screenList screen = iota
	screenDetail
)

// # Messages

type listStateMsg struct{ state list.State }

type detailStateMsg struct{ state detail.State }

// loadDoneMsg reports how a triggered load ended. Successful and failed
// fetches are already visible through the subscription; only a busy list
// needs surfacing. A busy detail load is retried once the running fetch
// publishes its result.
type loadDoneMsg struct{ err error }

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	logger *slog.Logger

	list   *list.Controller
	detail *detail.Controller

	listUpdates   <-chan list.State
	detailUpdates <-chan detail.State
	unsubscribe   []func()

	listState   list.State
	detailState detail.State

	screen   screen
	cursor   int
	detailID int
	// lastLoadNext is set while the most recent list load was a next-page
	// load, so that n retries the same page after a failure.
	lastLoadNext bool
	species  int
	status   int
	flash    string
	width    int
	height   int
}

// New builds a model over source. ctx bounds every fetch the model starts.
func New(ctx context.Context, source character.Source, logger *slog.Logger) Model {
	listController := list.New(source, logger)
	detailController := detail.New(source, logger)

	listUpdates, cancelList := listController.Subscribe()
	detailUpdates, cancelDetail := detailController.Subscribe()

	return Model{
		ctx:           ctx,
		logger:        logger,
		list:          listController,
		detail:        detailController,
		listUpdates:   listUpdates,
		detailUpdates: detailUpdates,
		unsubscribe:   []func(){cancelList, cancelDetail},
		listState:     listController.State(),
		detailState:   detailController.State(),
		height:        24,
	}
}

// Close releases both controllers. Pending subscription commands return.
func (m Model) Close() {
	for _, cancel := range m.unsubscribe {
		cancel()
	}
	m.list.Close()
	m.detail.Close()
}

// Init starts both subscriptions and the first page load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForList(m.listUpdates),
		waitForDetail(m.detailUpdates),
		m.loadFirstPage(),
	)
}

// # Commands

func waitForList(updates <-chan list.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return listStateMsg{state: state}
	}
}

func waitForDetail(updates <-chan detail.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return detailStateMsg{state: state}
	}
}

func (m Model) loadFirstPage() tea.Cmd {
	controller, ctx := m.list, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{err: controller.LoadFirstPage(ctx)}
	}
}

func (m Model) loadNextPage() tea.Cmd {
	controller, ctx := m.list, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{err: controller.LoadNextPage(ctx)}
	}
}

func (m Model) loadDetail(id int) tea.Cmd {
	controller, ctx := m.detail, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{err: controller.Load(ctx, id)}
	}
}

// # Update

// Update handles controller states, window size and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listStateMsg:
		m.listState = msg.state
		m.clampCursor()
		return m, waitForList(m.listUpdates)

	case detailStateMsg:
		wait := waitForDetail(m.detailUpdates)
		if detail.TargetID(msg.state) == m.detailID {
			m.detailState = msg.state
			return m, wait
		}

		// A fetch for a previously opened character finished. The load for
		// the current one was rejected while it ran, so start it now.
		_, stillLoading := m.detailState.(detail.Loading)
		_, staleLoading := msg.state.(detail.Loading)
		if m.screen == screenDetail && stillLoading && !staleLoading {
			return m, tea.Batch(wait, m.loadDetail(m.detailID))
		}
		return m, wait

	case loadDoneMsg:
		if errors.Is(msg.err, list.ErrBusy) {
			m.flash = "Still loading, try again in a moment"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	if m.screen == screenDetail {
		switch msg.String() {
		case "esc", "backspace":
			m.screen = screenList
		case "r":
			return m, m.loadDetail(m.detailID)
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case "n":
		switch state := m.listState.(type) {
		case list.Loaded:
			if state.HasNext {
				m.lastLoadNext = true
				return m, m.loadNextPage()
			}
		case list.Failed:
			if m.lastLoadNext {
				return m, m.loadNextPage()
			}
		}
	case "r":
		m.lastLoadNext = false
		return m, m.loadFirstPage()
	case "s":
		m.species = (m.species + 1) % len(speciesChoices)
		m.list.SetSpeciesFilter(choice(speciesChoices, m.species))
	case "a":
		m.status = (m.status + 1) % len(statusChoices)
		m.list.SetStatusFilter(choice(statusChoices, m.status))
	case "enter":
		if selected, ok := m.selected(); ok {
			m.screen = screenDetail
			m.detailID = selected.ID
			m.detailState = detail.Loading{ID: selected.ID}
			m.logger.Debug("tui_detail_opened", slog.Int("id", selected.ID))
			return m, m.loadDetail(selected.ID)
		}
	}
	return m, nil
}

// selected returns the character under the cursor, if the list is showing any.
func (m Model) selected() (character.Character, bool) {
	loaded, ok := m.listState.(list.Loaded)
	if !ok || m.cursor < 0 || m.cursor >= len(loaded.Visible) {
		return character.Character{}, false
	}
	return loaded.Visible[m.cursor], true
}

func (m *Model) clampCursor() {
	loaded, ok := m.listState.(list.Loaded)
	if !ok || len(loaded.Visible) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(m.cursor, len(loaded.Visible)-1))
}

func choice(choices []string, index int) *string {
	if choices[index] == "" {
		return nil
	}
	return pointer.To(choices[index])
}

// # View

// View renders the active screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Rick and Morty characters"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(m.filterSummary()))
	b.WriteString("\n\n")

	switch m.screen {
	case screenDetail:
		b.WriteString(m.viewDetail())
	default:
		b.WriteString(m.viewList())
	}

	if m.flash != "" {
		b.WriteString("\n")
		b.WriteString(flashStyle.Render(m.flash))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) filterSummary() string {
	species := pointer.Fallback(choice(speciesChoices, m.species), "any")
	status := pointer.Fallback(choice(statusChoices, m.status), "any")
	return fmt.Sprintf("species: %s  status: %s  page: %d", species, status, m.list.Page())
}

func (m Model) viewList() string {
	switch state := m.listState.(type) {
	case list.Loading:
		return dimStyle.Render("Loading characters...") + "\n"

	case list.Failed:
		hint := "Press r to retry."
		if m.lastLoadNext {
			hint = fmt.Sprintf("Press n to retry page %d or r to reload from the first page.", m.list.Page()+1)
		}
		return errorStyle.Render("Could not load characters: "+state.Reason) + "\n" +
			dimStyle.Render(hint) + "\n"

	case list.Loaded:
		var b strings.Builder
		if len(state.Visible) == 0 {
			b.WriteString(dimStyle.Render("No characters match the filter."))
			b.WriteString("\n")
		}

		start, end := m.window(len(state.Visible))
		for i := start; i < end; i++ {
			b.WriteString(m.renderRow(state.Visible[i], i == m.cursor))
			b.WriteString("\n")
		}

		if state.HasNext {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%d shown, press n for more", len(state.Visible))))
		} else {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%d shown, end of list", len(state.Visible))))
		}
		b.WriteString("\n")
		return b.String()

	default:
		panic(fmt.Sprintf("tui: unexpected list state %T", state))
	}
}

// window keeps the cursor visible within the rows the terminal can show.
func (m Model) window(total int) (int, int) {
	rows := max(m.height-8, 5)
	if total <= rows {
		return 0, total
	}
	start := max(0, m.cursor-rows/2)
	end := min(total, start+rows)
	return end - rows, end
}

func (m Model) renderRow(c character.Character, active bool) string {
	marker := "  "
	style := rowStyle
	if active {
		marker = "> "
		style = cursorStyle
	}
	return marker + style.Render(fmt.Sprintf("%-32s %-14s", c.Name, c.Species)) + " " +
		statusStyle(c.Status).Render(c.Status)
}

func (m Model) viewDetail() string {
	switch state := m.detailState.(type) {
	case detail.Loading:
		return dimStyle.Render("Loading character...") + "\n"

	case detail.Failed:
		return errorStyle.Render("Could not load character: "+state.Reason) + "\n" +
			dimStyle.Render("Press r to retry or esc to go back.") + "\n"

	case detail.Loaded:
		c := state.Character
		lines := []string{
			titleStyle.Render(c.Name),
			field("Status", statusStyle(c.Status).Render(c.Status)),
			field("Species", c.Species),
			field("Type", c.Type),
			field("Gender", c.Gender),
			field("Origin", c.Origin.Name),
			field("Location", c.Location.Name),
			field("Episodes", fmt.Sprintf("%d", len(c.Episodes))),
		}
		return panelStyle.Render(strings.Join(lines, "\n")) + "\n"

	default:
		panic(fmt.Sprintf("tui: unexpected detail state %T", state))
	}
}

func field(label, value string) string {
	if value == "" {
		value = dimStyle.Render("-")
	}
	return labelStyle.Render(label) + value
}

func (m Model) help() string {
	if m.screen == screenDetail {
		return "esc back  r retry  q quit"
	}
	return "j/k move  enter open  n next page  r reload  s species  a status  q quit"
}
