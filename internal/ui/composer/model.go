// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer provides the terminal mention composer.
package composer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-mentions/internal/config"
	"github.com/jeranaias/rigrun-mentions/internal/editor"
	"github.com/jeranaias/rigrun-mentions/internal/logging"
	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/position"
	"github.com/jeranaias/rigrun-mentions/internal/storage"
	"github.com/jeranaias/rigrun-mentions/internal/ui/components"
	"github.com/jeranaias/rigrun-mentions/internal/ui/styles"
)

// Rendered heights of the fixed chrome.
const (
	headerHeight    = 1
	statusBarHeight = 1
)

// compactWidth is the narrowest terminal that gets the boxed popup.
const compactWidth = 24

// storeTimeout bounds a single draft store operation.
const storeTimeout = 5 * time.Second

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires a composer to its collaborators. Only Config is required.
type Options struct {
	Config *config.Config

	// Triggers are the resolved trigger configs (Config.Mentions()).
	Triggers []mention.TriggerConfig

	// Store persists drafts; nil disables saving.
	Store *storage.DraftStore

	// Watcher feeds trigger data reloads; nil disables live reload.
	Watcher *config.DataWatcher

	// Draft is loaded into the input on start.
	Draft *storage.Draft

	Theme  *styles.Theme
	Logger *slog.Logger
}

// draftState is shared by every copy of the Model; the content-change
// callback writes it.
type draftState struct {
	id      string
	snap    mention.Snapshot
	dirty   bool
	changes int
}

// layout records where the last layout pass put the popup, for mouse hits.
type layout struct {
	popupAbove bool
	popupTop   int
	popupLeft  int
	compact    bool // popup drawn as a one-line hint
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the composer: a sent-message history, the
// mention input with its suggestion popup, and the chrome around them.
type Model struct {
	cfg   *config.Config
	keys  KeyMap
	theme *styles.Theme
	log   *slog.Logger

	surface *editor.MemorySurface
	ctrl    *editor.Controller

	input   *components.MentionInput
	popup   *components.SuggestionPopup
	header  *components.Header
	status  *components.StatusBar
	history *History

	viewport viewport.Model

	store   *storage.DraftStore
	watcher *config.DataWatcher
	draft   *draftState
	layout  *layout

	now func() time.Time

	width  int
	height int
}

// New creates a composer model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	draft := &draftState{}
	surface := editor.NewMemorySurface()
	ctrl := editor.New(surface, editor.Options{
		Triggers:       opts.Triggers,
		MaxSuggestions: cfg.MaxSuggestions,
		Corner:         cfg.Corner(),
		DropdownOffset: cfg.DropdownOffset,
		Disabled:       cfg.Disabled,
		Positioner:     NewCellPositioner(),
		Logger:         log,
		OnContentChange: func(markup, plain string, mentions []mention.ParsedMention) {
			draft.snap = mention.Snapshot{Markup: markup, Plain: plain, Mentions: mentions}
			draft.dirty = true
			draft.changes++
		},
	})

	keys := DefaultKeyMap()

	input := components.NewMentionInput(surface, theme)
	input.SetPlaceholder(cfg.Placeholder)
	input.SetHeights(cfg.MinHeight, maxHeight(cfg.MaxHeight))
	input.SetDisabled(cfg.Disabled)
	if !cfg.AutoFocus {
		input.Blur()
	}

	header := components.NewHeader(theme)
	header.Disabled = cfg.Disabled
	for _, t := range opts.Triggers {
		header.Triggers = append(header.Triggers, t.TriggerString())
	}

	status := components.NewStatusBar(theme)
	status.Shortcuts = keys.ShortHelp()

	m := Model{
		cfg:      cfg,
		keys:     keys,
		theme:    theme,
		log:      log,
		surface:  surface,
		ctrl:     ctrl,
		input:    input,
		popup:    components.NewSuggestionPopup(theme),
		header:   header,
		status:   status,
		history:  NewHistory(),
		viewport: viewport.New(80, 10),
		store:    opts.Store,
		watcher:  opts.Watcher,
		draft:    draft,
		layout:   &layout{},
		now:      time.Now,
		width:    80,
		height:   24,
	}

	if opts.Draft != nil {
		m.loadDraft(opts.Draft)
	}
	m.refreshHistory()
	m.relayout()
	return m
}

// NewCellPositioner returns a positioner measured in terminal cells: a one
// line gap clears the input border for input-anchored and upward popups.
func NewCellPositioner() *position.Positioner {
	p := position.New()
	p.EstimatedWidth = 32
	p.EstimatedHeight = 8
	p.BottomGap = 0
	p.TopGap = 1
	p.InputGap = 1
	return p
}

// maxHeight maps the unbounded setting (0) to a practical cap.
func maxHeight(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}

// Init starts listening for trigger data reloads.
func (m Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForReload(m.watcher)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case DataReloadMsg:
		return m.handleReload(msg)

	case watcherClosedMsg:
		m.log.Debug("data watcher closed")
		return m, nil

	case DraftSavedMsg:
		if msg.Err != nil {
			m.status.SetMessage(components.StatusError, "save failed: "+msg.Err.Error())
			m.log.Warn("draft save failed", "err", msg.Err)
			return m, nil
		}
		m.draft.id = msg.ID
		m.draft.dirty = false
		m.header.DraftID = msg.ID
		m.status.SetMessage(components.StatusSaved, "draft saved")
		return m, nil

	case DraftDeletedMsg:
		if msg.Err != nil {
			m.log.Warn("draft delete failed", "id", msg.ID, "err", msg.Err)
		}
		return m, nil
	}

	return m, nil
}

// View renders the composer.
func (m Model) View() string {
	parts := []string{m.header.View(), m.viewport.View()}

	popup := ""
	if v := m.popupView(); v != "" {
		popup = lipgloss.NewStyle().MarginLeft(m.layout.popupLeft).Render(v)
	}
	if popup != "" && m.layout.popupAbove {
		parts = append(parts, popup)
	}
	parts = append(parts, m.input.View())
	if popup != "" && !m.layout.popupAbove {
		parts = append(parts, popup)
	}
	parts = append(parts, m.status.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.header.Width = m.width
	m.status.Width = m.width
	m.input.SetWidth(m.width)

	popupWidth := 32
	if m.width < popupWidth+2 {
		popupWidth = m.width - 2
	}
	m.popup.SetWidth(popupWidth)

	m.relayout()
	m.refreshHistory()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if !m.input.Focused() {
		m.input.Focus()
	}

	// The popup gets first refusal on navigation and commit keys.
	if k, ok := m.controllerKey(msg); ok && m.ctrl.HandleKey(k) {
		m.relayout()
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Save):
		cmd = m.saveDraft()

	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		m.viewport, cmd = m.viewport.Update(msg)

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)

	case m.ctrl.Disabled():
		// Read-only: editing keys are swallowed.

	case key.Matches(msg, m.keys.Newline):
		m.edit(func() bool { return m.surface.Type("\n") })

	case key.Matches(msg, m.keys.Submit):
		cmd = m.submit()

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Clear()

	case key.Matches(msg, m.keys.Backspace):
		m.edit(m.surface.Backspace)

	case key.Matches(msg, m.keys.Delete):
		m.edit(m.surface.Delete)

	case key.Matches(msg, m.keys.Left):
		m.move(m.surface.Left)

	case key.Matches(msg, m.keys.Right):
		m.move(m.surface.Right)

	case key.Matches(msg, m.keys.Home):
		m.move(func() bool { m.surface.Home(); return true })

	case key.Matches(msg, m.keys.End):
		m.move(func() bool { m.surface.End(); return true })

	case msg.Type == tea.KeySpace:
		m.edit(func() bool { return m.surface.Type(" ") })

	case msg.Type == tea.KeyRunes:
		text := string(msg.Runes)
		m.edit(func() bool { return m.surface.Type(text) })
	}

	m.relayout()
	return m, cmd
}

// controllerKey maps a key press onto the controller's key names.
func (m Model) controllerKey(msg tea.KeyMsg) (editor.Key, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return editor.KeyArrowUp, true
	case key.Matches(msg, m.keys.Down):
		return editor.KeyArrowDown, true
	case key.Matches(msg, m.keys.Complete):
		return editor.KeyTab, true
	case key.Matches(msg, m.keys.Submit):
		return editor.KeyEnter, true
	case key.Matches(msg, m.keys.Dismiss):
		return editor.KeyEscape, true
	}
	return "", false
}

// edit applies a surface edit and runs the trigger scan when it changed
// the document.
func (m Model) edit(fn func() bool) {
	if fn() {
		m.ctrl.HandleInput()
	}
}

// move applies a caret movement. Moving the caret away abandons an open
// trigger window.
func (m Model) move(fn func() bool) {
	if fn() && m.ctrl.IsOpen() {
		m.ctrl.Dismiss()
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if i, ok := m.popupIndexAt(msg.X, msg.Y); ok {
		switch {
		case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonNone:
			m.ctrl.Highlight(i)
			m.relayout()
			return m, nil
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.ctrl.Select(m.ctrl.State().Candidates[i])
			m.relayout()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// popupIndexAt maps a terminal cell to the candidate drawn there. The
// compact hint has no rows to hit.
func (m Model) popupIndexAt(x, y int) (int, bool) {
	if !m.popup.Visible() || m.layout.compact {
		return 0, false
	}
	w, _ := m.popup.Size()
	if x < m.layout.popupLeft || x >= m.layout.popupLeft+w {
		return 0, false
	}
	i, ok := m.popup.IndexAtRow(y - m.layout.popupTop)
	if !ok || i >= len(m.ctrl.State().Candidates) {
		return 0, false
	}
	return i, true
}

func (m Model) handleReload(msg DataReloadMsg) (tea.Model, tea.Cmd) {
	trigger := string(msg.Trigger)
	switch {
	case msg.Err != nil:
		m.status.SetMessage(components.StatusError, "reload "+trigger+": "+msg.Err.Error())
	case m.ctrl.ReloadTrigger(msg.Index, msg.Items):
		m.status.SetMessage(components.StatusReady, "reloaded "+trigger+" suggestions")
	}
	m.relayout()
	if m.watcher == nil {
		return m, nil
	}
	return m, waitForReload(m.watcher)
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit moves the document into the history and clears the input. A saved
// draft of it is deleted.
func (m *Model) submit() tea.Cmd {
	snap := m.ctrl.Snapshot()
	if strings.TrimSpace(snap.Plain) == "" {
		return nil
	}

	m.history.Add(Entry{Doc: m.surface.Document(), Snapshot: snap, SentAt: m.now()})
	m.refreshHistory()
	m.viewport.GotoBottom()

	id := m.draft.id
	m.ctrl.Clear()
	m.draft.id = ""
	m.draft.dirty = false
	m.header.DraftID = ""
	m.status.SetMessage(components.StatusReady, "sent")

	if id == "" || m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return DraftDeletedMsg{ID: id, Err: store.Delete(ctx, id)}
	}
}

// saveDraft stores the current document, updating the loaded draft if any.
func (m Model) saveDraft() tea.Cmd {
	if m.store == nil {
		m.status.SetMessage(components.StatusError, "no draft store")
		return nil
	}
	store := m.store
	id := m.draft.id
	snap := m.ctrl.Snapshot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		newID, err := store.SaveSnapshot(ctx, id, snap)
		return DraftSavedMsg{ID: newID, Err: err}
	}
}

// loadDraft replaces the document with a stored draft.
func (m Model) loadDraft(d *storage.Draft) {
	m.ctrl.Load(d.Markup)
	m.draft.id = d.ID
	m.draft.dirty = false
	m.header.DraftID = d.ID
}

// =============================================================================
// LAYOUT
// =============================================================================

// relayout syncs the popup with the controller, reports its measured size
// and sizes the history so everything fits the terminal.
func (m *Model) relayout() {
	m.input.ScrollToCaret()
	inputHeight := m.input.Height()

	m.popup.Sync(m.ctrl.State())
	m.layout.compact = false
	popupHeight := 0
	if m.popup.Visible() {
		room := m.height - headerHeight - statusBarHeight - inputHeight - 1
		m.layout.compact = m.width < compactWidth || !m.popup.FitHeight(room)
		w, h := m.popupSize()
		m.ctrl.ReportPopupSize(float64(w), float64(h))
		m.popup.Sync(m.ctrl.State())
		popupHeight = h
		m.status.Shortcuts = m.keys.SuggestionHelp()
	} else {
		m.status.Shortcuts = m.keys.ShortHelp()
	}
	m.status.SetSnapshot(m.draft.snap)

	vpHeight := m.height - headerHeight - statusBarHeight - inputHeight - popupHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight

	anchor := m.ctrl.State().Anchor
	m.layout.popupAbove = anchor != nil && anchor.Top < 0

	inputTop := headerHeight + vpHeight
	if m.layout.popupAbove {
		inputTop += popupHeight
		m.layout.popupTop = inputTop - popupHeight
	} else {
		m.layout.popupTop = inputTop + inputHeight
	}
	bounds := m.input.Bounds(inputTop, 0)
	m.surface.SetBounds(bounds)

	// The positioner does not clamp; the popup still has to be drawn on the
	// terminal, so its column is kept on screen here.
	left := 0
	if anchor != nil {
		left = int(bounds.Left + anchor.Left)
	}
	w, _ := m.popupSize()
	if left > m.width-w {
		left = m.width - w
	}
	if left < 0 {
		left = 0
	}
	m.layout.popupLeft = left
}

// popupView renders the popup in the form the last layout pass chose.
func (m Model) popupView() string {
	if !m.popup.Visible() {
		return ""
	}
	if m.layout.compact {
		return m.popup.ViewCompact()
	}
	return m.popup.View()
}

func (m Model) popupSize() (width, height int) {
	v := m.popupView()
	if v == "" {
		return 0, 0
	}
	return lipgloss.Width(v), lipgloss.Height(v)
}

// refreshHistory re-renders the sent history into the viewport.
func (m *Model) refreshHistory() {
	m.viewport.SetContent(m.history.View(m.width, m.theme))
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Controller returns the mention controller.
func (m Model) Controller() *editor.Controller {
	return m.ctrl
}

// Surface returns the input surface.
func (m Model) Surface() *editor.MemorySurface {
	return m.surface
}

// Snapshot returns the current document projections.
func (m Model) Snapshot() mention.Snapshot {
	return m.ctrl.Snapshot()
}

// Dirty reports whether the document changed since it was loaded or saved.
func (m Model) Dirty() bool {
	return m.draft.dirty
}

// DraftID returns the id of the loaded or last saved draft.
func (m Model) DraftID() string {
	return m.draft.id
}

// Changes counts content-change notifications since start.
func (m Model) Changes() int {
	return m.draft.changes
}

// Sent returns the sent messages in order.
func (m Model) Sent() []Entry {
	return m.history.Entries()
}
