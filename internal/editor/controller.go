// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor drives mention authoring on top of a text input surface.
package editor

import (
	"log/slog"

	"github.com/jeranaias/rigrun-mentions/internal/logging"
	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/position"
)

// =============================================================================
// KEYS AND CALLBACKS
// =============================================================================

// Key names a keyboard event the controller may consume.
type Key string

const (
	KeyArrowUp   Key = "ArrowUp"
	KeyArrowDown Key = "ArrowDown"
	KeyTab       Key = "Tab"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// ContentChangeFunc receives the three projections of the document after
// every committed change.
type ContentChangeFunc func(markup, plain string, mentions []mention.ParsedMention)

// =============================================================================
// OPTIONS
// =============================================================================

// Options parameterize a controller.
type Options struct {
	Triggers       []mention.TriggerConfig
	MaxSuggestions int

	// Corner and DropdownOffset place the popup; a nil offset keeps the
	// positioner's default top gap.
	Corner         position.Corner
	DropdownOffset *float64

	Disabled bool

	// Positioner defaults to position.New().
	Positioner *position.Positioner

	OnContentChange ContentChangeFunc
	Logger          *slog.Logger
}

// =============================================================================
// INTERACTION STATE
// =============================================================================

// State is the transient interaction state. The zero value is Idle.
type State struct {
	OpenTrigger *mention.TriggerConfig
	Query       string
	Anchor      *position.Point
	Candidates  []mention.Item
	Selected    int
	Captured    *mention.Position
}

// IsOpen reports whether a trigger window is open.
func (s State) IsOpen() bool {
	return s.OpenTrigger != nil
}

// SelectedItem returns the highlighted candidate.
func (s State) SelectedItem() (mention.Item, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Candidates) {
		return mention.Item{}, false
	}
	return s.Candidates[s.Selected], true
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs the mention state machine (Idle <-> Open) for one surface.
// It is driven synchronously by the host's event loop and is not safe for
// concurrent use.
type Controller struct {
	surface    Surface
	registry   *mention.Registry
	positioner *position.Positioner
	opts       Options
	log        *slog.Logger

	state     State
	caretRect position.Rect
}

// New creates a controller for surface.
func New(surface Surface, opts Options) *Controller {
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = mention.DefaultMaxSuggestions
	}
	if opts.Corner == "" {
		opts.Corner = position.DefaultCorner
	}
	if opts.Positioner == nil {
		opts.Positioner = position.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	return &Controller{
		surface:    surface,
		registry:   mention.NewRegistry(opts.Triggers...),
		positioner: opts.Positioner,
		opts:       opts,
		log:        opts.Logger,
	}
}

// State returns a copy of the interaction state.
func (c *Controller) State() State {
	s := c.state
	s.Candidates = append([]mention.Item(nil), c.state.Candidates...)
	return s
}

// IsOpen reports whether a trigger window is open.
func (c *Controller) IsOpen() bool {
	return c.state.IsOpen()
}

// Registry exposes the trigger registry.
func (c *Controller) Registry() *mention.Registry {
	return c.registry
}

// Disabled reports whether the controller ignores input.
func (c *Controller) Disabled() bool {
	return c.opts.Disabled
}

// SetDisabled toggles input handling. Disabling closes any open window.
func (c *Controller) SetDisabled(disabled bool) {
	c.opts.Disabled = disabled
	if disabled {
		c.reset()
	}
}

// Snapshot serializes the surface's current document.
func (c *Controller) Snapshot() mention.Snapshot {
	return mention.Snap(c.surface.Document())
}

// HandleInput must be called after every content change on the surface. It
// re-scans the text before the caret, refreshes the candidates and fires
// OnContentChange.
func (c *Controller) HandleInput() {
	if c.opts.Disabled {
		return
	}
	defer c.notify()

	caret, ok := c.surface.Caret()
	if !ok {
		return
	}
	text, ok := c.surface.Document().TextAt(caret)
	if !ok {
		if c.state.IsOpen() {
			c.close("caret lost")
		}
		return
	}

	res := mention.Scan(text, caret.Offset, c.state.OpenTrigger, c.registry)
	switch res.Action {
	case mention.ScanOpen:
		c.open(res.Trigger, caret)
	case mention.ScanUpdate:
		c.state.Query = res.Query
		c.state.Candidates = mention.Filter(*c.state.OpenTrigger, res.Query, c.opts.MaxSuggestions)
		c.state.Selected = 0
		c.state.Captured = &caret
	case mention.ScanClose:
		c.close("query ended")
	}
}

// HandleKey processes a keyboard event and reports whether it was consumed.
// Unconsumed events belong to the surface.
func (c *Controller) HandleKey(k Key) bool {
	if c.opts.Disabled || !c.state.IsOpen() {
		return false
	}

	if k == KeyEscape {
		c.close("dismissed")
		return true
	}

	n := len(c.state.Candidates)
	if n == 0 {
		return false
	}

	switch k {
	case KeyArrowDown:
		c.state.Selected = (c.state.Selected + 1) % n
		return true
	case KeyArrowUp:
		if c.state.Selected == 0 {
			c.state.Selected = n - 1
		} else {
			c.state.Selected--
		}
		return true
	case KeyTab, KeyEnter:
		item, ok := c.state.SelectedItem()
		if ok {
			c.commit(item)
		}
		return true
	}
	return false
}

// Select commits a candidate chosen with the pointer.
func (c *Controller) Select(item mention.Item) bool {
	if c.opts.Disabled || !c.state.IsOpen() {
		return false
	}
	return c.commit(item)
}

// Highlight moves the selection to index i, as on pointer hover.
func (c *Controller) Highlight(i int) {
	if i >= 0 && i < len(c.state.Candidates) {
		c.state.Selected = i
	}
}

// Dismiss closes the trigger window without touching the document.
func (c *Controller) Dismiss() {
	c.close("dismissed")
}

// Clear empties the document, resets the interaction state and fires
// OnContentChange("", "", []). Calling it repeatedly is safe.
func (c *Controller) Clear() {
	doc := mention.NewDocument()
	c.surface.Apply(mention.Mutation{Doc: doc, Cursor: doc.Start()})
	c.reset()
	c.notify()
}

// Load replaces the document with previously encoded markup.
func (c *Controller) Load(markup string) {
	doc := mention.DecodeMarkup(markup)
	c.surface.Apply(mention.Mutation{Doc: doc, Cursor: doc.End()})
	c.reset()
	c.notify()
}

// ReloadTrigger swaps the data of the index-th trigger config and refreshes
// open candidates. Configs sharing its trigger keep their own data.
func (c *Controller) ReloadTrigger(index int, data []mention.Item) bool {
	replaced, ok := c.registry.ReplaceAt(index, data)
	if !ok {
		return false
	}
	trigger := replaced.Trigger
	if c.state.IsOpen() && c.state.OpenTrigger.Trigger == trigger {
		cfg, _ := c.registry.Lookup(trigger)
		c.state.OpenTrigger = &cfg
		c.state.Candidates = mention.Filter(cfg, c.state.Query, c.opts.MaxSuggestions)
		if c.state.Selected >= len(c.state.Candidates) {
			c.state.Selected = 0
		}
	}
	c.log.Debug("trigger data reloaded", "trigger", string(trigger), "items", len(data))
	return true
}

// ReportPopupSize records the popup's rendered size and re-anchors it.
func (c *Controller) ReportPopupSize(width, height float64) {
	c.positioner.ReportSize(width, height)
	if c.state.IsOpen() {
		c.state.Anchor = c.anchor()
	}
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func (c *Controller) open(cfg mention.TriggerConfig, caret mention.Position) {
	c.state = State{
		OpenTrigger: &cfg,
		Candidates:  mention.Filter(cfg, "", c.opts.MaxSuggestions),
		Captured:    &caret,
	}
	if rect, ok := c.surface.CaretRect(); ok {
		c.caretRect = rect
	}
	c.state.Anchor = c.anchor()
	c.log.Debug("trigger opened", "trigger", cfg.TriggerString(), "candidates", len(c.state.Candidates))
}

func (c *Controller) close(reason string) {
	if !c.state.IsOpen() {
		return
	}
	c.log.Debug("trigger closed", "trigger", c.state.OpenTrigger.TriggerString(), "reason", reason)
	c.reset()
}

func (c *Controller) reset() {
	c.state = State{}
}

func (c *Controller) anchor() *position.Point {
	offset := -1.0
	if c.opts.DropdownOffset != nil {
		offset = *c.opts.DropdownOffset
	}
	pt := c.positioner.ComputeAnchor(c.caretRect, c.surface.Bounds(), c.opts.Corner, offset)
	return &pt
}

// commit inserts item at the captured insertion point, falling back to the
// live caret. Any failure leaves the document untouched; the window closes
// either way.
func (c *Controller) commit(item mention.Item) bool {
	trigger := *c.state.OpenTrigger

	var (
		at mention.Position
		ok bool
	)
	if c.state.Captured != nil {
		at, ok = *c.state.Captured, true
	} else {
		at, ok = c.surface.Caret()
	}
	c.reset()

	if !ok {
		c.log.Debug("insert skipped", "reason", "no insertion point")
		return false
	}

	mut, ok := mention.Insert(c.surface.Document(), at, trigger, item)
	if !ok {
		c.log.Debug("insert skipped", "reason", "trigger not found", "trigger", trigger.TriggerString())
		return false
	}

	c.surface.Apply(mut)
	c.log.Debug("mention inserted", "trigger", trigger.TriggerString(), "value", item.Value)
	c.notify()
	return true
}

func (c *Controller) notify() {
	if c.opts.OnContentChange == nil {
		return
	}
	snap := mention.Snap(c.surface.Document())
	c.opts.OnContentChange(snap.Markup, snap.Plain, snap.Mentions)
}
