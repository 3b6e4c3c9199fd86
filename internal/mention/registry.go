// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
package mention

// =============================================================================
// TRIGGER REGISTRY
// =============================================================================

// Registry maps trigger characters to their configs. When two configs share
// a trigger, the first one in configuration order wins.
type Registry struct {
	configs []TriggerConfig
}

// NewRegistry creates a registry from configs, preserving their order.
func NewRegistry(configs ...TriggerConfig) *Registry {
	r := &Registry{}
	for _, c := range configs {
		r.Register(c)
	}
	return r
}

// Register appends a trigger config.
func (r *Registry) Register(c TriggerConfig) {
	r.configs = append(r.configs, c)
}

// ReplaceAt swaps the data of the i-th registered config, leaving other
// configs that share its trigger untouched. It is used when that config's
// data source is reloaded from disk.
func (r *Registry) ReplaceAt(i int, data []Item) (TriggerConfig, bool) {
	if r == nil || i < 0 || i >= len(r.configs) {
		return TriggerConfig{}, false
	}
	r.configs[i].Data = data
	return r.configs[i], true
}

// Lookup returns the first config registered for the trigger.
func (r *Registry) Lookup(trigger rune) (TriggerConfig, bool) {
	if r == nil {
		return TriggerConfig{}, false
	}
	for _, c := range r.configs {
		if c.Trigger == trigger {
			return c, true
		}
	}
	return TriggerConfig{}, false
}

// IsTrigger reports whether ch is a registered trigger character.
func (r *Registry) IsTrigger(ch rune) bool {
	_, ok := r.Lookup(ch)
	return ok
}

// All returns the configs in registration order.
func (r *Registry) All() []TriggerConfig {
	if r == nil {
		return nil
	}
	out := make([]TriggerConfig, len(r.configs))
	copy(out, r.configs)
	return out
}
