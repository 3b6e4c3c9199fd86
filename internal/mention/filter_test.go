// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func displays(items []Item) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.Display)
	}
	return out
}

func TestFilter(t *testing.T) {
	cfg := TriggerConfig{Trigger: '@', Data: []Item{
		{ID: "1", Display: "Alice", Value: "u1"},
		{ID: "2", Display: "Bob", Value: "u2"},
		{ID: "3", Display: "Carla", Value: "admin"},
		{ID: "4", Display: "ÉMILE", Value: "u4"},
	}}

	tests := []struct {
		name  string
		query string
		max   int
		want  []string
	}{
		{"empty query keeps source order", "", 10, []string{"Alice", "Bob", "Carla", "ÉMILE"}},
		{"empty query truncates", "", 2, []string{"Alice", "Bob"}},
		{"substring on display, source order", "a", 10, []string{"Alice", "Carla"}},
		{"case insensitive", "BO", 10, []string{"Bob"}},
		{"matches value", "U2", 10, []string{"Bob"}},
		{"value match keeps position", "adm", 10, []string{"Carla"}},
		{"unicode folding", "émi", 10, []string{"ÉMILE"}},
		{"no match", "zzz", 10, []string{}},
		{"non-positive max uses default", "", 0, []string{"Alice", "Bob", "Carla", "ÉMILE"}},
		{"match truncates", "u", 2, []string{"Alice", "Bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displays(Filter(cfg, tt.query, tt.max)))
		})
	}
}

func TestFilter_CaseInsensitiveSourceOrder(t *testing.T) {
	cfg := TriggerConfig{Trigger: '@', Data: []Item{
		{Display: "Alice", Value: "u1"},
		{Display: "Bob", Value: "u2"},
	}}
	assert.Equal(t, []string{"Alice"}, displays(Filter(cfg, "a", 10)))
	assert.Equal(t, []string{"Alice", "Bob"}, displays(Filter(cfg, "", 10)))
}

func TestFilter_DefaultLimit(t *testing.T) {
	var data []Item
	for i := 0; i < 25; i++ {
		data = append(data, Item{ID: fmt.Sprint(i), Display: fmt.Sprintf("user%d", i), Value: fmt.Sprint(i)})
	}
	got := Filter(TriggerConfig{Trigger: '@', Data: data}, "user", 0)
	assert.Len(t, got, DefaultMaxSuggestions)
	assert.Equal(t, "user0", got[0].Display)
}

func TestFilter_DoesNotAliasSource(t *testing.T) {
	data := []Item{{Display: "Alice", Value: "u1"}}
	got := Filter(TriggerConfig{Data: data}, "", 5)
	got[0].Display = "changed"
	assert.Equal(t, "Alice", data[0].Display)
}
