// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-mentions/internal/mention"
)

func watchedConfig(t *testing.T) (*Config, string) {
	t.Helper()
	dir := t.TempDir()
	data := writeFile(t, dir, "people.json", sampleItems)
	cfgPath := writeFile(t, dir, "config.toml", `
[[triggers]]
trigger = "@"
data_file = "people.json"

  [[triggers.data]]
  display = "Zed"
  value = "zed"

[[triggers]]
trigger = "+"
data_file = "people.json"
`)
	cfg, err := LoadFromPath(cfgPath)
	require.NoError(t, err)
	return cfg, data
}

func TestDataWatcher_Files(t *testing.T) {
	cfg, data := watchedConfig(t)

	dw, err := NewDataWatcher(cfg, 0, nil)
	require.NoError(t, err)
	defer dw.Close()

	abs, err := filepath.Abs(data)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, dw.Files())
}

func TestDataWatcher_Reload(t *testing.T) {
	cfg, data := watchedConfig(t)

	dw, err := NewDataWatcher(cfg, 0, nil)
	require.NoError(t, err)
	defer dw.Close()

	abs, _ := filepath.Abs(data)
	reloads := dw.reload(abs)
	require.Len(t, reloads, 2)

	assert.Equal(t, '@', reloads[0].Trigger)
	assert.Equal(t, 0, reloads[0].Index)
	require.NoError(t, reloads[0].Err)
	assert.Equal(t, []string{"Zed", "Alice", "Bob"}, displays(reloads[0].Items))

	assert.Equal(t, '+', reloads[1].Trigger)
	assert.Equal(t, 1, reloads[1].Index)
	assert.Equal(t, []string{"Alice", "Bob"}, displays(reloads[1].Items))

	require.NoError(t, os.WriteFile(data, []byte("not json"), 0600))
	reloads = dw.reload(abs)
	require.Len(t, reloads, 2)
	assert.Error(t, reloads[0].Err)
	assert.Nil(t, reloads[0].Items)
}

func TestDataWatcher_Watch(t *testing.T) {
	cfg, data := watchedConfig(t)

	dw, err := NewDataWatcher(cfg, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer dw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, dw.Watch(ctx))

	require.NoError(t, os.WriteFile(data, []byte(`[{"display": "Carol", "value": "carol"}]`), 0600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-dw.Events():
			if r.Trigger != '+' || r.Err != nil {
				continue
			}
			assert.Equal(t, []string{"Carol"}, displays(r.Items))
			return
		case <-deadline:
			t.Fatal("no reload event received")
		}
	}
}

func TestDataWatcher_WatchTwice(t *testing.T) {
	cfg, _ := watchedConfig(t)

	dw, err := NewDataWatcher(cfg, 0, nil)
	require.NoError(t, err)
	require.NoError(t, dw.Watch(context.Background()))
	assert.ErrorIs(t, dw.Watch(context.Background()), ErrWatcherStarted)
	require.NoError(t, dw.Close())

	select {
	case _, ok := <-dw.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestDataWatcher_SharedTriggerIndexes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "first.json", `[{"display": "Alice", "value": "alice"}]`)
	second := writeFile(t, dir, "second.json", `[{"display": "Zed", "value": "zed"}]`)
	cfgPath := writeFile(t, dir, "config.toml", `
[[triggers]]
trigger = "@"
data_file = "first.json"

[[triggers]]
trigger = "@"
data_file = "second.json"
`)
	cfg, err := LoadFromPath(cfgPath)
	require.NoError(t, err)

	dw, err := NewDataWatcher(cfg, 0, nil)
	require.NoError(t, err)
	defer dw.Close()

	abs, _ := filepath.Abs(second)
	reloads := dw.reload(abs)
	require.Len(t, reloads, 1)
	assert.Equal(t, 1, reloads[0].Index)
	assert.Equal(t, []string{"Zed"}, displays(reloads[0].Items))
}

func TestDataWatcher_CloseEndsEvents(t *testing.T) {
	cfg, _ := watchedConfig(t)

	dw, err := NewDataWatcher(cfg, 0, nil)
	require.NoError(t, err)
	require.NoError(t, dw.Watch(context.Background()))
	require.NoError(t, dw.Close())
	require.NoError(t, dw.Close())

	select {
	case _, ok := <-dw.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func displays(items []mention.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Display)
	}
	return out
}
