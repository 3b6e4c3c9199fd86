// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/position"
)

const sampleTOML = `
max_suggestions = 5
suggestion_position = "inputTopRight"
dropdown_offset = 2.0
placeholder = "Say something"

[[triggers]]
trigger = "@"
suggestion_title = "People"
data_file = "people.json"

  [[triggers.data]]
  id = "0"
  display = "Zed"
  value = "zed"

[[triggers]]
trigger = "#"
class_name = "tag"

  [triggers.style]
  color = "green"

  [[triggers.data]]
  id = "go"
  display = "golang"
  value = "go"

[storage]
db_path = "/tmp/drafts.db"
`

const sampleItems = `[
  {"id": "1", "display": "Alice", "value": "alice"},
  {"id": "2", "display": "Bob", "value": "bob", "extra": {"team": "core"}}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFromPath_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "people.json", sampleItems)
	path := writeFile(t, dir, "config.toml", sampleTOML)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxSuggestions)
	assert.Equal(t, position.InputTopRight, cfg.Corner())
	require.NotNil(t, cfg.DropdownOffset)
	assert.Equal(t, 2.0, *cfg.DropdownOffset)
	assert.Equal(t, "Say something", cfg.Placeholder)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "warn", cfg.Logging.Level)

	db, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/drafts.db", db)

	triggers, err := cfg.Mentions()
	require.NoError(t, err)
	require.Len(t, triggers, 2)

	people := triggers[0]
	assert.Equal(t, '@', people.Trigger)
	assert.Equal(t, "People", people.SuggestionTitle)
	require.Len(t, people.Data, 3)
	assert.Equal(t, "Zed", people.Data[0].Display, "inline data comes first")
	assert.Equal(t, "Alice", people.Data[1].Display)
	assert.Equal(t, "core", people.Data[2].Extra["team"])

	tags := triggers[1]
	assert.Equal(t, '#', tags.Trigger)
	assert.Equal(t, "tag", tags.ClassName)
	assert.Equal(t, map[string]string{"color": "green"}, tags.Style)
	assert.Equal(t, []mention.Item{{ID: "go", Display: "golang", Value: "go"}}, tags.Data)
}

func TestLoadFromPath_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{
  "suggestion_position": "topCenter",
  "triggers": [{"trigger": "$", "data": [{"id": "a", "display": "AAPL", "value": "aapl"}]}]
}`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, position.TopCenter, cfg.Corner())
	assert.Equal(t, mention.DefaultMaxSuggestions, cfg.MaxSuggestions)

	triggers, err := cfg.Mentions()
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, '$', triggers[0].Trigger)
}

func TestLoadFromPath_MissingDataFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[[triggers]]\ntrigger = \"@\"\ndata_file = \"nope.json\"\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	_, err = cfg.Mentions()
	assert.Error(t, err)
}

func TestLoadFromPath_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "max_suggestions = [")

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	neg := -1.0

	tests := []struct {
		name  string
		edit  func(c *Config)
		field string
	}{
		{"bad corner", func(c *Config) { c.SuggestionPosition = "middle" }, "suggestion_position"},
		{"negative max", func(c *Config) { c.MaxSuggestions = -3 }, "max_suggestions"},
		{"negative offset", func(c *Config) { c.DropdownOffset = &neg }, "dropdown_offset"},
		{"max below min", func(c *Config) { c.MinHeight = 4; c.MaxHeight = 2 }, "max_height"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"multi-char trigger", func(c *Config) { c.Triggers[0].Trigger = "@@" }, "triggers[0].trigger"},
		{"empty trigger", func(c *Config) { c.Triggers[0].Trigger = "" }, "triggers[0].trigger"},
		{"space trigger", func(c *Config) { c.Triggers[0].Trigger = " " }, "triggers[0].trigger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.edit(c)

			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_DuplicateTriggersAllowed(t *testing.T) {
	c := Default()
	c.Triggers = append(c.Triggers, TriggerConfig{Trigger: "@", Data: []mention.Item{{Value: "late"}}})
	require.NoError(t, c.Validate())

	triggers, err := c.Mentions()
	require.NoError(t, err)
	reg := mention.NewRegistry(triggers...)
	got, ok := reg.Lookup('@')
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Data[0].Display, "first configured trigger wins")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvMaxSuggestions, "3")
	t.Setenv(EnvPosition, "inputBottomCenter")
	t.Setenv(EnvDatabase, "/var/lib/drafts.db")
	t.Setenv(EnvLogLevel, "debug")

	c := Default()
	c.ApplyEnvOverrides()

	assert.Equal(t, 3, c.MaxSuggestions)
	assert.Equal(t, position.InputBottomCenter, c.Corner())
	assert.Equal(t, "/var/lib/drafts.db", c.Storage.DBPath)
	assert.Equal(t, "debug", c.Logging.Level)
}

func TestApplyEnvOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv(EnvMaxSuggestions, "lots")

	c := Default()
	c.ApplyEnvOverrides()
	assert.Equal(t, mention.DefaultMaxSuggestions, c.MaxSuggestions)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	orig := Default()
	orig.MaxSuggestions = 7
	orig.Triggers[0].Style = map[string]string{"font-weight": "bold"}
	require.NoError(t, SaveTOML(orig, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.MaxSuggestions)
	assert.Equal(t, orig.Triggers, loaded.Triggers)
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	orig := Default()
	orig.SuggestionPosition = string(position.TopRight)
	require.NoError(t, SaveJSON(orig, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, position.TopRight, loaded.Corner())
	assert.Equal(t, orig.Triggers, loaded.Triggers)
}

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Triggers, cfg.Triggers)
	assert.Empty(t, cfg.Path())
}

func TestLoad_PrefersTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".rigrun-mentions")
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeFile(t, dir, "config.toml", "max_suggestions = 4\n")
	writeFile(t, dir, "config.json", `{"max_suggestions": 9}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxSuggestions)
}
