// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// rigrun-mentions.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.rigrun-mentions/config.toml
//   - ~/.rigrun-mentions/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigrun-mentions/internal/logging"
	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/position"
	"github.com/jeranaias/rigrun-mentions/internal/util"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Environment overrides.
const (
	EnvMaxSuggestions = "RIGRUN_MENTIONS_MAX_SUGGESTIONS"
	EnvPosition       = "RIGRUN_MENTIONS_POSITION"
	EnvDatabase       = "RIGRUN_MENTIONS_DB"
	EnvLogLevel       = "RIGRUN_MENTIONS_LOG_LEVEL"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigrun-mentions configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// MaxSuggestions caps the candidate list (0 = default of 10).
	MaxSuggestions int `toml:"max_suggestions" json:"max_suggestions"`

	// SuggestionPosition is one of the twelve popup corners, e.g. "bottomLeft".
	SuggestionPosition string `toml:"suggestion_position" json:"suggestion_position"`

	// DropdownOffset overrides the gap above top-family popups.
	DropdownOffset *float64 `toml:"dropdown_offset,omitempty" json:"dropdown_offset,omitempty"`

	// MinHeight and MaxHeight bound the input box, in lines (0 = unbounded).
	MinHeight int `toml:"min_height" json:"min_height"`
	MaxHeight int `toml:"max_height" json:"max_height"`

	Disabled    bool   `toml:"disabled" json:"disabled"`
	AutoFocus   bool   `toml:"auto_focus" json:"auto_focus"`
	Placeholder string `toml:"placeholder" json:"placeholder"`

	Triggers []TriggerConfig `toml:"triggers" json:"triggers"`

	Storage StorageConfig `toml:"storage" json:"storage"`
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// path is the file the config was loaded from; data_file entries are
	// resolved relative to it.
	path string
}

// TriggerConfig configures one trigger character.
type TriggerConfig struct {
	// Trigger must be exactly one non-space character, e.g. "@".
	Trigger string `toml:"trigger" json:"trigger"`

	ClassName       string            `toml:"class_name,omitempty" json:"class_name,omitempty"`
	SuggestionTitle string            `toml:"suggestion_title,omitempty" json:"suggestion_title,omitempty"`
	Style           map[string]string `toml:"style,omitempty" json:"style,omitempty"`

	// Data is an inline suggestion list.
	Data []mention.Item `toml:"data,omitempty" json:"data,omitempty"`

	// DataFile points at a JSON array of items, appended after Data.
	DataFile string `toml:"data_file,omitempty" json:"data_file,omitempty"`
}

// Rune returns the trigger character.
func (t TriggerConfig) Rune() rune {
	r, _ := utf8.DecodeRuneInString(t.Trigger)
	return r
}

// StorageConfig contains draft store settings.
type StorageConfig struct {
	// DBPath is the sqlite database file (empty = ~/.rigrun-mentions/drafts.db).
	DBPath string `toml:"db_path" json:"db_path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`
}

// Default returns a config with built-in defaults and a sample "@" trigger.
func Default() *Config {
	return &Config{
		Version:            "1",
		MaxSuggestions:     mention.DefaultMaxSuggestions,
		SuggestionPosition: string(position.DefaultCorner),
		MinHeight:          1,
		MaxHeight:          6,
		AutoFocus:          true,
		Placeholder:        "Type @ to mention someone",
		Triggers: []TriggerConfig{
			{
				Trigger:         "@",
				SuggestionTitle: "People",
				Data: []mention.Item{
					{ID: "1", Display: "Alice", Value: "alice"},
					{ID: "2", Display: "Bob", Value: "bob"},
				},
			},
		},
		Logging: LoggingConfig{Level: "warn"},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.rigrun-mentions.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigrun-mentions"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// DatabasePath returns the configured draft database, defaulting to
// ~/.rigrun-mentions/drafts.db.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drafts.db"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default locations. TOML wins over JSON;
// with neither present the defaults are used. Environment overrides are
// applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}
	return finish(Default())
}

// LoadFromPath loads a specific file, picking the format from its extension
// (.json, anything else is TOML).
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	cfg.path = path
	return finish(cfg)
}

// LoadTOML decodes a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadItems reads a JSON array of suggestion items.
func LoadItems(path string) ([]mention.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	var items []mention.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode data file %s: %w", path, err)
	}
	return items, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg as TOML with owner-only permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# rigrun-mentions configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg as indented JSON with owner-only permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// DEFAULTS AND ENVIRONMENT
// =============================================================================

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = mention.DefaultMaxSuggestions
	}
	if c.SuggestionPosition == "" {
		c.SuggestionPosition = string(position.DefaultCorner)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
}

// ApplyEnvOverrides applies RIGRUN_MENTIONS_* variables. Unparseable values
// are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvMaxSuggestions); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxSuggestions = n
		}
	}
	if v := os.Getenv(EnvPosition); v != "" {
		c.SuggestionPosition = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is matches ErrInvalidConfig.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return ErrInvalidConfig.Error() + ": " + strings.Join(msgs, "; ")
}

// Is matches ErrInvalidConfig.
func (e ValidateErrors) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.MaxSuggestions < 0 {
		errs = append(errs, ValidationError{"max_suggestions", "must not be negative"})
	}
	if _, err := position.ParseCorner(c.SuggestionPosition); err != nil {
		errs = append(errs, ValidationError{"suggestion_position", err.Error()})
	}
	if c.DropdownOffset != nil && *c.DropdownOffset < 0 {
		errs = append(errs, ValidationError{"dropdown_offset", "must not be negative"})
	}
	if c.MinHeight < 0 {
		errs = append(errs, ValidationError{"min_height", "must not be negative"})
	}
	if c.MaxHeight < 0 {
		errs = append(errs, ValidationError{"max_height", "must not be negative"})
	} else if c.MaxHeight > 0 && c.MaxHeight < c.MinHeight {
		errs = append(errs, ValidationError{"max_height", fmt.Sprintf("must be at least min_height (%d)", c.MinHeight)})
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{"logging.level", err.Error()})
	}

	for i, t := range c.Triggers {
		field := fmt.Sprintf("triggers[%d].trigger", i)
		if utf8.RuneCountInString(t.Trigger) != 1 {
			errs = append(errs, ValidationError{field, fmt.Sprintf("must be a single character, got %q", t.Trigger)})
			continue
		}
		if unicode.IsSpace(t.Rune()) {
			errs = append(errs, ValidationError{field, "must not be whitespace"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Corner returns the validated popup corner.
func (c *Config) Corner() position.Corner {
	corner, err := position.ParseCorner(c.SuggestionPosition)
	if err != nil {
		return position.DefaultCorner
	}
	return corner
}

// DataFile resolves a trigger's data_file against the config file's
// directory. It returns "" when the trigger has no data file.
func (c *Config) DataFile(t TriggerConfig) string {
	if t.DataFile == "" {
		return ""
	}
	if filepath.IsAbs(t.DataFile) || c.path == "" {
		return t.DataFile
	}
	return filepath.Join(filepath.Dir(c.path), t.DataFile)
}

// Mentions converts the trigger section into registry configs, reading
// data files. Configuration order is kept.
func (c *Config) Mentions() ([]mention.TriggerConfig, error) {
	out := make([]mention.TriggerConfig, 0, len(c.Triggers))
	for _, t := range c.Triggers {
		data := append([]mention.Item(nil), t.Data...)
		if path := c.DataFile(t); path != "" {
			items, err := LoadItems(path)
			if err != nil {
				return nil, fmt.Errorf("trigger %q: %w", t.Trigger, err)
			}
			data = append(data, items...)
		}
		out = append(out, mention.TriggerConfig{
			Trigger:         t.Rune(),
			Data:            data,
			ClassName:       t.ClassName,
			Style:           t.Style,
			SuggestionTitle: t.SuggestionTitle,
		})
	}
	return out, nil
}
