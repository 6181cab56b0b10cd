/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"godraw/internal/vector"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

// DefaultsConfig holds the factory defaults used when a shape is created
// without an explicit size or color.
type DefaultsConfig struct {
	LineLength    float64 `yaml:"line_length" json:"line_length"`
	RectWidth     float64 `yaml:"rect_width" json:"rect_width"`
	RectHeight    float64 `yaml:"rect_height" json:"rect_height"`
	EllipseRX     float64 `yaml:"ellipse_rx" json:"ellipse_rx"`
	EllipseRY     float64 `yaml:"ellipse_ry" json:"ellipse_ry"`
	FontSize      float64 `yaml:"font_size" json:"font_size"`
	Border        string  `yaml:"border" json:"border"` // color token, see vector.ParsePaint
	Fill          string  `yaml:"fill" json:"fill"`
}

type HistoryConfig struct {
	MaxDepth int `yaml:"max_depth" json:"max_depth"` // 0 = unlimited
}

type ClipboardConfig struct {
	SystemMirror bool `yaml:"system_mirror" json:"system_mirror"`
}

type StorageConfig struct {
	Backups       bool `yaml:"backups" json:"backups"`
	MaxBackups    int  `yaml:"max_backups" json:"max_backups"`
	Revisions     bool `yaml:"revisions" json:"revisions"`
	KeepRevisions int  `yaml:"keep_revisions" json:"keep_revisions"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Source bool   `yaml:"source" json:"source"`
	File   string `yaml:"file" json:"file"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version" json:"config_version"`
	Defaults      DefaultsConfig  `yaml:"defaults" json:"defaults"`
	History       HistoryConfig   `yaml:"history" json:"history"`
	Clipboard     ClipboardConfig `yaml:"clipboard" json:"clipboard"`
	Storage       StorageConfig   `yaml:"storage" json:"storage"`
	Logging       LoggingConfig   `yaml:"logging" json:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Defaults: DefaultsConfig{
			LineLength: 100,
			RectWidth:  100,
			RectHeight: 50,
			EllipseRX:  80,
			EllipseRY:  35,
			FontSize:   20,
			Border:     "#000000",
			Fill:       "null",
		},
		History:   HistoryConfig{MaxDepth: 0},
		Clipboard: ClipboardConfig{SystemMirror: false},
		Storage:   StorageConfig{Backups: true, MaxBackups: 10, Revisions: false, KeepRevisions: 20},
		Logging:   LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Paints parses the default border and fill tokens.
func (d DefaultsConfig) Paints() (border, fill vector.Paint, err error) {
	if border, err = vector.ParsePaint(d.Border); err != nil {
		return vector.NoPaint, vector.NoPaint, fmt.Errorf("defaults.border: %w", err)
	}
	if fill, err = vector.ParsePaint(d.Fill); err != nil {
		return vector.NoPaint, vector.NoPaint, fmt.Errorf("defaults.fill: %w", err)
	}
	return border, fill, nil
}

// Env var names used as overrides.
const (
	EnvConfigPath      = "GODRAW_CONFIG"
	EnvHistoryMaxDepth = "GODRAW_HISTORY_MAX_DEPTH"
	EnvClipboardMirror = "GODRAW_CLIPBOARD_MIRROR"
	EnvStorageBackups  = "GODRAW_STORAGE_BACKUPS"
	EnvStorageRevision = "GODRAW_STORAGE_REVISIONS"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GODRAW_LOG_LEVEL"
	EnvLogFormat = "GODRAW_LOG_FORMAT"
	EnvLogSource = "GODRAW_LOG_SOURCE"
	EnvLogFile   = "GODRAW_LOG_FILE"
)

// ErrInvalid reports a configuration that does not satisfy the schema.
var ErrInvalid = errors.New("invalid config")

//go:embed schema.json
var schemaJSON []byte

// ConfigPath returns the per-user config file path. GODRAW_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoDraw")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoDraw")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "godraw")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "godraw")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults, merges
// environment overrides and validates the result. On a validation error the
// defaults are returned together with the error.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		// Absent keys keep their default value.
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	if err := Validate(cfg); err != nil {
		return Defaults(), err
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks cfg against the embedded JSON schema.
func Validate(cfg AppConfig) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(cfg))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// defaults: zero means "not set"
	d, s := &dst.Defaults, &src.Defaults
	for _, f := range []struct{ dst, src *float64 }{
		{&d.LineLength, &s.LineLength},
		{&d.RectWidth, &s.RectWidth},
		{&d.RectHeight, &s.RectHeight},
		{&d.EllipseRX, &s.EllipseRX},
		{&d.EllipseRY, &s.EllipseRY},
		{&d.FontSize, &s.FontSize},
	} {
		if *f.src != 0 {
			*f.dst = *f.src
		}
	}
	if strings.TrimSpace(s.Border) != "" {
		d.Border = strings.TrimSpace(s.Border)
	}
	if strings.TrimSpace(s.Fill) != "" {
		d.Fill = strings.TrimSpace(s.Fill)
	}
	dst.History.MaxDepth = src.History.MaxDepth
	// booleans: copy directly from src (file) so user preferences persist
	dst.Clipboard.SystemMirror = src.Clipboard.SystemMirror
	dst.Storage.Backups = src.Storage.Backups
	dst.Storage.Revisions = src.Storage.Revisions
	if src.Storage.MaxBackups != 0 {
		dst.Storage.MaxBackups = src.Storage.MaxBackups
	}
	if src.Storage.KeepRevisions != 0 {
		dst.Storage.KeepRevisions = src.Storage.KeepRevisions
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvHistoryMaxDepth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.MaxDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvClipboardMirror)); v != "" {
		cfg.Clipboard.SystemMirror = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageBackups)); v != "" {
		cfg.Storage.Backups = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageRevision)); v != "" {
		cfg.Storage.Revisions = truthy(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "history.max_depth":
		env = EnvHistoryMaxDepth
	case "clipboard.system_mirror":
		env = EnvClipboardMirror
	case "storage.backups":
		env = EnvStorageBackups
	case "storage.revisions":
		env = EnvStorageRevision
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
