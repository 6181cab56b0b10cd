/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"godraw/internal/vector"
)

// isolate points ConfigPath at a file inside a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	return p
}

func TestDefaultsAreValid(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("defaults rejected by schema: %v", err)
	}
	b, f, err := Defaults().Defaults.Paints()
	if err != nil {
		t.Fatalf("Paints: %v", err)
	}
	if b != vector.Solid(vector.Black) || !f.IsNone() {
		t.Fatalf("unexpected default paints %v %v", b, f)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Defaults.LineLength != 100 || !cfg.Storage.Backups {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadFileKeepsUnsetDefaults(t *testing.T) {
	p := isolate(t)
	data := "defaults:\n  rect_width: 200\nhistory:\n  max_depth: 5\n"
	if err := os.WriteFile(p, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Defaults.RectWidth != 200 || cfg.Defaults.RectHeight != 50 {
		t.Fatalf("rect defaults not merged: %#v", cfg.Defaults)
	}
	if cfg.History.MaxDepth != 5 || !cfg.Storage.Backups {
		t.Fatalf("unexpected merge result: %#v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Clipboard.SystemMirror = true
	cfg.Defaults.Fill = "#FF0000"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Clipboard.SystemMirror || got.Defaults.Fill != "#FF0000" {
		t.Fatalf("round trip lost fields: %#v", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Defaults.Border = "red"
	cfg.Logging.Format = "xml"
	err := Validate(cfg)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	cfg = Defaults()
	cfg.Defaults.LineLength = 0
	if err := Validate(cfg); !errors.Is(err, ErrInvalid) {
		t.Fatalf("zero line length should be rejected, got %v", err)
	}
}

func TestInvalidFileFallsBackToDefaults(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("history:\n  max_depth: -3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if cfg.History.MaxDepth != 0 {
		t.Fatalf("expected defaults on error, got %#v", cfg.History)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/godraw.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/godraw.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvHistoryMaxDepth, "7")
	t.Setenv(EnvClipboardMirror, "yes")
	t.Setenv(EnvStorageBackups, "false")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
	if cfg.History.MaxDepth != 7 || !cfg.Clipboard.SystemMirror || cfg.Storage.Backups {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
	if env, ok := EnvOverrideFor("history.max_depth"); !ok || env != EnvHistoryMaxDepth {
		t.Fatalf("EnvOverrideFor = %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("defaults.border"); ok {
		t.Fatalf("defaults.border has no env override")
	}
}
