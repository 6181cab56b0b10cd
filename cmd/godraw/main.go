/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"godraw/internal/config"
	"godraw/internal/crash"
	"godraw/internal/editor"
	applog "godraw/internal/log"
	"godraw/internal/script"
	"godraw/internal/storage"
	"godraw/internal/vector"
	"godraw/internal/version"
)

func usage() {
	fmt.Println("godraw: 2-D document editing core")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  godraw version|-v|--version            Show version")
	fmt.Println("  godraw info <file>                     Summarize the shapes of a document")
	fmt.Println("  godraw normalize <in> <out>            Re-encode a document, dropping malformed records")
	fmt.Println("  godraw run <file> <script> [out]       Apply a command script and save to out (or file)")
	fmt.Println("  godraw history <file>                  List recorded revisions of a document")
}

func logOptions(c config.LoggingConfig) applog.Options {
	return applog.Options{Level: c.Level, Format: c.Format, AddSource: c.Source, File: c.File}
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config not usable, using defaults", slog.Any("err", err))
	}
	applog.Init(logOptions(cfg.Logging))
	l = applog.WithComponent("cli")

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
	case "info":
		if len(args) < 3 {
			fmt.Println("info requires <file>")
			usage()
			os.Exit(2)
		}
		if err := info(args[2]); err != nil {
			fail(l, "info failed", err)
		}
	case "normalize":
		if len(args) < 4 {
			fmt.Println("normalize requires <in> and <out>")
			usage()
			os.Exit(2)
		}
		if err := normalize(cfg, args[2], args[3]); err != nil {
			fail(l, "normalize failed", err)
		}
	case "run":
		if len(args) < 4 {
			fmt.Println("run requires <file> and <script>")
			usage()
			os.Exit(2)
		}
		out := args[2]
		if len(args) >= 5 {
			out = args[4]
		}
		if err := run(cfg, args[2], args[3], out); err != nil {
			fail(l, "run failed", err)
		}
	case "history":
		if len(args) < 3 {
			fmt.Println("history requires <file>")
			usage()
			os.Exit(2)
		}
		if err := history(args[2]); err != nil {
			fail(l, "history failed", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func info(path string) error {
	shapes, skipped, err := storage.LoadFile(path)
	if err != nil {
		return err
	}
	counts := map[vector.Kind]int{}
	var bounds vector.Rect
	for i, s := range shapes {
		counts[s.Kind()]++
		if i == 0 {
			bounds = s.CanvasBounds()
		} else {
			bounds = bounds.Union(s.CanvasBounds())
		}
	}
	fmt.Printf("Document: %s\n", path)
	fmt.Printf("Shapes: %d (skipped records: %d)\n", len(shapes), len(skipped))
	for _, k := range vector.Kinds {
		if counts[k] > 0 {
			fmt.Printf("  %-10s %d\n", k, counts[k])
		}
	}
	if len(shapes) > 0 {
		fmt.Printf("Bounds: x=%.2f y=%.2f w=%.2f h=%.2f\n", bounds.X, bounds.Y, bounds.W, bounds.H)
	}
	for _, s := range skipped {
		fmt.Printf("  skipped %v\n", s)
	}
	return nil
}

func normalize(cfg config.AppConfig, in, out string) error {
	sess, err := editor.NewSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()
	load := editor.Load(sess, in)
	if err := sess.ExecuteCommand(load); err != nil {
		return err
	}
	if err := sess.ExecuteCommand(editor.Save(sess, out)); err != nil {
		return err
	}
	fmt.Printf("Wrote %d shapes to %s (dropped %d records)\n", sess.Doc.Len(), out, len(load.Skipped()))
	return nil
}

func run(cfg config.AppConfig, file, scriptPath, out string) error {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	stmts, perrs := script.Parse(string(src))
	if len(perrs) > 0 {
		for _, e := range perrs {
			fmt.Printf("%s:%v\n", scriptPath, e)
		}
		return fmt.Errorf("script has %d errors", len(perrs))
	}

	sess, err := editor.NewSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()
	defer crash.Recover(sess, out)

	if _, statErr := os.Stat(file); statErr == nil {
		if err := sess.ExecuteCommand(editor.Load(sess, file)); err != nil {
			return err
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return statErr
	}
	if err := script.Run(sess, stmts); err != nil {
		return err
	}
	if err := sess.ExecuteCommand(editor.Save(sess, out)); err != nil {
		return err
	}
	fmt.Printf("Applied %d statements; %d shapes written to %s\n", len(stmts), sess.Doc.Len(), out)
	return nil
}

func history(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(storage.RevisionsPath(filepath.Dir(abs))); err != nil {
		return fmt.Errorf("no revisions recorded next to %s", path)
	}
	st, err := storage.OpenRevisions(filepath.Dir(abs))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	revs, err := st.List(context.Background(), abs, 0)
	if err != nil {
		return err
	}
	fmt.Printf("Revisions of %s: %d\n", abs, len(revs))
	for _, r := range revs {
		fmt.Printf("  #%d  %s  %d shapes\n", r.ID, r.TS.Local().Format("2006-01-02 15:04:05"), r.Shapes)
	}
	return nil
}
