/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report and a recoverable
// snapshot of the open document.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"godraw/internal/editor"
	applog "godraw/internal/log"
	"godraw/internal/storage"
	"godraw/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs it with the stack trace, writes a crash
// report and autosaves the session document as a backup of path. When
// path is empty the document's own path is used; without either, only the
// report is written (to the temp dir).
//
// Usage: defer crash.Recover(sess, path)
func Recover(sess *editor.Session, path string) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	if path == "" && sess != nil {
		path = sess.Doc.Meta.Path
	}
	reportPath, err := writeReport(path, sess, r, stack)
	if err != nil {
		l.Error("crash report failed", slog.Any("err", err))
	}
	if sess != nil && path != "" {
		if snap, err := storage.AutosaveCrashSnapshot(path, sess.Doc.Shapes()); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", snap))
		}
	}

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

func writeReport(path string, sess *editor.Session, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if path != "" {
		dir = storage.BackupsDir(path)
		_ = os.MkdirAll(dir, 0o755)
	}
	stamp := time.Now().Format("20060102-150405")
	out := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "godraw Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if path != "" {
		_, _ = fmt.Fprintf(&buf, "Document: %s\n", path)
	}
	if sess != nil {
		_, _ = fmt.Fprintf(&buf, "Shapes: %d\n", sess.Doc.Len())
		_, _ = fmt.Fprintf(&buf, "History: %v\n", sess.History.Names())
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	f, err := os.OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return out, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", out))
		}
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return out, err
	}
	_ = f.Sync()
	return out, nil
}
