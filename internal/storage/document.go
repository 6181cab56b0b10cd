/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	applog "godraw/internal/log"
	"godraw/internal/vector"
)

const BackupsDirName = "backups"

// SaveOptions controls backups of the file being replaced.
type SaveOptions struct {
	// Backup copies the previous file into backups/ before replacing it.
	Backup bool
	// MaxBackups keeps at most this many backups per file (0 means unlimited).
	MaxBackups int
	// Now is used for backup timestamps; time.Now when nil.
	Now func() time.Time
}

// BackupsDir returns the directory holding backups of the document at path.
func BackupsDir(path string) string {
	return filepath.Join(filepath.Dir(path), BackupsDirName)
}

// SaveFile encodes shapes and writes them to path with transactional
// semantics: temp file in the same directory, fsync, then rename over the
// target. When enabled, the previous file is kept as a timestamped backup.
func SaveFile(path string, shapes []*vector.Shape, opts SaveOptions) error {
	l := applog.WithOperation(applog.WithComponent("storage"), "save").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return errors.New("path is required")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, shapes); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure document dir: %w", err)
	}

	if _, statErr := os.Stat(path); statErr == nil && opts.Backup {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		bdir := BackupsDir(path)
		stamp := now().Format("20060102-150405.000000")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))
		if cerr := copyFile(path, bpath); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
		if opts.MaxBackups > 0 {
			if n, perr := pruneBackups(path, opts.MaxBackups); perr != nil {
				l.Warn("prune backups failed", slog.Any("err", perr))
			} else if n > 0 {
				l.Debug("pruned backups", slog.Int("removed", n))
			}
		}
	}

	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, buf.Bytes()); werr != nil {
		return fmt.Errorf("write temp document: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if rerr := os.Rename(temp, path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace document: %w", rerr)
	}
	l.Info("document saved", slog.Int("shapes", len(shapes)))
	return nil
}

// AutosaveCrashSnapshot writes shapes as a backup of the document at path
// without touching the document itself, so that LoadLatestBackup can
// recover it. It returns the snapshot path.
func AutosaveCrashSnapshot(path string, shapes []*vector.Shape) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path is required")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, shapes); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	bdir := BackupsDir(path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405.000000")
	snap := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))
	if err := writeFileSync(snap, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return snap, nil
}

// LoadFile reads and tolerantly decodes the document at path. Skipped
// records are logged and returned; they do not make the load fail.
func LoadFile(path string) ([]*vector.Shape, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()
	return decodeLogged(path, f)
}

// LoadLatestBackup decodes the newest backup of the document at path.
func LoadLatestBackup(path string) ([]*vector.Shape, []LineError, error) {
	cands, err := listBackups(path)
	if err != nil {
		return nil, nil, err
	}
	if len(cands) == 0 {
		return nil, nil, errors.New("no backups found")
	}
	latest := cands[len(cands)-1]
	f, err := os.Open(latest)
	if err != nil {
		return nil, nil, fmt.Errorf("read latest backup: %w", err)
	}
	defer func() { _ = f.Close() }()
	return decodeLogged(latest, f)
}

func decodeLogged(path string, r io.Reader) ([]*vector.Shape, []LineError, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "load").With(slog.String("path", path))
	shapes, bad, err := Decode(r)
	for _, b := range bad {
		l.Warn("skipped record", slog.Int("line", b.Line), slog.Any("err", b.Err))
	}
	if err != nil {
		return shapes, bad, err
	}
	l.Info("document loaded", slog.Int("shapes", len(shapes)), slog.Int("skipped", len(bad)))
	return shapes, bad, nil
}

// listBackups returns backup paths oldest first.
func listBackups(path string) ([]string, error) {
	bdir := BackupsDir(path)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(path) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

func pruneBackups(path string, keep int) (int, error) {
	cands, err := listBackups(path)
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(cands) > keep {
		if err := os.Remove(cands[0]); err != nil {
			return removed, err
		}
		cands = cands[1:]
		removed++
	}
	return removed, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
