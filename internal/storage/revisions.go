/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "godraw/internal/log"
	"godraw/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// RevisionsDirName holds per-directory state next to the documents.
	RevisionsDirName  = ".godraw"
	RevisionsFileName = "revisions.sqlite"

	// schemaVersion tracks the local SQLite schema of the revision store.
	// Bump this when you change the schema and add a migration step.
	schemaVersion = 2
)

// Revision is one recorded save of a document.
type Revision struct {
	ID     int64
	Doc    string
	TS     time.Time
	Shapes int
	Text   string
}

// RevisionStore keeps earlier saves of the documents in one directory.
type RevisionStore struct {
	db   *sql.DB
	path string
}

// RevisionsPath returns the database path for documents stored in dir.
func RevisionsPath(dir string) string {
	return filepath.Join(dir, RevisionsDirName, RevisionsFileName)
}

// language=SQL
// dialect=SQLite
const insertRevisionSQL = `INSERT INTO revisions(doc, ts, shapes, text) VALUES (?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestRevisionSQL = `SELECT id, doc, ts, shapes, text FROM revisions WHERE doc = ? ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listRevisionsSQL = `SELECT id, doc, ts, shapes, text FROM revisions WHERE doc = ? ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneRevisionsSQL = `DELETE FROM revisions WHERE doc = ? AND id NOT IN (
	SELECT id FROM revisions WHERE doc = ? ORDER BY ts DESC, id DESC LIMIT ?
)`

// OpenRevisions ensures the store at <dir>/.godraw/revisions.sqlite exists,
// opens it in WAL mode and brings the schema up to date.
func OpenRevisions(dir string) (*RevisionStore, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "revisions_open").With(
		slog.String("dir", dir),
	)
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("directory is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, RevisionsDirName), 0o755); err != nil {
		l.Error("create state dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create %s dir: %w", RevisionsDirName, err)
	}

	path := RevisionsPath(dir)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureRevisionSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure revision schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("revision store ready", slog.String("path", path))
	return &RevisionStore{db: db, path: path}, nil
}

func (s *RevisionStore) Path() string { return s.path }

func (s *RevisionStore) Close() error { return s.db.Close() }

// SchemaVersion reports the schema recorded in the version table.
func (s *RevisionStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v)
	return v, err
}

// Record stores the encoded text of a save.
func (s *RevisionStore) Record(ctx context.Context, doc string, text string, shapes int, ts time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, insertRevisionSQL, doc, ts.UTC().Format(time.RFC3339Nano), shapes, text)
	if err != nil {
		return 0, fmt.Errorf("insert revision: %w", err)
	}
	return res.LastInsertId()
}

// Latest returns the newest revision of doc; ok is false when there is none.
func (s *RevisionStore) Latest(ctx context.Context, doc string) (rev Revision, ok bool, err error) {
	rev, err = scanRevision(s.db.QueryRowContext(ctx, selectLatestRevisionSQL, doc))
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, false, nil
	}
	if err != nil {
		return Revision{}, false, err
	}
	return rev, true, nil
}

// List returns up to limit revisions of doc, newest first.
func (s *RevisionStore) List(ctx context.Context, doc string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, listRevisionsSQL, doc, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Prune keeps at most keep revisions of doc and deletes older ones.
func (s *RevisionStore) Prune(ctx context.Context, doc string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, pruneRevisionsSQL, doc, doc, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(r rowScanner) (Revision, error) {
	var rev Revision
	var tsStr string
	if err := r.Scan(&rev.ID, &rev.Doc, &tsStr, &rev.Shapes, &rev.Text); err != nil {
		return Revision{}, err
	}
	rev.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
	return rev, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// A fresh store starts at schema 1; migrations take it the rest of the way.
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureRevisionSchema creates the schema-1 tables.
func ensureRevisionSchema(ctx context.Context, db *sql.DB) error {
	q := `CREATE TABLE IF NOT EXISTS revisions (
		id   INTEGER PRIMARY KEY,
		doc  TEXT NOT NULL,
		ts   TEXT NOT NULL,
		text TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure revision schema: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			// shape count per revision and a lookup index
			stmts = []string{
				`ALTER TABLE revisions ADD COLUMN shapes INTEGER NOT NULL DEFAULT 0;`,
				`CREATE INDEX IF NOT EXISTS idx_revisions_doc_ts ON revisions(doc, ts);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}
