/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"godraw/internal/storage"
	"godraw/internal/vector"
)

// SaveCommand writes the document to path. It does not change the canvas,
// so its undo does nothing.
type SaveCommand struct {
	base
	path string
	now  func() time.Time
}

func Save(sess *Session, path string) *SaveCommand {
	return &SaveCommand{base: base{sess: sess, name: "save"}, path: path, now: time.Now}
}

func (c *SaveCommand) passive() {}

func (c *SaveCommand) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	st := c.sess.Storage
	shapes := c.sess.Doc.Shapes()
	opts := storage.SaveOptions{Backup: st.Backups, MaxBackups: st.MaxBackups, Now: c.now}
	if err := storage.SaveFile(c.path, shapes, opts); err != nil {
		return err
	}
	c.sess.Doc.Meta.Path = c.path
	c.sess.Doc.MarkClean()
	if st.Revisions {
		// The file is already safe on disk; a failed revision is only logged.
		if err := c.record(shapes); err != nil {
			c.sess.logger().WarnContext(c.sess.ctx(), "revision not recorded", slog.Any("err", err))
		}
	}
	c.markExecuted()
	return nil
}

func (c *SaveCommand) record(shapes []*vector.Shape) error {
	revs, err := c.sess.Revisions()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := storage.Encode(&buf, shapes); err != nil {
		return fmt.Errorf("encode revision: %w", err)
	}
	key, err := filepath.Abs(c.path)
	if err != nil {
		return err
	}
	ctx := c.sess.ctx()
	if _, err := revs.Record(ctx, key, buf.String(), len(shapes), c.now()); err != nil {
		return err
	}
	if keep := c.sess.Storage.KeepRevisions; keep > 0 {
		if _, err := revs.Prune(ctx, key, keep); err != nil {
			return err
		}
	}
	return nil
}

func (c *SaveCommand) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	c.markUndone()
	return nil
}

// LoadCommand replaces the canvas with the shapes decoded from path.
// Malformed records are skipped and reported by Skipped. Loading clears
// the undo history, and its own undo restores the previous canvas.
type LoadCommand struct {
	base
	path string

	skipped  []storage.LineError
	previous []*vector.Shape
	prevPath string
}

func Load(sess *Session, path string) *LoadCommand {
	return &LoadCommand{base: base{sess: sess, name: "load"}, path: path}
}

func (c *LoadCommand) ResetsHistory() bool { return true }

func (c *LoadCommand) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	shapes, bad, err := storage.LoadFile(c.path)
	if err != nil {
		return err
	}
	doc := c.sess.Doc
	c.previous, c.prevPath = doc.Shapes(), doc.Meta.Path
	c.skipped = bad
	doc.Replace(shapes)
	doc.Meta.Path = c.path
	doc.MarkClean()
	c.markExecuted()
	return nil
}

func (c *LoadCommand) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	c.sess.Doc.Replace(c.previous)
	c.sess.Doc.Meta.Path = c.prevPath
	c.markUndone()
	return nil
}

// Skipped returns the records that could not be decoded.
func (c *LoadCommand) Skipped() []storage.LineError { return c.skipped }
