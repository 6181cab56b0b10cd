/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"testing"

	"godraw/internal/config"
	"godraw/internal/undo"
	"godraw/internal/vector"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess, err := NewSession(config.Defaults())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func mustExec(t *testing.T, sess *Session, cmd undo.Command) {
	t.Helper()
	if err := sess.ExecuteCommand(cmd); err != nil {
		t.Fatalf("%s: %v", cmd.Name(), err)
	}
}

func mustUndo(t *testing.T, sess *Session) {
	t.Helper()
	ok, err := sess.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo: ok=%v err=%v", ok, err)
	}
}

func TestUndoOnEmptyHistoryIsNoop(t *testing.T) {
	sess := newTestSession(t)
	ok, err := sess.Undo()
	if ok || err != nil {
		t.Fatalf("got %v, %v", ok, err)
	}
	if sess.Doc.Dirty() {
		t.Fatal("empty undo should not dirty the document")
	}
}

func TestUndoRunsInReverseOrder(t *testing.T) {
	sess := newTestSession(t)
	d := Draw(sess, vector.KindRectangle, 10, 10, 0, 0, vector.NoPaint, vector.NoPaint)
	mustExec(t, sess, d)
	s := d.Shape()
	mustExec(t, sess, Move(sess, s, 50, 60))
	mustExec(t, sess, Rotate(sess, s, 45))

	got := sess.History.Names()
	want := []string{"draw", "move", "rotate"}
	if len(got) != len(want) {
		t.Fatalf("names = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}

	mustUndo(t, sess)
	if s.Angle() != 0 || s.X() != 50 {
		t.Fatalf("after first undo: angle=%v x=%v", s.Angle(), s.X())
	}
	mustUndo(t, sess)
	if s.X() != 10 || s.Y() != 10 {
		t.Fatalf("after second undo: %v", s.Position())
	}
	mustUndo(t, sess)
	if sess.Doc.Len() != 0 {
		t.Fatalf("draw not undone: %d shapes", sess.Doc.Len())
	}
	if ok, _ := sess.Undo(); ok {
		t.Fatal("history should be empty")
	}
}

func TestFailedCommandIsNotRecorded(t *testing.T) {
	sess := newTestSession(t)
	d := Draw(sess, vector.KindRectangle, 0, 0, 10, 10, vector.NoPaint, vector.NoPaint)
	mustExec(t, sess, d)
	err := sess.ExecuteCommand(Resize(sess, d.Shape(), -1))
	if !errors.Is(err, vector.ErrInvalidGeometry) {
		t.Fatalf("want ErrInvalidGeometry, got %v", err)
	}
	if sess.History.Len() != 1 {
		t.Fatalf("history len = %d", sess.History.Len())
	}
}

func TestExecuteMarksDocumentDirty(t *testing.T) {
	sess := newTestSession(t)
	d := Draw(sess, vector.KindEllipse, 0, 0, 0, 0, vector.NoPaint, vector.NoPaint)
	mustExec(t, sess, d)
	if !sess.Doc.Dirty() {
		t.Fatal("draw should dirty the document")
	}
	sess.Doc.MarkClean()
	mustExec(t, sess, Copy(sess, d.Shape()))
	if sess.Doc.Dirty() {
		t.Fatal("copy should leave the document clean")
	}
}

func TestHistoryDepthFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.History.MaxDepth = 2
	sess, err := NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	d := Draw(sess, vector.KindLine, 0, 0, 0, 0, vector.NoPaint, vector.NoPaint)
	mustExec(t, sess, d)
	for i := 1; i <= 3; i++ {
		mustExec(t, sess, Move(sess, d.Shape(), float64(i), 0))
	}
	if sess.History.Len() != 2 {
		t.Fatalf("history len = %d", sess.History.Len())
	}
}
