/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"path/filepath"
	"testing"

	"godraw/internal/config"
	"godraw/internal/editor"
	"godraw/internal/vector"
)

func newSession(t *testing.T) *editor.Session {
	t.Helper()
	sess, err := editor.NewSession(config.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func mustParse(t *testing.T, input string) []Statement {
	t.Helper()
	stmts, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("parse errors: %+v", errs)
	}
	return stmts
}

func TestRunDrawsAndEdits(t *testing.T) {
	sess := newSession(t)
	err := Run(sess, mustParse(t, `
draw rectangle 10 10 100 50
move 20 30
resize 2
draw ellipse 0 0
text 1 1 13 "Hi"
edit "Hello"
select 0
front
`))
	if err != nil {
		t.Fatal(err)
	}
	if sess.Doc.Len() != 3 {
		t.Fatalf("shapes = %d", sess.Doc.Len())
	}
	rect := sess.Doc.At(2)
	if rect.Kind() != vector.KindRectangle || rect.X() != 20 || rect.Width() != 200 {
		t.Fatalf("rectangle = %v", rect)
	}
	if txt := sess.Doc.At(1); txt.Content() != "Hello" {
		t.Fatalf("text = %q", txt.Content())
	}
	if sess.History.Len() != 7 {
		t.Fatalf("history = %v", sess.History.Names())
	}
}

func TestRunCopyPasteUndo(t *testing.T) {
	sess := newSession(t)
	r := NewRunner(sess)
	for _, st := range mustParse(t, "draw line 0 0\ncopy\ncut\npaste 5 5\nundo") {
		if err := r.Exec(st); err != nil {
			t.Fatal(err)
		}
	}
	if sess.Doc.Len() != 0 {
		t.Fatalf("shapes after undo paste = %d", sess.Doc.Len())
	}
	if r.Selected() == nil || r.Selected().X() != 5 {
		t.Fatalf("pasted shape should stay selected, got %v", r.Selected())
	}
}

func TestRunNeedsSelection(t *testing.T) {
	sess := newSession(t)
	err := Run(sess, mustParse(t, "rotate 45"))
	var re RunError
	if !errors.As(err, &re) || re.Line != 1 || !errors.Is(err, ErrNoSelection) {
		t.Fatalf("got %v", err)
	}
}

func TestRunSelectAtMisses(t *testing.T) {
	sess := newSession(t)
	err := Run(sess, mustParse(t, "draw rectangle 0 0 10 10\nselect at 50 50"))
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("got %v", err)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	sess := newSession(t)
	err := Run(sess, mustParse(t, "draw rectangle 0 0\nedit \"x\"\ndraw line 0 0"))
	if !errors.Is(err, editor.ErrNotText) {
		t.Fatalf("got %v", err)
	}
	if sess.Doc.Len() != 1 {
		t.Fatalf("statements after the failure ran: %d shapes", sess.Doc.Len())
	}
}

func TestRunSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.gdr")
	sess := newSession(t)
	if err := Run(sess, mustParse(t, "polygon 0 0 40 0 20 30 #000000 #ffffff\nsave \""+path+"\"")); err != nil {
		t.Fatal(err)
	}
	other := newSession(t)
	if err := Run(other, mustParse(t, "draw line 0 0\nload \""+path+"\"\nselect 0\nmirrory")); err != nil {
		t.Fatal(err)
	}
	if other.Doc.Len() != 1 || other.Doc.At(0).Kind() != vector.KindPolygon {
		t.Fatalf("loaded %v", other.Doc.Shapes())
	}
	if mx, _ := other.Doc.At(0).Mirror(); mx != -1 {
		t.Fatalf("mirror = %v", mx)
	}
	if other.History.Len() != 1 {
		t.Fatalf("history after load = %v", other.History.Names())
	}
}
