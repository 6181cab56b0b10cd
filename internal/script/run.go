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
	"fmt"
	"log/slog"

	"godraw/internal/editor"
	applog "godraw/internal/log"
	"godraw/internal/undo"
	"godraw/internal/vector"
)

// ErrNoSelection is returned by statements that need a selected shape.
var ErrNoSelection = errors.New("no shape selected")

// RunError ties a failed statement to its script line.
type RunError struct {
	Line int
	Op   Op
	Err  error
}

func (e RunError) Error() string { return fmt.Sprintf("line %d: %s: %v", e.Line, e.Op, e.Err) }
func (e RunError) Unwrap() error { return e.Err }

// Runner maps statements onto editor commands. It keeps the selection
// between statements: shapes created by draw, polygon, text and paste
// become selected.
type Runner struct {
	sess     *editor.Session
	selected *vector.Shape
	logger   *slog.Logger
}

func NewRunner(sess *editor.Session) *Runner {
	return &Runner{sess: sess, logger: applog.WithComponent("script")}
}

// Selected returns the current selection, or nil.
func (r *Runner) Selected() *vector.Shape { return r.selected }

// Run executes statements in order and stops at the first failure.
func Run(sess *editor.Session, stmts []Statement) error {
	r := NewRunner(sess)
	for _, st := range stmts {
		if err := r.Exec(st); err != nil {
			return err
		}
	}
	return nil
}

// Exec runs a single statement.
func (r *Runner) Exec(st Statement) error {
	if err := r.exec(st); err != nil {
		r.logger.Warn("statement failed", slog.Int("line", st.LineNo), slog.String("op", string(st.Op)), slog.Any("err", err))
		return RunError{Line: st.LineNo, Op: st.Op, Err: err}
	}
	return nil
}

func (r *Runner) exec(st Statement) error {
	s := r.sess
	n := st.Nums
	switch st.Op {
	case OpDraw:
		var w, h float64
		if len(n) == 4 {
			w, h = n[2], n[3]
		}
		return r.add(editor.Draw(s, st.Kind, n[0], n[1], w, h, st.Border, st.Fill))
	case OpPolygon:
		vs := make([]vector.Pt, 0, len(n)/2)
		for i := 0; i+1 < len(n); i += 2 {
			vs = append(vs, vector.Pt{X: n[i], Y: n[i+1]})
		}
		return r.add(editor.DrawPolygon(s, vs, st.Border, st.Fill))
	case OpText:
		return r.add(editor.InsertText(s, st.Text, n[0], n[1], n[2]))
	case OpSelect:
		i := int(n[0])
		if i >= s.Doc.Len() {
			return fmt.Errorf("select: index %d out of range (%d shapes)", i, s.Doc.Len())
		}
		r.selected = s.Doc.At(i)
		return nil
	case OpSelectAt:
		hit := s.Doc.ShapeAt(vector.Pt{X: n[0], Y: n[1]})
		if hit == nil {
			return fmt.Errorf("%w at (%v, %v)", ErrNoSelection, n[0], n[1])
		}
		r.selected = hit
		return nil
	case OpPaste:
		c := editor.Paste(s, n[0], n[1])
		if err := s.ExecuteCommand(c); err != nil {
			return err
		}
		if c.Shape() != nil {
			r.selected = c.Shape()
		}
		return nil
	case OpSave:
		return s.ExecuteCommand(editor.Save(s, st.Text))
	case OpLoad:
		c := editor.Load(s, st.Text)
		if err := s.ExecuteCommand(c); err != nil {
			return err
		}
		if sk := c.Skipped(); len(sk) > 0 {
			r.logger.Warn("load skipped records", slog.String("path", st.Text), slog.Int("count", len(sk)))
		}
		r.selected = nil
		return nil
	case OpUndo:
		_, err := s.Undo()
		return err
	}

	sel := r.selected
	if sel == nil {
		return ErrNoSelection
	}
	var cmd undo.Command
	switch st.Op {
	case OpMove:
		cmd = editor.Move(s, sel, n[0], n[1])
	case OpResize:
		cmd = editor.Resize(s, sel, n[0])
	case OpStretch:
		cmd = editor.Stretch(s, sel, n[0], n[1])
	case OpRotate:
		cmd = editor.Rotate(s, sel, n[0])
	case OpMirrorX:
		cmd = editor.MirrorX(s, sel)
	case OpMirrorY:
		cmd = editor.MirrorY(s, sel)
	case OpColor:
		cmd = editor.ChangeColor(s, sel, st.Border, st.Fill)
	case OpDelete:
		cmd = editor.Delete(s, sel)
	case OpCut:
		cmd = editor.Cut(s, sel)
	case OpCopy:
		cmd = editor.Copy(s, sel)
	case OpFront:
		cmd = editor.BringToFront(s, sel)
	case OpBack:
		cmd = editor.SendToBack(s, sel)
	case OpEdit:
		cmd = editor.EditText(s, sel, st.Text)
	case OpFontSize:
		cmd = editor.EditFontSize(s, sel, n[0])
	default:
		return fmt.Errorf("unsupported statement %q", st.Op)
	}
	return s.ExecuteCommand(cmd)
}

func (r *Runner) add(c *editor.AddCommand) error {
	if err := r.sess.ExecuteCommand(c); err != nil {
		return err
	}
	r.selected = c.Shape()
	return nil
}
