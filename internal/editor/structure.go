/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import "godraw/internal/vector"

// Commands that add, remove or reorder shapes on the canvas.

// AddCommand puts a newly built shape on the canvas; undo removes that shape.
type AddCommand struct {
	base
	build func() (*vector.Shape, error)
	shape *vector.Shape
}

func (c *AddCommand) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	s, err := c.build()
	if err != nil {
		return err
	}
	c.shape = s
	c.sess.Doc.Add(s)
	c.markExecuted()
	return nil
}

func (c *AddCommand) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	c.sess.Doc.Remove(c.shape)
	c.shape.DetachNode()
	c.markUndone()
	return nil
}

// Shape returns the shape created by Execute.
func (c *AddCommand) Shape() *vector.Shape { return c.shape }

// Draw creates a line, rectangle or ellipse through the session factory.
func Draw(sess *Session, kind vector.Kind, x, y, w, h float64, border, fill vector.Paint) *AddCommand {
	return &AddCommand{
		base: base{sess: sess, name: "draw"},
		build: func() (*vector.Shape, error) {
			return sess.Factory.Create(kind, x, y, w, h, border, fill)
		},
	}
}

// DrawPolygon creates a polygon from the accumulated vertices.
func DrawPolygon(sess *Session, vertices []vector.Pt, border, fill vector.Paint) *AddCommand {
	vs := append([]vector.Pt(nil), vertices...)
	return &AddCommand{
		base: base{sess: sess, name: "draw_polygon"},
		build: func() (*vector.Shape, error) {
			return sess.Factory.Polygon(vs, border, fill)
		},
	}
}

// InsertText places a new text shape with its top-left corner at (x,y).
// The glyphs take the default border paint and the background box the
// default fill.
func InsertText(sess *Session, content string, x, y, size float64) *AddCommand {
	return &AddCommand{
		base: base{sess: sess, name: "insert_text"},
		build: func() (*vector.Shape, error) {
			return sess.Factory.Text(content, x, y, size, vector.NoPaint, vector.NoPaint)
		},
	}
}

// Paste adds a clone of the clipboard content at (x,y). With an empty
// clipboard it does nothing, and neither does its undo.
type PasteCommand struct {
	base
	x, y  float64
	shape *vector.Shape
}

func Paste(sess *Session, x, y float64) *PasteCommand {
	return &PasteCommand{base: base{sess: sess, name: "paste"}, x: x, y: y}
}

func (c *PasteCommand) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	s, ok := c.sess.Clipboard.Take()
	if ok {
		if err := s.SetPosition(c.x, c.y); err != nil {
			return err
		}
		c.sess.Doc.Add(s)
		c.shape = s
	}
	c.markExecuted()
	return nil
}

func (c *PasteCommand) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	if c.shape != nil {
		c.sess.Doc.Remove(c.shape)
		c.shape.DetachNode()
	}
	c.markUndone()
	return nil
}

// Shape returns the pasted shape, nil when the clipboard was empty.
func (c *PasteCommand) Shape() *vector.Shape { return c.shape }

// DeleteCommand takes a shape off the canvas and clears its position and
// colors. Undo puts it back at the same draw-order index with the same
// render node. Deleting a shape that is not on the canvas does nothing.
type DeleteCommand struct {
	base
	shape *vector.Shape
	cut   bool

	removed      bool
	index        int
	node         *vector.RenderNode
	pos          vector.Pt
	border, fill vector.Paint
}

func Delete(sess *Session, s *vector.Shape) *DeleteCommand {
	return &DeleteCommand{base: base{sess: sess, name: "delete"}, shape: s}
}

// Cut copies s to the clipboard, then deletes it. Undo restores the shape
// but leaves the clipboard as it is.
func Cut(sess *Session, s *vector.Shape) *DeleteCommand {
	return &DeleteCommand{base: base{sess: sess, name: "cut"}, shape: s, cut: true}
}

func (c *DeleteCommand) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	if c.shape == nil {
		return ErrNoShape
	}
	if !c.sess.Doc.Has(c.shape) {
		c.markExecuted()
		return nil
	}
	if c.cut {
		c.sess.Clipboard.Put(c.shape)
	}
	c.index, _ = c.sess.Doc.Remove(c.shape)
	c.removed = true
	c.pos = c.shape.Position()
	c.border, c.fill = c.shape.Border(), c.shape.Fill()
	c.node = c.shape.DetachNode()
	c.shape.Reset()
	c.markExecuted()
	return nil
}

func (c *DeleteCommand) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	if c.removed {
		if err := c.shape.SetPosition(c.pos.X, c.pos.Y); err != nil {
			return err
		}
		c.shape.SetBorder(c.border)
		c.shape.SetFill(c.fill)
		c.shape.AttachNode(c.node)
		c.sess.Doc.Insert(c.index, c.shape)
	}
	c.markUndone()
	return nil
}

// CopyCommand puts a clone of a shape on the clipboard. Its undo does nothing.
type CopyCommand struct {
	base
	shape *vector.Shape
}

func Copy(sess *Session, s *vector.Shape) *CopyCommand {
	return &CopyCommand{base: base{sess: sess, name: "copy"}, shape: s}
}

func (c *CopyCommand) passive() {}

func (c *CopyCommand) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	if c.shape == nil {
		return ErrNoShape
	}
	c.sess.Clipboard.Put(c.shape)
	c.markExecuted()
	return nil
}

func (c *CopyCommand) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	c.markUndone()
	return nil
}

// ReorderCommand moves a shape to the front or back of the draw order.
// Undo restores the exact previous index.
type ReorderCommand struct {
	base
	shape *vector.Shape
	front bool

	moved bool
	from  int
}

func BringToFront(sess *Session, s *vector.Shape) *ReorderCommand {
	return &ReorderCommand{base: base{sess: sess, name: "bring_to_front"}, shape: s, front: true}
}

func SendToBack(sess *Session, s *vector.Shape) *ReorderCommand {
	return &ReorderCommand{base: base{sess: sess, name: "send_to_back"}, shape: s}
}

func (c *ReorderCommand) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	if c.shape == nil {
		return ErrNoShape
	}
	if c.front {
		c.from, c.moved = c.sess.Doc.BringToFront(c.shape)
	} else {
		c.from, c.moved = c.sess.Doc.SendToBack(c.shape)
	}
	c.markExecuted()
	return nil
}

func (c *ReorderCommand) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	if c.moved {
		c.sess.Doc.MoveTo(c.shape, c.from)
	}
	c.markUndone()
	return nil
}
