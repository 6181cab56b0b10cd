/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"
	"math"

	"godraw/internal/vector"
)

// Property commands mutate one attribute of a shape through a patch.

type PropertyCommand[T any] struct {
	base
	shape *vector.Shape
	guard func() error
	p     patch[T]
}

func (c *PropertyCommand[T]) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	if c.shape == nil {
		return ErrNoShape
	}
	if c.guard != nil {
		if err := c.guard(); err != nil {
			return err
		}
	}
	if err := c.p.apply(); err != nil {
		return err
	}
	c.markExecuted()
	return nil
}

func (c *PropertyCommand[T]) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	if err := c.p.revert(); err != nil {
		return err
	}
	c.markUndone()
	return nil
}

// Target returns the shape the command mutates.
func (c *PropertyCommand[T]) Target() *vector.Shape { return c.shape }

// Move sets the position of s to (x,y).
func Move(sess *Session, s *vector.Shape, x, y float64) *PropertyCommand[vector.Pt] {
	c := &PropertyCommand[vector.Pt]{base: base{sess: sess, name: "move"}, shape: s}
	c.p = patch[vector.Pt]{
		get: func() vector.Pt { return s.Position() },
		set: func(p vector.Pt) error { return s.SetPosition(p.X, p.Y) },
		new: vector.Pt{X: x, Y: y},
	}
	return c
}

// Size is the width and height captured by resize and stretch.
type Size struct{ W, H float64 }

// setSize only touches the axes that change so that undo restores the
// exact stored values.
func setSize(s *vector.Shape) func(Size) error {
	return func(v Size) error {
		if v.W != s.Width() {
			if err := s.SetWidth(v.W); err != nil {
				return err
			}
		}
		if v.H != s.Height() {
			return s.SetHeight(v.H)
		}
		return nil
	}
}

func getSize(s *vector.Shape) func() Size {
	return func() Size { return Size{s.Width(), s.Height()} }
}

// checkFactor rejects factors that would collapse an axis; a zero width
// loses the direction a later undo needs.
func checkFactor(fs ...float64) func() error {
	return func() error {
		for _, f := range fs {
			if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
				return fmt.Errorf("%w: scale factor %v", vector.ErrInvalidGeometry, f)
			}
		}
		return nil
	}
}

// Resize scales s uniformly by factor. A line only changes its length.
func Resize(sess *Session, s *vector.Shape, factor float64) *PropertyCommand[Size] {
	c := &PropertyCommand[Size]{base: base{sess: sess, name: "resize"}, shape: s, guard: checkFactor(factor)}
	c.p = patch[Size]{
		get: getSize(s),
		set: setSize(s),
		derive: func(old Size) Size {
			if s.Kind() == vector.KindLine {
				return Size{old.W * factor, old.H}
			}
			return Size{old.W * factor, old.H * factor}
		},
	}
	return c
}

// Stretch scales s by fx horizontally and fy vertically.
func Stretch(sess *Session, s *vector.Shape, fx, fy float64) *PropertyCommand[Size] {
	c := &PropertyCommand[Size]{base: base{sess: sess, name: "stretch"}, shape: s, guard: checkFactor(fx, fy)}
	c.p = patch[Size]{
		get:    getSize(s),
		set:    setSize(s),
		derive: func(old Size) Size { return Size{old.W * fx, old.H * fy} },
	}
	return c
}

// Rotate sets the absolute angle of s in degrees.
func Rotate(sess *Session, s *vector.Shape, deg float64) *PropertyCommand[float64] {
	c := &PropertyCommand[float64]{base: base{sess: sess, name: "rotate"}, shape: s}
	c.p = patch[float64]{
		get: func() float64 { return s.Angle() },
		set: s.SetAngle,
		new: deg,
	}
	return c
}

// Paints is the border and fill pair captured by ChangeColor.
type Paints struct{ Border, Fill vector.Paint }

// ChangeColor sets both paints of s.
func ChangeColor(sess *Session, s *vector.Shape, border, fill vector.Paint) *PropertyCommand[Paints] {
	c := &PropertyCommand[Paints]{base: base{sess: sess, name: "change_color"}, shape: s}
	c.p = patch[Paints]{
		get: func() Paints { return Paints{s.Border(), s.Fill()} },
		set: func(p Paints) error {
			s.SetBorder(p.Border)
			s.SetFill(p.Fill)
			return nil
		},
		new: Paints{border, fill},
	}
	return c
}

func requireText(s *vector.Shape) func() error {
	return func() error {
		if s.Kind() != vector.KindText {
			return fmt.Errorf("%w: %v", ErrNotText, s.Kind())
		}
		return nil
	}
}

// EditText replaces the content of a text shape.
func EditText(sess *Session, s *vector.Shape, content string) *PropertyCommand[string] {
	c := &PropertyCommand[string]{base: base{sess: sess, name: "edit_text"}, shape: s}
	if s != nil {
		c.guard = requireText(s)
	}
	c.p = patch[string]{
		get: func() string { return s.Content() },
		set: func(v string) error {
			s.SetContent(v)
			return nil
		},
		new: content,
	}
	return c
}

// EditFontSize changes the font size of a text shape.
func EditFontSize(sess *Session, s *vector.Shape, size float64) *PropertyCommand[float64] {
	c := &PropertyCommand[float64]{base: base{sess: sess, name: "edit_font_size"}, shape: s}
	if s != nil {
		c.guard = requireText(s)
	}
	c.p = patch[float64]{
		get: func() float64 { return s.FontSize() },
		set: func(v float64) error { return s.SetFontSize(v) },
		new: size,
	}
	return c
}

// Mirror commands toggle an axis; they are their own inverse.

type MirrorCommand struct {
	base
	shape *vector.Shape
	flip  func()
}

func (c *MirrorCommand) Execute() error {
	if err := c.beginExecute(); err != nil {
		return err
	}
	if c.shape == nil {
		return ErrNoShape
	}
	c.flip()
	c.markExecuted()
	return nil
}

func (c *MirrorCommand) Undo() error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	c.flip()
	c.markUndone()
	return nil
}

// MirrorX flips s across its horizontal centerline.
func MirrorX(sess *Session, s *vector.Shape) *MirrorCommand {
	c := &MirrorCommand{base: base{sess: sess, name: "mirror_x"}, shape: s}
	c.flip = func() { s.MirrorX() }
	return c
}

// MirrorY flips s across its vertical centerline.
func MirrorY(sess *Session, s *vector.Shape) *MirrorCommand {
	c := &MirrorCommand{base: base{sess: sess, name: "mirror_y"}, shape: s}
	c.flip = func() { s.MirrorY() }
	return c
}
