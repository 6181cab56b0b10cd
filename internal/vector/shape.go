/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Shape is the single model type for everything that can sit on the canvas.
// The variants form a closed set selected by Kind; geometry that differs per
// variant lives in ops.go and switches on the kind exhaustively.

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrInvalidGeometry reports a non-finite, missing or out-of-range numeric field.
var ErrInvalidGeometry = errors.New("invalid geometry")

type Kind uint8

const (
	KindLine Kind = iota + 1
	KindRectangle
	KindEllipse
	KindPolygon
	KindText
)

// Kinds lists every shape kind in tag order.
var Kinds = []Kind{KindLine, KindRectangle, KindEllipse, KindPolygon, KindText}

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	case KindPolygon:
		return "polygon"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// newID is swapped in tests that need predictable identifiers.
var newID = func() string { return uuid.Must(uuid.NewV7()).String() }

// RenderNode is the opaque presentation handle of a drawn shape.
// The core never looks inside; a presentation layer keys its own state by ID.
type RenderNode struct {
	id string
}

func (n *RenderNode) ID() string { return n.id }

// Shape field usage per kind:
//   - Line: (x,y) first endpoint, (x2,y2) second endpoint.
//   - Rectangle: (x,y) top-left, (w,h) size.
//   - Ellipse: (x,y) center, (w,h) radii.
//   - Polygon: (x,y) bounding-box origin, pts offsets from it.
//   - Text: (x,y) top-left, text/fontSize, (sx,sy) stretch of the measured box.
type Shape struct {
	id   string
	kind Kind

	x, y   float64
	x2, y2 float64
	w, h   float64
	pts    []Pt

	text     string
	fontSize float64
	sx, sy   float64

	angle  float64
	mx, my float64

	border, fill Paint
	node         *RenderNode
}

func newShape(k Kind, border, fill Paint) *Shape {
	return &Shape{id: newID(), kind: k, sx: 1, sy: 1, mx: 1, my: 1, border: border, fill: fill}
}

// NewLine creates a line between two endpoints. Lines carry no fill.
func NewLine(x1, y1, x2, y2 float64, border Paint) (*Shape, error) {
	if !finite(x1, y1, x2, y2) {
		return nil, fmt.Errorf("%w: line (%v,%v)-(%v,%v)", ErrInvalidGeometry, x1, y1, x2, y2)
	}
	s := newShape(KindLine, border, NoPaint)
	s.x, s.y, s.x2, s.y2 = x1, y1, x2, y2
	return s, nil
}

// NewRectangle creates a rectangle from its top-left corner and size.
func NewRectangle(x, y, w, h float64, border, fill Paint) (*Shape, error) {
	if !finite(x, y, w, h) || w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: rectangle %v,%v %vx%v", ErrInvalidGeometry, x, y, w, h)
	}
	s := newShape(KindRectangle, border, fill)
	s.x, s.y, s.w, s.h = x, y, w, h
	return s, nil
}

// NewEllipse creates an ellipse from its center and radii.
func NewEllipse(cx, cy, rx, ry float64, border, fill Paint) (*Shape, error) {
	if !finite(cx, cy, rx, ry) || rx < 0 || ry < 0 {
		return nil, fmt.Errorf("%w: ellipse %v,%v r=%vx%v", ErrInvalidGeometry, cx, cy, rx, ry)
	}
	s := newShape(KindEllipse, border, fill)
	s.x, s.y, s.w, s.h = cx, cy, rx, ry
	return s, nil
}

// NewPolygon creates a polygon from absolute vertices. At least three are required.
func NewPolygon(vertices []Pt, border, fill Paint) (*Shape, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: polygon needs 3 vertices, got %d", ErrInvalidGeometry, len(vertices))
	}
	for _, v := range vertices {
		if !finite(v.X, v.Y) {
			return nil, fmt.Errorf("%w: polygon vertex (%v,%v)", ErrInvalidGeometry, v.X, v.Y)
		}
	}
	s := newShape(KindPolygon, border, fill)
	b := BoundsOf(vertices)
	s.x, s.y = b.X, b.Y
	s.pts = make([]Pt, len(vertices))
	for i, v := range vertices {
		s.pts[i] = Pt{v.X - b.X, v.Y - b.Y}
	}
	return s, nil
}

// NewText creates a text shape anchored at its top-left corner.
func NewText(content string, x, y, fontSize float64, border, fill Paint) (*Shape, error) {
	if !finite(x, y, fontSize) || fontSize <= 0 {
		return nil, fmt.Errorf("%w: text at %v,%v size %v", ErrInvalidGeometry, x, y, fontSize)
	}
	s := newShape(KindText, border, fill)
	s.x, s.y = x, y
	s.text = content
	s.fontSize = fontSize
	return s, nil
}

func (s *Shape) ID() string { return s.id }
func (s *Shape) Kind() Kind { return s.kind }
func (s *Shape) X() float64 { return s.x }
func (s *Shape) Y() float64 { return s.y }
func (s *Shape) Position() Pt { return Pt{s.x, s.y} }
func (s *Shape) Border() Paint { return s.border }
func (s *Shape) Fill() Paint { return s.fill }
func (s *Shape) Angle() float64 { return s.angle }
func (s *Shape) Content() string { return s.text }
func (s *Shape) FontSize() float64 { return s.fontSize }

// End returns the second endpoint of a line. Other kinds return their anchor.
func (s *Shape) End() Pt {
	if s.kind == KindLine {
		return Pt{s.x2, s.y2}
	}
	return Pt{s.x, s.y}
}

// Mirror returns the x and y mirror factors, each +1 or -1.
func (s *Shape) Mirror() (mx, my float64) { return s.mx, s.my }

// TextScale returns the stretch applied to the measured text box.
func (s *Shape) TextScale() (sx, sy float64) { return s.sx, s.sy }

// Offsets returns a copy of the polygon vertex offsets relative to the origin.
func (s *Shape) Offsets() []Pt {
	return append([]Pt(nil), s.pts...)
}

// Vertices returns absolute polygon vertices before rotation and mirroring.
func (s *Shape) Vertices() []Pt {
	out := make([]Pt, len(s.pts))
	for i, p := range s.pts {
		out[i] = Pt{s.x + p.X, s.y + p.Y}
	}
	return out
}

func (s *Shape) SetBorder(p Paint) { s.border = p }

// SetFill is ignored for lines.
func (s *Shape) SetFill(p Paint) {
	if s.kind == KindLine {
		return
	}
	s.fill = p
}

// SetAngle sets the absolute rotation in degrees, normalized into [0,360).
func (s *Shape) SetAngle(deg float64) error {
	if !finite(deg) {
		return fmt.Errorf("%w: angle %v", ErrInvalidGeometry, deg)
	}
	s.angle = normalizeAngle(deg)
	return nil
}

func (s *Shape) RotateBy(delta float64) error { return s.SetAngle(s.angle + delta) }

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	if a == 0 {
		a = 0 // drop negative zero
	}
	return a
}

// SetMirror restores persisted mirror factors; each must be +1 or -1.
// Kinds without mirror state ignore the call.
func (s *Shape) SetMirror(mx, my float64) error {
	if (mx != 1 && mx != -1) || (my != 1 && my != -1) {
		return fmt.Errorf("%w: mirror %v,%v", ErrInvalidGeometry, mx, my)
	}
	if !s.mirrorable() {
		return nil
	}
	s.mx, s.my = mx, my
	return nil
}

// SetTextScale restores the persisted stretch of a text box.
func (s *Shape) SetTextScale(sx, sy float64) error {
	if !finite(sx, sy) || sx <= 0 || sy <= 0 {
		return fmt.Errorf("%w: text scale %v,%v", ErrInvalidGeometry, sx, sy)
	}
	if s.kind == KindText {
		s.sx, s.sy = sx, sy
	}
	return nil
}

func (s *Shape) SetContent(text string) { s.text = text }

func (s *Shape) SetFontSize(size float64) error {
	if !finite(size) || size <= 0 {
		return fmt.Errorf("%w: font size %v", ErrInvalidGeometry, size)
	}
	s.fontSize = size
	return nil
}

// Draw returns the render node, creating it on first use.
func (s *Shape) Draw() *RenderNode {
	if s.node == nil {
		s.node = &RenderNode{id: newID()}
	}
	return s.node
}

// Node returns the current render node, nil when the shape is not drawn.
func (s *Shape) Node() *RenderNode { return s.node }

// AttachNode reinstates a node previously detached from this shape.
func (s *Shape) AttachNode(n *RenderNode) { s.node = n }

// DetachNode drops the render node and returns it.
func (s *Shape) DetachNode() *RenderNode {
	n := s.node
	s.node = nil
	return n
}

// Reset clears the public geometry and colors of a shape leaving the canvas.
func (s *Shape) Reset() {
	_ = s.SetPosition(0, 0)
	s.border = NoPaint
	s.fill = NoPaint
}

// Clone returns an independent copy with a fresh ID and no render node.
func (s *Shape) Clone() *Shape {
	c := *s
	c.id = newID()
	c.node = nil
	c.pts = append([]Pt(nil), s.pts...)
	return &c
}

const equalEps = 1e-9

// Equal reports observable equality: kind, geometry, colors, transform
// state and text. IDs and render nodes are ignored.
func Equal(a, b *Shape) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || a.border != b.border || a.fill != b.fill || a.text != b.text {
		return false
	}
	if !near(a.x, b.x) || !near(a.y, b.y) || !near(a.x2, b.x2) || !near(a.y2, b.y2) ||
		!near(a.w, b.w) || !near(a.h, b.h) || !near(a.fontSize, b.fontSize) ||
		!near(a.sx, b.sx) || !near(a.sy, b.sy) || !near(a.angle, b.angle) ||
		a.mx != b.mx || a.my != b.my {
		return false
	}
	if len(a.pts) != len(b.pts) {
		return false
	}
	for i := range a.pts {
		if !near(a.pts[i].X, b.pts[i].X) || !near(a.pts[i].Y, b.pts[i].Y) {
			return false
		}
	}
	return true
}

func near(a, b float64) bool { return math.Abs(a-b) <= equalEps }

func (s *Shape) String() string {
	return fmt.Sprintf("%s@(%.2f,%.2f) %.2fx%.2f", s.kind, s.x, s.y, s.Width(), s.Height())
}
