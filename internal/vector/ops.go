/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Geometry that differs per kind. Every switch here covers all kinds;
// adding a kind means revisiting this file.

import (
	"fmt"
	"math"

	"godraw/internal/textlayout"
)

// LineHitTolerance is the distance within which a point hits a line.
const LineHitTolerance = 3.0

func (s *Shape) mirrorable() bool {
	switch s.kind {
	case KindPolygon, KindText:
		return true
	case KindLine, KindRectangle, KindEllipse:
		return false
	}
	return false
}

// natural returns the measured, unscaled text box.
func (s *Shape) natural() (w, h float64) {
	return textlayout.Measure(nil, s.text, s.fontSize)
}

func (s *Shape) Width() float64 {
	switch s.kind {
	case KindLine:
		return math.Abs(s.x2 - s.x)
	case KindRectangle, KindEllipse:
		return s.w
	case KindPolygon:
		return BoundsOf(s.pts).W
	case KindText:
		w, _ := s.natural()
		return w * s.sx
	}
	return 0
}

func (s *Shape) Height() float64 {
	switch s.kind {
	case KindLine:
		return math.Abs(s.y2 - s.y)
	case KindRectangle, KindEllipse:
		return s.h
	case KindPolygon:
		return BoundsOf(s.pts).H
	case KindText:
		_, h := s.natural()
		return h * s.sy
	}
	return 0
}

// SetPosition moves the anchor. A line moves both endpoints by the same delta.
func (s *Shape) SetPosition(x, y float64) error {
	if !finite(x, y) {
		return fmt.Errorf("%w: position %v,%v", ErrInvalidGeometry, x, y)
	}
	switch s.kind {
	case KindLine:
		dx, dy := x-s.x, y-s.y
		s.x2 += dx
		s.y2 += dy
		s.x, s.y = x, y
	case KindRectangle, KindEllipse, KindPolygon, KindText:
		s.x, s.y = x, y
	}
	return nil
}

// MoveBy translates the shape by a delta.
func (s *Shape) MoveBy(dx, dy float64) error { return s.SetPosition(s.x+dx, s.y+dy) }

func checkSize(what string, v float64) error {
	if !finite(v) || v < 0 {
		return fmt.Errorf("%w: %s %v", ErrInvalidGeometry, what, v)
	}
	return nil
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func (s *Shape) SetWidth(w float64) error {
	if err := checkSize("width", w); err != nil {
		return err
	}
	switch s.kind {
	case KindLine:
		s.x2 = s.x + sign(s.x2-s.x)*w
	case KindRectangle, KindEllipse:
		s.w = w
	case KindPolygon:
		cur := BoundsOf(s.pts).W
		if cur == 0 {
			return nil
		}
		s.scaleOffsets(w/cur, 1)
	case KindText:
		nw, _ := s.natural()
		if nw == 0 {
			return nil
		}
		s.sx = w / nw
	}
	return nil
}

func (s *Shape) SetHeight(h float64) error {
	if err := checkSize("height", h); err != nil {
		return err
	}
	switch s.kind {
	case KindLine:
		s.y2 = s.y + sign(s.y2-s.y)*h
	case KindRectangle, KindEllipse:
		s.h = h
	case KindPolygon:
		cur := BoundsOf(s.pts).H
		if cur == 0 {
			return nil
		}
		s.scaleOffsets(1, h/cur)
	case KindText:
		_, nh := s.natural()
		if nh == 0 {
			return nil
		}
		s.sy = h / nh
	}
	return nil
}

// scaleOffsets scales polygon offsets about their centroid, then moves the
// origin so the smallest offset on each axis is zero again.
func (s *Shape) scaleOffsets(fx, fy float64) {
	var c Pt
	for _, p := range s.pts {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(s.pts))
	c.X /= n
	c.Y /= n
	for i, p := range s.pts {
		s.pts[i] = Pt{c.X + (p.X-c.X)*fx, c.Y + (p.Y-c.Y)*fy}
	}
	b := BoundsOf(s.pts)
	s.x += b.X
	s.y += b.Y
	for i := range s.pts {
		s.pts[i].X -= b.X
		s.pts[i].Y -= b.Y
	}
}

// MirrorX flips the shape across its horizontal centerline.
func (s *Shape) MirrorX() {
	if s.mirrorable() {
		s.my = -s.my
	}
}

// MirrorY flips the shape across its vertical centerline.
func (s *Shape) MirrorY() {
	if s.mirrorable() {
		s.mx = -s.mx
	}
}

// Bounds returns the box of the shape before rotation and mirroring.
func (s *Shape) Bounds() Rect {
	switch s.kind {
	case KindLine:
		return BoundsOf([]Pt{{s.x, s.y}, {s.x2, s.y2}})
	case KindRectangle:
		return R(s.x, s.y, s.w, s.h)
	case KindEllipse:
		return R(s.x-s.w, s.y-s.h, 2*s.w, 2*s.h)
	case KindPolygon:
		b := BoundsOf(s.pts)
		return R(s.x+b.X, s.y+b.Y, b.W, b.H)
	case KindText:
		return R(s.x, s.y, s.Width(), s.Height())
	}
	return Rect{}
}

// Transform maps local geometry to the canvas: mirror about the center of
// the bounds, then rotate about the same point.
func (s *Shape) Transform() Affine2D {
	if s.angle == 0 && s.mx == 1 && s.my == 1 {
		return Identity
	}
	c := s.Bounds().Center()
	return About(c, Rotate(Radians(s.angle)).Mul(Scale(s.mx, s.my)))
}

// Outline returns the shape's outline in canvas coordinates.
func (s *Shape) Outline() Path {
	var p Path
	switch s.kind {
	case KindLine:
		p = polyPath([]Pt{{s.x, s.y}, {s.x2, s.y2}}, false)
	case KindRectangle, KindText:
		c := s.Bounds().Corners()
		p = polyPath(c[:], true)
	case KindEllipse:
		p = ellipsePath(s.x, s.y, s.w, s.h)
	case KindPolygon:
		p = polyPath(s.Vertices(), true)
	}
	return p.Transform(s.Transform())
}

// CanvasBounds returns the axis-aligned box of the transformed outline.
func (s *Shape) CanvasBounds() Rect { return s.Outline().Bounds() }

// Contains hit-tests a canvas point against the shape.
func (s *Shape) Contains(p Pt) bool {
	q := s.Transform().Invert().Apply(p)
	switch s.kind {
	case KindLine:
		return segmentDistance(q, Pt{s.x, s.y}, Pt{s.x2, s.y2}) <= LineHitTolerance
	case KindRectangle, KindText:
		return s.Bounds().Contains(q)
	case KindEllipse:
		if s.w == 0 || s.h == 0 {
			return false
		}
		dx := (q.X - s.x) / s.w
		dy := (q.Y - s.y) / s.h
		return dx*dx+dy*dy <= 1
	case KindPolygon:
		return evenOdd(q, s.Vertices())
	}
	return false
}

func segmentDistance(p, a, b Pt) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

func evenOdd(p Pt, vs []Pt) bool {
	in := false
	for i, j := 0, len(vs)-1; i < len(vs); j, i = i, i+1 {
		a, b := vs[i], vs[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
