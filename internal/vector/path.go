/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Path commands describing a shape outline in canvas coordinates.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [6]float64 // enough for cubic; unused slots are zero
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}
func (p *Path) CubicTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{cx1, cy1, cx2, cy2, x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Points returns every point referenced by the path, control points included.
func (p Path) Points() []Pt {
	var out []Pt
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo, LineTo:
			out = append(out, Pt{c.Data[0], c.Data[1]})
		case CubicTo:
			out = append(out, Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}, Pt{c.Data[4], c.Data[5]})
		}
	}
	return out
}

// Bounds returns the box of all points including bezier control points.
// Control points of the ellipse approximation sit on the tangent box, so
// unrotated ellipses get exact bounds.
func (p Path) Bounds() Rect { return BoundsOf(p.Points()) }

// Transform returns a copy with m applied to every point.
func (p Path) Transform(m Affine2D) Path {
	out := Path{Cmds: make([]PathCmd, len(p.Cmds))}
	for i, c := range p.Cmds {
		out.Cmds[i] = c
		n := 0
		switch c.Op {
		case MoveTo, LineTo:
			n = 1
		case CubicTo:
			n = 3
		}
		for j := 0; j < n; j++ {
			q := m.Apply(Pt{c.Data[2*j], c.Data[2*j+1]})
			out.Cmds[i].Data[2*j], out.Cmds[i].Data[2*j+1] = q.X, q.Y
		}
	}
	return out
}

// kappa places cubic control points for a quarter ellipse arc.
var kappa = 4 * (math.Sqrt2 - 1) / 3

func ellipsePath(cx, cy, rx, ry float64) Path {
	var p Path
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
	return p
}

func polyPath(pts []Pt, closed bool) Path {
	var p Path
	for i, q := range pts {
		if i == 0 {
			p.MoveTo(q.X, q.Y)
			continue
		}
		p.LineTo(q.X, q.Y)
	}
	if closed && len(pts) > 0 {
		p.Close()
	}
	return p
}
