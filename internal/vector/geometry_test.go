/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"errors"
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
	back := m.Invert().Apply(p)
	if math.Abs(back.X-1) > 1e-12 || math.Abs(back.Y-1) > 1e-12 {
		t.Fatalf("invert did not round trip: %+v", back)
	}
}

func TestAboutRotatesAroundPivot(t *testing.T) {
	m := About(Pt{10, 10}, Rotate(Radians(90)))
	p := m.Apply(Pt{20, 10})
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y-20) > 1e-9 {
		t.Fatalf("unexpected rotated point: %+v", p)
	}
	if c := m.Apply(Pt{10, 10}); c != (Pt{10, 10}) {
		t.Fatalf("pivot moved: %+v", c)
	}
}

func TestPathBoundsAndTransform(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(0, 10)
	p.Close()
	b := p.Bounds()
	if b.X != 0 || b.Y != 0 || b.W != 10 || b.H != 10 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	bb := p.Transform(Translate(5, 5)).Bounds()
	if bb.X != 5 || bb.Y != 5 || bb.W != 10 || bb.H != 10 {
		t.Fatalf("unexpected transformed bounds: %+v", bb)
	}
	if len(p.Cmds) != 4 {
		t.Fatalf("transform must not touch the source path")
	}
}

func TestEllipsePathBoundsAreTight(t *testing.T) {
	b := ellipsePath(50, 40, 20, 10).Bounds()
	if b.X != 30 || b.Y != 30 || b.W != 40 || b.H != 20 {
		t.Fatalf("unexpected ellipse bounds: %+v", b)
	}
}

func TestParsePaint(t *testing.T) {
	cases := []struct {
		in   string
		want Paint
		tok  string
	}{
		{"null", NoPaint, "null"},
		{"transparent", Solid(Transparent), "transparent"},
		{"#000000", Solid(Black), "#000000"},
		{"#ff0000", Solid(Red), "#FF0000"},
		{"#11223344", Solid(Color{0x11, 0x22, 0x33, 0x44}), "#11223344"},
	}
	for _, tc := range cases {
		got, err := ParsePaint(tc.in)
		if err != nil {
			t.Fatalf("ParsePaint(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePaint(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if got.Token() != tc.tok {
			t.Fatalf("Token(%q) = %q, want %q", tc.in, got.Token(), tc.tok)
		}
	}
	for _, bad := range []string{"", "red", "#12345", "#GG0000", "#1234567"} {
		if _, err := ParsePaint(bad); !errors.Is(err, ErrColorParse) {
			t.Fatalf("ParsePaint(%q) expected ErrColorParse, got %v", bad, err)
		}
	}
}
