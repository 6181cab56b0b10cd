/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"godraw/internal/vector"
)

func within(a, b float64) bool { return math.Abs(a-b) <= 1e-2 }

func TestEncodeRectangleRecord(t *testing.T) {
	s, err := vector.NewRectangle(10, 20, 100, 50, vector.MustPaint("#000000"), vector.MustPaint("#FF0000"))
	if err != nil {
		t.Fatal(err)
	}
	rec, err := EncodeShape(s)
	if err != nil {
		t.Fatalf("EncodeShape: %v", err)
	}
	if want := "RECTANGLE 10.00 20.00 100.00 50.00 #000000 #FF0000"; rec != want {
		t.Fatalf("got %q, want %q", rec, want)
	}
	back, err := DecodeShape(rec)
	if err != nil {
		t.Fatalf("DecodeShape: %v", err)
	}
	if !vector.Equal(s, back) {
		t.Fatalf("decoded shape differs: %v vs %v", back, s)
	}
}

func TestEncodeLineAndNullPaint(t *testing.T) {
	l, _ := vector.NewLine(0, 0, 100, 0, vector.NoPaint)
	rec, _ := EncodeShape(l)
	if rec != "LINE 0.00 0.00 100.00 0.00 null" {
		t.Fatalf("unexpected line record %q", rec)
	}
	tiny, _ := vector.NewRectangle(-0.001, 0, 1, 1, vector.Solid(vector.Transparent), vector.NoPaint)
	rec, _ = EncodeShape(tiny)
	if !strings.HasPrefix(rec, "RECTANGLE 0.00 ") || !strings.HasSuffix(rec, " transparent null") {
		t.Fatalf("unexpected record %q", rec)
	}
}

func TestRoundTripAllKinds(t *testing.T) {
	black, red := vector.Solid(vector.Black), vector.Solid(vector.Red)
	line, _ := vector.NewLine(1.234, 5, -40.5, 7.25, black)
	_ = line.SetAngle(33)
	rect, _ := vector.NewRectangle(3, 4, 12.345, 6.789, black, red)
	ell, _ := vector.NewEllipse(50, 60, 80, 35, vector.NoPaint, red)
	_ = ell.SetAngle(370)
	poly, _ := vector.NewPolygon([]vector.Pt{{X: 0, Y: 0}, {X: 30, Y: 5}, {X: 10, Y: 25.5}}, black, vector.Solid(vector.Color{R: 1, G: 2, B: 3, A: 128}))
	poly.MirrorX()
	_ = poly.SetAngle(45)
	text, _ := vector.NewText(`say "hi" there`, 7, 8, 20, black, vector.NoPaint)
	text.MirrorY()
	_ = text.SetTextScale(1.5, 0.75)

	for _, s := range []*vector.Shape{line, rect, ell, poly, text} {
		rec, err := EncodeShape(s)
		if err != nil {
			t.Fatalf("encode %v: %v", s.Kind(), err)
		}
		got, err := DecodeShape(rec)
		if err != nil {
			t.Fatalf("decode %q: %v", rec, err)
		}
		if got.Kind() != s.Kind() || got.Border() != s.Border() || got.Fill() != s.Fill() {
			t.Fatalf("kind/colors differ for %q", rec)
		}
		if !within(got.X(), s.X()) || !within(got.Y(), s.Y()) || !within(got.Width(), s.Width()) ||
			!within(got.Height(), s.Height()) || !within(got.Angle(), s.Angle()) {
			t.Fatalf("geometry differs for %q: got %v want %v", rec, got, s)
		}
		gmx, gmy := got.Mirror()
		smx, smy := s.Mirror()
		if gmx != smx || gmy != smy || got.Content() != s.Content() {
			t.Fatalf("transform/text state differs for %q", rec)
		}
	}
}

func TestDecodeAcceptsCommaAndLegacyTags(t *testing.T) {
	s, err := DecodeShape("Rectangle 10,5 20 100 50 #000000 null")
	if err != nil {
		t.Fatalf("DecodeShape: %v", err)
	}
	if s.Kind() != vector.KindRectangle || s.X() != 10.5 || !s.Fill().IsNone() {
		t.Fatalf("unexpected shape %v", s)
	}
	e, err := DecodeShape("ellipse 1 2 3 4 #00ff00 transparent")
	if err != nil || e.Kind() != vector.KindEllipse {
		t.Fatalf("lower-case tag not accepted: %v", err)
	}
}

func TestDecodeSkipsMalformedLines(t *testing.T) {
	in := strings.Join([]string{
		"# comment",
		"RECTANGLE 0 0 10 10 #000000 null",
		"HEXAGON 0 0 1 1 null null",
		"RECTANGLE 0 0 10 #000000 null",
		"ELLIPSE 0 0 10 10 #0000GG null",
		"LINE 0 0 abc 0 null",
		"",
		"LINE 0 0 100 0 #000000",
	}, "\n")
	shapes, bad, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(shapes))
	}
	want := []struct {
		line int
		err  error
	}{
		{3, ErrUnknownShapeType},
		{4, ErrTokenCount},
		{5, vector.ErrColorParse},
		{6, vector.ErrInvalidGeometry},
	}
	if len(bad) != len(want) {
		t.Fatalf("expected %d skipped lines, got %v", len(want), bad)
	}
	for i, w := range want {
		if bad[i].Line != w.line || !errors.Is(bad[i], w.err) {
			t.Fatalf("skip %d: got line %d err %v, want line %d err %v", i, bad[i].Line, bad[i].Err, w.line, w.err)
		}
	}
}

func TestDecodeRejectsNonFinite(t *testing.T) {
	if _, err := DecodeShape("RECTANGLE NaN 0 1 1 null null"); !errors.Is(err, vector.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if _, err := DecodeShape("POLYGON 0 0 0 1 1 2 0 0 1 1 null null"); !errors.Is(err, vector.ErrInvalidGeometry) {
		t.Fatalf("two-vertex polygon should fail, got %v", err)
	}
}

func TestEncodeDecodeStream(t *testing.T) {
	a, _ := vector.NewRectangle(1, 2, 3, 4, vector.Solid(vector.Black), vector.NoPaint)
	b, _ := vector.NewText("two words", 5, 6, 12, vector.Solid(vector.Black), vector.NoPaint)
	var buf bytes.Buffer
	if err := Encode(&buf, []*vector.Shape{a, b}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(buf.String(), header+"\n") {
		t.Fatalf("missing header: %q", buf.String())
	}
	got, bad, err := Decode(&buf)
	if err != nil || len(bad) != 0 || len(got) != 2 {
		t.Fatalf("Decode: shapes=%d bad=%v err=%v", len(got), bad, err)
	}
	if got[1].Content() != "two words" {
		t.Fatalf("text content lost: %q", got[1].Content())
	}
}

func TestDecodeRejectsHugeVertexCount(t *testing.T) {
	rec := "POLYGON 0 0 0 1 1 9223372036854775807"
	if _, err := DecodeShape(rec); !errors.Is(err, ErrTokenCount) {
		t.Fatalf("expected ErrTokenCount, got %v", err)
	}
	shapes, bad, err := Decode(strings.NewReader("RECTANGLE 1 1 2 2 #000000 null\n" + rec + "\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(shapes) != 1 || len(bad) != 1 || bad[0].Line != 2 {
		t.Fatalf("got %d shapes, skipped %v", len(shapes), bad)
	}
}

func TestRoundTripStretchedLongText(t *testing.T) {
	text, err := vector.NewText(strings.Repeat("w", 300), 10, 10, 48, vector.Solid(vector.Black), vector.NoPaint)
	if err != nil {
		t.Fatal(err)
	}
	if err := text.SetWidth(text.Width() * 1.23456789); err != nil {
		t.Fatal(err)
	}
	if err := text.SetHeight(text.Height() * 0.87654321); err != nil {
		t.Fatal(err)
	}
	rec, err := EncodeShape(text)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeShape(rec)
	if err != nil {
		t.Fatalf("decode %q: %v", rec, err)
	}
	if !within(got.Width(), text.Width()) || !within(got.Height(), text.Height()) {
		t.Fatalf("size drifted: got %vx%v want %vx%v", got.Width(), got.Height(), text.Width(), text.Height())
	}
}

func TestEncodeHugeCoordinateStaysReloadable(t *testing.T) {
	rect, err := vector.NewRectangle(1e307, 0, 10, 10, vector.Solid(vector.Black), vector.NoPaint)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := EncodeShape(rect)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(rec, "Inf") {
		t.Fatalf("record not finite: %q", rec)
	}
	got, err := DecodeShape(rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.X() != rect.X() {
		t.Fatalf("x = %v, want %v", got.X(), rect.X())
	}
}
