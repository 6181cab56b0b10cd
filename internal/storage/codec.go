/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

// Record grammar, one shape per line, fields separated by blanks:
//
//	LINE      x1 y1 x2 y2 border [angle]
//	RECTANGLE x y w h border fill [angle]
//	ELLIPSE   cx cy rx ry border fill [angle]
//	POLYGON   x y angle mx my n dx1 dy1 ... dxn dyn border fill
//	TEXT      x y size angle mx my sx sy border fill "content"
//
// Numbers are written with two decimals (text scale factors exactly) and a
// '.' separator; ',' is accepted on read. Tags are case-insensitive. Blank
// lines and lines starting with '#' are ignored.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"godraw/internal/vector"
)

var (
	// ErrUnknownShapeType reports a record whose tag names no shape kind.
	ErrUnknownShapeType = errors.New("unknown shape type")
	// ErrTokenCount reports a record with the wrong number of fields.
	ErrTokenCount = errors.New("wrong token count")
)

const (
	tagLine      = "LINE"
	tagRectangle = "RECTANGLE"
	tagEllipse   = "ELLIPSE"
	tagPolygon   = "POLYGON"
	tagText      = "TEXT"

	header = "# godraw document v1"
)

// LineError describes a record skipped while decoding.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e LineError) Unwrap() error { return e.Err }

func num(v float64) string {
	if r := vector.Round(v, 2); !math.IsInf(r, 0) {
		v = r
	}
	if v == 0 {
		v = 0 // no "-0.00"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// factor writes text scale factors exactly; the error of a rounded factor
// grows with the measured width of the text.
func factor(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// EncodeShape renders one record without the trailing newline.
func EncodeShape(s *vector.Shape) (string, error) {
	var f []string
	switch s.Kind() {
	case vector.KindLine:
		e := s.End()
		f = []string{tagLine, num(s.X()), num(s.Y()), num(e.X), num(e.Y), s.Border().Token()}
		if s.Angle() != 0 {
			f = append(f, num(s.Angle()))
		}
	case vector.KindRectangle, vector.KindEllipse:
		tag := tagRectangle
		if s.Kind() == vector.KindEllipse {
			tag = tagEllipse
		}
		f = []string{tag, num(s.X()), num(s.Y()), num(s.Width()), num(s.Height()), s.Border().Token(), s.Fill().Token()}
		if s.Angle() != 0 {
			f = append(f, num(s.Angle()))
		}
	case vector.KindPolygon:
		mx, my := s.Mirror()
		offs := s.Offsets()
		f = []string{tagPolygon, num(s.X()), num(s.Y()), num(s.Angle()), num(mx), num(my), strconv.Itoa(len(offs))}
		for _, o := range offs {
			f = append(f, num(o.X), num(o.Y))
		}
		f = append(f, s.Border().Token(), s.Fill().Token())
	case vector.KindText:
		mx, my := s.Mirror()
		sx, sy := s.TextScale()
		f = []string{tagText, num(s.X()), num(s.Y()), num(s.FontSize()), num(s.Angle()), num(mx), num(my),
			factor(sx), factor(sy), s.Border().Token(), s.Fill().Token(), strconv.Quote(s.Content())}
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownShapeType, s.Kind())
	}
	return strings.Join(f, " "), nil
}

// Encode writes a header comment and one record per shape in draw order.
func Encode(w io.Writer, shapes []*vector.Shape) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return err
	}
	for _, s := range shapes {
		rec, err := EncodeShape(s)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(rec + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads records until EOF. Records that fail to parse are skipped
// and reported; only read errors abort.
func Decode(r io.Reader) ([]*vector.Shape, []LineError, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var (
		shapes []*vector.Shape
		bad    []LineError
		n      int
	)
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		s, err := DecodeShape(text)
		if err != nil {
			bad = append(bad, LineError{Line: n, Text: text, Err: err})
			continue
		}
		shapes = append(shapes, s)
	}
	if err := sc.Err(); err != nil {
		return shapes, bad, fmt.Errorf("read records: %w", err)
	}
	return shapes, bad, nil
}

// DecodeShape parses a single record.
func DecodeShape(rec string) (*vector.Shape, error) {
	rec = strings.TrimSpace(rec)
	var content string
	quoted := false
	if i := strings.IndexByte(rec, '"'); i >= 0 {
		c, err := strconv.Unquote(strings.TrimSpace(rec[i:]))
		if err != nil {
			return nil, fmt.Errorf("text content: %w", err)
		}
		content, quoted = c, true
		rec = rec[:i]
	}
	f := strings.Fields(rec)
	if len(f) == 0 {
		return nil, fmt.Errorf("%w: empty record", ErrTokenCount)
	}
	tag := strings.ToUpper(f[0])
	if quoted && tag != tagText {
		return nil, fmt.Errorf("%w: quoted field in %s record", ErrTokenCount, tag)
	}
	p := &fieldParser{f: f[1:]}
	switch tag {
	case tagLine:
		return decodeLine(p)
	case tagRectangle, tagEllipse:
		return decodeBox(tag, p)
	case tagPolygon:
		return decodePolygon(p)
	case tagText:
		if !quoted {
			return nil, fmt.Errorf("%w: text record without content", ErrTokenCount)
		}
		return decodeText(p, content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShapeType, f[0])
	}
}

func decodeLine(p *fieldParser) (*vector.Shape, error) {
	if len(p.f) != 5 && len(p.f) != 6 {
		return nil, fmt.Errorf("%w: LINE wants 5 or 6 fields, got %d", ErrTokenCount, len(p.f))
	}
	x1, y1, x2, y2 := p.num(), p.num(), p.num(), p.num()
	border := p.paint()
	angle := p.optNum()
	if p.err != nil {
		return nil, p.err
	}
	s, err := vector.NewLine(x1, y1, x2, y2, border)
	if err != nil {
		return nil, err
	}
	return s, s.SetAngle(angle)
}

func decodeBox(tag string, p *fieldParser) (*vector.Shape, error) {
	if len(p.f) != 6 && len(p.f) != 7 {
		return nil, fmt.Errorf("%w: %s wants 6 or 7 fields, got %d", ErrTokenCount, tag, len(p.f))
	}
	x, y, w, h := p.num(), p.num(), p.num(), p.num()
	border, fill := p.paint(), p.paint()
	angle := p.optNum()
	if p.err != nil {
		return nil, p.err
	}
	var (
		s   *vector.Shape
		err error
	)
	if tag == tagEllipse {
		s, err = vector.NewEllipse(x, y, w, h, border, fill)
	} else {
		s, err = vector.NewRectangle(x, y, w, h, border, fill)
	}
	if err != nil {
		return nil, err
	}
	return s, s.SetAngle(angle)
}

func decodePolygon(p *fieldParser) (*vector.Shape, error) {
	if len(p.f) < 6 {
		return nil, fmt.Errorf("%w: POLYGON header incomplete", ErrTokenCount)
	}
	x, y, angle, mx, my := p.num(), p.num(), p.num(), p.num(), p.num()
	n, err := strconv.Atoi(p.next())
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: vertex count %q", vector.ErrInvalidGeometry, p.f[5])
	}
	if n > (len(p.f)-8)/2 || len(p.f) != 6+2*n+2 {
		return nil, fmt.Errorf("%w: POLYGON with %d vertices wants %d fields, got %d", ErrTokenCount, n, 6+2*n+2, len(p.f))
	}
	vs := make([]vector.Pt, n)
	for i := range vs {
		vs[i] = vector.Pt{X: x + p.num(), Y: y + p.num()}
	}
	border, fill := p.paint(), p.paint()
	if p.err != nil {
		return nil, p.err
	}
	s, err := vector.NewPolygon(vs, border, fill)
	if err != nil {
		return nil, err
	}
	if err := s.SetMirror(mx, my); err != nil {
		return nil, err
	}
	return s, s.SetAngle(angle)
}

func decodeText(p *fieldParser, content string) (*vector.Shape, error) {
	if len(p.f) != 10 {
		return nil, fmt.Errorf("%w: TEXT wants 10 fields before content, got %d", ErrTokenCount, len(p.f))
	}
	x, y, size, angle, mx, my, sx, sy := p.num(), p.num(), p.num(), p.num(), p.num(), p.num(), p.num(), p.num()
	border, fill := p.paint(), p.paint()
	if p.err != nil {
		return nil, p.err
	}
	s, err := vector.NewText(content, x, y, size, border, fill)
	if err != nil {
		return nil, err
	}
	if err := s.SetMirror(mx, my); err != nil {
		return nil, err
	}
	if err := s.SetTextScale(sx, sy); err != nil {
		return nil, err
	}
	return s, s.SetAngle(angle)
}

// fieldParser consumes fields left to right and keeps the first error.
type fieldParser struct {
	f   []string
	i   int
	err error
}

func (p *fieldParser) next() string {
	if p.i >= len(p.f) {
		if p.err == nil {
			p.err = fmt.Errorf("%w: missing field %d", ErrTokenCount, p.i+1)
		}
		return ""
	}
	s := p.f[p.i]
	p.i++
	return s
}

func (p *fieldParser) num() float64 {
	tok := p.next()
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Replace(tok, ",", ".", 1), 64)
	if err != nil {
		p.err = fmt.Errorf("%w: number %q", vector.ErrInvalidGeometry, tok)
	}
	return v
}

// optNum parses a trailing optional number, zero when absent.
func (p *fieldParser) optNum() float64 {
	if p.i >= len(p.f) {
		return 0
	}
	return p.num()
}

func (p *fieldParser) paint() vector.Paint {
	tok := p.next()
	if p.err != nil {
		return vector.NoPaint
	}
	c, err := vector.ParsePaint(tok)
	if err != nil {
		p.err = err
	}
	return c
}
