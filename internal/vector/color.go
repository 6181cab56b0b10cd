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
	"fmt"
	"strconv"
	"strings"
)

// ErrColorParse reports a color token that is neither a hex color nor a known keyword.
var ErrColorParse = errors.New("color parse error")

type Color struct{ R, G, B, A uint8 }

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Red         = Color{255, 0, 0, 255}
	Transparent = Color{0, 0, 0, 0}
)

// Paint is a nullable color. The zero value means "no paint" and is
// written as null by the persistence codec.
type Paint struct {
	c  Color
	ok bool
}

// NoPaint is the explicit "no paint" value.
var NoPaint = Paint{}

// Solid wraps c as a set paint.
func Solid(c Color) Paint { return Paint{c: c, ok: true} }

func (p Paint) Color() (Color, bool) { return p.c, p.ok }
func (p Paint) IsNone() bool         { return !p.ok }

// Or returns p, or def when p is unset.
func (p Paint) Or(def Paint) Paint {
	if p.ok {
		return p
	}
	return def
}

// Token renders the paint in persisted form: null, transparent,
// #RRGGBB for opaque colors and #RRGGBBAA otherwise.
func (p Paint) Token() string {
	if !p.ok {
		return "null"
	}
	switch p.c.A {
	case 0:
		return "transparent"
	case 255:
		return fmt.Sprintf("#%02X%02X%02X", p.c.R, p.c.G, p.c.B)
	default:
		return fmt.Sprintf("#%02X%02X%02X%02X", p.c.R, p.c.G, p.c.B, p.c.A)
	}
}

func (p Paint) String() string { return p.Token() }

// ParsePaint is the inverse of Paint.Token. Hex digits are case-insensitive.
func ParsePaint(tok string) (Paint, error) {
	t := strings.TrimSpace(tok)
	switch strings.ToLower(t) {
	case "null":
		return NoPaint, nil
	case "transparent":
		return Solid(Transparent), nil
	}
	if !strings.HasPrefix(t, "#") {
		return NoPaint, fmt.Errorf("%w: %q", ErrColorParse, tok)
	}
	hex := t[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return NoPaint, fmt.Errorf("%w: %q", ErrColorParse, tok)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return NoPaint, fmt.Errorf("%w: %q", ErrColorParse, tok)
	}
	if len(hex) == 6 {
		return Solid(Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}), nil
	}
	return Solid(Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}), nil
}

// MustPaint parses tok and panics on error. Intended for constants and tests.
func MustPaint(tok string) Paint {
	p, err := ParsePaint(tok)
	if err != nil {
		panic(err)
	}
	return p
}
