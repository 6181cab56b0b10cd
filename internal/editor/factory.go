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

	"godraw/internal/config"
	"godraw/internal/vector"
)

// Factory creates shapes, filling in configured defaults.
//
// Color policy: a missing border becomes the default border (opaque black
// unless configured) and a missing fill becomes the default fill (no paint
// unless configured).
type Factory struct {
	defaults     config.DefaultsConfig
	border, fill vector.Paint
}

func NewFactory(d config.DefaultsConfig) (Factory, error) {
	b, f, err := d.Paints()
	if err != nil {
		return Factory{}, err
	}
	return Factory{defaults: d, border: b, fill: f}, nil
}

func (f Factory) paints(border, fill vector.Paint) (vector.Paint, vector.Paint) {
	return border.Or(f.border), fill.Or(f.fill)
}

// Create builds a shape of kind at (x,y). Rectangles and ellipses use the
// default size for a non-positive w or h. A line ends at (x+w, y+h), or
// runs the default length to the right when both are zero.
func (f Factory) Create(kind vector.Kind, x, y, w, h float64, border, fill vector.Paint) (*vector.Shape, error) {
	border, fill = f.paints(border, fill)
	switch kind {
	case vector.KindLine:
		if w == 0 && h == 0 {
			w = f.defaults.LineLength
		}
		return vector.NewLine(x, y, x+w, y+h, border)
	case vector.KindRectangle:
		if w <= 0 {
			w = f.defaults.RectWidth
		}
		if h <= 0 {
			h = f.defaults.RectHeight
		}
		return vector.NewRectangle(x, y, w, h, border, fill)
	case vector.KindEllipse:
		if w <= 0 {
			w = f.defaults.EllipseRX
		}
		if h <= 0 {
			h = f.defaults.EllipseRY
		}
		return vector.NewEllipse(x, y, w, h, border, fill)
	case vector.KindPolygon, vector.KindText:
		return nil, fmt.Errorf("factory: %v needs its own constructor", kind)
	}
	return nil, fmt.Errorf("factory: unknown kind %v", kind)
}

// Polygon builds a polygon from absolute vertices.
func (f Factory) Polygon(vertices []vector.Pt, border, fill vector.Paint) (*vector.Shape, error) {
	border, fill = f.paints(border, fill)
	return vector.NewPolygon(vertices, border, fill)
}

// Text builds a text shape; a non-positive size uses the default font size.
func (f Factory) Text(content string, x, y, size float64, border, fill vector.Paint) (*vector.Shape, error) {
	if size <= 0 {
		size = f.defaults.FontSize
	}
	border, fill = f.paints(border, fill)
	return vector.NewText(content, x, y, size, border, fill)
}
