/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement for text shapes. All measurement goes through the
// Provider interface so tests can use deterministic faces.

import (
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePt float64
}

// Metrics provides font metrics in pixels for the resolved face.
// Scale multiplies advances measured on the face; it is 1 for faces
// rasterized at the requested size.
type Metrics struct {
	Ascent, Descent, LineGap float64
	Scale                    float64
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 scaled linearly to the
// requested size. It never fails and is used as the last fallback.
type BasicProvider struct{}

const basicNominal = 13

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	size := spec.SizePt
	if size <= 0 {
		size = basicNominal
	}
	s := size / basicNominal
	return f, Metrics{
		Ascent:  toFloat(m.Ascent) * s,
		Descent: toFloat(m.Descent) * s,
		LineGap: toFloat(m.Height-m.Ascent-m.Descent) * s,
		Scale:   s,
	}
}

var (
	defaultMu       sync.RWMutex
	defaultProvider Provider
)

// Default returns the process-wide provider: Go Regular via OpenType with
// the basic face as fallback.
func Default() Provider {
	defaultMu.RLock()
	p := defaultProvider
	defaultMu.RUnlock()
	if p != nil {
		return p
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultProvider == nil {
		defaultProvider = NewOTProvider(GoLibrary(), BasicProvider{})
	}
	return defaultProvider
}

// SetDefault replaces the process-wide provider. Passing nil restores the built-in one.
func SetDefault(p Provider) {
	defaultMu.Lock()
	defaultProvider = p
	defaultMu.Unlock()
}

// Measure returns the width and height of content set at sizePt.
// Lines are split on '\n'; width is the widest line, height stacks lines
// with the face's line gap between them. Empty content still has the
// height of one line and zero width.
func Measure(provider Provider, content string, sizePt float64) (w, h float64) {
	if provider == nil {
		provider = Default()
	}
	face, met := provider.Resolve(FontSpec{SizePt: sizePt})
	scale := met.Scale
	if scale == 0 {
		scale = 1
	}
	lines := strings.Split(content, "\n")
	lineH := met.Ascent + met.Descent
	for i, ln := range lines {
		lw := toFloat(font.MeasureString(face, ln)) * scale
		if lw > w {
			w = lw
		}
		h += lineH
		if i > 0 {
			h += met.LineGap
		}
	}
	return w, h
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
