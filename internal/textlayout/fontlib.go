/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"math"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFamily is the family registered by GoLibrary.
const DefaultFamily = "Go"

// FontLibrary stores loaded OpenType fonts mapped by family.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[string]*opentype.Font
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[string]*opentype.Font)} }

// GoLibrary returns a library with the embedded Go Regular face registered
// under DefaultFamily. Parsing the embedded font cannot fail in practice;
// if it does the library is simply empty and callers fall back.
func GoLibrary() *FontLibrary {
	fl := NewFontLibrary()
	_ = fl.Add(DefaultFamily, goregular.TTF)
	return fl
}

// Add parses raw font bytes and registers them under family.
func (fl *FontLibrary) Add(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[string]*opentype.Font)
	}
	fl.fonts[family] = f
	return nil
}

// LoadTTF loads a font file into the library under the given family.
func (fl *FontLibrary) LoadTTF(family string, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Add(family, data)
}

func (fl *FontLibrary) find(family string) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	if f, ok := fl.fonts[family]; ok {
		return f
	}
	// any family rather than none
	for _, f := range fl.fonts {
		return f
	}
	return nil
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another Provider.
// Faces are cached per family and half-point size.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider

	mu    sync.Mutex
	faces map[faceKey]cachedFace
}

type faceKey struct {
	family string
	size   float64
}

type cachedFace struct {
	face font.Face
	met  Metrics
}

func (m Metrics) scaled(s float64) Metrics {
	return Metrics{Ascent: m.Ascent * s, Descent: m.Descent * s, LineGap: m.LineGap * s, Scale: m.Scale * s}
}

func NewOTProvider(lib *FontLibrary, fallback Provider) *OTProvider {
	return &OTProvider{Lib: lib, Fallback: fallback, faces: make(map[faceKey]cachedFace)}
}

// faceStep is the size granularity of cached faces. A request is served by
// the face at the nearest step, with metrics scaled to the exact size.
const faceStep = 0.5

func (p *OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 12
	}
	if spec.Family == "" {
		spec.Family = DefaultFamily
	}
	size := math.Max(faceStep, math.Round(spec.SizePt/faceStep)*faceStep)
	key := faceKey{family: spec.Family, size: size}
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.faces[key]; ok {
		return c.face, c.met.scaled(spec.SizePt / size)
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if f := p.Lib.find(spec.Family); f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingNone})
		if err == nil {
			m := face.Metrics()
			met := Metrics{
				Ascent:  toFloat(m.Ascent),
				Descent: toFloat(m.Descent),
				LineGap: toFloat(m.Height - m.Ascent - m.Descent),
				Scale:   1,
			}
			if p.faces == nil {
				p.faces = make(map[faceKey]cachedFace)
			}
			p.faces[key] = cachedFace{face: face, met: met}
			return face, met.scaled(spec.SizePt / size)
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}
