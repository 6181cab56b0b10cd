/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the canvas document: an ordered collection of shapes
// plus the metadata the editor keeps about the file it came from.

import "godraw/internal/vector"

// Metadata describes the document. It serializes to JSON for the revision store.
type Metadata struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Document owns the shapes on the canvas in draw order; index 0 is the
// back-most shape. A shape is present at most once.
type Document struct {
	Meta Metadata

	shapes   []*vector.Shape
	dirty    bool
	revision int
}

func New(name string) *Document {
	return &Document{Meta: Metadata{Name: name}}
}

func (d *Document) Len() int { return len(d.shapes) }

// At returns the shape at draw-order index i, or nil when out of range.
func (d *Document) At(i int) *vector.Shape {
	if i < 0 || i >= len(d.shapes) {
		return nil
	}
	return d.shapes[i]
}

// Shapes returns a copy of the draw order.
func (d *Document) Shapes() []*vector.Shape {
	return append([]*vector.Shape(nil), d.shapes...)
}

// IndexOf returns the draw-order index of s, or -1.
func (d *Document) IndexOf(s *vector.Shape) int {
	for i, x := range d.shapes {
		if x == s {
			return i
		}
	}
	return -1
}

func (d *Document) Has(s *vector.Shape) bool { return d.IndexOf(s) >= 0 }

// Add appends s on top and draws it. Adding a present shape returns its index.
func (d *Document) Add(s *vector.Shape) int {
	return d.Insert(len(d.shapes), s)
}

// Insert places s at index i (clamped) and draws it.
func (d *Document) Insert(i int, s *vector.Shape) int {
	if s == nil {
		return -1
	}
	if at := d.IndexOf(s); at >= 0 {
		return at
	}
	i = clamp(i, 0, len(d.shapes))
	d.shapes = append(d.shapes, nil)
	copy(d.shapes[i+1:], d.shapes[i:])
	d.shapes[i] = s
	s.Draw()
	return i
}

// Remove takes s off the canvas and returns the index it had.
func (d *Document) Remove(s *vector.Shape) (int, bool) {
	i := d.IndexOf(s)
	if i < 0 {
		return -1, false
	}
	d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
	return i, true
}

// MoveTo repositions s in the draw order and returns its previous index.
func (d *Document) MoveTo(s *vector.Shape, i int) (int, bool) {
	from, ok := d.Remove(s)
	if !ok {
		return -1, false
	}
	i = clamp(i, 0, len(d.shapes))
	d.shapes = append(d.shapes, nil)
	copy(d.shapes[i+1:], d.shapes[i:])
	d.shapes[i] = s
	return from, true
}

func (d *Document) BringToFront(s *vector.Shape) (int, bool) { return d.MoveTo(s, len(d.shapes)) }
func (d *Document) SendToBack(s *vector.Shape) (int, bool)   { return d.MoveTo(s, 0) }

// Replace swaps the whole collection, e.g. after loading a file. Each
// shape gets a fresh render node.
func (d *Document) Replace(shapes []*vector.Shape) {
	d.shapes = make([]*vector.Shape, 0, len(shapes))
	for _, s := range shapes {
		s.DetachNode()
		d.Insert(len(d.shapes), s)
	}
}

func (d *Document) Clear() { d.shapes = nil }

// ShapeAt returns the top-most shape containing p.
func (d *Document) ShapeAt(p vector.Pt) *vector.Shape {
	for i := len(d.shapes) - 1; i >= 0; i-- {
		if d.shapes[i].Contains(p) {
			return d.shapes[i]
		}
	}
	return nil
}

// Find looks a shape up by ID.
func (d *Document) Find(id string) *vector.Shape {
	for _, s := range d.shapes {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

// Touch records a modification.
func (d *Document) Touch() {
	d.dirty = true
	d.revision++
}

func (d *Document) Dirty() bool   { return d.dirty }
func (d *Document) MarkClean()    { d.dirty = false }
func (d *Document) Revision() int { return d.revision }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
