/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package clipboard implements the single-slot shape clipboard used by
// copy, cut and paste, with an optional mirror to the OS clipboard.
package clipboard

import (
	"errors"
	"log/slog"
	"sync"

	sysclip "github.com/atotto/clipboard"

	applog "godraw/internal/log"
	"godraw/internal/vector"
)

// Mirror receives the persisted record of every shape put on the clipboard.
type Mirror interface {
	Publish(record string) error
}

// Encoder renders a shape as the text placed on the mirror.
type Encoder func(*vector.Shape) (string, error)

// Clipboard holds zero or one shape. The stored shape is always a clone
// that nothing else references.
type Clipboard struct {
	mu     sync.Mutex
	shape  *vector.Shape
	mirror Mirror
	encode Encoder
}

func New() *Clipboard { return &Clipboard{} }

// SetMirror enables mirroring through enc; a nil mirror disables it.
func (c *Clipboard) SetMirror(m Mirror, enc Encoder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mirror, c.encode = m, enc
}

// Put stores a clone of s, replacing any previous content.
func (c *Clipboard) Put(s *vector.Shape) {
	if s == nil {
		return
	}
	clone := s.Clone()
	c.mu.Lock()
	c.shape = clone
	m, enc := c.mirror, c.encode
	c.mu.Unlock()
	if m != nil && enc != nil {
		publish(m, enc, clone)
	}
}

func publish(m Mirror, enc Encoder, s *vector.Shape) {
	l := applog.WithOperation(applog.WithComponent("clipboard"), "mirror")
	rec, err := enc(s)
	if err != nil {
		l.Warn("encode for system clipboard failed", slog.Any("err", err))
		return
	}
	if err := m.Publish(rec); err != nil {
		l.Warn("system clipboard write failed", slog.Any("err", err))
	}
}

// Peek returns the stored shape itself. Callers must not mutate it.
func (c *Clipboard) Peek() (*vector.Shape, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shape, c.shape != nil
}

// Take returns a fresh clone of the stored shape; the content stays in place.
func (c *Clipboard) Take() (*vector.Shape, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shape == nil {
		return nil, false
	}
	return c.shape.Clone(), true
}

func (c *Clipboard) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shape == nil
}

func (c *Clipboard) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shape = nil
}

var errUnsupported = errors.New("system clipboard unsupported on this platform")

// SystemMirror writes records to the OS clipboard.
type SystemMirror struct{}

func (SystemMirror) Publish(record string) error {
	if sysclip.Unsupported {
		return errUnsupported
	}
	return sysclip.WriteAll(record)
}

// Fetch reads the current OS clipboard text.
func (SystemMirror) Fetch() (string, error) {
	if sysclip.Unsupported {
		return "", errUnsupported
	}
	return sysclip.ReadAll()
}
