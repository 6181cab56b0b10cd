/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package clipboard

import (
	"errors"
	"testing"

	"godraw/internal/vector"
)

type recorder struct {
	got []string
	err error
}

func (r *recorder) Publish(rec string) error {
	r.got = append(r.got, rec)
	return r.err
}

func rect(t *testing.T) *vector.Shape {
	t.Helper()
	s, err := vector.NewRectangle(1, 2, 3, 4, vector.Solid(vector.Black), vector.NoPaint)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPutStoresIndependentClone(t *testing.T) {
	c := New()
	if !c.Empty() {
		t.Fatalf("new clipboard must be empty")
	}
	if _, ok := c.Take(); ok {
		t.Fatalf("Take on empty clipboard must report false")
	}
	s := rect(t)
	c.Put(s)
	held, ok := c.Peek()
	if !ok || held == s || held.ID() == s.ID() {
		t.Fatalf("clipboard must hold a clone, not the original")
	}
	_ = s.SetPosition(50, 50)
	if held.X() != 1 {
		t.Fatalf("mutating the original changed the clipboard")
	}
	a, _ := c.Take()
	b, _ := c.Take()
	if a == b || a == held || !vector.Equal(a, held) {
		t.Fatalf("Take must hand out fresh equal clones")
	}
	c.Clear()
	if !c.Empty() {
		t.Fatalf("Clear left content behind")
	}
}

func TestMirrorReceivesRecordsAndFailuresAreSoft(t *testing.T) {
	c := New()
	r := &recorder{}
	c.SetMirror(r, func(s *vector.Shape) (string, error) { return s.Kind().String(), nil })
	c.Put(rect(t))
	if len(r.got) != 1 || r.got[0] != "rectangle" {
		t.Fatalf("mirror got %v", r.got)
	}
	r.err = errors.New("no display")
	c.Put(rect(t))
	if c.Empty() {
		t.Fatalf("mirror failure must not lose the clipboard content")
	}
	c.SetMirror(nil, nil)
	c.Put(rect(t))
	if len(r.got) != 2 {
		t.Fatalf("disabled mirror still published")
	}
}
