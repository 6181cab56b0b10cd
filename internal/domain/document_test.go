/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"testing"

	"godraw/internal/vector"
)

func rect(t *testing.T, x float64) *vector.Shape {
	t.Helper()
	s, err := vector.NewRectangle(x, 0, 10, 10, vector.Solid(vector.Black), vector.NoPaint)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDocumentOrdering(t *testing.T) {
	d := New("t")
	a, b, c := rect(t, 0), rect(t, 20), rect(t, 40)
	d.Add(a)
	d.Add(b)
	d.Add(c)
	if d.Add(b) != 1 || d.Len() != 3 {
		t.Fatalf("adding a present shape must not duplicate it")
	}
	if a.Node() == nil {
		t.Fatalf("Add should draw the shape")
	}

	if from, ok := d.BringToFront(a); !ok || from != 0 || d.At(2) != a {
		t.Fatalf("BringToFront: from=%d ok=%v top=%v", from, ok, d.At(2))
	}
	if from, ok := d.SendToBack(c); !ok || from != 1 || d.At(0) != c {
		t.Fatalf("SendToBack: from=%d ok=%v", from, ok)
	}
	i, ok := d.Remove(b)
	if !ok || i != 1 || d.Len() != 2 {
		t.Fatalf("Remove: i=%d ok=%v len=%d", i, ok, d.Len())
	}
	d.Insert(i, b)
	if d.IndexOf(b) != 1 {
		t.Fatalf("Insert did not restore index, got %d", d.IndexOf(b))
	}
	if _, ok := d.Remove(rect(t, 99)); ok {
		t.Fatalf("removing an absent shape must report false")
	}
}

func TestDocumentShapeAtPicksTopMost(t *testing.T) {
	d := New("t")
	back, front := rect(t, 0), rect(t, 5)
	d.Add(back)
	d.Add(front)
	if got := d.ShapeAt(vector.Pt{X: 7, Y: 5}); got != front {
		t.Fatalf("expected front shape, got %v", got)
	}
	if got := d.ShapeAt(vector.Pt{X: 2, Y: 5}); got != back {
		t.Fatalf("expected back shape, got %v", got)
	}
	if d.Find(front.ID()) != front || d.Find("nope") != nil {
		t.Fatalf("Find by id failed")
	}
}

func TestDocumentReplaceRedraws(t *testing.T) {
	d := New("t")
	s := rect(t, 0)
	old := s.Draw()
	d.Replace([]*vector.Shape{s})
	if s.Node() == nil || s.Node() == old {
		t.Fatalf("Replace should give the shape a fresh node")
	}
	d.Touch()
	if !d.Dirty() || d.Revision() != 1 {
		t.Fatalf("Touch should mark dirty and bump revision")
	}
	d.MarkClean()
	if d.Dirty() {
		t.Fatalf("MarkClean did not clear the flag")
	}
}

func TestMetadataJSON(t *testing.T) {
	b, err := json.Marshal(Metadata{Name: "sketch"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"name":"sketch"}` {
		t.Fatalf("unexpected json %s", b)
	}
}
