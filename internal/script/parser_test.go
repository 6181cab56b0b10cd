/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
	"testing"

	"godraw/internal/vector"
)

func TestParseStatements(t *testing.T) {
	input := `# build a small scene
draw rectangle 10 20 100 50 #ff0000 null
DRAW line 0 0
polygon 0 0 40 0 20 30 #000000
text 5 5 13 "Hello \"world\""

select 0
select at 12 22
move 1.5 -2
resize 2
stretch 0.5 3
rotate 90
mirrorx
color #00ff00 transparent
paste 5 5
edit "new text"
fontsize 24
save out.gdr
undo`

	stmts, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(stmts) != 17 {
		t.Fatalf("expected 17 statements, got %d", len(stmts))
	}

	d := stmts[0]
	if d.Op != OpDraw || d.Kind != vector.KindRectangle || len(d.Nums) != 4 || d.LineNo != 2 {
		t.Fatalf("unexpected draw: %+v", d)
	}
	if c, _ := d.Border.Color(); c != vector.Red || !d.Fill.IsNone() {
		t.Fatalf("unexpected paints: %v %v", d.Border, d.Fill)
	}
	if l := stmts[1]; l.Kind != vector.KindLine || len(l.Nums) != 2 || !l.Border.IsNone() {
		t.Fatalf("unexpected line: %+v", l)
	}
	if p := stmts[2]; p.Op != OpPolygon || len(p.Nums) != 6 || p.Border.IsNone() || !p.Fill.IsNone() {
		t.Fatalf("unexpected polygon: %+v", p)
	}
	if tx := stmts[3]; tx.Op != OpText || tx.Text != `Hello "world"` || tx.Nums[2] != 13 {
		t.Fatalf("unexpected text: %+v", tx)
	}
	if s := stmts[5]; s.Op != OpSelectAt || s.Nums[0] != 12 {
		t.Fatalf("unexpected select at: %+v", s)
	}
	if m := stmts[6]; m.Nums[0] != 1.5 || m.Nums[1] != -2 {
		t.Fatalf("unexpected move: %+v", m)
	}
	if s := stmts[15]; s.Op != OpSave || s.Text != "out.gdr" {
		t.Fatalf("unexpected save: %+v", s)
	}
}

func TestParseReportsErrorsAndContinues(t *testing.T) {
	input := strings.Join([]string{
		"draw polygon 1 2",
		"draw rectangle 1",
		"resize big",
		"jump 3",
		"polygon 0 0 1 1",
		`text 1 2 12 unquoted`,
		"color #12 null",
		"mirrorx now",
		`edit "unterminated`,
		"select -1",
		"move 1 2",
	}, "\n")
	stmts, errs := Parse(input)
	if len(errs) != 10 {
		t.Fatalf("expected 10 errors, got %d: %+v", len(errs), errs)
	}
	for i, e := range errs {
		if e.Line != i+1 {
			t.Fatalf("error %d reported on line %d: %v", i, e.Line, e)
		}
		if e.Column < 1 {
			t.Fatalf("bad column: %v", e)
		}
	}
	if len(stmts) != 1 || stmts[0].Op != OpMove || stmts[0].LineNo != 11 {
		t.Fatalf("unexpected statements: %+v", stmts)
	}
	if errs[2].Column != 8 {
		t.Fatalf("resize error column = %d, want 8", errs[2].Column)
	}
}

func TestParseEmptyAndComments(t *testing.T) {
	stmts, errs := Parse("\n# only a comment\n   \n")
	if len(stmts) != 0 || len(errs) != 0 {
		t.Fatalf("got %v %v", stmts, errs)
	}
}
