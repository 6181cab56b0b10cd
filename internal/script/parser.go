/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"godraw/internal/vector"
)

var reToken = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|\S+`)

type token struct {
	text   string
	quoted bool
	col    int
}

func tokenize(line string) ([]token, error) {
	locs := reToken.FindAllStringIndex(line, -1)
	out := make([]token, 0, len(locs))
	for _, l := range locs {
		raw := line[l[0]:l[1]]
		t := token{text: raw, col: l[0] + 1}
		if strings.HasPrefix(raw, `"`) {
			s, err := strconv.Unquote(raw)
			if err != nil {
				return nil, Error{Column: t.col, Message: "unterminated or invalid quoted string"}
			}
			t.text, t.quoted = s, true
		}
		out = append(out, t)
	}
	return out, nil
}

// Parse parses script text into statements. Lines that fail to parse are
// reported and skipped; the remaining statements are still returned.
func Parse(input string) ([]Statement, []Error) {
	var (
		stmts []Statement
		errs  []Error
	)
	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		trim := strings.TrimSpace(scanner.Text())
		if trim == "" || strings.HasPrefix(trim, "#") {
			continue
		}
		toks, err := tokenize(trim)
		if err != nil {
			e := err.(Error)
			e.Line = lineNo
			errs = append(errs, e)
			continue
		}
		st, perr := parseStatement(toks)
		if perr != nil {
			perr.Line = lineNo
			errs = append(errs, *perr)
			continue
		}
		st.LineNo = lineNo
		stmts = append(stmts, st)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return stmts, errs
}

type lineParser struct {
	toks []token
	pos  int
	err  *Error
}

func (p *lineParser) fail(col int, format string, args ...any) {
	if p.err == nil {
		p.err = &Error{Column: col, Message: fmt.Sprintf(format, args...)}
	}
}

func (p *lineParser) more() bool { return p.pos < len(p.toks) }

func (p *lineParser) endCol() int {
	if len(p.toks) == 0 {
		return 1
	}
	last := p.toks[len(p.toks)-1]
	return last.col + len(last.text)
}

func (p *lineParser) next(what string) (token, bool) {
	if !p.more() {
		p.fail(p.endCol(), "missing %s", what)
		return token{}, false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *lineParser) num(what string) float64 {
	t, ok := p.next(what)
	if !ok {
		return 0
	}
	v, err := parseNum(t.text)
	if err != nil || t.quoted {
		p.fail(t.col, "%s: %q is not a number", what, t.text)
		return 0
	}
	return v
}

func (p *lineParser) quoted(what string) string {
	t, ok := p.next(what)
	if ok && !t.quoted {
		p.fail(t.col, "%s must be quoted", what)
	}
	return t.text
}

func (p *lineParser) paint(what string) vector.Paint {
	t, ok := p.next(what)
	if !ok {
		return vector.NoPaint
	}
	v, err := vector.ParsePaint(t.text)
	if err != nil {
		p.fail(t.col, "%s: %v", what, err)
	}
	return v
}

// optPaints reads up to two trailing paints; missing ones stay unset so
// the session defaults apply.
func (p *lineParser) optPaints() (border, fill vector.Paint) {
	if p.more() {
		border = p.paint("border")
	}
	if p.more() {
		fill = p.paint("fill")
	}
	return border, fill
}

func (p *lineParser) done() {
	if p.more() {
		t := p.toks[p.pos]
		p.fail(t.col, "unexpected %q", t.text)
	}
}

// leadingNums counts consecutive numeric tokens from the cursor.
func (p *lineParser) leadingNums() int {
	n := 0
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].quoted {
			break
		}
		if _, err := parseNum(p.toks[i].text); err != nil {
			break
		}
		n++
	}
	return n
}

func parseNum(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

// arity lists statements that take a fixed number of numeric operands.
var arity = map[Op]int{
	OpMove: 2, OpResize: 1, OpStretch: 2, OpRotate: 1, OpPaste: 2, OpFontSize: 1,
	OpMirrorX: 0, OpMirrorY: 0, OpDelete: 0, OpCut: 0, OpCopy: 0,
	OpFront: 0, OpBack: 0, OpUndo: 0,
}

func parseStatement(toks []token) (Statement, *Error) {
	p := &lineParser{toks: toks}
	head, _ := p.next("keyword")
	op := Op(strings.ToLower(head.text))
	st := Statement{Op: op}

	switch op {
	case OpDraw:
		kt, ok := p.next("shape kind")
		if !ok {
			break
		}
		k, known := vector.ParseKind(strings.ToLower(kt.text))
		if !known || k == vector.KindPolygon || k == vector.KindText {
			p.fail(kt.col, "draw: unsupported kind %q", kt.text)
			break
		}
		st.Kind = k
		n := p.leadingNums()
		if n != 2 && n != 4 {
			p.fail(kt.col, "draw wants x y or x y w h, got %d numbers", n)
			break
		}
		for i := 0; i < n; i++ {
			st.Nums = append(st.Nums, p.num("coordinate"))
		}
		st.Border, st.Fill = p.optPaints()
	case OpPolygon:
		n := p.leadingNums()
		if n < 6 || n%2 != 0 {
			p.fail(head.col, "polygon wants at least three x y pairs, got %d numbers", n)
			break
		}
		for i := 0; i < n; i++ {
			st.Nums = append(st.Nums, p.num("coordinate"))
		}
		st.Border, st.Fill = p.optPaints()
	case OpText:
		st.Nums = []float64{p.num("x"), p.num("y"), p.num("size")}
		st.Text = p.quoted("content")
	case OpSelect:
		if p.more() && strings.EqualFold(p.toks[p.pos].text, "at") {
			p.pos++
			st.Op = OpSelectAt
			st.Nums = []float64{p.num("x"), p.num("y")}
			break
		}
		idx := p.num("index")
		if idx != math.Trunc(idx) || idx < 0 {
			p.fail(head.col, "select: index must be a non-negative integer")
		}
		st.Nums = []float64{idx}
	case OpColor:
		st.Border = p.paint("border")
		st.Fill = p.paint("fill")
	case OpEdit:
		st.Text = p.quoted("content")
	case OpSave, OpLoad:
		t, ok := p.next("path")
		st.Text = t.text
		if ok && strings.TrimSpace(t.text) == "" {
			p.fail(t.col, "%s: empty path", op)
		}
	default:
		n, known := arity[op]
		if !known {
			p.fail(head.col, "unknown statement %q", head.text)
			break
		}
		for i := 0; i < n; i++ {
			st.Nums = append(st.Nums, p.num(string(op)+" operand"))
		}
	}
	p.done()
	if p.err != nil {
		return Statement{}, p.err
	}
	return st, nil
}
