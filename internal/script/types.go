/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"

	"godraw/internal/vector"
)

// A script drives an editing session one statement per line:
//
//	draw <line|rectangle|ellipse> <x> <y> [w h] [border [fill]]
//	polygon <x1> <y1> <x2> <y2> <x3> <y3> ... [border [fill]]
//	text <x> <y> <size> "<content>"
//	select <index> | select at <x> <y>
//	move <x> <y> | resize <f> | stretch <fx> <fy> | rotate <deg>
//	mirrorx | mirrory | color <border> <fill> | delete | cut | copy
//	paste <x> <y> | front | back | edit "<content>" | fontsize <n>
//	save <path> | load <path> | undo
//
// Lines starting with '#' are comments. Keywords are case-insensitive.

// Op names a statement.
type Op string

const (
	OpDraw     Op = "draw"
	OpPolygon  Op = "polygon"
	OpText     Op = "text"
	OpSelect   Op = "select"
	OpSelectAt Op = "select at"
	OpMove     Op = "move"
	OpResize   Op = "resize"
	OpStretch  Op = "stretch"
	OpRotate   Op = "rotate"
	OpMirrorX  Op = "mirrorx"
	OpMirrorY  Op = "mirrory"
	OpColor    Op = "color"
	OpDelete   Op = "delete"
	OpCut      Op = "cut"
	OpCopy     Op = "copy"
	OpPaste    Op = "paste"
	OpFront    Op = "front"
	OpBack     Op = "back"
	OpEdit     Op = "edit"
	OpFontSize Op = "fontsize"
	OpSave     Op = "save"
	OpLoad     Op = "load"
	OpUndo     Op = "undo"
)

// Statement is one parsed script line.
type Statement struct {
	Op   Op
	Kind vector.Kind // draw only
	// Nums holds the numeric operands in source order.
	Nums []float64
	// Border and Fill are set by draw, polygon and color.
	Border, Fill vector.Paint
	// Text is the quoted content of text/edit, or the path of save/load.
	Text   string
	LineNo int
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message) }
