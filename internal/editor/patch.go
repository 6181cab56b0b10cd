/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

// patch is the undo record of one mutated property: it reads the value
// before the change, writes the new one and can write the old one back.
type patch[T any] struct {
	get func() T
	set func(T) error
	// derive computes the new value from the old one at apply time; nil
	// means the fixed value in new is used.
	derive   func(old T) T
	old, new T
}

func (p *patch[T]) apply() error {
	p.old = p.get()
	if p.derive != nil {
		p.new = p.derive(p.old)
	}
	return p.set(p.new)
}

func (p *patch[T]) revert() error { return p.set(p.old) }

// lifecycle enforces execute-once, undo-at-most-once-after-execute.
type lifecycle struct {
	executed, undone bool
}

func (l *lifecycle) beginExecute() error {
	if l.executed {
		return ErrAlreadyExecuted
	}
	return nil
}

func (l *lifecycle) beginUndo() error {
	if !l.executed || l.undone {
		return ErrNotExecuted
	}
	return nil
}

func (l *lifecycle) markExecuted() { l.executed = true }
func (l *lifecycle) markUndone()   { l.undone = true }

// base carries what every command needs.
type base struct {
	lifecycle
	sess *Session
	name string
}

func (b *base) Name() string { return b.name }
