/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Command is one invertible edit. Undo is called at most once per Execute.
type Command interface {
	Execute() error
	Undo() error
	Name() string
}

// Resetter is implemented by commands that invalidate all earlier history
// when they run, such as loading a document. The invoker clears the
// history instead of recording them.
type Resetter interface {
	ResetsHistory() bool
}

// Config controls the depth cap.
type Config struct {
	// MaxDepth limits the number of recorded commands (0 means unlimited).
	// The oldest entries are dropped first.
	MaxDepth int
}

type entry struct {
	cmd Command
	ts  time.Time
}

// History is the LIFO log of executed, not yet undone commands.
// There is no redo: a popped command is gone. It is safe for concurrent use.
type History struct {
	cfg Config
	mu  sync.Mutex

	entries []entry
	dropped int
	now     func() time.Time
}

func NewHistory(cfg Config) *History {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &History{cfg: cfg, now: time.Now}
}

// Push records an executed command.
func (h *History) Push(c Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry{cmd: c, ts: h.now()})
	h.enforceCapLocked()
}

// Pop removes and returns the most recent command.
func (h *History) Pop() (Command, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.entries)
	if n == 0 {
		return nil, false
	}
	e := h.entries[n-1]
	h.entries[n-1] = entry{}
	h.entries = h.entries[:n-1]
	return e.cmd, true
}

// Peek returns the most recent command without removing it.
func (h *History) Peek() (Command, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return nil, false
	}
	return h.entries[len(h.entries)-1].cmd, true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear drops every recorded command.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Names lists command names oldest first.
func (h *History) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.cmd.Name()
	}
	return out
}

// Stats returns current sizes for diagnostics: recorded depth, entries
// dropped by the cap so far, and the age of the oldest entry.
func (h *History) Stats() (depth, dropped int, oldest time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 0 {
		oldest = h.now().Sub(h.entries[0].ts)
	}
	return len(h.entries), h.dropped, oldest
}

func (h *History) enforceCapLocked() {
	if h.cfg.MaxDepth <= 0 || len(h.entries) <= h.cfg.MaxDepth {
		return
	}
	// drop the oldest extras
	toDrop := len(h.entries) - h.cfg.MaxDepth
	h.dropped += toDrop
	h.entries = append([]entry{}, h.entries[toDrop:]...)
}
