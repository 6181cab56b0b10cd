/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the command-execution core: a session owning the
// document, the command history and the clipboard, plus the catalog of
// invertible commands the UI builds and hands to ExecuteCommand.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"godraw/internal/clipboard"
	"godraw/internal/config"
	"godraw/internal/domain"
	applog "godraw/internal/log"
	"godraw/internal/storage"
	"godraw/internal/undo"
)

var (
	// ErrNotExecuted is returned by Undo on a command that has not run or was already undone.
	ErrNotExecuted = errors.New("command not executed")
	// ErrAlreadyExecuted is returned by a second Execute.
	ErrAlreadyExecuted = errors.New("command already executed")
	// ErrNotText is returned by text commands targeting another kind of shape.
	ErrNotText = errors.New("shape is not text")
	// ErrNoShape is returned by commands built without a target shape.
	ErrNoShape = errors.New("no target shape")
)

// passive marks commands that leave the drawing untouched.
type passive interface{ passive() }

// Session is the explicit editing context every command works on.
type Session struct {
	Doc       *domain.Document
	History   *undo.History
	Clipboard *clipboard.Clipboard
	Factory   Factory
	Storage   config.StorageConfig
	Logger    *slog.Logger

	mu   sync.Mutex
	revs *storage.RevisionStore
}

// NewSession builds an empty session from the application config.
func NewSession(cfg config.AppConfig) (*Session, error) {
	f, err := NewFactory(cfg.Defaults)
	if err != nil {
		return nil, err
	}
	cb := clipboard.New()
	if cfg.Clipboard.SystemMirror {
		cb.SetMirror(clipboard.SystemMirror{}, storage.EncodeShape)
	}
	return &Session{
		Doc:       domain.New("untitled"),
		History:   undo.NewHistory(undo.Config{MaxDepth: cfg.History.MaxDepth}),
		Clipboard: cb,
		Factory:   f,
		Storage:   cfg.Storage,
		Logger:    applog.WithComponent("editor"),
	}, nil
}

func (s *Session) ctx() context.Context {
	return applog.ContextWithDocument(context.Background(), s.Doc.Meta.Path)
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return applog.WithComponent("editor")
}

// ExecuteCommand runs cmd and records it. A failing command is not recorded;
// a command that resets history clears it instead of being recorded.
func (s *Session) ExecuteCommand(cmd undo.Command) error {
	l := applog.WithOperation(s.logger(), cmd.Name())
	if err := cmd.Execute(); err != nil {
		l.WarnContext(s.ctx(), "command failed", slog.Any("err", err))
		return err
	}
	if r, ok := cmd.(undo.Resetter); ok && r.ResetsHistory() {
		s.History.Clear()
	} else {
		s.History.Push(cmd)
	}
	if _, ok := cmd.(passive); !ok {
		s.Doc.Touch()
	}
	l.DebugContext(s.ctx(), "executed", slog.Int("depth", s.History.Len()), slog.Int("shapes", s.Doc.Len()))
	return nil
}

// Undo reverts the most recent command. It reports false when the history
// is empty, which is not an error.
func (s *Session) Undo() (bool, error) {
	cmd, ok := s.History.Pop()
	if !ok {
		s.logger().DebugContext(s.ctx(), "undo on empty history")
		return false, nil
	}
	l := applog.WithOperation(s.logger(), cmd.Name())
	if err := cmd.Undo(); err != nil {
		l.WarnContext(s.ctx(), "undo failed", slog.Any("err", err))
		return true, err
	}
	if _, ok := cmd.(passive); !ok {
		s.Doc.Touch()
	}
	l.DebugContext(s.ctx(), "undone", slog.Int("depth", s.History.Len()))
	return true, nil
}

// revisions returns the store for documents in dir, opening it on first use.
func (s *Session) revisions(dir string) (*storage.RevisionStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := storage.RevisionsPath(dir)
	if s.revs != nil && s.revs.Path() == want {
		return s.revs, nil
	}
	if s.revs != nil {
		_ = s.revs.Close()
		s.revs = nil
	}
	st, err := storage.OpenRevisions(dir)
	if err != nil {
		return nil, fmt.Errorf("open revisions: %w", err)
	}
	s.revs = st
	return st, nil
}

// Revisions opens the revision store next to the current document.
func (s *Session) Revisions() (*storage.RevisionStore, error) {
	if s.Doc.Meta.Path == "" {
		return nil, errors.New("document has no path")
	}
	return s.revisions(filepath.Dir(s.Doc.Meta.Path))
}

// Close releases resources held by the session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revs == nil {
		return nil
	}
	err := s.revs.Close()
	s.revs = nil
	return err
}
