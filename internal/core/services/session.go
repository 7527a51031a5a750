// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services contains the studio business logic. This file, `session.go`,
// holds the mutable state of one browser session: the top-level status, the
// generation epoch and the keyed collection of concept cards.
package services

import (
	"sync"
	"time"

	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
)

// Stopper is the part of *time.Timer the copy indicator needs.
type Stopper interface {
	Stop() bool
}

// Card is the per-concept preview state. All fields are guarded by the
// owning session's mutex.
type Card struct {
	id       string
	index    int
	concept  *model.ThumbnailConcept
	colors   []string
	imageURL string
	loading  bool
	errMsg   string

	copied    bool
	copySeq   uint64
	copyTimer Stopper
}

func (c *Card) view() *model.CardView {
	return &model.CardView{
		Id:      c.id,
		Index:   c.index,
		Concept: c.concept,
		Colors:  append([]string{}, c.colors...),
		Preview: model.PreviewView{
			ImageURL: c.imageURL,
			Loading:  c.loading,
			Error:    c.errMsg,
			Copied:   c.copied,
		},
	}
}

func (c *Card) stopCopyTimer() {
	if c.copyTimer != nil {
		c.copyTimer.Stop()
		c.copyTimer = nil
	}
}

// Session is the studio state of one browser tab.
type Session struct {
	mu sync.Mutex

	id      string
	created time.Time
	title   string
	status  model.Status
	errMsg  string
	epoch   uint64 // Incremented by every accepted submission.
	cards   map[string]*Card
	order   []string // Card ids in response order.
}

func newSession(id string) *Session {
	return &Session{
		id:      id,
		created: time.Now(),
		status:  model.StatusIdle,
		cards:   make(map[string]*Card),
		order:   make([]string, 0),
	}
}

// Id returns the session id.
func (s *Session) Id() string {
	return s.id
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() model.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() model.SessionView {
	view := model.SessionView{
		Id:     s.id,
		Title:  s.title,
		Status: s.status,
		Error:  s.errMsg,
		Epoch:  s.epoch,
		Cards:  make([]*model.CardView, 0, len(s.order)),
	}
	anyLoading := false
	for _, id := range s.order {
		card := s.cards[id]
		anyLoading = anyLoading || card.loading
		view.Cards = append(view.Cards, card.view())
	}
	if view.Status == model.StatusIdle && anyLoading {
		view.Status = model.StatusGeneratingImage
	}
	return view
}

// resetLocked drops every card and cancels their pending copy timers.
func (s *Session) resetLocked() {
	for _, card := range s.cards {
		card.stopCopyTimer()
	}
	s.cards = make(map[string]*Card)
	s.order = make([]string, 0)
}

// close cancels pending timers once the session leaves the store.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, card := range s.cards {
		card.stopCopyTimer()
	}
}
