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

// Package services contains the studio business logic. This file, `studio.go`,
// defines the StudioService, which drives the page state machine of every
// session: concept submission, per-card previews and the copy indicator.
//
// Logic Flow:
//  1. An accepted submission increments the session epoch, clears the cards
//     and starts the concept call in the background.
//  2. When the call finishes, its result is applied only if the session is
//     still on the same epoch. Otherwise it is dropped as stale.
//  3. Previews run per card in the background and are applied only if the
//     epoch is unchanged and the card is still part of the session.
//  4. Model failures are logged with their cause; the session or card only
//     shows a generic message.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
	"github.com/jaycherian/thumbstopper-ai/internal/telemetry"
)

// Messages shown to the user. The underlying cause is only logged.
const (
	ConceptFailureMessage = "Failed to generate concepts. Please check your API key or try again."
	PreviewFailureMessage = "Failed to generate preview. Try again."
)

var (
	ErrEmptyTitle       = errors.New("title must not be empty")
	ErrConceptsInFlight = errors.New("concept generation already in progress")
	ErrPreviewInFlight  = errors.New("preview generation already in progress for this card")
	ErrSessionNotFound  = errors.New("session not found")
	ErrCardNotFound     = errors.New("card not found")
)

// ConceptGenerator produces the concepts for a title. Implemented by
// workflow.ConceptWorkflow.
type ConceptGenerator interface {
	GenerateConcepts(ctx context.Context, title string) ([]*model.ThumbnailConcept, error)
}

// PreviewGenerator produces a data URI for an image prompt. Implemented by
// workflow.PreviewWorkflow.
type PreviewGenerator interface {
	GeneratePreview(ctx context.Context, imagePrompt string) (string, error)
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Stopper

func timeAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// StudioOptions tunes a StudioService.
type StudioOptions struct {
	CopiedResetDelay time.Duration // Lifetime of the "Copied" indicator.
	CallTimeout      time.Duration // Upper bound of one model call; zero means none.
	AfterFunc        AfterFunc     // Defaults to time.AfterFunc.
}

// StudioService is safe for concurrent use.
type StudioService struct {
	Sessions *SessionStore
	concepts ConceptGenerator
	previews PreviewGenerator
	options  StudioOptions
	inFlight sync.WaitGroup
}

// NewStudioService wires the two generators into a service.
//
// Inputs:
//   - sessions: The store holding the sessions.
//   - concepts: The concept generator.
//   - previews: The preview generator.
//   - options: Timings; zero values fall back to time.AfterFunc and no timeout.
//
// Outputs:
//   - *StudioService: The service.
func NewStudioService(sessions *SessionStore, concepts ConceptGenerator, previews PreviewGenerator, options StudioOptions) *StudioService {
	if options.AfterFunc == nil {
		options.AfterFunc = timeAfterFunc
	}
	return &StudioService{
		Sessions: sessions,
		concepts: concepts,
		previews: previews,
		options:  options,
	}
}

// NewSession creates an empty idle session.
func (s *StudioService) NewSession() model.SessionView {
	return s.Sessions.Create().Snapshot()
}

// Snapshot returns the current state of a session.
func (s *StudioService) Snapshot(sessionId string) (model.SessionView, error) {
	session, err := s.Sessions.Get(sessionId)
	if err != nil {
		return model.SessionView{}, err
	}
	return session.Snapshot(), nil
}

// SubmitTitle starts concept generation for title.
//
// Inputs:
//   - ctx: The request context. Its values (trace) are kept for the background
//     call but its cancellation is not.
//   - sessionId: The session to update.
//   - title: The video title as typed.
//
// Outputs:
//   - model.SessionView: The state right after the submission was handled.
//   - error: ErrSessionNotFound, ErrEmptyTitle (state unchanged) or
//     ErrConceptsInFlight (state unchanged).
func (s *StudioService) SubmitTitle(ctx context.Context, sessionId string, title string) (model.SessionView, error) {
	session, err := s.Sessions.Get(sessionId)
	if err != nil {
		return model.SessionView{}, err
	}

	title = strings.TrimSpace(title)
	session.mu.Lock()
	defer session.mu.Unlock()

	if title == "" {
		return session.snapshotLocked(), ErrEmptyTitle
	}
	if session.status == model.StatusGeneratingConcepts {
		return session.snapshotLocked(), ErrConceptsInFlight
	}

	session.epoch++
	session.resetLocked()
	session.errMsg = ""
	session.title = title
	session.status = model.StatusGeneratingConcepts
	epoch := session.epoch

	s.inFlight.Add(1)
	go s.runConcepts(context.WithoutCancel(ctx), session, epoch, title)

	return session.snapshotLocked(), nil
}

func (s *StudioService) runConcepts(ctx context.Context, session *Session, epoch uint64, title string) {
	defer s.inFlight.Done()

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	start := time.Now()
	concepts, err := s.concepts.GenerateConcepts(callCtx, title)
	telemetry.ConceptDuration.Observe(time.Since(start).Seconds())

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.epoch != epoch {
		telemetry.ConceptGenerations.WithLabelValues(telemetry.OutcomeStale).Inc()
		slog.InfoContext(ctx, "discarding stale concept result", "session", session.id, "epoch", epoch, "current", session.epoch)
		return
	}

	session.resetLocked()
	if err != nil {
		telemetry.ConceptGenerations.WithLabelValues(telemetry.OutcomeError).Inc()
		slog.ErrorContext(ctx, "error generating concepts", "session", session.id, "title", title, "error", err)
		session.errMsg = ConceptFailureMessage
		session.status = model.StatusError
		return
	}

	for i, concept := range concepts {
		card := &Card{
			id:      uuid.NewString(),
			index:   i,
			concept: concept,
			colors:  concept.Colors(),
		}
		session.cards[card.id] = card
		session.order = append(session.order, card.id)
	}
	session.status = model.StatusIdle
	telemetry.ConceptGenerations.WithLabelValues(telemetry.OutcomeSuccess).Inc()
	slog.InfoContext(ctx, "generated concepts", "session", session.id, "count", len(concepts))
}

// RequestPreview starts image generation for one card.
//
// Outputs:
//   - model.SessionView: The state with the card loading.
//   - error: ErrSessionNotFound, ErrCardNotFound or ErrPreviewInFlight.
func (s *StudioService) RequestPreview(ctx context.Context, sessionId string, cardId string) (model.SessionView, error) {
	session, err := s.Sessions.Get(sessionId)
	if err != nil {
		return model.SessionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	card, ok := session.cards[cardId]
	if !ok {
		return session.snapshotLocked(), ErrCardNotFound
	}
	if card.loading {
		return session.snapshotLocked(), ErrPreviewInFlight
	}

	card.loading = true
	card.errMsg = ""
	epoch := session.epoch
	prompt := card.concept.ImagePrompt

	s.inFlight.Add(1)
	go s.runPreview(context.WithoutCancel(ctx), session, card, epoch, prompt)

	return session.snapshotLocked(), nil
}

func (s *StudioService) runPreview(ctx context.Context, session *Session, card *Card, epoch uint64, prompt string) {
	defer s.inFlight.Done()

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	start := time.Now()
	uri, err := s.previews.GeneratePreview(callCtx, prompt)
	telemetry.PreviewDuration.Observe(time.Since(start).Seconds())

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.epoch != epoch || session.cards[card.id] != card {
		telemetry.PreviewGenerations.WithLabelValues(telemetry.OutcomeStale).Inc()
		slog.InfoContext(ctx, "discarding stale preview result", "session", session.id, "card", card.id)
		return
	}

	card.loading = false
	if err != nil {
		telemetry.PreviewGenerations.WithLabelValues(telemetry.OutcomeError).Inc()
		slog.ErrorContext(ctx, "error generating preview", "session", session.id, "card", card.id, "error", err)
		card.errMsg = PreviewFailureMessage
		return
	}
	card.imageURL = uri
	card.errMsg = ""
	telemetry.PreviewGenerations.WithLabelValues(telemetry.OutcomeSuccess).Inc()
}

// CopyPrompt flags the card as copied and returns its image prompt. The flag
// clears after the configured delay; a repeated copy restarts the delay.
//
// Outputs:
//   - string: The image prompt to place on the clipboard.
//   - model.SessionView: The state with the card flagged.
//   - error: ErrSessionNotFound or ErrCardNotFound.
func (s *StudioService) CopyPrompt(sessionId string, cardId string) (string, model.SessionView, error) {
	session, err := s.Sessions.Get(sessionId)
	if err != nil {
		return "", model.SessionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	card, ok := session.cards[cardId]
	if !ok {
		return "", session.snapshotLocked(), ErrCardNotFound
	}

	card.stopCopyTimer()
	card.copied = true
	card.copySeq++
	seq := card.copySeq
	card.copyTimer = s.options.AfterFunc(s.options.CopiedResetDelay, func() {
		session.mu.Lock()
		defer session.mu.Unlock()
		if card.copySeq == seq {
			card.copied = false
			card.copyTimer = nil
		}
	})

	return card.concept.ImagePrompt, session.snapshotLocked(), nil
}

// Wait blocks until every background model call has finished.
func (s *StudioService) Wait() {
	s.inFlight.Wait()
}

func (s *StudioService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.options.CallTimeout > 0 {
		return context.WithTimeout(ctx, s.options.CallTimeout)
	}
	return context.WithCancel(ctx)
}
