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

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventually = 2 * time.Second
const tick = 5 * time.Millisecond

type conceptResult struct {
	concepts []*model.ThumbnailConcept
	err      error
}

// fakeConcepts answers each call with the next queued result once its gate
// channel (if any) is closed.
type fakeConcepts struct {
	mu      sync.Mutex
	results []conceptResult
	gates   []chan struct{}
	titles  []string
}

func (f *fakeConcepts) push(result conceptResult, gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
	f.gates = append(f.gates, gate)
}

func (f *fakeConcepts) GenerateConcepts(ctx context.Context, title string) ([]*model.ThumbnailConcept, error) {
	f.mu.Lock()
	result, gate := f.results[0], f.gates[0]
	f.results, f.gates = f.results[1:], f.gates[1:]
	f.titles = append(f.titles, title)
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return result.concepts, result.err
}

func (f *fakeConcepts) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.titles...)
}

type fakePreviews struct {
	mu      sync.Mutex
	uri     map[string]string
	err     map[string]error
	gate    chan struct{}
	prompts []string
}

func newFakePreviews() *fakePreviews {
	return &fakePreviews{uri: map[string]string{}, err: map[string]error{}}
}

func (f *fakePreviews) GeneratePreview(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	gate := f.gate
	uri, err := f.uri[prompt], f.err[prompt]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return uri, err
}

func (f *fakePreviews) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// manualTimers captures scheduled copy resets so tests fire them explicitly.
type manualTimers struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
	timers []*manualTimer
}

type manualTimer struct {
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (m *manualTimers) AfterFunc(d time.Duration, f func()) Stopper {
	m.mu.Lock()
	defer m.mu.Unlock()
	timer := &manualTimer{}
	m.delays = append(m.delays, d)
	m.funcs = append(m.funcs, f)
	m.timers = append(m.timers, timer)
	return timer
}

func (m *manualTimers) fire(i int) {
	m.mu.Lock()
	f := m.funcs[i]
	m.mu.Unlock()
	f()
}

func newStudio(concepts ConceptGenerator, previews PreviewGenerator, timers *manualTimers) *StudioService {
	options := StudioOptions{CopiedResetDelay: 2 * time.Second, CallTimeout: 5 * time.Second}
	if timers != nil {
		options.AfterFunc = timers.AfterFunc
	}
	return NewStudioService(NewSessionStore(time.Minute, time.Minute), concepts, previews, options)
}

func threeConcepts() []*model.ThumbnailConcept {
	return model.GetExampleConcepts()
}

func waitForStatus(t *testing.T, studio *StudioService, id string, status model.Status) model.SessionView {
	t.Helper()
	var view model.SessionView
	require.Eventually(t, func() bool {
		v, err := studio.Snapshot(id)
		if err != nil {
			return false
		}
		view = v
		return v.Status == status
	}, eventually, tick)
	return view
}

func generateCards(t *testing.T, studio *StudioService, concepts *fakeConcepts) model.SessionView {
	t.Helper()
	concepts.push(conceptResult{concepts: threeConcepts()}, nil)
	session := studio.NewSession()
	_, err := studio.SubmitTitle(context.Background(), session.Id, "I survived 50 hours in Antarctica")
	require.NoError(t, err)
	view := waitForStatus(t, studio, session.Id, model.StatusIdle)
	require.Len(t, view.Cards, model.ConceptCount)
	return view
}

func TestNewSessionIsIdle(t *testing.T) {
	studio := newStudio(&fakeConcepts{}, newFakePreviews(), nil)
	view := studio.NewSession()

	assert.NotEmpty(t, view.Id)
	assert.Equal(t, model.StatusIdle, view.Status)
	assert.Empty(t, view.Cards)
	assert.Empty(t, view.Error)
	assert.Equal(t, 1, studio.Sessions.Count())
}

func TestSubmitBlankTitleIsRejected(t *testing.T) {
	concepts := &fakeConcepts{}
	studio := newStudio(concepts, newFakePreviews(), nil)
	session := studio.NewSession()

	for _, title := range []string{"", "   ", "\t\n"} {
		view, err := studio.SubmitTitle(context.Background(), session.Id, title)
		assert.ErrorIs(t, err, ErrEmptyTitle)
		assert.Equal(t, model.StatusIdle, view.Status)
		assert.Equal(t, uint64(0), view.Epoch)
	}
	studio.Wait()
	assert.Empty(t, concepts.calls())
}

func TestSubmitTitleProducesCardsInOrder(t *testing.T) {
	concepts := &fakeConcepts{}
	gate := make(chan struct{})
	concepts.push(conceptResult{concepts: threeConcepts()}, gate)
	studio := newStudio(concepts, newFakePreviews(), nil)
	session := studio.NewSession()

	view, err := studio.SubmitTitle(context.Background(), session.Id, "  I survived 50 hours in Antarctica  ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusGeneratingConcepts, view.Status)
	assert.Equal(t, "I survived 50 hours in Antarctica", view.Title)
	assert.Empty(t, view.Cards)

	close(gate)
	view = waitForStatus(t, studio, session.Id, model.StatusIdle)

	expected := threeConcepts()
	require.Len(t, view.Cards, 3)
	for i, card := range view.Cards {
		assert.Equal(t, i, card.Index)
		assert.NotEmpty(t, card.Id)
		assert.Equal(t, expected[i].Hook, card.Concept.Hook)
		assert.Equal(t, model.ExtractColors(expected[i].ColorPalette), card.Colors)
		assert.False(t, card.Preview.Loading)
		assert.Empty(t, card.Preview.ImageURL)
		assert.Empty(t, card.Preview.Error)
		assert.False(t, card.Preview.Copied)
	}
	assert.Equal(t, []string{"I survived 50 hours in Antarctica"}, concepts.calls())
	assert.Empty(t, view.Error)
}

func TestSubmitTitleFailureShowsGenericError(t *testing.T) {
	concepts := &fakeConcepts{}
	concepts.push(conceptResult{err: errors.New("invalid concepts: expected 3 items")}, nil)
	studio := newStudio(concepts, newFakePreviews(), nil)
	session := studio.NewSession()

	_, err := studio.SubmitTitle(context.Background(), session.Id, "Title")
	require.NoError(t, err)

	view := waitForStatus(t, studio, session.Id, model.StatusError)
	assert.Equal(t, ConceptFailureMessage, view.Error)
	assert.Empty(t, view.Cards)
}

func TestSubmitAfterErrorClearsMessage(t *testing.T) {
	concepts := &fakeConcepts{}
	concepts.push(conceptResult{err: errors.New("boom")}, nil)
	studio := newStudio(concepts, newFakePreviews(), nil)
	session := studio.NewSession()

	_, err := studio.SubmitTitle(context.Background(), session.Id, "Title")
	require.NoError(t, err)
	waitForStatus(t, studio, session.Id, model.StatusError)

	gate := make(chan struct{})
	concepts.push(conceptResult{concepts: threeConcepts()}, gate)
	view, err := studio.SubmitTitle(context.Background(), session.Id, "Title")
	require.NoError(t, err)
	assert.Equal(t, model.StatusGeneratingConcepts, view.Status)
	assert.Empty(t, view.Error)

	close(gate)
	view = waitForStatus(t, studio, session.Id, model.StatusIdle)
	assert.Len(t, view.Cards, 3)
}

func TestSubmitWhileGeneratingIsRejected(t *testing.T) {
	concepts := &fakeConcepts{}
	gate := make(chan struct{})
	concepts.push(conceptResult{concepts: threeConcepts()}, gate)
	studio := newStudio(concepts, newFakePreviews(), nil)
	session := studio.NewSession()

	_, err := studio.SubmitTitle(context.Background(), session.Id, "first")
	require.NoError(t, err)

	view, err := studio.SubmitTitle(context.Background(), session.Id, "second")
	assert.ErrorIs(t, err, ErrConceptsInFlight)
	assert.Equal(t, model.StatusGeneratingConcepts, view.Status)
	assert.Equal(t, "first", view.Title)

	close(gate)
	studio.Wait()
	assert.Equal(t, []string{"first"}, concepts.calls())
}

func TestResubmitDuringPreviewDiscardsStalePreview(t *testing.T) {
	concepts := &fakeConcepts{}
	previews := newFakePreviews()
	studio := newStudio(concepts, previews, nil)
	view := generateCards(t, studio, concepts)
	first := view.Cards[0]

	gate := make(chan struct{})
	previews.gate = gate
	previews.uri[first.Concept.ImagePrompt] = "data:image/png;base64,AAAA"

	view, err := studio.RequestPreview(context.Background(), view.Id, first.Id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusGeneratingImage, view.Status)
	assert.True(t, view.Cards[0].Preview.Loading)

	concepts.push(conceptResult{concepts: threeConcepts()}, nil)
	_, err = studio.SubmitTitle(context.Background(), view.Id, "another title")
	require.NoError(t, err)
	fresh := waitForStatus(t, studio, view.Id, model.StatusIdle)

	close(gate)
	studio.Wait()

	after, err := studio.Snapshot(view.Id)
	require.NoError(t, err)
	assert.Equal(t, fresh.Epoch, after.Epoch)
	require.Len(t, after.Cards, 3)
	for i, card := range after.Cards {
		assert.Equal(t, fresh.Cards[i].Id, card.Id)
		assert.NotEqual(t, first.Id, card.Id)
		assert.Empty(t, card.Preview.ImageURL)
		assert.False(t, card.Preview.Loading)
	}
}

func TestStaleConceptResultIsDiscarded(t *testing.T) {
	concepts := &fakeConcepts{}
	failGate := make(chan struct{})
	concepts.push(conceptResult{err: errors.New("slow failure")}, failGate)
	studio := newStudio(concepts, newFakePreviews(), nil)
	session := studio.NewSession()

	_, err := studio.SubmitTitle(context.Background(), session.Id, "first")
	require.NoError(t, err)

	// Simulates a newer generation taking over the session while the first
	// call is still outstanding.
	s, err := studio.Sessions.Get(session.Id)
	require.NoError(t, err)
	s.mu.Lock()
	s.epoch++
	s.status = model.StatusIdle
	s.mu.Unlock()

	close(failGate)
	studio.Wait()

	view, err := studio.Snapshot(session.Id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusIdle, view.Status)
	assert.Empty(t, view.Error)
}

func TestRequestPreviewSuccess(t *testing.T) {
	concepts := &fakeConcepts{}
	previews := newFakePreviews()
	studio := newStudio(concepts, previews, nil)
	view := generateCards(t, studio, concepts)
	card := view.Cards[1]
	previews.uri[card.Concept.ImagePrompt] = "data:image/png;base64,iVBORw0KGgo="

	_, err := studio.RequestPreview(context.Background(), view.Id, card.Id)
	require.NoError(t, err)
	studio.Wait()

	after, err := studio.Snapshot(view.Id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusIdle, after.Status)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", after.Cards[1].Preview.ImageURL)
	assert.False(t, after.Cards[1].Preview.Loading)
	assert.Empty(t, after.Cards[1].Preview.Error)
	assert.Empty(t, after.Cards[0].Preview.ImageURL)
	assert.Empty(t, after.Cards[2].Preview.ImageURL)
}

func TestRequestPreviewFailureIsCardLocal(t *testing.T) {
	concepts := &fakeConcepts{}
	previews := newFakePreviews()
	studio := newStudio(concepts, previews, nil)
	view := generateCards(t, studio, concepts)

	good, bad := view.Cards[0], view.Cards[2]
	previews.uri[good.Concept.ImagePrompt] = "data:image/png;base64,AAAA"
	previews.err[bad.Concept.ImagePrompt] = errors.New("no inline image data in response")

	_, err := studio.RequestPreview(context.Background(), view.Id, good.Id)
	require.NoError(t, err)
	_, err = studio.RequestPreview(context.Background(), view.Id, bad.Id)
	require.NoError(t, err)
	studio.Wait()

	after, err := studio.Snapshot(view.Id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusIdle, after.Status)
	assert.Empty(t, after.Error)
	assert.Equal(t, "data:image/png;base64,AAAA", after.Cards[0].Preview.ImageURL)
	assert.Equal(t, PreviewFailureMessage, after.Cards[2].Preview.Error)
	assert.Empty(t, after.Cards[2].Preview.ImageURL)
	assert.False(t, after.Cards[2].Preview.Loading)
	assert.Empty(t, after.Cards[1].Preview.Error)
}

func TestRetryPreviewClearsError(t *testing.T) {
	concepts := &fakeConcepts{}
	previews := newFakePreviews()
	studio := newStudio(concepts, previews, nil)
	view := generateCards(t, studio, concepts)
	card := view.Cards[0]

	previews.err[card.Concept.ImagePrompt] = errors.New("quota")
	_, err := studio.RequestPreview(context.Background(), view.Id, card.Id)
	require.NoError(t, err)
	studio.Wait()

	gate := make(chan struct{})
	previews.mu.Lock()
	delete(previews.err, card.Concept.ImagePrompt)
	previews.uri[card.Concept.ImagePrompt] = "data:image/png;base64,BBBB"
	previews.gate = gate
	previews.mu.Unlock()

	during, err := studio.RequestPreview(context.Background(), view.Id, card.Id)
	require.NoError(t, err)
	assert.True(t, during.Cards[0].Preview.Loading)
	assert.Empty(t, during.Cards[0].Preview.Error)

	close(gate)
	studio.Wait()
	after, err := studio.Snapshot(view.Id)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,BBBB", after.Cards[0].Preview.ImageURL)
}

func TestRequestPreviewWhileLoadingIsRejected(t *testing.T) {
	concepts := &fakeConcepts{}
	previews := newFakePreviews()
	studio := newStudio(concepts, previews, nil)
	view := generateCards(t, studio, concepts)
	card := view.Cards[0]

	gate := make(chan struct{})
	previews.gate = gate
	_, err := studio.RequestPreview(context.Background(), view.Id, card.Id)
	require.NoError(t, err)

	_, err = studio.RequestPreview(context.Background(), view.Id, card.Id)
	assert.ErrorIs(t, err, ErrPreviewInFlight)

	// Other cards stay independent.
	_, err = studio.RequestPreview(context.Background(), view.Id, view.Cards[1].Id)
	assert.NoError(t, err)

	close(gate)
	studio.Wait()
	assert.Equal(t, 2, previews.count())
}

func TestRequestPreviewUnknownCard(t *testing.T) {
	concepts := &fakeConcepts{}
	studio := newStudio(concepts, newFakePreviews(), nil)
	view := generateCards(t, studio, concepts)

	_, err := studio.RequestPreview(context.Background(), view.Id, "missing")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestCopyPromptSetsAndResetsFlag(t *testing.T) {
	concepts := &fakeConcepts{}
	timers := &manualTimers{}
	studio := newStudio(concepts, newFakePreviews(), timers)
	view := generateCards(t, studio, concepts)
	card := view.Cards[2]

	prompt, after, err := studio.CopyPrompt(view.Id, card.Id)
	require.NoError(t, err)
	assert.Equal(t, card.Concept.ImagePrompt, prompt)
	assert.True(t, after.Cards[2].Preview.Copied)
	assert.False(t, after.Cards[0].Preview.Copied)
	require.Len(t, timers.delays, 1)
	assert.Equal(t, 2*time.Second, timers.delays[0])

	timers.fire(0)
	after, err = studio.Snapshot(view.Id)
	require.NoError(t, err)
	assert.False(t, after.Cards[2].Preview.Copied)
}

func TestCopyPromptAgainRestartsDelay(t *testing.T) {
	concepts := &fakeConcepts{}
	timers := &manualTimers{}
	studio := newStudio(concepts, newFakePreviews(), timers)
	view := generateCards(t, studio, concepts)
	card := view.Cards[0]

	_, _, err := studio.CopyPrompt(view.Id, card.Id)
	require.NoError(t, err)
	_, _, err = studio.CopyPrompt(view.Id, card.Id)
	require.NoError(t, err)

	require.Len(t, timers.timers, 2)
	assert.True(t, timers.timers[0].stopped)

	// A late firing of the first timer must not clear the newer flag.
	timers.fire(0)
	after, err := studio.Snapshot(view.Id)
	require.NoError(t, err)
	assert.True(t, after.Cards[0].Preview.Copied)

	timers.fire(1)
	after, err = studio.Snapshot(view.Id)
	require.NoError(t, err)
	assert.False(t, after.Cards[0].Preview.Copied)
}

func TestCopyPromptWithRealTimer(t *testing.T) {
	concepts := &fakeConcepts{}
	studio := NewStudioService(NewSessionStore(time.Minute, time.Minute), concepts, newFakePreviews(),
		StudioOptions{CopiedResetDelay: 20 * time.Millisecond})
	view := generateCards(t, studio, concepts)

	_, after, err := studio.CopyPrompt(view.Id, view.Cards[1].Id)
	require.NoError(t, err)
	assert.True(t, after.Cards[1].Preview.Copied)

	assert.Eventually(t, func() bool {
		v, err := studio.Snapshot(view.Id)
		return err == nil && !v.Cards[1].Preview.Copied
	}, eventually, tick)
}

func TestUnknownSession(t *testing.T) {
	studio := newStudio(&fakeConcepts{}, newFakePreviews(), nil)

	_, err := studio.Snapshot("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = studio.SubmitTitle(context.Background(), "nope", "title")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = studio.RequestPreview(context.Background(), "nope", "card")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, _, err = studio.CopyPrompt("nope", "card")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore(time.Minute, time.Minute)
	session := store.Create()

	got, err := store.Get(session.Id())
	require.NoError(t, err)
	assert.Same(t, session, got)

	store.Delete(session.Id())
	_, err = store.Get(session.Id())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Count())
}

func TestSessionStoreExpires(t *testing.T) {
	store := NewSessionStore(20*time.Millisecond, 10*time.Millisecond)
	session := store.Create()

	assert.Eventually(t, func() bool {
		_, err := store.Get(session.Id())
		return errors.Is(err, ErrSessionNotFound)
	}, eventually, tick)
}
