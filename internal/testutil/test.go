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

// Package test provides utility functions and mock data to support the
// application's test suite: a cached test configuration, canned model
// responses and a scriptable stand-in for the genai model handle.
package test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
	"google.golang.org/genai"
)

// StateManager caches the test configuration for the duration of a run.
type StateManager struct {
	mu     sync.Mutex
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is not nil.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetConfig returns the default configuration with timings shortened for
// tests. No files are read, so tests do not depend on the working directory.
func GetConfig() *cloud.Config {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.config == nil {
		config := cloud.NewConfig()
		config.Session.CopiedResetDelay = cloud.Duration{Duration: 50 * time.Millisecond}
		config.Session.CallTimeout = cloud.Duration{Duration: 5 * time.Second}
		config.Session.TTL = cloud.Duration{Duration: time.Minute}
		config.Session.CleanupInterval = cloud.Duration{Duration: time.Minute}
		state.config = config
	}
	return state.config
}

// GetTestConceptsJSON returns the example concepts encoded the way the text
// model answers.
func GetTestConceptsJSON() string {
	raw, err := json.Marshal(model.GetExampleConcepts())
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// PNGBytes is the smallest payload the MIME sniffer recognises as image/png.
var PNGBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

// TextResponse builds a single candidate response carrying text.
func TextResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}, FinishReason: genai.FinishReasonStop},
		},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 20},
	}
}

// ImageResponse builds a single candidate response with a text part followed
// by an inline image part.
func ImageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{
				{Text: "Here is your thumbnail."},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			}}, FinishReason: genai.FinishReasonStop},
		},
	}
}

// Responder produces the answer of the fake handle for one call.
type Responder func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)

// Respond returns a Responder that always answers with resp and err.
func Respond(resp *genai.GenerateContentResponse, err error) Responder {
	return func(context.Context, string) (*genai.GenerateContentResponse, error) {
		return resp, err
	}
}

// Gated returns a Responder that blocks until release is closed or the
// context ends, then delegates to next.
func Gated(release <-chan struct{}, next Responder) Responder {
	return func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		select {
		case <-release:
			return next(ctx, prompt)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// FakeModelHandle implements cloud.ModelHandle with one Responder per model name.
type FakeModelHandle struct {
	mu         sync.Mutex
	responders map[string][]Responder
	calls      map[string]int
	prompts    map[string][]string
}

func NewFakeModelHandle() *FakeModelHandle {
	return &FakeModelHandle{
		responders: make(map[string][]Responder),
		calls:      make(map[string]int),
		prompts:    make(map[string][]string),
	}
}

// On queues responders for a model. Calls consume them in order and the last
// one is reused once the queue is down to a single entry.
func (f *FakeModelHandle) On(modelName string, responders ...Responder) *FakeModelHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responders[modelName] = append(f.responders[modelName], responders...)
	return f
}

func (f *FakeModelHandle) GenerateContent(ctx context.Context, modelName string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	prompt := promptText(contents)

	f.mu.Lock()
	f.calls[modelName]++
	f.prompts[modelName] = append(f.prompts[modelName], prompt)
	queue := f.responders[modelName]
	if len(queue) == 0 {
		f.mu.Unlock()
		return nil, fmt.Errorf("no responder for model %s", modelName)
	}
	responder := queue[0]
	if len(queue) > 1 {
		f.responders[modelName] = queue[1:]
	}
	f.mu.Unlock()

	return responder(ctx, prompt)
}

// Calls returns how many requests reached the named model.
func (f *FakeModelHandle) Calls(modelName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[modelName]
}

// Prompts returns the text prompts sent to the named model.
func (f *FakeModelHandle) Prompts(modelName string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts[modelName]...)
}

func promptText(contents []*genai.Content) string {
	var sb strings.Builder
	for _, content := range contents {
		if content == nil {
			continue
		}
		for _, part := range content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}

// NewTestClients wires the fake handle into ServiceClients the way
// cloud.NewCloudServiceClients wires the real one.
func NewTestClients(config *cloud.Config, handle *FakeModelHandle) *cloud.ServiceClients {
	return &cloud.ServiceClients{
		ConceptModel: cloud.NewConceptModel(config, handle),
		PreviewModel: cloud.NewPreviewModel(config, handle),
	}
}
