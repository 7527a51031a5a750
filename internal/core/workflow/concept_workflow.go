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

// Package workflow defines the high-level orchestrations, each one a chain of
// commands around a single model call. This file implements the concept
// workflow: video title in, three validated thumbnail concepts out.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/commands"
	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
)

// ConceptsOutputParamName is the context key holding the parsed concepts.
const ConceptsOutputParamName = "__concepts_output__"

// ConceptWorkflow turns a video title into model.ConceptCount concepts with
// exactly one call to the text model.
type ConceptWorkflow struct {
	cor.BaseCommand
	genaiModel     *cloud.QuotaAwareGenerativeAIModel
	promptTemplate *template.Template
	chain          cor.Chain
}

// Execute runs the underlying chain. The title is expected under cor.CtxIn.
func (w *ConceptWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

func (w *ConceptWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Render the prompt for the title.
	out.AddCommand(commands.NewConceptPromptBuilder("build-concept-prompt", w.promptTemplate))

	// Step 2: Ask the text model for schema constrained JSON.
	out.AddCommand(commands.NewConceptGenerator("generate-concepts", w.genaiModel))

	// Step 3: Validate and convert the JSON into concepts.
	out.AddCommand(commands.NewConceptJsonToStruct("convert-concepts", ConceptsOutputParamName))

	w.chain = out
}

// GenerateConcepts runs the workflow for a single title.
//
// Inputs:
//   - ctx: Bounds the model call.
//   - title: The video title; surrounding whitespace is removed.
//
// Outputs:
//   - []*model.ThumbnailConcept: The concepts in response order.
//   - error: The joined chain errors. No concepts are returned alongside an error.
func (w *ConceptWorkflow) GenerateConcepts(ctx context.Context, title string) ([]*model.ThumbnailConcept, error) {
	chCtx := cor.NewBaseContext(ctx)
	chCtx.Add(cor.CtxIn, strings.TrimSpace(title))

	w.Execute(chCtx)

	if err := chCtx.Err(); err != nil {
		return nil, err
	}
	concepts, ok := chCtx.Get(ConceptsOutputParamName).([]*model.ThumbnailConcept)
	if !ok {
		return nil, fmt.Errorf("%w: workflow produced no concepts", commands.ErrInvalidConcepts)
	}
	return concepts, nil
}

// NewConceptWorkflow is the constructor for ConceptWorkflow.
//
// Inputs:
//   - config: The application configuration, for the prompt template.
//   - serviceClients: Provides the wrapped concept model.
//
// Outputs:
//   - *ConceptWorkflow: The workflow.
//   - error: An error if the prompt template does not parse.
func NewConceptWorkflow(config *cloud.Config, serviceClients *cloud.ServiceClients) (*ConceptWorkflow, error) {
	promptTemplate, err := template.New("concept-template").Parse(config.PromptTemplates.Concept)
	if err != nil {
		return nil, fmt.Errorf("failed to parse concept prompt template: %w", err)
	}

	w := &ConceptWorkflow{
		BaseCommand:    *cor.NewBaseCommand("concept-workflow"),
		genaiModel:     serviceClients.ConceptModel,
		promptTemplate: promptTemplate,
	}
	w.initializeChain()
	return w, nil
}
