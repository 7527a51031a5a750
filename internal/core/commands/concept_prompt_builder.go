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

// Package commands provides the concrete Command implementations used by the
// concept and preview workflows. This file defines the first step of the
// concept workflow: rendering the prompt for a video title.
//
// Logic Flow:
//  1. The trimmed title is read from the input key.
//  2. The prompt template is executed with the title and the concept count.
//  3. The rendered text is written to the output key for ConceptGenerator.
package commands

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
)

// ConceptPromptParams is the data handed to the concept prompt template.
type ConceptPromptParams struct {
	Title string
	Count int
}

// ConceptPromptBuilder renders the concept prompt.
type ConceptPromptBuilder struct {
	cor.BaseCommand
	template *template.Template
}

// NewConceptPromptBuilder is the constructor for ConceptPromptBuilder.
//
// Inputs:
//   - name: A string name for this command instance.
//   - template: The parsed prompt template, see cloud.DefaultConceptPrompt.
//
// Outputs:
//   - *ConceptPromptBuilder: The command.
func NewConceptPromptBuilder(name string, template *template.Template) *ConceptPromptBuilder {
	return &ConceptPromptBuilder{BaseCommand: *cor.NewBaseCommand(name), template: template}
}

func (c *ConceptPromptBuilder) Execute(context cor.Context) {
	title, ok := context.Get(c.GetInputParam()).(string)
	if !ok {
		c.Fail(context, fmt.Errorf("expected a title string, got %T", context.Get(c.GetInputParam())))
		return
	}

	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, ConceptPromptParams{Title: title, Count: model.ConceptCount}); err != nil {
		c.Fail(context, fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}
	c.Succeed(context, buffer.String())
}
