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
// concept and preview workflows. This file defines the command that sends the
// rendered concept prompt to the text model.
//
// The response schema, MIME type and persona are part of the wrapped model's
// request config (see cloud.NewConceptModel), so this command only sends the
// prompt and extracts the text of the answer. The JSON itself is validated by
// ConceptJsonToStruct.
package commands

import (
	"fmt"

	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
)

// ConceptGenerator calls the concept model once and outputs the raw JSON text.
type ConceptGenerator struct {
	cor.BaseCommand
	generativeAIModel *cloud.QuotaAwareGenerativeAIModel
}

// NewConceptGenerator is the constructor for ConceptGenerator.
//
// Inputs:
//   - name: A string name for this command instance.
//   - generativeAIModel: The wrapped concept model.
//
// Outputs:
//   - *ConceptGenerator: The command.
func NewConceptGenerator(name string, generativeAIModel *cloud.QuotaAwareGenerativeAIModel) *ConceptGenerator {
	return &ConceptGenerator{BaseCommand: *cor.NewBaseCommand(name), generativeAIModel: generativeAIModel}
}

func (c *ConceptGenerator) Execute(context cor.Context) {
	prompt := context.Get(c.GetInputParam()).(string)

	resp, err := c.generativeAIModel.GenerateContent(context.GetContext(), cloud.NewTextContent(prompt))
	if err != nil {
		c.Fail(context, fmt.Errorf("gemini request failed: %w", err))
		return
	}

	out := cloud.ResponseText(resp)
	if out == "" {
		c.Fail(context, ErrEmptyResponse)
		return
	}
	c.Succeed(context, out)
}
