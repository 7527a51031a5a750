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
// concept and preview workflows. This file defines the parsing step of the
// concept workflow.
//
// Logic Flow:
//  1. The raw JSON text is decoded as an array of generic objects.
//  2. The array must hold exactly model.ConceptCount items and every item must
//     carry each required field as a JSON string. Anything else fails the whole
//     payload; there are no partial results.
//  3. The validated items are converted to ThumbnailConcept values, keeping
//     the order of the response.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
)

// ConceptJsonToStruct parses and validates the concept payload.
type ConceptJsonToStruct struct {
	cor.BaseCommand
}

// NewConceptJsonToStruct is the constructor for ConceptJsonToStruct.
//
// Inputs:
//   - name: A string name for this command instance.
//   - outputParamName: The context key receiving the parsed concepts. The
//     value is also placed under cor.CtxOut for the next command.
//
// Outputs:
//   - *ConceptJsonToStruct: The command.
func NewConceptJsonToStruct(name string, outputParamName string) *ConceptJsonToStruct {
	out := &ConceptJsonToStruct{BaseCommand: *cor.NewBaseCommand(name)}
	out.OutputParamName = outputParamName
	return out
}

func (s *ConceptJsonToStruct) Execute(context cor.Context) {
	in := context.Get(s.GetInputParam()).(string)

	concepts, err := ParseConcepts(in)
	if err != nil {
		s.Fail(context, err)
		return
	}
	s.Succeed(context, concepts)
	context.Add(cor.CtxOut, concepts)
}

// ParseConcepts decodes and validates a concept payload.
//
// Inputs:
//   - raw: The JSON text returned by the model.
//
// Outputs:
//   - []*model.ThumbnailConcept: Exactly model.ConceptCount concepts in response order.
//   - error: ErrInvalidConcepts, wrapped with the reason, when the payload is malformed.
func ParseConcepts(raw string) ([]*model.ThumbnailConcept, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConcepts, err)
	}
	if len(items) != model.ConceptCount {
		return nil, fmt.Errorf("%w: expected %d concepts, got %d", ErrInvalidConcepts, model.ConceptCount, len(items))
	}

	concepts := make([]*model.ThumbnailConcept, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: concept %d is not an object", ErrInvalidConcepts, i)
		}
		values := make(map[string]string, len(cloud.ConceptFields))
		for _, field := range cloud.ConceptFields {
			value, ok := item[field]
			if !ok {
				return nil, fmt.Errorf("%w: concept %d is missing %q", ErrInvalidConcepts, i, field)
			}
			var text string
			if err := json.Unmarshal(value, &text); err != nil || string(value) == "null" {
				return nil, fmt.Errorf("%w: concept %d field %q is not a string", ErrInvalidConcepts, i, field)
			}
			values[field] = text
		}
		concepts = append(concepts, &model.ThumbnailConcept{
			Hook:         values["hook"],
			VisualScene:  values["visualScene"],
			TextOverlay:  values["textOverlay"],
			ColorPalette: values["colorPalette"],
			ImagePrompt:  values["imagePrompt"],
		})
	}
	return concepts, nil
}
