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

package cloud

import "google.golang.org/genai"

// ConceptFields lists the required properties of a concept, in schema order.
var ConceptFields = []string{"hook", "visualScene", "textOverlay", "colorPalette", "imagePrompt"}

// NewConceptsSchema returns the response schema of the concept call: an array
// of exactly count objects, each with the five required string properties.
func NewConceptsSchema(count int) *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeArray,
		MinItems: genai.Ptr(int64(count)),
		MaxItems: genai.Ptr(int64(count)),
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"hook":         {Type: genai.TypeString, Description: "The psychological trigger explained."},
				"visualScene":  {Type: genai.TypeString, Description: "Concrete description of foreground, background, and expressions."},
				"textOverlay":  {Type: genai.TypeString, Description: "Max 5 words text overlay."},
				"colorPalette": {Type: genai.TypeString, Description: "Hex codes and reasoning."},
				"imagePrompt":  {Type: genai.TypeString, Description: "Detailed prompt for image generation."},
			},
			Required:         ConceptFields,
			PropertyOrdering: ConceptFields,
		},
	}
}
