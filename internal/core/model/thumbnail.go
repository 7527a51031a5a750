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

// Package model defines the core data structures for the application.
// This file holds the thumbnail concept returned by the text model and the
// status values used by the studio state machine.
package model

// ConceptCount is the number of concepts requested from the text model for
// every title.
const ConceptCount = 3

// ThumbnailConcept is one AI-generated thumbnail idea. The JSON names are the
// property names of the response schema sent to the model, so they must not
// change independently of the schema.
type ThumbnailConcept struct {
	Hook         string `json:"hook"`         // The psychological trigger explained.
	VisualScene  string `json:"visualScene"`  // Foreground, background and expressions.
	TextOverlay  string `json:"textOverlay"`  // Short overlay text, five words or fewer by convention.
	ColorPalette string `json:"colorPalette"` // Hex codes and reasoning.
	ImagePrompt  string `json:"imagePrompt"`  // Detailed prompt for image generation.
}

// Colors returns the hex color tokens embedded in the concept's palette text.
func (c *ThumbnailConcept) Colors() []string {
	return ExtractColors(c.ColorPalette)
}

// Status is the top-level state of a studio session.
type Status string

const (
	StatusIdle               Status = "IDLE"
	StatusGeneratingConcepts Status = "GENERATING_CONCEPTS"
	StatusGeneratingImage    Status = "GENERATING_IMAGE"
	StatusError              Status = "ERROR"
)
