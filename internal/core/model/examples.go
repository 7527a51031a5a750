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

// Package model defines the data structures for the application. This file,
// `examples.go`, provides factory functions for hardcoded example concepts.
//
// The examples mirror the exact shape the text model returns, which makes
// them useful as fixtures for the parsing commands and the studio service.
package model

// GetExampleConcepts returns a complete set of concepts for the title
// "I survived 50 hours in Antarctica", in the order a model would return them.
//
// Outputs:
//   - []*ThumbnailConcept: ConceptCount fully populated concepts.
func GetExampleConcepts() []*ThumbnailConcept {
	return []*ThumbnailConcept{
		{
			Hook:         "Survival stakes: the viewer wants to know if the creator made it out.",
			VisualScene:  "Creator on the right, frost on the eyebrows, mouth open in shock; a collapsing tent and a white-out storm behind.",
			TextOverlay:  "50 HOURS. -40°",
			ColorPalette: "Icy blue (#1E90FF) against warning orange (#FF6A00) for maximum contrast.",
			ImagePrompt:  "Hyper-realistic photo of a shocked man with frozen eyebrows in an Antarctic blizzard, rim lighting, collapsing orange tent",
		},
		{
			Hook:         "Curiosity gap: a hidden object half buried in the ice.",
			VisualScene:  "Close-up of gloved hands brushing snow off a mysterious glowing box; the creator's confused face in the corner.",
			TextOverlay:  "WHAT IS THIS?",
			ColorPalette: "Deep black (#0A0A0A) with a neon glow (#39FF14) on the object.",
			ImagePrompt:  "Cinematic close-up of gloved hands uncovering a glowing box in Antarctic ice, dark sky, neon green glow",
		},
		{
			Hook:         "Extreme emotion: pure joy at seeing the rescue plane.",
			VisualScene:  "Creator jumping with arms raised, a red plane landing on the ice field behind, sun flare.",
			TextOverlay:  "WE MADE IT",
			ColorPalette: "Warm reds (#FF0000) and clean white (#FFFFFF), with a second red (#FF0000) on the plane.",
			ImagePrompt:  "Photorealistic wide shot of a man jumping for joy on an ice field as a red rescue plane lands, sun flare, 4k",
		},
	}
}
