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
// This file, `transient.go`, contains the read-only views handed to the page.
// They are copies taken under the session lock, never live state, and they
// are never persisted.
package model

// PreviewView is the card-local preview state at the time of the snapshot.
type PreviewView struct {
	ImageURL string `json:"imageUrl,omitempty"` // data:<mime>;base64,<payload> once generated.
	Loading  bool   `json:"loading"`            // True while the image call is in flight.
	Error    string `json:"error,omitempty"`    // Generic failure message for this card only.
	Copied   bool   `json:"copied"`             // Transient copy-to-clipboard indicator.
}

// CardView is one rendered concept card.
type CardView struct {
	Id      string            `json:"id"`
	Index   int               `json:"index"` // Zero-based position in the model response.
	Concept *ThumbnailConcept `json:"concept"`
	Colors  []string          `json:"colors"` // Swatches extracted from the palette text.
	Preview PreviewView       `json:"preview"`
}

// SessionView is the full page state at the time of the snapshot.
type SessionView struct {
	Id     string      `json:"id"`
	Title  string      `json:"title"`
	Status Status      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Epoch  uint64      `json:"epoch"` // Incremented by every accepted submission.
	Cards  []*CardView `json:"cards"`
}
