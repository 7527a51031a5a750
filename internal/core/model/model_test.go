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

// Package model_test contains unit tests for the data models defined in the
// model package.
package model_test

import (
	"encoding/json"
	"testing"

	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestExtractColors checks the documented palette example: tokens come back
// in order of appearance.
func TestExtractColors(t *testing.T) {
	colors := model.ExtractColors("Warm reds (#FF0000) and deep blacks (#0A0A0A) for contrast")
	assert.Equal(t, []string{"#FF0000", "#0A0A0A"}, colors)
}

func TestExtractColorsKeepsDuplicatesAndCase(t *testing.T) {
	colors := model.ExtractColors("#ff00aa then #FF00AA then #ff00aa again")
	assert.Equal(t, []string{"#ff00aa", "#FF00AA", "#ff00aa"}, colors)
}

func TestExtractColorsIgnoresShortAndInvalidTokens(t *testing.T) {
	colors := model.ExtractColors("short #FFF, invalid #GG0000, none at all")
	assert.Empty(t, colors)
	assert.NotNil(t, colors)
}

// TestExampleConcepts verifies the fixtures expose every field under the
// schema property names and that swatches are derived from the palette.
func TestExampleConcepts(t *testing.T) {
	concepts := model.GetExampleConcepts()
	assert.Len(t, concepts, model.ConceptCount)

	raw, err := json.Marshal(concepts[0])
	assert.NoError(t, err)

	fields := map[string]any{}
	assert.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"hook", "visualScene", "textOverlay", "colorPalette", "imagePrompt"} {
		_, ok := fields[key]
		assert.True(t, ok, key)
	}

	assert.Equal(t, []string{"#FF0000", "#FFFFFF", "#FF0000"}, concepts[2].Colors())
}
