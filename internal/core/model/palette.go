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

package model

import "regexp"

var hexColorPattern = regexp.MustCompile(`#[0-9A-Fa-f]{6}`)

// ExtractColors scans free-form palette text for six digit hex color tokens.
// Matches are returned in order of appearance and duplicates are kept, one
// swatch per match. Text without tokens yields an empty, non-nil slice.
func ExtractColors(text string) []string {
	matches := hexColorPattern.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
