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

package commands

import "errors"

var (
	// ErrEmptyResponse is returned when the concept model answers without text.
	ErrEmptyResponse = errors.New("no response from the model")
	// ErrInvalidConcepts wraps every way a concept payload can be malformed.
	ErrInvalidConcepts = errors.New("invalid concepts payload")
	// ErrNoInlineImage is returned when no part of the first candidate carries image data.
	ErrNoInlineImage = errors.New("no image data found in response")
)
