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
// concept and preview workflows. This file turns an image model response into
// a data URI the page can use directly as an image source.
//
// Logic Flow:
//  1. Only the first candidate is considered.
//  2. Its parts are scanned in order; text parts are ignored.
//  3. The first part with non-empty inline data wins. A part without a MIME
//     type has its type sniffed from the bytes, and bytes that are not an
//     image are skipped.
//  4. When nothing qualifies the command fails with ErrNoInlineImage, naming
//     an abnormal finish reason when the model reported one.
package commands

import (
	"encoding/base64"
	"fmt"

	"github.com/h2non/filetype"
	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
	"google.golang.org/genai"
)

// InlineImageToDataURI converts the first inline image of a response to
// `data:<mime>;base64,<payload>`.
type InlineImageToDataURI struct {
	cor.BaseCommand
}

func NewInlineImageToDataURI(name string, outputParamName string) *InlineImageToDataURI {
	out := &InlineImageToDataURI{BaseCommand: *cor.NewBaseCommand(name)}
	out.OutputParamName = outputParamName
	return out
}

func (i *InlineImageToDataURI) Execute(context cor.Context) {
	resp, ok := context.Get(i.GetInputParam()).(*genai.GenerateContentResponse)
	if !ok {
		i.Fail(context, fmt.Errorf("expected a model response, got %T", context.Get(i.GetInputParam())))
		return
	}

	uri, err := ExtractDataURI(resp)
	if err != nil {
		i.Fail(context, err)
		return
	}
	i.Succeed(context, uri)
	context.Add(cor.CtxOut, uri)
}

// ExtractDataURI returns the data URI of the first usable inline image of the
// first candidate.
//
// Inputs:
//   - resp: The image model response.
//
// Outputs:
//   - string: The data URI.
//   - error: ErrNoInlineImage, possibly wrapped with the finish reason.
func ExtractDataURI(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", ErrNoInlineImage
	}
	candidate := resp.Candidates[0]

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				if !filetype.IsImage(part.InlineData.Data) {
					continue
				}
				kind, err := filetype.Match(part.InlineData.Data)
				if err != nil || kind == filetype.Unknown {
					continue
				}
				mimeType = kind.MIME.Value
			}
			return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(part.InlineData.Data)), nil
		}
	}

	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
	default:
		return "", fmt.Errorf("%w (finish reason: %s)", ErrNoInlineImage, candidate.FinishReason)
	}
	return "", ErrNoInlineImage
}
