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

import (
	"fmt"

	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
)

// PreviewGenerator sends the styled prompt to the image model and outputs the
// raw *genai.GenerateContentResponse for InlineImageToDataURI.
type PreviewGenerator struct {
	cor.BaseCommand
	generativeAIModel *cloud.QuotaAwareGenerativeAIModel
}

func NewPreviewGenerator(name string, generativeAIModel *cloud.QuotaAwareGenerativeAIModel) *PreviewGenerator {
	return &PreviewGenerator{BaseCommand: *cor.NewBaseCommand(name), generativeAIModel: generativeAIModel}
}

func (p *PreviewGenerator) Execute(context cor.Context) {
	prompt := context.Get(p.GetInputParam()).(string)

	resp, err := p.generativeAIModel.GenerateContent(context.GetContext(), cloud.NewTextContent(prompt))
	if err != nil {
		p.Fail(context, fmt.Errorf("image request failed: %w", err))
		return
	}
	if resp == nil {
		p.Fail(context, ErrNoInlineImage)
		return
	}
	p.Succeed(context, resp)
}
