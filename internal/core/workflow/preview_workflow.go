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

package workflow

import (
	"context"

	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/commands"
	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
)

// PreviewOutputParamName is the context key holding the data URI.
const PreviewOutputParamName = "__preview_output__"

// PreviewWorkflow renders one concept's image prompt into a data URI with
// exactly one call to the image model.
type PreviewWorkflow struct {
	cor.BaseCommand
	genaiModel *cloud.QuotaAwareGenerativeAIModel
	suffix     string
	chain      cor.Chain
}

func (w *PreviewWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

func (w *PreviewWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewPreviewPromptBuilder("build-preview-prompt", w.suffix))
	out.AddCommand(commands.NewPreviewGenerator("generate-preview", w.genaiModel))
	out.AddCommand(commands.NewInlineImageToDataURI("convert-inline-image", PreviewOutputParamName))
	w.chain = out
}

// GeneratePreview returns `data:<mime>;base64,<payload>` for the image prompt.
// A response without a usable inline image is an error, the same as a failed call.
func (w *PreviewWorkflow) GeneratePreview(ctx context.Context, imagePrompt string) (string, error) {
	chCtx := cor.NewBaseContext(ctx)
	chCtx.Add(cor.CtxIn, imagePrompt)

	w.Execute(chCtx)

	if err := chCtx.Err(); err != nil {
		return "", err
	}
	uri, ok := chCtx.Get(PreviewOutputParamName).(string)
	if !ok || uri == "" {
		return "", commands.ErrNoInlineImage
	}
	return uri, nil
}

// NewPreviewWorkflow is the constructor for PreviewWorkflow.
func NewPreviewWorkflow(config *cloud.Config, serviceClients *cloud.ServiceClients) *PreviewWorkflow {
	w := &PreviewWorkflow{
		BaseCommand: *cor.NewBaseCommand("preview-workflow"),
		genaiModel:  serviceClients.PreviewModel,
		suffix:      config.PromptTemplates.ImageSuffix,
	}
	w.initializeChain()
	return w
}
