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

	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
)

// PreviewPromptBuilder appends the fixed style suffix to a concept's image prompt.
type PreviewPromptBuilder struct {
	cor.BaseCommand
	suffix string
}

// NewPreviewPromptBuilder is the constructor for PreviewPromptBuilder.
//
// Inputs:
//   - name: A string name for this command instance.
//   - suffix: Appended verbatim, see cloud.DefaultImageSuffix.
//
// Outputs:
//   - *PreviewPromptBuilder: The command.
func NewPreviewPromptBuilder(name string, suffix string) *PreviewPromptBuilder {
	return &PreviewPromptBuilder{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix}
}

func (p *PreviewPromptBuilder) Execute(context cor.Context) {
	prompt, ok := context.Get(p.GetInputParam()).(string)
	if !ok {
		p.Fail(context, fmt.Errorf("expected an image prompt string, got %T", context.Get(p.GetInputParam())))
		return
	}
	p.Succeed(context, prompt+p.suffix)
}
