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

// Package cloud provides components for interacting with the Gemini API.
// This file creates the genai client once at startup and wraps the two
// configured models, so the rest of the application shares one
// `ServiceClients` value.
//
// Logic Flow:
//  1. `NewCloudServiceClients` is called at startup with the loaded Config.
//  2. A genai client is created against the Gemini API backend with the key
//     read from the environment. Without a key every model call fails with
//     ErrMissingAPIKey, which the studio reports like any other failure.
//  3. The concept model is configured for a schema constrained JSON answer,
//     the preview model for image output.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned by every model call when no API key is set.
var ErrMissingAPIKey = errors.New("no Gemini API key configured")

// ServiceClients holds the outbound clients of the application.
type ServiceClients struct {
	GenAIClient  *genai.Client // Nil when no API key is configured.
	ConceptModel *QuotaAwareGenerativeAIModel
	PreviewModel *QuotaAwareGenerativeAIModel
}

// Close is kept for symmetry with the server shutdown; the genai client
// holds no resources that need releasing.
func (c *ServiceClients) Close() {}

type missingKeyHandle struct{}

func (missingKeyHandle) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, ErrMissingAPIKey
}

// NewCloudServiceClients creates the genai client and the two wrapped models.
//
// Inputs:
//   - ctx: The application root context.
//   - config: The loaded configuration, including Application.APIKey.
//
// Outputs:
//   - *ServiceClients: The initialized clients.
//   - error: An error if the genai client cannot be created.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	var handle ModelHandle = missingKeyHandle{}
	var gc *genai.Client
	if config.Application.APIKey != "" {
		var err error
		gc, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  config.Application.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating genai client: %w", err)
		}
		handle = gc.Models
	} else {
		slog.Warn("no API key found in the environment, model calls will fail",
			"variables", []string{EnvAPIKey, EnvAPIKeyFallback})
	}

	return &ServiceClients{
		GenAIClient:  gc,
		ConceptModel: NewConceptModel(config, handle),
		PreviewModel: NewPreviewModel(config, handle),
	}, nil
}

// NewConceptModel wraps the concept model with its JSON schema, MIME type and
// persona system instruction.
func NewConceptModel(config *Config, handle ModelHandle) *QuotaAwareGenerativeAIModel {
	values := config.Models[ConceptModelKey]
	outputFormat := values.OutputFormat
	if outputFormat == "" {
		outputFormat = "application/json"
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: outputFormat,
		ResponseSchema:   NewConceptsSchema(model.ConceptCount),
		SafetySettings:   DefaultSafetySettings,
	}
	if config.PromptTemplates.Persona != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: config.PromptTemplates.Persona}}}
	}
	applyTuning(cfg, values)
	return NewQuotaAwareModel(cfg, values.Model, handle, values.RateLimit)
}

// NewPreviewModel wraps the image model. Image models reject a response MIME
// type and schema, so only the modalities are set.
func NewPreviewModel(config *Config, handle ModelHandle) *QuotaAwareGenerativeAIModel {
	values := config.Models[PreviewModelKey]
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		SafetySettings:     DefaultSafetySettings,
	}
	applyTuning(cfg, values)
	return NewQuotaAwareModel(cfg, values.Model, handle, values.RateLimit)
}

func applyTuning(cfg *genai.GenerateContentConfig, values GeminiModel) {
	if values.Temperature > 0 {
		cfg.Temperature = genai.Ptr(values.Temperature)
	}
	if values.MaxTokens > 0 {
		cfg.MaxOutputTokens = values.MaxTokens
	}
}
