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
// This file implements a decorator around the genai model handle that adds
// an outbound rate limiter, a span per call and token accounting.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: A model name, its request config and the
//     handle used to reach it, gated by a token bucket.
//
// Functions:
//   - NewQuotaAwareModel: Creates the wrapper.
//   - GenerateContent: Waits for the limiter, then calls the model once.
package cloud

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ModelHandle is the part of *genai.Models used by the application.
type ModelHandle interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel decorates a ModelHandle for a single model.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             ModelHandle
	RateLimit               *rate.Limiter

	tracer       trace.Tracer
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
}

// NewQuotaAwareModel creates a wrapper for the named model.
//
// Inputs:
//   - config: The request config sent with every call. May be nil.
//   - name: The model identifier.
//   - handle: The handle used to reach the model, usually genai.Client.Models.
//   - requestsPerSecond: The refill rate and burst of the limiter. Zero or
//     less disables limiting.
//
// Outputs:
//   - *QuotaAwareGenerativeAIModel: The wrapper.
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle ModelHandle, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	limit := rate.Inf
	burst := 0
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = requestsPerSecond
	}

	meter := otel.Meter("github.com/jaycherian/thumbstopper-ai/cloud")
	inputTokens, err := meter.Int64Counter("gemini.tokens.input", metric.WithDescription("Prompt tokens sent to Gemini"))
	if err != nil {
		slog.Warn("failed to create input token counter", "error", err)
	}
	outputTokens, err := meter.Int64Counter("gemini.tokens.output", metric.WithDescription("Candidate tokens returned by Gemini"))
	if err != nil {
		slog.Warn("failed to create output token counter", "error", err)
	}

	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               name,
		ModelHandle:             handle,
		RateLimit:               rate.NewLimiter(limit, burst),
		tracer:                  otel.Tracer("github.com/jaycherian/thumbstopper-ai/cloud"),
		inputTokens:             inputTokens,
		outputTokens:            outputTokens,
	}
}

// GenerateContent blocks until the limiter admits the request, then calls the
// model exactly once. Failures are returned to the caller unchanged apart from
// wrapping; there is no retry.
//
// Inputs:
//   - ctx: Bounds both the wait on the limiter and the call itself.
//   - content: The request contents.
//
// Outputs:
//   - *genai.GenerateContentResponse: The raw model response.
//   - error: A limiter error (context done) or the model error.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	ctx, span := q.tracer.Start(ctx, "gemini.generate_content",
		trace.WithAttributes(attribute.String("gemini.model", q.ModelName)))
	defer span.End()

	if err := q.RateLimit.Wait(ctx); err != nil {
		span.SetStatus(codes.Error, "rate limiter wait failed")
		return nil, fmt.Errorf("waiting for %s quota: %w", q.ModelName, err)
	}

	resp, err := q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return nil, fmt.Errorf("calling %s: %w", q.ModelName, err)
	}

	if resp != nil && resp.UsageMetadata != nil {
		attrs := metric.WithAttributes(attribute.String("gemini.model", q.ModelName))
		if q.inputTokens != nil {
			q.inputTokens.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount), attrs)
		}
		if q.outputTokens != nil {
			q.outputTokens.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount), attrs)
		}
	}
	span.SetStatus(codes.Ok, "")
	return resp, nil
}
