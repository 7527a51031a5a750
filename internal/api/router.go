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

// Package api contains the HTTP surface of the studio: the page, the session
// API, the stats endpoint and the operational endpoints.
package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/services"
	"github.com/jaycherian/thumbstopper-ai/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter builds the gin engine serving every route.
//
// Inputs:
//   - config: Provides the service name, the CORS origins and the model names.
//   - studio: The service behind the session API.
//
// Outputs:
//   - *gin.Engine: The configured engine.
//   - error: An error if the page template cannot be parsed.
func NewRouter(config *cloud.Config, studio *services.StudioService) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(otelgin.Middleware(config.Application.Name))
	if len(config.Application.WebOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: config.Application.WebOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		}))
	}
	r.Use(telemetry.Metrics())

	if err := Page(r, config); err != nil {
		return nil, err
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := r.Group("/api/v1")
	{
		SessionRouter(apiV1, studio)
		Dashboard(apiV1, config, studio)
	}
	return r, nil
}
