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

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/services"
)

// Stats is the body of GET /stats.
type Stats struct {
	ActiveSessions int               `json:"activeSessions"`
	Models         map[string]string `json:"models"` // Model key to model identifier.
}

// Dashboard configures the "/stats" route group: a read-only summary of the
// running service.
func Dashboard(r *gin.RouterGroup, config *cloud.Config, studio *services.StudioService) {
	models := make(map[string]string, len(config.Models))
	for key, m := range config.Models {
		models[key] = m.Model
	}

	stats := r.Group("/stats")
	{
		stats.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, Stats{
				ActiveSessions: studio.Sessions.Count(),
				Models:         models,
			})
		})
	}
}
