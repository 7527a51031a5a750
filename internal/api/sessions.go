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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/thumbstopper-ai/internal/core/model"
	"github.com/jaycherian/thumbstopper-ai/internal/core/services"
)

// TitleRequest is the body of a concept submission.
type TitleRequest struct {
	Title string `json:"title"`
}

// SessionRouter sets up the session routes under r.
func SessionRouter(r *gin.RouterGroup, studio *services.StudioService) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", func(c *gin.Context) {
			c.JSON(http.StatusCreated, studio.NewSession())
		})

		sessions.GET("/:id", func(c *gin.Context) {
			view, err := studio.Snapshot(c.Param("id"))
			if err != nil {
				writeError(c, err, view)
				return
			}
			c.JSON(http.StatusOK, view)
		})

		sessions.POST("/:id/concepts", func(c *gin.Context) {
			var req TitleRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
			view, err := studio.SubmitTitle(c.Request.Context(), c.Param("id"), req.Title)
			if err != nil {
				writeError(c, err, view)
				return
			}
			c.JSON(http.StatusAccepted, view)
		})

		sessions.POST("/:id/cards/:card/preview", func(c *gin.Context) {
			view, err := studio.RequestPreview(c.Request.Context(), c.Param("id"), c.Param("card"))
			if err != nil {
				writeError(c, err, view)
				return
			}
			c.JSON(http.StatusAccepted, view)
		})

		sessions.POST("/:id/cards/:card/copy", func(c *gin.Context) {
			prompt, view, err := studio.CopyPrompt(c.Param("id"), c.Param("card"))
			if err != nil {
				writeError(c, err, view)
				return
			}
			c.JSON(http.StatusOK, gin.H{"prompt": prompt, "session": view})
		})
	}
}

// statusFor maps studio errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyTitle):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConceptsInFlight), errors.Is(err, services.ErrPreviewInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err with the session state when there is one.
func writeError(c *gin.Context, err error, view model.SessionView) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "unexpected studio error", "path", c.FullPath(), "error", err)
	}
	body := gin.H{"error": err.Error()}
	if view.Id != "" {
		body["session"] = view
	}
	c.JSON(status, body)
}
