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
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
)

//go:embed web
var webFiles embed.FS

// PageData feeds web/index.html.
type PageData struct {
	AppName           string
	ConceptModel      string
	PreviewModel      string
	CopiedResetMillis int64
}

// Page registers GET / and the static script the page loads.
func Page(r *gin.Engine, config *cloud.Config) error {
	tmpl, err := template.ParseFS(webFiles, "web/index.html")
	if err != nil {
		return fmt.Errorf("failed to parse page template: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(webFiles, "web")
	if err != nil {
		return err
	}
	r.StaticFileFS("/static/app.js", "app.js", http.FS(static))

	data := PageData{
		AppName:           "ThumbStopper AI",
		ConceptModel:      config.Models[cloud.ConceptModelKey].Model,
		PreviewModel:      config.Models[cloud.PreviewModelKey].Model,
		CopiedResetMillis: config.Session.CopiedResetDelay.Milliseconds(),
	}
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", data)
	})
	return nil
}
