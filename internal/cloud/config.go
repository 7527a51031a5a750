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

// Package cloud defines the application configuration, loaded from TOML files,
// and the clients used to reach the Gemini models.
//
// Structs:
//   - PromptTemplates: The text template rendered for the concept request.
//   - GeminiModel: Settings for one outbound model (text or image).
//   - Session: Lifetimes and delays of the studio sessions.
//   - Config: The root of the configuration tree.
//
// Functions:
//   - NewConfig: Returns a Config populated with working defaults.
package cloud

import (
	"time"

	"google.golang.org/genai"
)

// DefaultSafetySettings are applied to every model call. Thumbnail prompts
// routinely ask for "shock" and "danger" imagery, so nothing is blocked.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Model keys used in Config.Models.
const (
	ConceptModelKey = "concepts"
	PreviewModelKey = "preview"
)

// DefaultConceptPrompt is rendered with text/template; `.Title` is the
// trimmed video title.
const DefaultConceptPrompt = `
Role: You are a World-Class YouTube Thumbnail Architect and Click-Through Rate (CTR) Strategist.
Objective: Generate {{ .Count }} distinct thumbnail concepts for the video title: "{{ .Title }}".

Guidelines:
- Faces: focus on extreme emotion (shock, joy, confusion).
- Composition: Rule of thirds. Subject on the right, text on the left (or vice versa).
- Lighting: Cinematic, rim lighting, high contrast.
- Style: Hyper-realistic, 4k, trending on ArtStation.

For each concept provide:
1. The Hook (Psychological trigger)
2. Visual Scene (Description)
3. Text Overlay (Max 5 words)
4. Color Palette (Hex codes + reasoning)
5. Image Generation Prompt (Technical prompt for Midjourney/DALL-E/Imagen)
`

// DefaultPersona is the system instruction of the concept call.
const DefaultPersona = "You are an expert CTR strategist. You prioritize high contrast, curiosity gaps, and extreme emotions."

// DefaultImageSuffix is appended verbatim to every image prompt.
const DefaultImageSuffix = " --ar 16:9 --v 6.0 style raw, photorealistic, 8k, youtube thumbnail style"

// PromptTemplates holds the prompt texts sent to the models.
type PromptTemplates struct {
	Concept     string `toml:"concept"`      // text/template for the concept request.
	Persona     string `toml:"persona"`      // System instruction of the concept request.
	ImageSuffix string `toml:"image_suffix"` // Style suffix appended to image prompts.
}

// GeminiModel represents the configuration of one outbound Gemini model.
type GeminiModel struct {
	Model        string  `toml:"model"`         // The model identifier, e.g. "gemini-2.5-flash".
	Temperature  float32 `toml:"temperature"`   // Zero leaves the model default in place.
	MaxTokens    int32   `toml:"max_tokens"`    // Zero leaves the model default in place.
	OutputFormat string  `toml:"output_format"` // Response MIME type, empty for image models.
	RateLimit    int     `toml:"rate_limit"`    // Requests per second; zero or less means unlimited.
}

// Session holds the timings of a studio session.
type Session struct {
	TTL              Duration `toml:"ttl"`                // Idle time after which a session expires.
	CleanupInterval  Duration `toml:"cleanup_interval"`   // How often expired sessions are purged.
	CopiedResetDelay Duration `toml:"copied_reset_delay"` // How long the "Copied" indicator stays on.
	CallTimeout      Duration `toml:"call_timeout"`       // Upper bound of a single model call.
}

// Duration is a time.Duration that decodes from TOML strings such as "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for the TOML decoder.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config represents the overall configuration for the application.
type Config struct {
	Application struct {
		Name            string   `toml:"name"`
		GoogleProjectId string   `toml:"google_project_id"` // Enables Cloud Trace and Cloud Monitoring export when set.
		Port            string   `toml:"port"`
		WebOrigins      []string `toml:"web_origins"` // CORS origins allowed to call the API.
		// APIKey is never read from files, see LoadAPIKey.
		APIKey string `toml:"-"`
	} `toml:"application"`
	PromptTemplates PromptTemplates        `toml:"prompt_templates"`
	Models          map[string]GeminiModel `toml:"models"` // Keyed by ConceptModelKey and PreviewModelKey.
	Session         Session                `toml:"session"`
}

// NewConfig returns a configuration that works without any file: the two
// Gemini models, the prompt texts and the session timings all have defaults.
// Values decoded from TOML overwrite these defaults field by field.
//
// Outputs:
//   - *Config: A pointer to a fully populated Config.
func NewConfig() *Config {
	c := &Config{
		PromptTemplates: PromptTemplates{
			Concept:     DefaultConceptPrompt,
			Persona:     DefaultPersona,
			ImageSuffix: DefaultImageSuffix,
		},
		Models: map[string]GeminiModel{
			ConceptModelKey: {Model: "gemini-2.5-flash", OutputFormat: "application/json"},
			PreviewModelKey: {Model: "gemini-2.5-flash-image"},
		},
		Session: Session{
			TTL:              Duration{30 * time.Minute},
			CleanupInterval:  Duration{5 * time.Minute},
			CopiedResetDelay: Duration{2 * time.Second},
			CallTimeout:      Duration{2 * time.Minute},
		},
	}
	c.Application.Name = "thumbstopper-ai"
	c.Application.Port = "8080"
	c.Application.WebOrigins = []string{"http://localhost:8080"}
	return c
}
