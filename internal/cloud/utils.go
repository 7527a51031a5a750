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

package cloud

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"google.golang.org/genai"
)

const (
	ConfigFileBaseName  = ".env"                // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"               // The file extension for configuration files.
	ConfigSeparator     = "."                   // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "THUMB_CONFIG_PREFIX" // The directory holding the configuration files.
	EnvConfigRuntime    = "THUMB_RUNTIME"       // The runtime context (e.g., "local", "test", "prod").
	DefaultRuntime      = "local"
	EnvAPIKey           = "API_KEY"        // Primary variable holding the Gemini API key.
	EnvAPIKeyFallback   = "GEMINI_API_KEY" // Read when EnvAPIKey is empty.
)

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig decodes `<prefix>/.env.toml` and then `<prefix>/.env.<runtime>.toml`
// into baseConfig. Values of the second file overwrite the first. Missing files
// are skipped, so a Config from NewConfig keeps its defaults.
//
// Inputs:
//   - baseConfig: A pointer to the struct to populate.
//
// Outputs:
//   - error: A decode error naming the offending file.
func LoadConfig(baseConfig any) error {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = DefaultRuntime
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	for _, name := range []string{baseConfigFileName, envConfigFileName} {
		if !fileExists(name) {
			slog.Debug("configuration file not found, skipping", "file", name)
			continue
		}
		if _, err := toml.DecodeFile(name, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", name, err)
		}
		slog.Info("loaded configuration file", "file", name, "runtime", runtimeEnvironment)
	}
	return nil
}

// LoadAPIKey returns the Gemini API key from the environment, or an empty
// string when neither variable is set.
func LoadAPIKey() string {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(EnvAPIKeyFallback))
}

// ResponseText concatenates the text parts of the first candidate and strips
// a surrounding markdown code fence, which some models add around JSON.
//
// Inputs:
//   - resp: The model response, may be nil.
//
// Outputs:
//   - string: The trimmed text, empty when the response carries none.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	value := strings.TrimSpace(sb.String())
	value = strings.TrimPrefix(value, "```json")
	value = strings.TrimPrefix(value, "```")
	value = strings.TrimSuffix(value, "```")
	return strings.TrimSpace(value)
}

// NewTextContent wraps a plain prompt as user content.
func NewTextContent(in string) []*genai.Content {
	return genai.Text(in)
}
