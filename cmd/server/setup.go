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

package main

import (
	"context"
	"os"

	"github.com/jaycherian/thumbstopper-ai/internal/cloud"
	"github.com/jaycherian/thumbstopper-ai/internal/core/services"
	"github.com/jaycherian/thumbstopper-ai/internal/core/workflow"
)

// StateManager holds the shared components of the server.
type StateManager struct {
	config *cloud.Config
	cloud  *cloud.ServiceClients
	studio *services.StudioService
}

var state = &StateManager{}

// SetupOS points the configuration loader at ./configs unless the
// environment already says otherwise.
func SetupOS() error {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err := os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		return os.Setenv(cloud.EnvConfigRuntime, cloud.DefaultRuntime)
	}
	return nil
}

// GetConfig loads the configuration once: defaults, then the TOML files, then
// the API key from the environment.
func GetConfig() (*cloud.Config, error) {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			return nil, err
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			return nil, err
		}
		config.Application.APIKey = cloud.LoadAPIKey()
		state.config = config
	}
	return state.config, nil
}

// InitState creates the model clients, the two workflows and the studio.
func InitState(ctx context.Context, config *cloud.Config) error {
	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	state.cloud = cloudClients

	concepts, err := workflow.NewConceptWorkflow(config, cloudClients)
	if err != nil {
		return err
	}
	previews := workflow.NewPreviewWorkflow(config, cloudClients)

	sessions := services.NewSessionStore(config.Session.TTL.Duration, config.Session.CleanupInterval.Duration)
	state.studio = services.NewStudioService(sessions, concepts, previews, services.StudioOptions{
		CopiedResetDelay: config.Session.CopiedResetDelay.Duration,
		CallTimeout:      config.Session.CallTimeout.Duration,
	})
	return nil
}
