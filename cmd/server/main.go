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
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaycherian/thumbstopper-ai/internal/api"
	"github.com/jaycherian/thumbstopper-ai/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, err := GetConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		log.Fatalf("failed to setup OpenTelemetry: %v", err)
	}
	slog.Info("Tracing initialized")

	if err := InitState(ctx, config); err != nil {
		log.Fatalf("failed to initialize state: %v", err)
	}
	slog.Info("Initialized State")

	router, err := api.NewRouter(config, state.studio)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + config.Application.Port,
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server ready", "port", config.Application.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutdown Server ...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		// Outstanding model calls are bounded by the call timeout.
		state.studio.Wait()
		state.cloud.Close()
		return errors.Join(err, shutdownTelemetry(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
	slog.Info("Server exiting")
}
