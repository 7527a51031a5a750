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

// Package cor (Chain of Responsibility) provides the building blocks used to
// express each model call as a short pipeline of commands. This file defines
// the interfaces shared by commands, chains and the per-execution context.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys a BaseChain uses to pipe the output of one
// command into the input of the next.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the state carried through a single chain execution. It is not
// safe for concurrent use; every execution gets its own instance.
type Context interface {
	// SetContext replaces the Go context, used by the chain to nest spans.
	SetContext(ctx context.Context)
	GetContext() context.Context

	// Add stores a value under key and returns the context for chaining.
	Add(key string, value any) Context
	Get(key string) any
	Remove(key string)

	// AddError records an error produced by the named command. Errors are
	// kept in the order they were recorded.
	AddError(name string, err error)
	GetErrors() map[string]error
	HasErrors() bool

	// Err joins every recorded error in recording order, or returns nil.
	Err() error
}

// Executable is anything with a unit of work driven by a Context.
type Executable interface {
	Execute(context Context)
}

// Command is a single step of a chain.
type Command interface {
	Executable

	GetName() string

	// GetInputParam and GetOutputParam name the context keys the command
	// reads from and writes to. They default to CtxIn and CtxOut.
	GetInputParam() string
	GetOutputParam() string

	// IsExecutable is checked by the chain before Execute is called.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain runs its commands in order. A chain is itself a command so chains
// can be nested.
type Chain interface {
	Command

	// ContinueOnFailure keeps the chain running after a command records an
	// error. Chains stop at the first error by default.
	ContinueOnFailure(bool) Chain

	AddCommand(command Command) Chain
}
