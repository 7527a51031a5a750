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

package cor

import (
	"context"
	"errors"
	"fmt"
)

type namedError struct {
	name string
	err  error
}

// BaseContext is the default Context. A fresh instance is created for every
// workflow execution, see NewBaseContext.
type BaseContext struct {
	data    map[string]any
	errs    []namedError
	context context.Context
}

// NewBaseContext returns an empty context bound to ctx.
//
// Inputs:
//   - ctx: The Go context of the caller. Cancellation and deadlines flow from it
//     into every outbound call made by the commands.
//
// Outputs:
//   - Context: A context ready to be passed to a chain.
func NewBaseContext(ctx context.Context) Context {
	return &BaseContext{
		data:    make(map[string]any),
		errs:    make([]namedError, 0),
		context: ctx,
	}
}

func (c *BaseContext) SetContext(ctx context.Context) {
	c.context = ctx
}

func (c *BaseContext) GetContext() context.Context {
	return c.context
}

func (c *BaseContext) Add(key string, value any) Context {
	c.data[key] = value
	return c
}

func (c *BaseContext) Get(key string) any {
	return c.data[key]
}

func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

// AddError records err under the command name. A nil error is ignored.
func (c *BaseContext) AddError(name string, err error) {
	if err == nil {
		return
	}
	c.errs = append(c.errs, namedError{name: name, err: err})
}

// GetErrors returns the recorded errors keyed by command name. When a command
// records more than one error only the last is kept in the map; use Err for
// the complete list.
func (c *BaseContext) GetErrors() map[string]error {
	out := make(map[string]error, len(c.errs))
	for _, e := range c.errs {
		out[e.name] = e.err
	}
	return out
}

func (c *BaseContext) HasErrors() bool {
	return len(c.errs) > 0
}

// Err joins the recorded errors, each prefixed with the command name. The
// result still matches the original errors with errors.Is and errors.As.
func (c *BaseContext) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	wrapped := make([]error, 0, len(c.errs))
	for _, e := range c.errs {
		wrapped = append(wrapped, fmt.Errorf("%s: %w", e.name, e.err))
	}
	return errors.Join(wrapped...)
}
