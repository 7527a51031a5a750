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

package cor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jaycherian/thumbstopper-ai/internal/core/cor"
	"github.com/zeebo/assert"
)

type upperCommand struct {
	cor.BaseCommand
}

func (u *upperCommand) Execute(ctx cor.Context) {
	u.Succeed(ctx, strings.ToUpper(ctx.Get(u.GetInputParam()).(string)))
}

type suffixCommand struct {
	cor.BaseCommand
	suffix string
}

func (s *suffixCommand) Execute(ctx cor.Context) {
	s.Succeed(ctx, ctx.Get(s.GetInputParam()).(string)+s.suffix)
}

var errBoom = errors.New("boom")

type failingCommand struct {
	cor.BaseCommand
	calls int
}

func (f *failingCommand) Execute(ctx cor.Context) {
	f.calls++
	f.Fail(ctx, errBoom)
}

func TestChainPipesOutputToInput(t *testing.T) {
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(&upperCommand{BaseCommand: *cor.NewBaseCommand("upper")})
	chain.AddCommand(&suffixCommand{BaseCommand: *cor.NewBaseCommand("suffix"), suffix: "!"})

	chCtx := cor.NewBaseContext(context.Background())
	chCtx.Add(cor.CtxIn, "hello")
	chain.Execute(chCtx)

	assert.Nil(t, chCtx.Err())
	assert.Equal(t, chCtx.Get(cor.CtxIn), "HELLO!")
	assert.Nil(t, chCtx.Get(cor.CtxOut))
}

func TestChainStopsOnFirstError(t *testing.T) {
	failing := &failingCommand{BaseCommand: *cor.NewBaseCommand("failing")}
	second := &failingCommand{BaseCommand: *cor.NewBaseCommand("second")}

	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(failing).AddCommand(second)

	chCtx := cor.NewBaseContext(context.Background())
	chCtx.Add(cor.CtxIn, "x")
	chain.Execute(chCtx)

	assert.Equal(t, failing.calls, 1)
	assert.Equal(t, second.calls, 0)
	assert.Equal(t, errors.Is(chCtx.Err(), errBoom), true)
	assert.Equal(t, len(chCtx.GetErrors()), 1)
}

func TestChainContinueOnFailure(t *testing.T) {
	failing := &failingCommand{BaseCommand: *cor.NewBaseCommand("failing")}
	second := &failingCommand{BaseCommand: *cor.NewBaseCommand("second")}

	chain := cor.NewBaseChain("test-chain")
	chain.ContinueOnFailure(true)
	chain.AddCommand(failing).AddCommand(second)

	chCtx := cor.NewBaseContext(context.Background())
	chCtx.Add(cor.CtxIn, "x")
	chain.Execute(chCtx)

	// The second command has no input because the first produced no output.
	assert.Equal(t, second.calls, 0)
	assert.Equal(t, errors.Is(chCtx.Err(), cor.ErrNotExecutable), true)
	assert.Equal(t, len(chCtx.GetErrors()), 2)
}

func TestMissingInputIsAnError(t *testing.T) {
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(&upperCommand{BaseCommand: *cor.NewBaseCommand("upper")})

	chCtx := cor.NewBaseContext(context.Background())
	chain.Execute(chCtx)

	assert.Equal(t, chCtx.HasErrors(), true)
	assert.Equal(t, errors.Is(chCtx.Err(), cor.ErrNotExecutable), true)
	assert.Equal(t, strings.HasPrefix(chCtx.Err().Error(), "upper: "), true)
}

func TestCustomParamNames(t *testing.T) {
	cmd := &upperCommand{BaseCommand: *cor.NewBaseCommand("upper")}
	cmd.InputParamName = "title"
	cmd.OutputParamName = "shout"

	chCtx := cor.NewBaseContext(context.Background()).Add("title", "abc")
	assert.Equal(t, cmd.IsExecutable(chCtx), true)
	cmd.Execute(chCtx)
	assert.Equal(t, chCtx.Get("shout"), "ABC")
}
