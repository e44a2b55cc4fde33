package pipeline

import (
	"fmt"
	"os"

	"github.com/funvibe/opal/internal/astyaml"
	"github.com/funvibe/opal/internal/evaluator"
)

// ReadProcessor loads the unit file unless Source is already set.
type ReadProcessor struct{}

func (rp *ReadProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.Source != nil {
		return ctx
	}
	data, err := os.ReadFile(ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Source = data
	return ctx
}

// DecodeProcessor turns the YAML source into a program. The namespace
// defaults to the unit name derived from FilePath.
type DecodeProcessor struct{}

func (dp *DecodeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	program, err := astyaml.Decode(ctx.Source)
	if err != nil {
		ctx.Errors = append(ctx.Errors, fmt.Errorf("%s: %w", ctx.FilePath, err))
		return ctx
	}
	if program.File == "" {
		program.File = ctx.FilePath
	}
	if program.Namespace == "" && ctx.FilePath != "" {
		program.Namespace = astyaml.UnitName(ctx.FilePath)
	}
	ctx.AstRoot = program
	return ctx
}

// InterpretProcessor evaluates the program's top level into a new namespace.
type InterpretProcessor struct {
	Runtime *evaluator.RuntimeEnvironment
}

func (ip *InterpretProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.AstRoot == nil {
		return ctx
	}
	ns, err := ip.Runtime.Interpret(ctx.Context, ctx.AstRoot)
	ctx.Namespace = ns
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
