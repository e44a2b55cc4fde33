// Package pipeline loads compiled units into a runtime as a chain of
// processing stages: read, decode, interpret.
package pipeline

import (
	"context"

	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/evaluator"
)

// Processor is one stage. Stages skip their work once an earlier stage
// recorded an error.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one unit through the stages.
type PipelineContext struct {
	Context   context.Context
	FilePath  string
	Source    []byte
	AstRoot   *ast.Program
	Namespace *evaluator.Namespace
	Errors    []error
}

func NewPipelineContext(ctx context.Context, path string) *PipelineContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &PipelineContext{Context: ctx, FilePath: path}
}

// Failed reports whether any stage recorded an error.
func (c *PipelineContext) Failed() bool { return len(c.Errors) > 0 }

// Err returns the first recorded error.
func (c *PipelineContext) Err() error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0]
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

// Loader returns the standard read, decode, interpret chain for rt.
func Loader(rt *evaluator.RuntimeEnvironment) *Pipeline {
	return New(&ReadProcessor{}, &DecodeProcessor{}, &InterpretProcessor{Runtime: rt})
}
