// Package opal embeds the Opal runtime in Go programs: load compiled units,
// bind Go functions as externs, exchange values and invoke methods.
package opal

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/funvibe/opal/internal/astyaml"
	"github.com/funvibe/opal/internal/config"
	"github.com/funvibe/opal/internal/evaluator"
	"github.com/funvibe/opal/internal/pipeline"
)

// Interpreter wraps a runtime environment with Go value conversion.
type Interpreter struct {
	runtime    *evaluator.RuntimeEnvironment
	marshaller *Marshaller
	host       *evaluator.Namespace
}

// New creates an interpreter with an empty host namespace.
func New() *Interpreter {
	rt := evaluator.NewRuntimeEnvironment()
	host, err := rt.DefineNamespace(config.HostNamespace)
	if err != nil {
		// A fresh runtime has no namespaces.
		panic(err)
	}
	return &Interpreter{
		runtime:    rt,
		marshaller: NewMarshaller(),
		host:       host,
	}
}

// Runtime exposes the underlying environment.
func (in *Interpreter) Runtime() *evaluator.RuntimeEnvironment {
	return in.runtime
}

func (in *Interpreter) SetOutput(w io.Writer) {
	in.runtime.Out = w
}

func (in *Interpreter) SetInput(r io.Reader) {
	in.runtime.SetInput(r)
}

func (in *Interpreter) SetLogger(l *slog.Logger) {
	in.runtime.Logger = l
}

// Bind registers a Go function as an extern under id, for units to declare
// with 'extern name = id'. Binding functions of different arities under one
// id builds an overload set.
func (in *Interpreter) Bind(id string, fn interface{}) error {
	method, err := in.marshaller.Func(id, fn)
	if err != nil {
		return err
	}
	return in.runtime.RegisterExtern(id, method)
}

// BindFunc registers a native implementation that works on Opal values
// directly. It always returns a value.
func (in *Interpreter) BindFunc(id string, arity int, fn evaluator.NativeFunction) error {
	if fn == nil {
		return fmt.Errorf("%s: nil function", id)
	}
	return in.runtime.RegisterExtern(id, evaluator.NewNativeMethod(id, arity, evaluator.RoleFor(arity, true), fn))
}

// Set defines or replaces a value in the host namespace. Units see the
// value as of their 'use host' statement.
func (in *Interpreter) Set(name string, val interface{}) error {
	obj, err := in.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	in.host.Local.Assign(name, obj)
	return nil
}

// Get reads a top-level binding of a loaded namespace.
func (in *Interpreter) Get(namespace, name string) (interface{}, error) {
	ns, ok := in.runtime.Namespace(namespace)
	if !ok {
		return nil, fmt.Errorf("namespace '%s' is not loaded", namespace)
	}
	obj, ok := ns.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found in namespace '%s'", name, namespace)
	}
	return in.marshaller.FromValue(obj, nil)
}

// LoadFile reads, decodes and interprets a YAML syntax tree unit. The
// namespace defaults to the file name without its extension.
func (in *Interpreter) LoadFile(ctx context.Context, path string) error {
	return pipeline.Loader(in.runtime).Run(pipeline.NewPipelineContext(ctx, path)).Err()
}

// LoadYAML interprets a unit held in memory. namespace overrides the one
// recorded in the unit when not empty.
func (in *Interpreter) LoadYAML(ctx context.Context, namespace string, data []byte) error {
	program, err := astyaml.Decode(data)
	if err != nil {
		return err
	}
	if namespace != "" {
		program.Namespace = namespace
	}
	if program.Namespace == "" {
		return fmt.Errorf("unit has no namespace")
	}
	_, err = in.runtime.Interpret(ctx, program)
	return err
}

// Call invokes a top-level callable with Go arguments and converts the
// result back. Non-returning methods yield nil.
func (in *Interpreter) Call(ctx context.Context, namespace, method string, args ...interface{}) (interface{}, error) {
	objs := make([]evaluator.Object, len(args))
	for i, arg := range args {
		obj, err := in.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		objs[i] = obj
	}
	res, err := in.runtime.Invoke(ctx, namespace, method, objs...)
	if err != nil {
		return nil, err
	}
	return in.marshaller.FromValue(res, nil)
}
