package evaluator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/iancoleman/orderedmap"

	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/config"
)

// Namespace owns the top-level bindings of one compiled unit plus the
// bindings it imported with 'use'.
type Namespace struct {
	Name  string
	Local *Scope

	mu       sync.RWMutex
	imported *orderedmap.OrderedMap
}

func NewNamespace(name string) *Namespace {
	ns := &Namespace{Name: name, imported: orderedmap.New()}
	ns.Local = NewScope(ns)
	return ns
}

// Import copies the current top-level bindings of from. Later changes in
// from are not observed.
func (ns *Namespace) Import(from *Namespace) {
	names := from.Local.Names()
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for _, name := range names {
		if val, ok := from.Local.GetLocal(name); ok {
			ns.imported.Set(name, val)
		}
	}
}

func (ns *Namespace) LookupImported(name string) (Object, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.imported.Get(name)
	if !ok {
		return nil, false
	}
	return v.(Object), true
}

func (ns *Namespace) updateImported(name string, val Object) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, ok := ns.imported.Get(name); !ok {
		return false
	}
	ns.imported.Set(name, val)
	return true
}

// Lookup resolves a top-level name: local bindings, then imports.
func (ns *Namespace) Lookup(name string) (Object, bool) {
	return ns.Local.Lookup(name)
}

// RuntimeEnvironment holds every loaded namespace and the extern registry.
// Namespaces are only added, never removed.
type RuntimeEnvironment struct {
	ID       uuid.UUID
	Logger   *slog.Logger
	Out      io.Writer
	MaxDepth int

	in         *bufio.Reader
	mu         sync.RWMutex
	namespaces map[string]*Namespace
	order      []string
	externs    map[string]*MethodSet
}

func NewRuntimeEnvironment() *RuntimeEnvironment {
	rt := &RuntimeEnvironment{
		ID:         uuid.New(),
		Logger:     slog.Default(),
		Out:        os.Stdout,
		MaxDepth:   config.DefaultMaxDepth,
		in:         bufio.NewReader(os.Stdin),
		namespaces: make(map[string]*Namespace),
		externs:    make(map[string]*MethodSet),
	}
	seedExterns(rt)
	return rt
}

// SetInput replaces the reader used by readLine.
func (rt *RuntimeEnvironment) SetInput(r io.Reader) {
	rt.in = bufio.NewReader(r)
}

func (rt *RuntimeEnvironment) logger() *slog.Logger {
	return rt.Logger.With("run", rt.ID.String())
}

// Namespace returns a loaded namespace.
func (rt *RuntimeEnvironment) Namespace(name string) (*Namespace, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	ns, ok := rt.namespaces[name]
	return ns, ok
}

// Namespaces lists namespace names in load order.
func (rt *RuntimeEnvironment) Namespaces() []string {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	out := make([]string, len(rt.order))
	copy(out, rt.order)
	return out
}

// DefineNamespace adds an empty namespace. Names are unique per runtime.
func (rt *RuntimeEnvironment) DefineNamespace(name string) (*Namespace, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if _, exists := rt.namespaces[name]; exists {
		return nil, fmt.Errorf("namespace %q is already loaded", name)
	}
	ns := NewNamespace(name)
	rt.namespaces[name] = ns
	rt.order = append(rt.order, name)
	return ns, nil
}

// RegisterExtern adds a native overload under id. Externs with the same id
// and different arities accumulate into one set.
func (rt *RuntimeEnvironment) RegisterExtern(id string, m *Method) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if m.Name == "" {
		m.Name = id
	}
	set, ok := rt.externs[id]
	if !ok {
		set = &MethodSet{Name: id, overloads: make(map[int]*Method)}
		rt.externs[id] = set
	}
	if err := set.Add(m); err != nil {
		return err
	}
	rt.logger().Debug("extern registered", "id", id, "arity", m.Arity)
	return nil
}

// Extern returns the registered overloads for id.
func (rt *RuntimeEnvironment) Extern(id string) (*MethodSet, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	set, ok := rt.externs[id]
	return set, ok
}

// Interpret evaluates a unit's top-level statements into a new namespace.
func (rt *RuntimeEnvironment) Interpret(ctx context.Context, program *ast.Program) (*Namespace, error) {
	if program == nil {
		return nil, malformed("nil program")
	}
	name := program.Namespace
	if name == "" {
		name = program.File
	}
	ns, err := rt.DefineNamespace(name)
	if err != nil {
		return nil, err
	}
	log := rt.logger()
	log.Debug("interpreting unit", "namespace", name, "file", program.File, "statements", len(program.Statements))

	e := rt.newEvaluator(ctx)
	if _, err := e.EvalProgram(program, ns.Local); err != nil {
		log.Warn("unit failed", "namespace", name, "error", err)
		return ns, err
	}
	return ns, nil
}

// Invoke calls a top-level callable of a namespace.
func (rt *RuntimeEnvironment) Invoke(ctx context.Context, namespace, method string, args ...Object) (Object, error) {
	ns, ok := rt.Namespace(namespace)
	if !ok {
		return nil, newError(NameNotFound, "namespace '%s' is not loaded", namespace)
	}
	fn, ok := ns.Lookup(method)
	if !ok {
		return nil, newError(NameNotFound, "'%s' is not defined in namespace '%s'", method, namespace)
	}
	log := rt.logger()
	log.Debug("invoking", "namespace", namespace, "method", method, "args", len(args))

	e := rt.newEvaluator(ctx)
	e.PushCall(method, namespace, 0, 0)
	res, err := e.Apply(fn, args)
	if err != nil {
		log.Warn("invocation failed", "namespace", namespace, "method", method, "error", err)
		return nil, err
	}
	return res, nil
}

// InvokeEntry runs an entry point with command-line arguments. Arguments
// are passed as strings; with none, a single Void is passed when the entry
// accepts one argument, otherwise no arguments.
func (rt *RuntimeEnvironment) InvokeEntry(ctx context.Context, namespace, method string, argv []string) (Object, error) {
	args := make([]Object, len(argv))
	for i, a := range argv {
		args[i] = NewString(a)
	}
	if len(args) == 0 {
		args = []Object{VOID}
		if ns, ok := rt.Namespace(namespace); ok {
			if fn, ok := ns.Lookup(method); ok {
				if set, ok := asMethodSet(fn); ok {
					if _, one := set.Lookup(1); !one {
						if _, zero := set.Lookup(0); zero {
							args = nil
						}
					}
				}
			}
		}
	}
	return rt.Invoke(ctx, namespace, method, args...)
}

func (rt *RuntimeEnvironment) newEvaluator(ctx context.Context) *Evaluator {
	e := New(rt)
	if ctx != nil {
		e.Context = ctx
	}
	return e
}
