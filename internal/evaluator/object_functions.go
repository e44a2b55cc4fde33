package evaluator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/funvibe/opal/internal/ast"
)

// Role classifies a callable by whether it takes parameters and returns a value.
type Role int

const (
	RoleAction   Role = iota // no params, no return
	RoleConsumer             // params, no return
	RoleProvider             // no params, returns value
	RoleFunction             // params, returns value
)

func (r Role) String() string {
	switch r {
	case RoleAction:
		return "Action"
	case RoleConsumer:
		return "Consumer"
	case RoleProvider:
		return "Provider"
	case RoleFunction:
		return "Function"
	}
	return "Role(" + strconv.Itoa(int(r)) + ")"
}

// Returns reports whether calls of this role produce a value.
func (r Role) Returns() bool { return r == RoleProvider || r == RoleFunction }

// RoleFor derives the role of a declaration from its shape.
func RoleFor(arity int, returns bool) Role {
	switch {
	case arity == 0 && !returns:
		return RoleAction
	case arity == 0:
		return RoleProvider
	case !returns:
		return RoleConsumer
	}
	return RoleFunction
}

// NativeFunction is the implementation of a host-provided callable.
type NativeFunction func(e *Evaluator, args []Object) (Object, error)

// Method is a single callable with a fixed arity. It is either native
// (Native != nil) or a user closure over the scope it was defined in.
type Method struct {
	Name   string // Empty for anonymous functions
	Arity  int
	Role   Role
	Native NativeFunction

	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Closure    *Scope // Scope chain captured at definition
	Line       int    // Source location for stack traces
	Column     int
}

// NewNativeMethod wraps a host function.
func NewNativeMethod(name string, arity int, role Role, fn NativeFunction) *Method {
	return &Method{Name: name, Arity: arity, Role: role, Native: fn}
}

func (m *Method) Type() ObjectType { return METHOD_OBJ }
func (m *Method) Inspect() string {
	name := m.Name
	if name == "" {
		name = "func"
	}
	if m.Native == nil && len(m.Parameters) > 0 {
		params := make([]string, len(m.Parameters))
		for i, p := range m.Parameters {
			params[i] = p.Value
		}
		return fmt.Sprintf("<%s %s(%s)>", strings.ToLower(m.Role.String()), name, strings.Join(params, ", "))
	}
	return fmt.Sprintf("<%s %s/%d>", strings.ToLower(m.Role.String()), name, m.Arity)
}

// MethodSet is the overload table of one callable name, keyed by arity.
type MethodSet struct {
	Name      string
	overloads map[int]*Method
}

// NewMethodSet builds a set from methods; equal arities conflict.
func NewMethodSet(name string, methods ...*Method) (*MethodSet, error) {
	ms := &MethodSet{Name: name, overloads: make(map[int]*Method, len(methods))}
	for _, m := range methods {
		if err := ms.Add(m); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

// nativeMember builds the single-overload set used by synthesized member tables.
func nativeMember(name string, arity int, role Role, fn NativeFunction) *MethodSet {
	return &MethodSet{
		Name:      name,
		overloads: map[int]*Method{arity: NewNativeMethod(name, arity, role, fn)},
	}
}

func (ms *MethodSet) Type() ObjectType { return METHOD_SET_OBJ }
func (ms *MethodSet) Inspect() string {
	arities := ms.Arities()
	parts := make([]string, len(arities))
	for i, a := range arities {
		parts[i] = strconv.Itoa(a)
	}
	name := ms.Name
	if name == "" {
		name = "func"
	}
	return fmt.Sprintf("<methods %s/{%s}>", name, strings.Join(parts, ","))
}

// Add inserts m in place. It fails with OverloadConflict if the arity is taken.
func (ms *MethodSet) Add(m *Method) error {
	if _, exists := ms.overloads[m.Arity]; exists {
		return newError(OverloadConflict, "%s already has an overload with %d parameter(s)", ms.displayName(), m.Arity)
	}
	ms.overloads[m.Arity] = m
	return nil
}

// Remove deletes the overload with the given arity.
func (ms *MethodSet) Remove(arity int) error {
	if _, exists := ms.overloads[arity]; !exists {
		return newError(OverloadNotFound, "%s has no overload with %d parameter(s)", ms.displayName(), arity)
	}
	delete(ms.overloads, arity)
	return nil
}

// Resolve selects the overload whose arity equals argc.
func (ms *MethodSet) Resolve(argc int) (*Method, error) {
	if m, ok := ms.overloads[argc]; ok {
		return m, nil
	}
	return nil, newError(OverloadNotFound, "%s has no overload taking %d argument(s)", ms.displayName(), argc)
}

// Lookup returns the overload with the given arity, if any.
func (ms *MethodSet) Lookup(arity int) (*Method, bool) {
	m, ok := ms.overloads[arity]
	return m, ok
}

// Arities returns the registered parameter counts in ascending order.
func (ms *MethodSet) Arities() []int {
	arities := make([]int, 0, len(ms.overloads))
	for a := range ms.overloads {
		arities = append(arities, a)
	}
	sort.Ints(arities)
	return arities
}

func (ms *MethodSet) Len() int { return len(ms.overloads) }

// Copy duplicates the overload map; the methods themselves are shared.
func (ms *MethodSet) Copy() *MethodSet {
	cp := &MethodSet{Name: ms.Name, overloads: make(map[int]*Method, len(ms.overloads))}
	for a, m := range ms.overloads {
		cp.overloads[a] = m
	}
	return cp
}

func (ms *MethodSet) displayName() string {
	if ms.Name == "" {
		return "method set"
	}
	return "'" + ms.Name + "'"
}

// CombineMethods merges two callables (Method or MethodSet) into a new set.
// Neither operand is modified.
func CombineMethods(left, right Object) (*MethodSet, error) {
	var result *MethodSet
	switch l := left.(type) {
	case *Method:
		result = &MethodSet{Name: l.Name, overloads: map[int]*Method{l.Arity: l}}
	case *MethodSet:
		result = l.Copy()
	default:
		return nil, missingOperator(OpAdd, left, right)
	}
	switch r := right.(type) {
	case *Method:
		if err := result.Add(r); err != nil {
			return nil, err
		}
	case *MethodSet:
		for _, a := range r.Arities() {
			if err := result.Add(r.overloads[a]); err != nil {
				return nil, err
			}
		}
	default:
		return nil, missingOperator(OpAdd, left, right)
	}
	if result.Name == "" {
		if r, ok := right.(*MethodSet); ok {
			result.Name = r.Name
		} else if r, ok := right.(*Method); ok {
			result.Name = r.Name
		}
	}
	return result, nil
}

// asMethodSet views a callable as a set without copying a MethodSet.
func asMethodSet(obj Object) (*MethodSet, bool) {
	switch fn := obj.(type) {
	case *MethodSet:
		return fn, true
	case *Method:
		return &MethodSet{Name: fn.Name, overloads: map[int]*Method{fn.Arity: fn}}, true
	}
	return nil, false
}
