package evaluator

import (
	"github.com/iancoleman/orderedmap"
)

// GenericObject is an ordered member table. User object literals are plain
// GenericObjects; strings, arrays and dictionaries embed one that holds
// their synthesized members.
type GenericObject struct {
	members *orderedmap.OrderedMap
}

func NewGenericObject() *GenericObject {
	return &GenericObject{members: orderedmap.New()}
}

func (g *GenericObject) Type() ObjectType     { return OBJECT_OBJ }
func (g *GenericObject) Inspect() string      { return inspect(g) }
func (g *GenericObject) Base() *GenericObject { return g }

// GetMember returns the member bound to name.
func (g *GenericObject) GetMember(name string) (Object, bool) {
	v, ok := g.members.Get(name)
	if !ok {
		return nil, false
	}
	return v.(Object), true
}

func (g *GenericObject) HasMember(name string) bool {
	_, ok := g.members.Get(name)
	return ok
}

// SetMember binds or rebinds name, keeping the original insertion position.
func (g *GenericObject) SetMember(name string, val Object) {
	g.members.Set(name, val)
}

// DeleteMember removes name and reports whether it was present.
func (g *GenericObject) DeleteMember(name string) bool {
	if !g.HasMember(name) {
		return false
	}
	g.members.Delete(name)
	return true
}

// MemberNames returns the member names in insertion order.
func (g *GenericObject) MemberNames() []string {
	keys := g.members.Keys()
	names := make([]string, len(keys))
	copy(names, keys)
	return names
}

func (g *GenericObject) Len() int { return len(g.members.Keys()) }

func (g *GenericObject) defineMethod(name string, arity int, role Role, fn NativeFunction) {
	if existing, ok := g.GetMember(name); ok {
		if ms, ok := existing.(*MethodSet); ok {
			if err := ms.Add(NewNativeMethod(name, arity, role, fn)); err == nil {
				return
			}
		}
	}
	g.SetMember(name, nativeMember(name, arity, role, fn))
}

// operatorOverride finds a user overload for op taking argc operands.
func (g *GenericObject) operatorOverride(op Operator, argc int) (*Method, bool) {
	member, ok := g.GetMember(OperatorMemberName(op))
	if !ok {
		return nil, false
	}
	set, ok := asMethodSet(member)
	if !ok {
		return nil, false
	}
	return set.Lookup(argc)
}
