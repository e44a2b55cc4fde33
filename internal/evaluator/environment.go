package evaluator

import (
	"sync"

	"github.com/iancoleman/orderedmap"
)

// Scope is one frame of named bindings. Lookups walk the parent chain and
// then the imported map of the owning namespace.
type Scope struct {
	mu        sync.RWMutex
	store     *orderedmap.OrderedMap
	outer     *Scope
	namespace *Namespace
}

func NewScope(ns *Namespace) *Scope {
	return &Scope{store: orderedmap.New(), namespace: ns}
}

func NewEnclosedScope(outer *Scope) *Scope {
	s := NewScope(outer.namespace)
	s.outer = outer
	return s
}

func (s *Scope) Outer() *Scope         { return s.outer }
func (s *Scope) Namespace() *Namespace { return s.namespace }

// GetLocal looks in this frame only.
func (s *Scope) GetLocal(name string) (Object, bool) {
	s.mu.RLock()
	v, ok := s.store.Get(name)
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return v.(Object), true
}

// Lookup resolves name through the scope chain, then the namespace imports.
func (s *Scope) Lookup(name string) (Object, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if obj, ok := cur.GetLocal(name); ok {
			return obj, true
		}
	}
	if s.namespace != nil {
		return s.namespace.LookupImported(name)
	}
	return nil, false
}

// Get is Lookup failing with NameNotFound.
func (s *Scope) Get(name string) (Object, error) {
	if obj, ok := s.Lookup(name); ok {
		return obj, nil
	}
	return nil, newError(NameNotFound, "'%s' is not defined", name)
}

// Declare binds name in this frame, shadowing any outer binding.
func (s *Scope) Declare(name string, val Object) {
	s.mu.Lock()
	s.store.Set(name, val)
	s.mu.Unlock()
}

// Update rebinds name in the nearest frame (or import) that has it.
func (s *Scope) Update(name string, val Object) bool {
	for cur := s; cur != nil; cur = cur.outer {
		cur.mu.Lock()
		_, ok := cur.store.Get(name)
		if ok {
			cur.store.Set(name, val)
			cur.mu.Unlock()
			return true
		}
		cur.mu.Unlock()
	}
	if s.namespace != nil {
		return s.namespace.updateImported(name, val)
	}
	return false
}

// Set is Update failing with NameNotFound.
func (s *Scope) Set(name string, val Object) error {
	if !s.Update(name, val) {
		return newError(NameNotFound, "'%s' is not defined", name)
	}
	return nil
}

// Assign is plain '=': update where bound, otherwise declare here.
func (s *Scope) Assign(name string, val Object) {
	if !s.Update(name, val) {
		s.Declare(name, val)
	}
}

// Names returns the names bound in this frame in declaration order.
func (s *Scope) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.store.Keys()
	names := make([]string, len(keys))
	copy(names, keys)
	return names
}
