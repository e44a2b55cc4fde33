package evaluator

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/funvibe/opal/internal/config"
)

// ArrayObject is a fixed-length sequence. Elements are mutable in place but
// the length never changes after construction.
type ArrayObject struct {
	*GenericObject
	Elements []Object
}

func NewArray(elements []Object) *ArrayObject {
	if elements == nil {
		elements = []Object{}
	}
	a := &ArrayObject{GenericObject: NewGenericObject(), Elements: elements}
	a.synthesize()
	return a
}

// NewArrayOfSize allocates n elements, all Null.
func NewArrayOfSize(n int) (*ArrayObject, error) {
	if n < 0 {
		return nil, newError(OperableError, "array size must not be negative, got %d", n)
	}
	elements := make([]Object, n)
	for i := range elements {
		elements[i] = NULL
	}
	return NewArray(elements), nil
}

func (a *ArrayObject) Type() ObjectType { return ARRAY_OBJ }
func (a *ArrayObject) Inspect() string  { return inspect(a) }
func (a *ArrayObject) Len() int         { return len(a.Elements) }

func (a *ArrayObject) outOfRange(i int) *RuntimeError {
	return newError(IndexOutOfRange, "index %d is out of range for array of length %d", i, len(a.Elements))
}

func (a *ArrayObject) Get(i int) (Object, error) {
	if i < 0 || i >= len(a.Elements) {
		return nil, a.outOfRange(i)
	}
	return a.Elements[i], nil
}

func (a *ArrayObject) Set(i int, val Object) error {
	if i < 0 || i >= len(a.Elements) {
		return a.outOfRange(i)
	}
	a.Elements[i] = val
	return nil
}

// Range copies elements [start, stop) into a new array.
func (a *ArrayObject) Range(start, stop int) (*ArrayObject, error) {
	if start < 0 || stop > len(a.Elements) || start > stop {
		return nil, newError(IndexOutOfRange, "range [%d, %d) is out of range for array of length %d", start, stop, len(a.Elements))
	}
	elements := make([]Object, stop-start)
	copy(elements, a.Elements[start:stop])
	return NewArray(elements), nil
}

func (a *ArrayObject) synthesize() {
	a.defineMethod(config.LengthMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return NewInteger(int64(len(a.Elements))), nil
	})
	get := func(e *Evaluator, args []Object) (Object, error) {
		i, err := toIndex(args[0])
		if err != nil {
			return nil, err
		}
		return a.Get(i)
	}
	a.defineMethod(config.GetMember, 1, RoleFunction, get)
	a.defineMethod(config.IndexerGetMember, 1, RoleFunction, get)
	set := func(e *Evaluator, args []Object) (Object, error) {
		i, err := toIndex(args[0])
		if err != nil {
			return nil, err
		}
		return VOID, a.Set(i, args[1])
	}
	a.defineMethod(config.SetMember, 2, RoleConsumer, set)
	a.defineMethod(config.IndexerSetMember, 2, RoleConsumer, set)
	a.defineMethod("range", 2, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		start, err := toIndex(args[0])
		if err != nil {
			return nil, err
		}
		stop, err := toIndex(args[1])
		if err != nil {
			return nil, err
		}
		return a.Range(start, stop)
	})
	a.defineMethod("contains", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		for _, el := range a.Elements {
			if objectsEqual(el, args[0]) {
				return TRUE, nil
			}
		}
		return FALSE, nil
	})
	a.defineMethod("indexOf", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		for i, el := range a.Elements {
			if objectsEqual(el, args[0]) {
				return NewInteger(int64(i)), nil
			}
		}
		return NewInteger(-1), nil
	})
	a.defineMethod(config.ToStringMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		text, err := e.render(a, false)
		if err != nil {
			return nil, err
		}
		return NewString(text), nil
	})
	a.defineMethod(config.EnumeratorMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		i := 0
		return newEnumerator(func() (Object, bool) {
			if i >= len(a.Elements) {
				return nil, false
			}
			el := a.Elements[i]
			i++
			return el, true
		}), nil
	})
}

// DictionaryEntry is one key/value pair in insertion order.
type DictionaryEntry struct {
	Key   Object
	Value Object
}

// DictionaryObject maps keys to values by tag and value (identity for
// reference types), preserving insertion order.
type DictionaryObject struct {
	*GenericObject
	entries *linkedhashmap.Map
}

func NewDictionary() *DictionaryObject {
	d := &DictionaryObject{GenericObject: NewGenericObject(), entries: linkedhashmap.New()}
	d.synthesize()
	return d
}

func (d *DictionaryObject) Type() ObjectType { return DICTIONARY_OBJ }
func (d *DictionaryObject) Inspect() string  { return inspect(d) }
func (d *DictionaryObject) Len() int         { return d.entries.Size() }

func (d *DictionaryObject) Get(key Object) (Object, error) {
	k, err := dictKey(key)
	if err != nil {
		return nil, err
	}
	v, found := d.entries.Get(k)
	if !found {
		return nil, newError(OperableError, "key not found: %s", inspectQuoted(key))
	}
	return v.(*DictionaryEntry).Value, nil
}

// Set inserts or replaces; a replaced key keeps its position.
func (d *DictionaryObject) Set(key, val Object) error {
	k, err := dictKey(key)
	if err != nil {
		return err
	}
	if v, found := d.entries.Get(k); found {
		v.(*DictionaryEntry).Value = val
		return nil
	}
	d.entries.Put(k, &DictionaryEntry{Key: key, Value: val})
	return nil
}

func (d *DictionaryObject) Contains(key Object) (bool, error) {
	k, err := dictKey(key)
	if err != nil {
		return false, err
	}
	_, found := d.entries.Get(k)
	return found, nil
}

// Remove deletes key and reports whether it was present.
func (d *DictionaryObject) Remove(key Object) (bool, error) {
	k, err := dictKey(key)
	if err != nil {
		return false, err
	}
	if _, found := d.entries.Get(k); !found {
		return false, nil
	}
	d.entries.Remove(k)
	return true, nil
}

// Entries returns the pairs in insertion order.
func (d *DictionaryObject) Entries() []*DictionaryEntry {
	values := d.entries.Values()
	entries := make([]*DictionaryEntry, len(values))
	for i, v := range values {
		entries[i] = v.(*DictionaryEntry)
	}
	return entries
}

func (d *DictionaryObject) Keys() []Object {
	entries := d.Entries()
	keys := make([]Object, len(entries))
	for i, entry := range entries {
		keys[i] = entry.Key
	}
	return keys
}

func (d *DictionaryObject) Values() []Object {
	entries := d.Entries()
	values := make([]Object, len(entries))
	for i, entry := range entries {
		values[i] = entry.Value
	}
	return values
}

func (d *DictionaryObject) synthesize() {
	d.defineMethod(config.LengthMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return NewInteger(int64(d.Len())), nil
	})
	get := func(e *Evaluator, args []Object) (Object, error) {
		return d.Get(args[0])
	}
	d.defineMethod(config.GetMember, 1, RoleFunction, get)
	d.defineMethod(config.IndexerGetMember, 1, RoleFunction, get)
	set := func(e *Evaluator, args []Object) (Object, error) {
		return VOID, d.Set(args[0], args[1])
	}
	d.defineMethod(config.SetMember, 2, RoleConsumer, set)
	d.defineMethod(config.IndexerSetMember, 2, RoleConsumer, set)
	d.defineMethod("contains", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		found, err := d.Contains(args[0])
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(found), nil
	})
	d.defineMethod("remove", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		removed, err := d.Remove(args[0])
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(removed), nil
	})
	d.defineMethod("keys", 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return NewArray(d.Keys()), nil
	})
	d.defineMethod("values", 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return NewArray(d.Values()), nil
	})
	d.defineMethod(config.ToStringMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		text, err := e.render(d, false)
		if err != nil {
			return nil, err
		}
		return NewString(text), nil
	})
	// The enumerator walks the entries present when it was created, so the
	// loop body may add or remove keys.
	d.defineMethod(config.EnumeratorMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		entries := d.Entries()
		next := 0
		return newEnumerator(func() (Object, bool) {
			if next >= len(entries) {
				return nil, false
			}
			entry := entries[next]
			next++
			pair := NewGenericObject()
			pair.SetMember(config.KeyMember, entry.Key)
			pair.SetMember(config.ValueMember, entry.Value)
			return pair, true
		}), nil
	})
}

// newEnumerator wraps a pull function into an object with next() and
// current(). next() returns false once the source is exhausted.
func newEnumerator(pull func() (Object, bool)) *GenericObject {
	enum := NewGenericObject()
	var current Object
	done := false
	enum.defineMethod(config.NextMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		if done {
			return FALSE, nil
		}
		v, ok := pull()
		if !ok {
			done = true
			current = nil
			return FALSE, nil
		}
		current = v
		return TRUE, nil
	})
	enum.defineMethod(config.CurrentMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		if current == nil {
			return nil, newError(OperableError, "current() called without a successful next()")
		}
		return current, nil
	})
	return enum
}
