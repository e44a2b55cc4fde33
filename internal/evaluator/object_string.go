package evaluator

import (
	"strings"

	"github.com/funvibe/opal/internal/config"
)

// StringObject is an immutable string with a synthesized member table.
type StringObject struct {
	*GenericObject
	Value string
	runes []rune
}

func NewString(s string) *StringObject {
	str := &StringObject{GenericObject: NewGenericObject(), Value: s, runes: []rune(s)}
	str.synthesize()
	return str
}

func (s *StringObject) Type() ObjectType { return STRING_OBJ }
func (s *StringObject) Inspect() string  { return s.Value }

// Len counts characters, not bytes.
func (s *StringObject) Len() int { return len(s.runes) }

// CharAt returns the character at position i.
func (s *StringObject) CharAt(i int) (Object, error) {
	if i < 0 || i >= len(s.runes) {
		return nil, newError(IndexOutOfRange, "index %d is out of range for string of length %d", i, len(s.runes))
	}
	return &Character{Value: s.runes[i]}, nil
}

// Substring returns characters [start, stop).
func (s *StringObject) Substring(start, stop int) (*StringObject, error) {
	if start < 0 || stop > len(s.runes) || start > stop {
		return nil, newError(IndexOutOfRange, "range [%d, %d) is out of range for string of length %d", start, stop, len(s.runes))
	}
	return NewString(string(s.runes[start:stop])), nil
}

// textArg accepts a String or Character argument.
func textArg(obj Object, member string) (string, error) {
	switch v := obj.(type) {
	case *StringObject:
		return v.Value, nil
	case *Character:
		return string(v.Value), nil
	}
	return "", newError(OperableError, "%s expects STRING or CHARACTER, got %s", member, obj.Type())
}

func (s *StringObject) synthesize() {
	s.defineMethod(config.LengthMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return NewInteger(int64(s.Len())), nil
	})
	s.defineMethod(config.ToStringMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return s, nil
	})
	charAt := func(e *Evaluator, args []Object) (Object, error) {
		i, err := toIndex(args[0])
		if err != nil {
			return nil, err
		}
		return s.CharAt(i)
	}
	s.defineMethod(config.IndexerGetMember, 1, RoleFunction, charAt)
	s.defineMethod(config.GetMember, 1, RoleFunction, charAt)
	s.defineMethod("replaceAll", 2, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		old, err := textArg(args[0], "replaceAll")
		if err != nil {
			return nil, err
		}
		repl, err := textArg(args[1], "replaceAll")
		if err != nil {
			return nil, err
		}
		return NewString(strings.ReplaceAll(s.Value, old, repl)), nil
	})
	s.defineMethod("split", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		sep, err := textArg(args[0], "split")
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s.Value, sep)
		elements := make([]Object, len(parts))
		for i, p := range parts {
			elements[i] = NewString(p)
		}
		return NewArray(elements), nil
	})
	s.defineMethod("contains", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		sub, err := textArg(args[0], "contains")
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(strings.Contains(s.Value, sub)), nil
	})
	s.defineMethod("startsWith", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		prefix, err := textArg(args[0], "startsWith")
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(strings.HasPrefix(s.Value, prefix)), nil
	})
	s.defineMethod("endsWith", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		suffix, err := textArg(args[0], "endsWith")
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(strings.HasSuffix(s.Value, suffix)), nil
	})
	s.defineMethod("indexOf", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		sub, err := textArg(args[0], "indexOf")
		if err != nil {
			return nil, err
		}
		idx := strings.Index(s.Value, sub)
		if idx < 0 {
			return NewInteger(-1), nil
		}
		return NewInteger(int64(len([]rune(s.Value[:idx])))), nil
	})
	s.defineMethod("substring", 2, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		start, err := toIndex(args[0])
		if err != nil {
			return nil, err
		}
		stop, err := toIndex(args[1])
		if err != nil {
			return nil, err
		}
		return s.Substring(start, stop)
	})
	s.defineMethod("toUpper", 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return NewString(strings.ToUpper(s.Value)), nil
	})
	s.defineMethod("toLower", 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return NewString(strings.ToLower(s.Value)), nil
	})
	s.defineMethod("trim", 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		return NewString(strings.TrimSpace(s.Value)), nil
	})
	s.defineMethod(config.EnumeratorMember, 0, RoleProvider, func(e *Evaluator, args []Object) (Object, error) {
		i := 0
		return newEnumerator(func() (Object, bool) {
			if i >= len(s.runes) {
				return nil, false
			}
			c := &Character{Value: s.runes[i]}
			i++
			return c, true
		}), nil
	})
}
