package evaluator

import (
	"strconv"
	"strings"

	"github.com/funvibe/opal/internal/config"
)

// renderer converts values to text. Collections quote their string and
// character elements; a collection reached again while it is being
// rendered prints as a self-reference marker instead of recursing.
type renderer struct {
	e        *Evaluator // nil disables user toString() overrides
	visiting map[Object]bool
}

func newRenderer(e *Evaluator) *renderer {
	return &renderer{e: e, visiting: make(map[Object]bool)}
}

// inspect renders without calling into user code.
func inspect(obj Object) string {
	text, _ := newRenderer(nil).render(obj, false)
	return text
}

func inspectQuoted(obj Object) string {
	text, _ := newRenderer(nil).render(obj, true)
	return text
}

// render is the evaluator-aware ToString used by print and concatenation.
func (e *Evaluator) render(obj Object, quoted bool) (string, error) {
	return newRenderer(e).render(obj, quoted)
}

// ToText is the ToString capability: user objects may supply toString().
func (e *Evaluator) ToText(obj Object) (string, error) {
	return e.render(obj, false)
}

func (r *renderer) render(obj Object, quoted bool) (string, error) {
	switch v := obj.(type) {
	case nil:
		return "<nil>", nil
	case *StringObject:
		if quoted {
			return strconv.Quote(v.Value), nil
		}
		return v.Value, nil
	case *Character:
		if quoted {
			return strconv.QuoteRune(v.Value), nil
		}
		return string(v.Value), nil
	case *ArrayObject:
		if r.visiting[v] {
			return "<this array>", nil
		}
		r.visiting[v] = true
		defer delete(r.visiting, v)
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			text, err := r.render(el, true)
			if err != nil {
				return "", err
			}
			parts[i] = text
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *DictionaryObject:
		if r.visiting[v] {
			return "<this dictionary>", nil
		}
		r.visiting[v] = true
		defer delete(r.visiting, v)
		entries := v.Entries()
		parts := make([]string, len(entries))
		for i, entry := range entries {
			key, err := r.render(entry.Key, true)
			if err != nil {
				return "", err
			}
			val, err := r.render(entry.Value, true)
			if err != nil {
				return "", err
			}
			parts[i] = key + ": " + val
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	case *GenericObject:
		if r.visiting[v] {
			return "<this object>", nil
		}
		if text, ok, err := r.userToString(v); ok || err != nil {
			return text, err
		}
		r.visiting[v] = true
		defer delete(r.visiting, v)
		names := v.MemberNames()
		parts := make([]string, 0, len(names))
		for _, name := range names {
			member, _ := v.GetMember(name)
			text, err := r.render(member, true)
			if err != nil {
				return "", err
			}
			parts = append(parts, name+": "+text)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	}
	return obj.Inspect(), nil
}

// userToString calls a parameterless toString member when an evaluator is
// available.
func (r *renderer) userToString(obj *GenericObject) (string, bool, error) {
	if r.e == nil {
		return "", false, nil
	}
	member, ok := obj.GetMember(config.ToStringMember)
	if !ok {
		return "", false, nil
	}
	set, ok := asMethodSet(member)
	if !ok {
		return "", false, nil
	}
	m, ok := set.Lookup(0)
	if !ok {
		return "", false, nil
	}
	r.visiting[obj] = true
	defer delete(r.visiting, obj)
	res, err := r.e.callMethod(m, nil)
	if err != nil {
		return "", true, err
	}
	if s, ok := res.(*StringObject); ok {
		return s.Value, true, nil
	}
	text, err := r.render(res, false)
	return text, true, err
}
