package evaluator

import (
	"strings"
)

// valueKey identifies a value-typed dictionary key by tag and canonical text.
type valueKey struct {
	tag  ObjectType
	repr string
}

// dictKey maps a value to a comparable key. Reference types key by identity.
func dictKey(obj Object) (interface{}, error) {
	switch v := obj.(type) {
	case nil, *Void:
		return nil, newError(OperableError, "VOID cannot be used as a dictionary key")
	case *Null:
		return valueKey{tag: NULL_OBJ}, nil
	case *Boolean, *Byte, *Character:
		return valueKey{tag: obj.Type(), repr: obj.Inspect()}, nil
	case *Integer:
		return valueKey{tag: INTEGER_OBJ, repr: v.Value.String()}, nil
	case *Decimal:
		return valueKey{tag: DECIMAL_OBJ, repr: normalizeDecimal(v.Value.String())}, nil
	case *StringObject:
		return valueKey{tag: STRING_OBJ, repr: v.Value}, nil
	}
	return obj, nil
}

// normalizeDecimal strips trailing fractional zeros so 1.50 and 1.5 collide.
func normalizeDecimal(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// objectsEqual is eq without failure: numeric values compare after promotion,
// text compares by content, everything else by identity.
func objectsEqual(a, b Object) bool {
	if numericRank(a) > 0 && numericRank(b) > 0 {
		res, err := numericBinary(OpEq, a, b)
		return err == nil && res == TRUE
	}
	if isTextual(a) && isTextual(b) {
		return a.Inspect() == b.Inspect()
	}
	switch x := a.(type) {
	case *Void, *Null:
		return a.Type() == b.Type()
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	}
	return a == b
}
