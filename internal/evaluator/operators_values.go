package evaluator

import "strings"

func (v *Void) Binary(op Operator, right Object) (Object, error) { return nullishBinary(op, v, right) }
func (n *Null) Binary(op Operator, right Object) (Object, error) { return nullishBinary(op, n, right) }

// nullishBinary: Void and Null only support equality, and only equal themselves.
func nullishBinary(op Operator, left, right Object) (Object, error) {
	if res, ok := strictMismatch(op, left, right); ok {
		return res, nil
	}
	if op == OpAdd && isTextual(right) {
		return NewString(left.Inspect() + right.Inspect()), nil
	}
	if !op.isEquality() {
		return nil, missingOperator(op, left, right)
	}
	return nativeBoolToBooleanObject((left.Type() == right.Type()) != op.negated()), nil
}

func (b *Boolean) Binary(op Operator, right Object) (Object, error) {
	if res, ok := strictMismatch(op, b, right); ok {
		return res, nil
	}
	r, ok := right.(*Boolean)
	if !ok {
		if op == OpAdd && isTextual(right) {
			return NewString(b.Inspect() + right.Inspect()), nil
		}
		if res, ok := nullishComparison(op, right); ok {
			return res, nil
		}
		return nil, missingOperator(op, b, right)
	}
	switch op {
	case OpEq, OpStrictEq:
		return nativeBoolToBooleanObject(b.Value == r.Value), nil
	case OpNeq, OpStrictNeq:
		return nativeBoolToBooleanObject(b.Value != r.Value), nil
	case OpAnd, OpBitAnd:
		return nativeBoolToBooleanObject(b.Value && r.Value), nil
	case OpOr, OpBitOr:
		return nativeBoolToBooleanObject(b.Value || r.Value), nil
	case OpXor, OpBitXor:
		return nativeBoolToBooleanObject(b.Value != r.Value), nil
	}
	return nil, missingOperator(op, b, right)
}

// Logical evaluates and/or with short circuit: right is only called when
// the left value does not decide the result.
func (b *Boolean) Logical(op Operator, right func() (Object, error)) (Object, error) {
	switch op {
	case OpAnd:
		if !b.Value {
			return FALSE, nil
		}
	case OpOr:
		if b.Value {
			return TRUE, nil
		}
	default:
		rv, err := right()
		if err != nil {
			return nil, err
		}
		return b.Binary(op, rv)
	}
	rv, err := right()
	if err != nil {
		return nil, err
	}
	r, ok := rv.(*Boolean)
	if !ok {
		return nil, missingOperator(op, b, rv)
	}
	return r, nil
}

func (b *Boolean) Unary(op Operator) (Object, error) {
	if op == OpNot {
		return nativeBoolToBooleanObject(!b.Value), nil
	}
	return nil, missingOperator(op, b, nil)
}

func (c *Character) Binary(op Operator, right Object) (Object, error) {
	if res, ok := strictMismatch(op, c, right); ok {
		return res, nil
	}
	switch r := right.(type) {
	case *Character:
		if op == OpAdd {
			return NewString(string(c.Value) + string(r.Value)), nil
		}
		cmp := 0
		if c.Value < r.Value {
			cmp = -1
		} else if c.Value > r.Value {
			cmp = 1
		}
		if res, ok := comparisonResult(op, cmp); ok {
			return res, nil
		}
	case *StringObject:
		if op == OpAdd {
			return NewString(string(c.Value) + r.Value), nil
		}
		if op == OpEq || op == OpNeq {
			return nativeBoolToBooleanObject((string(c.Value) == r.Value) != op.negated()), nil
		}
	default:
		if op == OpAdd {
			return NewString(string(c.Value) + right.Inspect()), nil
		}
		if res, ok := nullishComparison(op, right); ok {
			return res, nil
		}
	}
	return nil, missingOperator(op, c, right)
}

func (s *StringObject) Binary(op Operator, right Object) (Object, error) {
	if res, ok := strictMismatch(op, s, right); ok {
		return res, nil
	}
	if op == OpAdd {
		return NewString(s.Value + right.Inspect()), nil
	}
	switch r := right.(type) {
	case *StringObject:
		if res, ok := comparisonResult(op, strings.Compare(s.Value, r.Value)); ok {
			return res, nil
		}
	case *Character:
		if op == OpEq || op == OpNeq {
			return nativeBoolToBooleanObject((s.Value == string(r.Value)) != op.negated()), nil
		}
	default:
		if res, ok := nullishComparison(op, right); ok {
			return res, nil
		}
	}
	return nil, missingOperator(op, s, right)
}

func (m *Method) Binary(op Operator, right Object) (Object, error)     { return callableBinary(op, m, right) }
func (ms *MethodSet) Binary(op Operator, right Object) (Object, error) { return callableBinary(op, ms, right) }

// callableBinary: add merges overloads into a new set, equality is identity.
func callableBinary(op Operator, left, right Object) (Object, error) {
	if res, ok := strictMismatch(op, left, right); ok {
		return res, nil
	}
	if op == OpAdd && isCallable(right) {
		return CombineMethods(left, right)
	}
	if res, ok := identityResult(op, left, right); ok {
		return res, nil
	}
	return nil, missingOperator(op, left, right)
}

// referenceBinary covers arrays, dictionaries and user objects without an
// override: equality compares identity.
func referenceBinary(op Operator, left, right Object) (Object, error) {
	if res, ok := strictMismatch(op, left, right); ok {
		return res, nil
	}
	if res, ok := identityResult(op, left, right); ok {
		return res, nil
	}
	return nil, missingOperator(op, left, right)
}

func (a *ArrayObject) Binary(op Operator, right Object) (Object, error) {
	return referenceBinary(op, a, right)
}

func (d *DictionaryObject) Binary(op Operator, right Object) (Object, error) {
	return referenceBinary(op, d, right)
}
