package evaluator

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// maxShift bounds left shifts of Integer values.
const maxShift = 1 << 20

func (b *Byte) Binary(op Operator, right Object) (Object, error)    { return numericBinary(op, b, right) }
func (i *Integer) Binary(op Operator, right Object) (Object, error) { return numericBinary(op, i, right) }
func (d *Decimal) Binary(op Operator, right Object) (Object, error) { return numericBinary(op, d, right) }

func (b *Byte) Unary(op Operator) (Object, error) {
	switch op {
	case OpNeg:
		return &Byte{Value: -b.Value}, nil
	case OpNot:
		return &Byte{Value: ^b.Value}, nil
	}
	return nil, missingOperator(op, b, nil)
}

func (i *Integer) Unary(op Operator) (Object, error) {
	switch op {
	case OpNeg:
		return &Integer{Value: new(big.Int).Neg(i.Value)}, nil
	case OpNot:
		return &Integer{Value: new(big.Int).Not(i.Value)}, nil
	}
	return nil, missingOperator(op, i, nil)
}

func (d *Decimal) Unary(op Operator) (Object, error) {
	if op == OpNeg {
		return &Decimal{Value: d.Value.Neg()}, nil
	}
	return nil, missingOperator(op, d, nil)
}

// promote widens both operands to the higher rank of the numeric tower.
func promote(left, right Object) (Object, Object, int) {
	rank := numericRank(left)
	if r := numericRank(right); r > rank {
		rank = r
	}
	return widen(left, rank), widen(right, rank), rank
}

func widen(obj Object, rank int) Object {
	switch rank {
	case 2:
		if b, ok := obj.(*Byte); ok {
			return NewInteger(int64(b.Value))
		}
	case 3:
		switch v := obj.(type) {
		case *Byte:
			return NewDecimal(decimal.NewFromInt(int64(v.Value)))
		case *Integer:
			return NewDecimal(decimal.NewFromBigInt(v.Value, 0))
		}
	}
	return obj
}

func numericBinary(op Operator, left, right Object) (Object, error) {
	if res, ok := strictMismatch(op, left, right); ok {
		return res, nil
	}
	if numericRank(right) == 0 {
		if op == OpAdd && isTextual(right) {
			return NewString(left.Inspect() + right.Inspect()), nil
		}
		if res, ok := nullishComparison(op, right); ok {
			return res, nil
		}
		return nil, missingOperator(op, left, right)
	}
	if op == OpShl || op == OpShr {
		return shift(op, left, right)
	}

	l, r, rank := promote(left, right)
	switch rank {
	case 1:
		return byteBinary(op, l.(*Byte).Value, r.(*Byte).Value, left, right)
	case 2:
		return integerBinary(op, l.(*Integer).Value, r.(*Integer).Value, left, right)
	default:
		return decimalBinary(op, l.(*Decimal).Value, r.(*Decimal).Value, left, right)
	}
}

func divisionByZero(left Object) *RuntimeError {
	return newError(OperableError, "division by zero (%s)", left.Inspect())
}

func byteBinary(op Operator, a, b uint8, left, right Object) (Object, error) {
	switch op {
	case OpAdd:
		return &Byte{Value: a + b}, nil
	case OpSub:
		return &Byte{Value: a - b}, nil
	case OpMul:
		return &Byte{Value: a * b}, nil
	case OpDiv:
		if b == 0 {
			return nil, divisionByZero(left)
		}
		return &Byte{Value: a / b}, nil
	case OpMod:
		if b == 0 {
			return nil, divisionByZero(left)
		}
		return &Byte{Value: a % b}, nil
	case OpBitAnd:
		return &Byte{Value: a & b}, nil
	case OpBitOr:
		return &Byte{Value: a | b}, nil
	case OpBitXor:
		return &Byte{Value: a ^ b}, nil
	}
	cmp := 0
	if a < b {
		cmp = -1
	} else if a > b {
		cmp = 1
	}
	if res, ok := comparisonResult(op, cmp); ok {
		return res, nil
	}
	return nil, missingOperator(op, left, right)
}

func integerBinary(op Operator, a, b *big.Int, left, right Object) (Object, error) {
	switch op {
	case OpAdd:
		return &Integer{Value: new(big.Int).Add(a, b)}, nil
	case OpSub:
		return &Integer{Value: new(big.Int).Sub(a, b)}, nil
	case OpMul:
		return &Integer{Value: new(big.Int).Mul(a, b)}, nil
	case OpDiv:
		if b.Sign() == 0 {
			return nil, divisionByZero(left)
		}
		return &Integer{Value: new(big.Int).Quo(a, b)}, nil
	case OpMod:
		if b.Sign() == 0 {
			return nil, divisionByZero(left)
		}
		return &Integer{Value: new(big.Int).Rem(a, b)}, nil
	case OpBitAnd:
		return &Integer{Value: new(big.Int).And(a, b)}, nil
	case OpBitOr:
		return &Integer{Value: new(big.Int).Or(a, b)}, nil
	case OpBitXor:
		return &Integer{Value: new(big.Int).Xor(a, b)}, nil
	}
	if res, ok := comparisonResult(op, a.Cmp(b)); ok {
		return res, nil
	}
	return nil, missingOperator(op, left, right)
}

func decimalBinary(op Operator, a, b decimal.Decimal, left, right Object) (Object, error) {
	switch op {
	case OpAdd:
		return NewDecimal(a.Add(b)), nil
	case OpSub:
		return NewDecimal(a.Sub(b)), nil
	case OpMul:
		return NewDecimal(a.Mul(b)), nil
	case OpDiv:
		if b.IsZero() {
			return nil, divisionByZero(left)
		}
		return NewDecimal(a.Div(b)), nil
	case OpMod:
		if b.IsZero() {
			return nil, divisionByZero(left)
		}
		return NewDecimal(a.Mod(b)), nil
	}
	if res, ok := comparisonResult(op, a.Cmp(b)); ok {
		return res, nil
	}
	return nil, missingOperator(op, left, right)
}

// shift keeps the tag of the left operand. The count is never promoted.
func shift(op Operator, left, right Object) (Object, error) {
	var count *big.Int
	switch r := right.(type) {
	case *Byte:
		count = big.NewInt(int64(r.Value))
	case *Integer:
		count = r.Value
	default:
		return nil, missingOperator(op, left, right)
	}
	if count.Sign() < 0 {
		return nil, newError(OperableError, "negative shift count %s", count)
	}

	switch l := left.(type) {
	case *Byte:
		if !count.IsInt64() || count.Int64() >= 8 {
			return &Byte{Value: 0}, nil
		}
		n := uint(count.Int64())
		if op == OpShl {
			return &Byte{Value: l.Value << n}, nil
		}
		return &Byte{Value: l.Value >> n}, nil
	case *Integer:
		if op == OpShl {
			if !count.IsInt64() || count.Int64() > maxShift {
				return nil, newError(OperableError, "shift count %s is too large", count)
			}
			return &Integer{Value: new(big.Int).Lsh(l.Value, uint(count.Int64()))}, nil
		}
		if !count.IsInt64() || count.Int64() > int64(l.Value.BitLen()) {
			if l.Value.Sign() < 0 {
				return NewInteger(-1), nil
			}
			return NewInteger(0), nil
		}
		return &Integer{Value: new(big.Int).Rsh(l.Value, uint(count.Int64()))}, nil
	}
	return nil, missingOperator(op, left, right)
}

// toBigInt converts an integral value; ok is false for other tags.
func toBigInt(obj Object) (*big.Int, bool) {
	switch v := obj.(type) {
	case *Byte:
		return big.NewInt(int64(v.Value)), true
	case *Integer:
		return v.Value, true
	}
	return nil, false
}
