package evaluator

import (
	"strings"

	"github.com/funvibe/opal/internal/config"
)

// Operator identifies a binary or unary operation of the capability contract.
// String() yields the name used in overload members (__operator_<name>__).
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpStrictEq
	OpNeq
	OpStrictNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
	OpXor
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr

	// Unary
	OpNeg
	OpNot
)

var operatorNames = [...]string{
	OpAdd:       "add",
	OpSub:       "sub",
	OpMul:       "mul",
	OpDiv:       "div",
	OpMod:       "mod",
	OpEq:        "eq",
	OpStrictEq:  "strict_eq",
	OpNeq:       "neq",
	OpStrictNeq: "strict_neq",
	OpLt:        "lt",
	OpLte:       "lte",
	OpGt:        "gt",
	OpGte:       "gte",
	OpAnd:       "and",
	OpOr:        "or",
	OpXor:       "xor",
	OpBitAnd:    "bitand",
	OpBitOr:     "bitor",
	OpBitXor:    "bitxor",
	OpShl:       "shl",
	OpShr:       "shr",
	OpNeg:       "neg",
	OpNot:       "not",
}

func (op Operator) String() string {
	if op >= 0 && int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return "unknown"
}

// OperatorMemberName is the member a user object defines to overload op.
func OperatorMemberName(op Operator) string {
	return config.OperatorMember(op.String())
}

func (op Operator) IsUnary() bool { return op == OpNeg || op == OpNot }

func (op Operator) isStrict() bool { return op == OpStrictEq || op == OpStrictNeq }

func (op Operator) isEquality() bool {
	switch op {
	case OpEq, OpNeq, OpStrictEq, OpStrictNeq:
		return true
	}
	return false
}

// negated reports whether a successful comparison yields false (neq family).
func (op Operator) negated() bool { return op == OpNeq || op == OpStrictNeq }

var infixOperators = map[string]Operator{
	"+":   OpAdd,
	"-":   OpSub,
	"*":   OpMul,
	"/":   OpDiv,
	"%":   OpMod,
	"==":  OpEq,
	"===": OpStrictEq,
	"!=":  OpNeq,
	"!==": OpStrictNeq,
	"<":   OpLt,
	"<=":  OpLte,
	">":   OpGt,
	">=":  OpGte,
	"&&":  OpAnd,
	"||":  OpOr,
	"^^":  OpXor,
	"&":   OpBitAnd,
	"|":   OpBitOr,
	"^":   OpBitXor,
	"<<":  OpShl,
	">>":  OpShr,
}

var prefixOperators = map[string]Operator{
	"-": OpNeg,
	"!": OpNot,
	"~": OpNot,
}

// InfixOperator maps a source symbol (or an operator name such as "add") to its Operator.
func InfixOperator(symbol string) (Operator, bool) {
	if op, ok := infixOperators[symbol]; ok {
		return op, true
	}
	for op, name := range operatorNames {
		if name == symbol && !Operator(op).IsUnary() {
			return Operator(op), true
		}
	}
	return 0, false
}

// PrefixOperator maps a unary source symbol (or "neg"/"not") to its Operator.
func PrefixOperator(symbol string) (Operator, bool) {
	if op, ok := prefixOperators[symbol]; ok {
		return op, true
	}
	switch symbol {
	case "neg":
		return OpNeg, true
	case "not":
		return OpNot, true
	}
	return 0, false
}

// compoundOperator maps "+=" to OpAdd, "<<=" to OpShl and so on.
func compoundOperator(assign string) (Operator, bool) {
	if !strings.HasSuffix(assign, "=") || len(assign) < 2 {
		return 0, false
	}
	op, ok := infixOperators[strings.TrimSuffix(assign, "=")]
	if !ok || op == OpAnd || op == OpOr || op.isEquality() || (op >= OpLt && op <= OpGte) {
		return 0, false
	}
	return op, true
}

// BinaryOperand is the direct operator implementation of a built-in variant.
type BinaryOperand interface {
	Binary(op Operator, right Object) (Object, error)
}

// UnaryOperand is implemented by variants supporting neg and/or not.
type UnaryOperand interface {
	Unary(op Operator) (Object, error)
}

// strictMismatch short-circuits strict (in)equality on differing tags.
func strictMismatch(op Operator, left, right Object) (Object, bool) {
	if op.isStrict() && left.Type() != right.Type() {
		return nativeBoolToBooleanObject(op == OpStrictNeq), true
	}
	return nil, false
}

// nullishComparison handles eq/neq against Void or Null on the right.
func nullishComparison(op Operator, right Object) (Object, bool) {
	switch right.(type) {
	case *Void, *Null:
		if op.isEquality() {
			return nativeBoolToBooleanObject(op.negated()), true
		}
	}
	return nil, false
}

func comparisonResult(op Operator, cmp int) (Object, bool) {
	switch op {
	case OpEq, OpStrictEq:
		return nativeBoolToBooleanObject(cmp == 0), true
	case OpNeq, OpStrictNeq:
		return nativeBoolToBooleanObject(cmp != 0), true
	case OpLt:
		return nativeBoolToBooleanObject(cmp < 0), true
	case OpLte:
		return nativeBoolToBooleanObject(cmp <= 0), true
	case OpGt:
		return nativeBoolToBooleanObject(cmp > 0), true
	case OpGte:
		return nativeBoolToBooleanObject(cmp >= 0), true
	}
	return nil, false
}

func identityResult(op Operator, left, right Object) (Object, bool) {
	if !op.isEquality() {
		return nil, false
	}
	return nativeBoolToBooleanObject((left == right) != op.negated()), true
}
