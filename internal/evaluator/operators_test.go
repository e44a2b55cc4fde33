package evaluator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) *Decimal { return NewDecimal(decimal.RequireFromString(s)) }

func TestNumericPromotion(t *testing.T) {
	tests := []struct {
		name     string
		op       Operator
		left     Object
		right    Object
		wantType ObjectType
		want     string
	}{
		{"byte wraps", OpAdd, &Byte{Value: 200}, &Byte{Value: 100}, BYTE_OBJ, "44"},
		{"byte underflow", OpSub, &Byte{Value: 1}, &Byte{Value: 2}, BYTE_OBJ, "255"},
		{"byte to integer", OpAdd, &Byte{Value: 1}, NewInteger(2), INTEGER_OBJ, "3"},
		{"integer to decimal", OpAdd, NewInteger(1), dec("1.5"), DECIMAL_OBJ, "2.5"},
		{"byte to decimal", OpMul, &Byte{Value: 2}, dec("0.25"), DECIMAL_OBJ, "0.5"},
		{"integer division truncates", OpDiv, NewInteger(7), NewInteger(2), INTEGER_OBJ, "3"},
		{"remainder keeps dividend sign", OpMod, NewInteger(-7), NewInteger(2), INTEGER_OBJ, "-1"},
		{"decimal division", OpDiv, dec("1"), dec("4"), DECIMAL_OBJ, "0.25"},
		{"shift keeps left tag", OpShl, NewInteger(1), &Byte{Value: 3}, INTEGER_OBJ, "8"},
		{"byte shift overflow", OpShl, &Byte{Value: 1}, &Byte{Value: 9}, BYTE_OBJ, "0"},
		{"bitwise and", OpBitAnd, NewInteger(12), NewInteger(10), INTEGER_OBJ, "8"},
		{"compare across ranks", OpLt, &Byte{Value: 3}, dec("3.5"), BOOLEAN_OBJ, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.left.(BinaryOperand).Binary(tt.op, tt.right)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Type() != tt.wantType {
				t.Errorf("type: got %s, want %s", got.Type(), tt.wantType)
			}
			if got.Inspect() != tt.want {
				t.Errorf("value: got %s, want %s", got.Inspect(), tt.want)
			}
		})
	}
}

func TestIntegerArithmeticIsArbitraryPrecision(t *testing.T) {
	big := NewInteger(1 << 62)
	got, err := big.Binary(OpMul, NewInteger(16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Inspect() != "73786976294838206464" {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestEqualityVersusStrictEquality(t *testing.T) {
	e := New(newTestRuntime(nil))
	tests := []struct {
		name  string
		op    Operator
		left  Object
		right Object
		want  *Boolean
	}{
		{"eq promotes", OpEq, NewInteger(1), dec("1.0"), TRUE},
		{"strict_eq requires same tag", OpStrictEq, NewInteger(1), dec("1.0"), FALSE},
		{"strict_neq on tag mismatch", OpStrictNeq, NewInteger(1), dec("1.0"), TRUE},
		{"strict_eq same tag", OpStrictEq, NewInteger(1), NewInteger(1), TRUE},
		{"null equals null", OpEq, NULL, NULL, TRUE},
		{"number is not null", OpEq, NewInteger(1), NULL, FALSE},
		{"number neq void", OpNeq, NewInteger(1), VOID, TRUE},
		{"string equals character", OpEq, NewString("a"), &Character{Value: 'a'}, TRUE},
		{"string strict character", OpStrictEq, NewString("a"), &Character{Value: 'a'}, FALSE},
		{"string order", OpLt, NewString("abc"), NewString("abd"), TRUE},
		{"boolean eq", OpEq, TRUE, FALSE, FALSE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.applyBinary(tt.op, tt.left, tt.right)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got.Inspect(), tt.want.Inspect())
			}
		})
	}
}

func TestReferenceEqualityIsIdentity(t *testing.T) {
	e := New(newTestRuntime(nil))
	a := NewArray([]Object{NewInteger(1)})
	b := NewArray([]Object{NewInteger(1)})

	if got, _ := e.applyBinary(OpEq, a, a); got != TRUE {
		t.Errorf("array should equal itself")
	}
	if got, _ := e.applyBinary(OpEq, a, b); got != FALSE {
		t.Errorf("distinct arrays should not be equal")
	}
	obj := NewGenericObject()
	if got, _ := e.applyBinary(OpNeq, obj, NewGenericObject()); got != TRUE {
		t.Errorf("distinct objects should not be equal")
	}
}

func TestMissingOperatorOverride(t *testing.T) {
	e := New(newTestRuntime(nil))
	tests := []struct {
		name  string
		op    Operator
		left  Object
		right Object
	}{
		{"boolean minus integer", OpSub, TRUE, NewInteger(1)},
		{"integer plus boolean", OpAdd, NewInteger(1), TRUE},
		{"decimal bitwise", OpBitAnd, dec("1.5"), dec("2")},
		{"array multiply", OpMul, NewArray(nil), NewInteger(2)},
		{"object less than", OpLt, NewGenericObject(), NewGenericObject()},
		{"null plus integer", OpAdd, NULL, NewInteger(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.applyBinary(tt.op, tt.left, tt.right)
			if !IsKind(err, MissingOperatorOverride) {
				t.Fatalf("expected MissingOperatorOverride, got %v", err)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, left := range []Object{&Byte{Value: 1}, NewInteger(1), dec("1.5")} {
		_, err := left.(BinaryOperand).Binary(OpDiv, NewInteger(0))
		if !IsKind(err, OperableError) {
			t.Errorf("%s / 0: expected OperableError, got %v", left.Type(), err)
		}
		_, err = left.(BinaryOperand).Binary(OpMod, &Byte{Value: 0})
		if !IsKind(err, OperableError) {
			t.Errorf("%s %% 0: expected OperableError, got %v", left.Type(), err)
		}
	}
}

func TestNegativeShiftCount(t *testing.T) {
	_, err := NewInteger(1).Binary(OpShl, NewInteger(-1))
	if !IsKind(err, OperableError) {
		t.Fatalf("expected OperableError, got %v", err)
	}
}

func TestTextConcatenation(t *testing.T) {
	e := New(newTestRuntime(nil))
	tests := []struct {
		left, right Object
		want        string
	}{
		{NewInteger(1), NewString("a"), "1a"},
		{NewString("a"), dec("2.5"), "a2.5"},
		{&Character{Value: 'x'}, &Character{Value: 'y'}, "xy"},
		{NewString("v="), NULL, "v=null"},
		{NewString("list "), NewArray([]Object{NewString("a")}), `list ["a"]`},
	}
	for _, tt := range tests {
		got, err := e.applyBinary(OpAdd, tt.left, tt.right)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Type() != STRING_OBJ || got.Inspect() != tt.want {
			t.Errorf("got %s %q, want %q", got.Type(), got.Inspect(), tt.want)
		}
	}
}

func TestUnaryOperators(t *testing.T) {
	e := New(newTestRuntime(nil))
	tests := []struct {
		op      Operator
		operand Object
		want    string
	}{
		{OpNeg, NewInteger(5), "-5"},
		{OpNeg, &Byte{Value: 1}, "255"},
		{OpNot, &Byte{Value: 0}, "255"},
		{OpNot, NewInteger(0), "-1"},
		{OpNot, TRUE, "false"},
		{OpNeg, dec("1.5"), "-1.5"},
	}
	for _, tt := range tests {
		got, err := e.applyUnary(tt.op, tt.operand)
		if err != nil {
			t.Fatalf("%s %s: unexpected error: %v", tt.op, tt.operand.Inspect(), err)
		}
		if got.Inspect() != tt.want {
			t.Errorf("%s %s: got %s, want %s", tt.op, tt.operand.Inspect(), got.Inspect(), tt.want)
		}
	}

	if _, err := e.applyUnary(OpNot, dec("1")); !IsKind(err, MissingOperatorOverride) {
		t.Errorf("not on decimal: expected MissingOperatorOverride, got %v", err)
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	got, err := FALSE.Logical(OpAnd, func() (Object, error) {
		t.Fatal("right operand evaluated")
		return nil, nil
	})
	if err != nil || got != FALSE {
		t.Fatalf("false && x: got %v, %v", got, err)
	}
	got, err = TRUE.Logical(OpOr, func() (Object, error) {
		t.Fatal("right operand evaluated")
		return nil, nil
	})
	if err != nil || got != TRUE {
		t.Fatalf("true || x: got %v, %v", got, err)
	}
	_, err = TRUE.Logical(OpAnd, func() (Object, error) { return NewInteger(1), nil })
	if !IsKind(err, MissingOperatorOverride) {
		t.Fatalf("true && 1: expected MissingOperatorOverride, got %v", err)
	}
}

func TestOperatorSymbols(t *testing.T) {
	for symbol, want := range map[string]Operator{"+": OpAdd, "===": OpStrictEq, "^^": OpXor, "<<": OpShl, "mod": OpMod} {
		got, ok := InfixOperator(symbol)
		if !ok || got != want {
			t.Errorf("InfixOperator(%q) = %s, %v; want %s", symbol, got, ok, want)
		}
	}
	if op, ok := compoundOperator(">>="); !ok || op != OpShr {
		t.Errorf("compoundOperator(>>=) = %s, %v", op, ok)
	}
	if _, ok := compoundOperator("=="); ok {
		t.Errorf("== is not a compound assignment")
	}
	if got := OperatorMemberName(OpStrictEq); got != "__operator_strict_eq__" {
		t.Errorf("OperatorMemberName = %s", got)
	}
}
