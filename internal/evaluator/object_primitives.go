package evaluator

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Void is the result of statements and of Action/Consumer calls.
type Void struct{}

func (v *Void) Type() ObjectType { return VOID_OBJ }
func (v *Void) Inspect() string  { return "void" }

// Null
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// Byte is an unsigned 8-bit integer.
type Byte struct {
	Value uint8
}

func (b *Byte) Type() ObjectType { return BYTE_OBJ }
func (b *Byte) Inspect() string  { return strconv.Itoa(int(b.Value)) }

// Integer is an arbitrary precision signed integer. Values are immutable:
// operations always allocate a new big.Int.
type Integer struct {
	Value *big.Int
}

func NewInteger(v int64) *Integer {
	return &Integer{Value: big.NewInt(v)}
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return i.Value.String() }

// Decimal is an arbitrary precision base-10 number.
type Decimal struct {
	Value decimal.Decimal
}

func NewDecimal(d decimal.Decimal) *Decimal {
	return &Decimal{Value: d}
}

func (d *Decimal) Type() ObjectType { return DECIMAL_OBJ }
func (d *Decimal) Inspect() string  { return d.Value.String() }

// Character is a single UTF-32 code point.
type Character struct {
	Value rune
}

func (c *Character) Type() ObjectType { return CHARACTER_OBJ }
func (c *Character) Inspect() string  { return string(c.Value) }

var (
	VOID  = &Void{}
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// ReturnValue wraps a value that is being returned prematurely
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// BreakSignal is an internal object used to signal a break from a loop.
type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }

// ContinueSignal is an internal object used to signal a continue in a loop.
type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }

func isSignal(obj Object) bool {
	switch obj.(type) {
	case *ReturnValue, *BreakSignal, *ContinueSignal:
		return true
	}
	return false
}

// toIndex accepts Byte or Integer arguments used as positions and counts.
func toIndex(obj Object) (int, error) {
	switch v := obj.(type) {
	case *Byte:
		return int(v.Value), nil
	case *Integer:
		if !v.Value.IsInt64() {
			return 0, newError(IndexOutOfRange, "index %s is out of range", v.Value)
		}
		n := v.Value.Int64()
		if int64(int(n)) != n {
			return 0, newError(IndexOutOfRange, "index %d is out of range", n)
		}
		return int(n), nil
	}
	return 0, newError(OperableError, "index must be BYTE or INTEGER, got %s", obj.Type())
}

func typeName(obj Object) string {
	if obj == nil {
		return "<nil>"
	}
	return fmt.Sprint(obj.Type())
}
