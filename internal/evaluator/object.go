package evaluator

type ObjectType string

// The closed set of runtime value tags. Every Object reports exactly one.
const (
	VOID_OBJ       ObjectType = "VOID"
	NULL_OBJ       ObjectType = "NULL"
	BOOLEAN_OBJ    ObjectType = "BOOLEAN"
	BYTE_OBJ       ObjectType = "BYTE"
	INTEGER_OBJ    ObjectType = "INTEGER"
	DECIMAL_OBJ    ObjectType = "DECIMAL"
	CHARACTER_OBJ  ObjectType = "CHARACTER"
	STRING_OBJ     ObjectType = "STRING"
	ARRAY_OBJ      ObjectType = "ARRAY"
	DICTIONARY_OBJ ObjectType = "DICTIONARY"
	OBJECT_OBJ     ObjectType = "OBJECT"
	METHOD_OBJ     ObjectType = "METHOD"
	METHOD_SET_OBJ ObjectType = "METHOD_SET"

	// Control signals; never stored in a binding or returned to the host.
	RETURN_VALUE_OBJ    ObjectType = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    ObjectType = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ ObjectType = "CONTINUE_SIGNAL"
)

// Object is a runtime value. Inspect returns the value's ToString rendering.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Composite is implemented by every value backed by a GenericObject member
// table: user objects and the built-in string, array and dictionary types.
type Composite interface {
	Object
	Base() *GenericObject
}

// numericRank orders the numeric tower: Byte < Integer < Decimal.
func numericRank(obj Object) int {
	switch obj.(type) {
	case *Byte:
		return 1
	case *Integer:
		return 2
	case *Decimal:
		return 3
	}
	return 0
}

func isTextual(obj Object) bool {
	switch obj.(type) {
	case *StringObject, *Character:
		return true
	}
	return false
}

func isCallable(obj Object) bool {
	switch obj.(type) {
	case *Method, *MethodSet:
		return true
	}
	return false
}
