package evaluator

import (
	"math/big"
	"os"
	"sort"
	"sync"
	"time"
)

// externLibrary is the process-wide set of native callables every new
// RuntimeEnvironment starts with. Hosts add to it from init() functions;
// per-runtime registrations go through RuntimeEnvironment.RegisterExtern.
var externLibrary = struct {
	mu       sync.RWMutex
	registry map[string][]*Method
}{
	registry: make(map[string][]*Method),
}

// RegisterExternLibrary adds a native overload under id for all runtimes
// created afterwards.
func RegisterExternLibrary(id string, m *Method) {
	externLibrary.mu.Lock()
	defer externLibrary.mu.Unlock()
	if m.Name == "" {
		m.Name = id
	}
	externLibrary.registry[id] = append(externLibrary.registry[id], m)
}

// ExternLibraryIDs returns the registered ids in sorted order.
func ExternLibraryIDs() []string {
	externLibrary.mu.RLock()
	defer externLibrary.mu.RUnlock()
	ids := make([]string, 0, len(externLibrary.registry))
	for id := range externLibrary.registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// seedExterns copies the library into a fresh runtime. Conflicting arities
// keep the first registration.
func seedExterns(rt *RuntimeEnvironment) {
	externLibrary.mu.RLock()
	defer externLibrary.mu.RUnlock()
	for id, methods := range externLibrary.registry {
		for _, m := range methods {
			_ = rt.RegisterExtern(id, m)
		}
	}
}

func init() {
	RegisterExternLibrary("math.abs", NewNativeMethod("abs", 1, RoleFunction, externAbs))
	RegisterExternLibrary("math.min", NewNativeMethod("min", 2, RoleFunction, externMin))
	RegisterExternLibrary("math.max", NewNativeMethod("max", 2, RoleFunction, externMax))
	RegisterExternLibrary("math.pow", NewNativeMethod("pow", 2, RoleFunction, externPow))
	RegisterExternLibrary("time.now", NewNativeMethod("now", 0, RoleProvider, externNow))
	RegisterExternLibrary("env.get", NewNativeMethod("get", 1, RoleFunction, externGetenv))
}

func externAbs(e *Evaluator, args []Object) (Object, error) {
	switch v := args[0].(type) {
	case *Byte:
		return v, nil
	case *Integer:
		if v.Value.Sign() >= 0 {
			return v, nil
		}
		return v.Unary(OpNeg)
	case *Decimal:
		return NewDecimal(v.Value.Abs()), nil
	}
	return nil, newError(OperableError, "abs expects a number, got %s", args[0].Type())
}

func externMin(e *Evaluator, args []Object) (Object, error) {
	less, err := e.applyBinary(OpLt, args[1], args[0])
	if err != nil {
		return nil, err
	}
	if less == TRUE {
		return args[1], nil
	}
	return args[0], nil
}

func externMax(e *Evaluator, args []Object) (Object, error) {
	greater, err := e.applyBinary(OpGt, args[1], args[0])
	if err != nil {
		return nil, err
	}
	if greater == TRUE {
		return args[1], nil
	}
	return args[0], nil
}

// externPow keeps Integer results for Integer operands with a non-negative
// exponent and computes in Decimal otherwise.
func externPow(e *Evaluator, args []Object) (Object, error) {
	if numericRank(args[0]) == 0 || numericRank(args[1]) == 0 {
		return nil, newError(OperableError, "pow expects numbers, got %s and %s", args[0].Type(), args[1].Type())
	}
	base, okBase := toBigInt(args[0])
	exp, okExp := toBigInt(args[1])
	if okBase && okExp && exp.Sign() >= 0 {
		if !exp.IsInt64() || exp.Int64() > maxShift {
			return nil, newError(OperableError, "exponent %s is too large", exp)
		}
		return &Integer{Value: new(big.Int).Exp(base, exp, nil)}, nil
	}
	b := widen(args[0], 3).(*Decimal).Value
	x := widen(args[1], 3).(*Decimal).Value
	if b.IsZero() && x.Sign() < 0 {
		return nil, divisionByZero(args[0])
	}
	return NewDecimal(b.Pow(x)), nil
}

func externNow(e *Evaluator, args []Object) (Object, error) {
	return NewInteger(time.Now().UnixMilli()), nil
}

func externGetenv(e *Evaluator, args []Object) (Object, error) {
	name, err := textArg(args[0], "env.get")
	if err != nil {
		return nil, err
	}
	val, ok := os.LookupEnv(name)
	if !ok {
		return NULL, nil
	}
	return NewString(val), nil
}
