package evaluator

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/funvibe/opal/internal/config"
)

// Builtins are resolved after the scope chain and namespace imports.
var Builtins map[string]*MethodSet

func init() {
	Builtins = make(map[string]*MethodSet)
	register := func(name string, arity int, role Role, fn NativeFunction) {
		if set, ok := Builtins[name]; ok {
			if err := set.Add(NewNativeMethod(name, arity, role, fn)); err != nil {
				panic(fmt.Sprintf("builtin %q: %v", name, err))
			}
			return
		}
		Builtins[name] = nativeMember(name, arity, role, fn)
	}

	register(config.PrintFuncName, 0, RoleAction, builtinPrintLine)
	register(config.PrintFuncName, 1, RoleConsumer, builtinPrint)
	register(config.WriteFuncName, 1, RoleConsumer, builtinWrite)
	register(config.ReadLineFuncName, 0, RoleProvider, builtinReadLine)
	register(config.SleepFuncName, 1, RoleConsumer, builtinSleep)
	register(config.TypeOfFuncName, 1, RoleFunction, builtinTypeOf)
	register(config.ToStringFuncName, 1, RoleFunction, builtinToString)
}

func builtinPrintLine(e *Evaluator, args []Object) (Object, error) {
	_, err := io.WriteString(e.Out, "\n")
	return VOID, err
}

func builtinPrint(e *Evaluator, args []Object) (Object, error) {
	text, err := e.ToText(args[0])
	if err != nil {
		return nil, err
	}
	_, err = io.WriteString(e.Out, text+"\n")
	return VOID, err
}

func builtinWrite(e *Evaluator, args []Object) (Object, error) {
	text, err := e.ToText(args[0])
	if err != nil {
		return nil, err
	}
	_, err = io.WriteString(e.Out, text)
	return VOID, err
}

// builtinReadLine returns the next input line without its terminator, or
// Null at end of input.
func builtinReadLine(e *Evaluator, args []Object) (Object, error) {
	line, err := e.Runtime.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, newError(OperableError, "readLine: %v", err)
	}
	if err != nil && line == "" {
		return NULL, nil
	}
	return NewString(strings.TrimRight(line, "\r\n")), nil
}

func builtinSleep(e *Evaluator, args []Object) (Object, error) {
	ms, ok := toBigInt(args[0])
	if !ok {
		return nil, newError(OperableError, "sleep expects BYTE or INTEGER milliseconds, got %s", args[0].Type())
	}
	if ms.Sign() < 0 || !ms.IsInt64() {
		return nil, newError(OperableError, "sleep duration %s is out of range", ms)
	}
	timer := time.NewTimer(time.Duration(ms.Int64()) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return VOID, nil
	case <-e.Context.Done():
		return nil, fmt.Errorf("%w: %v", ErrCancelled, e.Context.Err())
	}
}

func builtinTypeOf(e *Evaluator, args []Object) (Object, error) {
	return NewString(typeName(args[0])), nil
}

func builtinToString(e *Evaluator, args []Object) (Object, error) {
	text, err := e.ToText(args[0])
	if err != nil {
		return nil, err
	}
	return NewString(text), nil
}
