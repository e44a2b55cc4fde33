package evaluator

import (
	"github.com/funvibe/opal/internal/ast"
)

func calleeName(node ast.Expression) string {
	switch fn := node.(type) {
	case *ast.Identifier:
		return fn.Value
	case *ast.MemberExpression:
		if fn.Member != nil {
			return fn.Member.Value
		}
	}
	return ""
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, scope *Scope) (Object, error) {
	function, err := e.Eval(node.Function, scope)
	if err != nil {
		return nil, err
	}
	args, err := e.evalExpressions(node.Arguments, scope)
	if err != nil {
		return nil, err
	}

	e.PushCall(calleeName(node.Function), namespaceName(scope), node.Token.Line, node.Token.Column)
	defer e.PopCall()
	return e.Apply(function, args)
}

// Apply calls a Method or selects the MethodSet overload matching len(args).
func (e *Evaluator) Apply(fn Object, args []Object) (Object, error) {
	switch f := fn.(type) {
	case *Method:
		return e.callMethod(f, args)
	case *MethodSet:
		m, err := f.Resolve(len(args))
		if err != nil {
			return nil, err
		}
		return e.callMethod(m, args)
	}
	return nil, newError(OperableError, "%s is not callable", fn.Type())
}

// callMethod binds arguments positionally. Calls of a non-returning role
// always yield Void.
func (e *Evaluator) callMethod(m *Method, args []Object) (Object, error) {
	if len(args) != m.Arity {
		name := m.Name
		if name == "" {
			name = "func"
		}
		return nil, newError(OverloadNotFound, "'%s' takes %d argument(s), got %d", name, m.Arity, len(args))
	}

	if m.Native != nil {
		res, err := m.Native(e, args)
		if err != nil {
			return nil, err
		}
		if res == nil || !m.Role.Returns() {
			return VOID, nil
		}
		return res, nil
	}

	callScope := NewEnclosedScope(m.Closure)
	for i, param := range m.Parameters {
		callScope.Declare(param.Value, args[i])
	}
	res, err := e.evalStatements(m.Body.Statements, callScope)
	if err != nil {
		return nil, err
	}
	switch r := res.(type) {
	case *ReturnValue:
		if m.Role.Returns() {
			return r.Value, nil
		}
	case *BreakSignal, *ContinueSignal:
		return nil, malformed("%s outside of a loop", r.Inspect())
	}
	return VOID, nil
}
