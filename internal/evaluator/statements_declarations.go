package evaluator

import (
	"github.com/funvibe/opal/internal/ast"
)

func (e *Evaluator) evalVarStatement(node *ast.VarStatement, scope *Scope) (Object, error) {
	if node.Name == nil {
		return nil, malformed("var without name")
	}
	var val Object = NULL
	if node.Value != nil {
		v, err := e.Eval(node.Value, scope)
		if err != nil {
			return nil, err
		}
		val = v
	}
	scope.Declare(node.Name.Value, val)
	return VOID, nil
}

func (e *Evaluator) newClosure(name string, params []*ast.Identifier, body *ast.BlockStatement, returns bool, line, column int, scope *Scope) (*Method, error) {
	if body == nil {
		return nil, malformed("function '%s' has no body", name)
	}
	return &Method{
		Name:       name,
		Arity:      len(params),
		Role:       RoleFor(len(params), returns),
		Parameters: params,
		Body:       body,
		Closure:    scope, // Closure
		Line:       line,
		Column:     column,
	}, nil
}

// declareCallable binds fn in scope. An existing callable in the same frame
// gains fn as an overload; the merged set is a new object.
func declareCallable(scope *Scope, name string, fn Object) error {
	if existing, ok := scope.GetLocal(name); ok && isCallable(existing) {
		merged, err := CombineMethods(existing, fn)
		if err != nil {
			return err
		}
		merged.Name = name
		scope.Declare(name, merged)
		return nil
	}
	scope.Declare(name, fn)
	return nil
}

func (e *Evaluator) evalFunctionStatement(node *ast.FunctionStatement, scope *Scope) (Object, error) {
	if node.Name == nil {
		return nil, malformed("function declaration without name")
	}
	fn, err := e.newClosure(node.Name.Value, node.Parameters, node.Body, node.Returns, node.Token.Line, node.Token.Column, scope)
	if err != nil {
		return nil, err
	}
	if err := declareCallable(scope, node.Name.Value, fn); err != nil {
		return nil, err
	}
	return VOID, nil
}

func (e *Evaluator) evalExternStatement(node *ast.ExternStatement, scope *Scope) (Object, error) {
	if node.Name == nil {
		return nil, malformed("extern without name")
	}
	set, ok := e.Runtime.Extern(node.Identifier)
	if !ok {
		return nil, newError(NameNotFound, "extern '%s' is not registered", node.Identifier)
	}
	if err := declareCallable(scope, node.Name.Value, set); err != nil {
		return nil, err
	}
	return VOID, nil
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, scope *Scope) (Object, error) {
	if node.Value == nil {
		return &ReturnValue{Value: VOID}, nil
	}
	val, err := e.Eval(node.Value, scope)
	if err != nil {
		return nil, err
	}
	return &ReturnValue{Value: val}, nil
}

func (e *Evaluator) evalUseStatement(node *ast.UseStatement, scope *Scope) (Object, error) {
	from, ok := e.Runtime.Namespace(node.Namespace)
	if !ok {
		return nil, newError(NameNotFound, "namespace '%s' is not loaded", node.Namespace)
	}
	ns := scope.Namespace()
	if ns == nil {
		return nil, malformed("use outside of a namespace")
	}
	ns.Import(from)
	e.Logger.Debug("imported namespace", "into", ns.Name, "from", from.Name)
	return VOID, nil
}

func (e *Evaluator) evalThrowStatement(node *ast.ThrowStatement, scope *Scope) (Object, error) {
	var val Object = NULL
	if node.Value != nil {
		v, err := e.Eval(node.Value, scope)
		if err != nil {
			return nil, err
		}
		val = v
	}
	return nil, &ThrowError{Value: val}
}
