package evaluator

import (
	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/config"
)

// evalIdentifier resolves through the scope chain, the namespace imports and
// finally the built-in functions.
func (e *Evaluator) evalIdentifier(node *ast.Identifier, scope *Scope) (Object, error) {
	if val, ok := scope.Lookup(node.Value); ok {
		return val, nil
	}
	if builtin, ok := Builtins[node.Value]; ok {
		return builtin, nil
	}
	return nil, newError(NameNotFound, "'%s' is not defined", node.Value)
}

// memberOf looks up a member of any composite value.
func memberOf(obj Object, name string) (Object, error) {
	comp, ok := obj.(Composite)
	if !ok {
		return nil, newError(MemberNotFound, "%s has no member '%s'", obj.Type(), name)
	}
	member, ok := comp.Base().GetMember(name)
	if !ok {
		return nil, newError(MemberNotFound, "%s has no member '%s'", obj.Type(), name)
	}
	return member, nil
}

func (e *Evaluator) evalMemberExpression(node *ast.MemberExpression, scope *Scope) (Object, error) {
	if node.Member == nil {
		return nil, malformed("member access without member name")
	}
	left, err := e.Eval(node.Left, scope)
	if err != nil {
		return nil, err
	}
	return memberOf(left, node.Member.Value)
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, scope *Scope) (Object, error) {
	left, err := e.Eval(node.Left, scope)
	if err != nil {
		return nil, err
	}
	index, err := e.Eval(node.Index, scope)
	if err != nil {
		return nil, err
	}
	return e.callMember(left, config.IndexerGetMember, index)
}

// callMember invokes a member of obj with args.
func (e *Evaluator) callMember(obj Object, name string, args ...Object) (Object, error) {
	member, err := memberOf(obj, name)
	if err != nil {
		return nil, err
	}
	return e.Apply(member, args)
}
