package evaluator

import (
	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/config"
)

func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement, scope *Scope) (Object, error) {
	var op Operator
	compound := node.IsCompound()
	if compound {
		var ok bool
		if op, ok = compoundOperator(node.Operator); !ok {
			return nil, malformed("unknown assignment operator %q", node.Operator)
		}
	}
	if node.Value == nil {
		return nil, malformed("assignment without value")
	}

	switch target := node.Target.(type) {
	case *ast.Identifier:
		return VOID, e.assignIdentifier(target, node.Value, compound, op, scope)
	case *ast.MemberExpression:
		return VOID, e.assignMember(target, node.Value, compound, op, scope)
	case *ast.IndexExpression:
		return VOID, e.assignIndex(target, node.Value, compound, op, scope)
	}
	return nil, malformed("invalid assignment target %T", node.Target)
}

func (e *Evaluator) assignIdentifier(target *ast.Identifier, valueNode ast.Expression, compound bool, op Operator, scope *Scope) error {
	if !compound {
		val, err := e.Eval(valueNode, scope)
		if err != nil {
			return err
		}
		scope.Assign(target.Value, val)
		return nil
	}
	old, err := scope.Get(target.Value)
	if err != nil {
		return err
	}
	rhs, err := e.Eval(valueNode, scope)
	if err != nil {
		return err
	}
	val, err := e.applyBinary(op, old, rhs)
	if err != nil {
		return err
	}
	return scope.Set(target.Value, val)
}

func (e *Evaluator) assignMember(target *ast.MemberExpression, valueNode ast.Expression, compound bool, op Operator, scope *Scope) error {
	if target.Member == nil {
		return malformed("member assignment without member name")
	}
	left, err := e.Eval(target.Left, scope)
	if err != nil {
		return err
	}
	comp, ok := left.(Composite)
	if !ok {
		return newError(MemberNotFound, "%s has no member '%s'", left.Type(), target.Member.Value)
	}
	obj := comp.Base()
	name := target.Member.Value
	if _, immutable := left.(*StringObject); immutable {
		return newError(OperableError, "cannot assign member '%s' of an immutable STRING", name)
	}

	if !compound {
		val, err := e.Eval(valueNode, scope)
		if err != nil {
			return err
		}
		obj.SetMember(name, val)
		return nil
	}
	old, ok := obj.GetMember(name)
	if !ok {
		return newError(MemberNotFound, "%s has no member '%s'", left.Type(), name)
	}
	rhs, err := e.Eval(valueNode, scope)
	if err != nil {
		return err
	}
	val, err := e.applyBinary(op, old, rhs)
	if err != nil {
		return err
	}
	obj.SetMember(name, val)
	return nil
}

func (e *Evaluator) assignIndex(target *ast.IndexExpression, valueNode ast.Expression, compound bool, op Operator, scope *Scope) error {
	container, err := e.Eval(target.Left, scope)
	if err != nil {
		return err
	}
	index, err := e.Eval(target.Index, scope)
	if err != nil {
		return err
	}

	var val Object
	if compound {
		old, err := e.callMember(container, config.IndexerGetMember, index)
		if err != nil {
			return err
		}
		rhs, err := e.Eval(valueNode, scope)
		if err != nil {
			return err
		}
		if val, err = e.applyBinary(op, old, rhs); err != nil {
			return err
		}
	} else {
		if val, err = e.Eval(valueNode, scope); err != nil {
			return err
		}
	}
	_, err = e.callMember(container, config.IndexerSetMember, index, val)
	return err
}
