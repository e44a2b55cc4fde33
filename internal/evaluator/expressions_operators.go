package evaluator

import (
	"github.com/funvibe/opal/internal/ast"
)

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, scope *Scope) (Object, error) {
	op, ok := InfixOperator(node.Operator)
	if !ok {
		return nil, malformed("unknown operator %q", node.Operator)
	}
	left, err := e.Eval(node.Left, scope)
	if err != nil {
		return nil, err
	}

	// Short-circuit evaluation for && and ||
	if op == OpAnd || op == OpOr {
		if b, ok := left.(*Boolean); ok {
			return b.Logical(op, func() (Object, error) {
				return e.Eval(node.Right, scope)
			})
		}
	}

	right, err := e.Eval(node.Right, scope)
	if err != nil {
		return nil, err
	}
	return e.applyBinary(op, left, right)
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, scope *Scope) (Object, error) {
	op, ok := PrefixOperator(node.Operator)
	if !ok {
		return nil, malformed("unknown prefix operator %q", node.Operator)
	}
	right, err := e.Eval(node.Right, scope)
	if err != nil {
		return nil, err
	}
	return e.applyUnary(op, right)
}

func (e *Evaluator) evalTernaryExpression(node *ast.TernaryExpression, scope *Scope) (Object, error) {
	ok, err := e.evalCondition(node.Condition, scope)
	if err != nil {
		return nil, err
	}
	if ok {
		return e.Eval(node.Consequence, scope)
	}
	return e.Eval(node.Alternative, scope)
}

// applyBinary dispatches op on the left operand. User objects consult their
// __operator_<op>__ member first; built-in variants use their direct
// implementation and fall back to a member override.
func (e *Evaluator) applyBinary(op Operator, left, right Object) (Object, error) {
	if res, ok := strictMismatch(op, left, right); ok {
		return res, nil
	}

	if obj, ok := left.(*GenericObject); ok {
		if m, found := obj.operatorOverride(op, 1); found {
			return e.callMethod(m, []Object{right})
		}
		if op == OpAdd && isTextual(right) {
			return e.concat(left, right)
		}
		return referenceBinary(op, left, right)
	}

	if op == OpAdd && (isTextual(left) || isTextual(right)) {
		return e.concat(left, right)
	}

	operand, ok := left.(BinaryOperand)
	if !ok {
		return nil, missingOperator(op, left, right)
	}
	res, err := operand.Binary(op, right)
	if err == nil || !IsKind(err, MissingOperatorOverride) {
		return res, err
	}
	if comp, ok := left.(Composite); ok {
		if m, found := comp.Base().operatorOverride(op, 1); found {
			return e.callMethod(m, []Object{right})
		}
	}
	return nil, err
}

func (e *Evaluator) applyUnary(op Operator, operand Object) (Object, error) {
	if obj, ok := operand.(*GenericObject); ok {
		if m, found := obj.operatorOverride(op, 0); found {
			return e.callMethod(m, nil)
		}
		return nil, missingOperator(op, operand, nil)
	}
	if u, ok := operand.(UnaryOperand); ok {
		res, err := u.Unary(op)
		if err == nil || !IsKind(err, MissingOperatorOverride) {
			return res, err
		}
	}
	if comp, ok := operand.(Composite); ok {
		if m, found := comp.Base().operatorOverride(op, 0); found {
			return e.callMethod(m, nil)
		}
	}
	return nil, missingOperator(op, operand, nil)
}

func (e *Evaluator) concat(left, right Object) (Object, error) {
	l, err := e.ToText(left)
	if err != nil {
		return nil, err
	}
	r, err := e.ToText(right)
	if err != nil {
		return nil, err
	}
	return NewString(l + r), nil
}
