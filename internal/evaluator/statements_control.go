package evaluator

import (
	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/config"
)

// evalCondition requires a Boolean; no other value is truthy.
func (e *Evaluator) evalCondition(node ast.Expression, scope *Scope) (bool, error) {
	if node == nil {
		return false, malformed("missing condition")
	}
	cond, err := e.Eval(node, scope)
	if err != nil {
		return false, err
	}
	b, ok := cond.(*Boolean)
	if !ok {
		return false, newError(OperableError, "condition must be BOOLEAN, got %s", cond.Type())
	}
	return b.Value, nil
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, scope *Scope) (Object, error) {
	ok, err := e.evalCondition(node.Condition, scope)
	if err != nil {
		return nil, err
	}
	if ok {
		return e.evalBlock(node.Consequence, scope)
	}
	for _, clause := range node.ElseIfs {
		ok, err := e.evalCondition(clause.Condition, scope)
		if err != nil {
			return nil, err
		}
		if ok {
			return e.evalBlock(clause.Consequence, scope)
		}
	}
	if node.Alternative != nil {
		return e.evalBlock(node.Alternative, scope)
	}
	return VOID, nil
}

// loopControl folds a body result: stop reports whether the loop ends and
// result is what the loop statement yields.
func loopControl(res Object) (stop bool, result Object) {
	switch res.(type) {
	case *BreakSignal:
		return true, VOID
	case *ReturnValue:
		return true, res
	}
	return false, nil
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, scope *Scope) (Object, error) {
	if node.Body == nil {
		return nil, malformed("while without body")
	}
	loopScope := NewEnclosedScope(scope)
	for {
		ok, err := e.evalCondition(node.Condition, loopScope)
		if err != nil {
			return nil, err
		}
		if !ok {
			return VOID, nil
		}
		res, err := e.evalStatements(node.Body.Statements, loopScope)
		if err != nil {
			return nil, err
		}
		if stop, result := loopControl(res); stop {
			return result, nil
		}
	}
}

func (e *Evaluator) evalForeachStatement(node *ast.ForeachStatement, scope *Scope) (Object, error) {
	if node.Variable == nil || node.Body == nil {
		return nil, malformed("incomplete foreach")
	}
	iterable, err := e.Eval(node.Iterable, scope)
	if err != nil {
		return nil, err
	}
	enumerator, err := e.callMember(iterable, config.EnumeratorMember)
	if err != nil {
		return nil, err
	}
	for {
		more, err := e.callMember(enumerator, config.NextMember)
		if err != nil {
			return nil, err
		}
		b, ok := more.(*Boolean)
		if !ok {
			return nil, newError(OperableError, "enumerator next() must return BOOLEAN, got %s", more.Type())
		}
		if !b.Value {
			return VOID, nil
		}
		current, err := e.callMember(enumerator, config.CurrentMember)
		if err != nil {
			return nil, err
		}
		iterScope := NewEnclosedScope(scope)
		iterScope.Declare(node.Variable.Value, current)
		res, err := e.evalStatements(node.Body.Statements, iterScope)
		if err != nil {
			return nil, err
		}
		if stop, result := loopControl(res); stop {
			return result, nil
		}
	}
}

// evalTryStatement catches internal faults and thrown values. Host faults
// pass through untouched. The finally block always runs; a signal or fault
// it produces replaces the pending outcome.
func (e *Evaluator) evalTryStatement(node *ast.TryStatement, scope *Scope) (Object, error) {
	res, err := e.evalBlock(node.Body, scope)
	if err != nil && node.CatchBody != nil {
		if val, ok := faultValue(err); ok {
			e.Logger.Debug("caught fault", "error", err)
			catchScope := NewEnclosedScope(scope)
			if node.CatchParam != nil {
				catchScope.Declare(node.CatchParam.Value, val)
			}
			res, err = e.evalStatements(node.CatchBody.Statements, catchScope)
		}
	}
	if node.Finally != nil {
		fres, ferr := e.evalBlock(node.Finally, scope)
		if ferr != nil {
			return nil, ferr
		}
		if isSignal(fres) {
			return fres, nil
		}
	}
	return res, err
}
