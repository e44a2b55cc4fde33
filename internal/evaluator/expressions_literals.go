package evaluator

import (
	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/config"
)

func (e *Evaluator) evalExpressions(exps []ast.Expression, scope *Scope) ([]Object, error) {
	result := make([]Object, 0, len(exps))
	for _, exp := range exps {
		val, err := e.Eval(exp, scope)
		if err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, nil
}

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, scope *Scope) (Object, error) {
	elements, err := e.evalExpressions(node.Elements, scope)
	if err != nil {
		return nil, err
	}
	return NewArray(elements), nil
}

func (e *Evaluator) evalArrayAllocation(node *ast.ArrayAllocation, scope *Scope) (Object, error) {
	size, err := e.Eval(node.Size, scope)
	if err != nil {
		return nil, err
	}
	n, err := toIndex(size)
	if err != nil {
		return nil, err
	}
	return NewArrayOfSize(n)
}

func (e *Evaluator) evalDictionaryLiteral(node *ast.DictionaryLiteral, scope *Scope) (Object, error) {
	dict := NewDictionary()
	for _, pair := range node.Pairs {
		key, err := e.Eval(pair.Key, scope)
		if err != nil {
			return nil, err
		}
		val, err := e.Eval(pair.Value, scope)
		if err != nil {
			return nil, err
		}
		if err := dict.Set(key, val); err != nil {
			return nil, err
		}
	}
	return dict, nil
}

// evalObjectLiteral evaluates members in order in a child scope where
// 'this' is the object under construction. Function members sharing a name
// merge into one overload set.
func (e *Evaluator) evalObjectLiteral(node *ast.ObjectLiteral, scope *Scope) (Object, error) {
	obj := NewGenericObject()
	objScope := NewEnclosedScope(scope)
	objScope.Declare(config.ThisName, obj)

	for _, member := range node.Members {
		val, err := e.Eval(member.Value, objScope)
		if err != nil {
			return nil, err
		}
		if m, ok := val.(*Method); ok && m.Name == "" && m.Native == nil {
			m.Name = member.Name
		}
		if existing, ok := obj.GetMember(member.Name); ok && isCallable(existing) && isCallable(val) {
			merged, err := CombineMethods(existing, val)
			if err != nil {
				return nil, err
			}
			merged.Name = member.Name
			val = merged
		}
		obj.SetMember(member.Name, val)
	}
	return obj, nil
}
