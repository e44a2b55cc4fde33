package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/config"
)

// Evaluator walks syntax trees. One evaluator serves one host call; it is
// not safe for concurrent use.
type Evaluator struct {
	// Context for cancellation
	Context context.Context

	Runtime *RuntimeEnvironment
	Out     io.Writer
	Logger  *slog.Logger

	// CallStack for stack traces on errors
	CallStack []StackFrame
	// MaxDepth bounds nested Eval calls; exceeding it fails with ErrStackExhausted
	MaxDepth int

	evalDepth int
}

func New(rt *RuntimeEnvironment) *Evaluator {
	if rt == nil {
		rt = NewRuntimeEnvironment()
	}
	maxDepth := rt.MaxDepth
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxDepth
	}
	return &Evaluator{
		Context:  context.Background(),
		Runtime:  rt,
		Out:      rt.Out,
		Logger:   rt.logger(),
		MaxDepth: maxDepth,
	}
}

// Eval evaluates node in scope. Statements produce Void or a control
// signal; expressions produce a value. Faults without a position are
// stamped with node's token and the current call stack.
func (e *Evaluator) Eval(node ast.Node, scope *Scope) (Object, error) {
	if node == nil {
		return nil, malformed("missing node")
	}

	// Check recursion depth to prevent Go stack overflow
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > e.MaxDepth {
		return nil, fmt.Errorf("%w (limit %d) at %s", ErrStackExhausted, e.MaxDepth, node.GetToken().Position())
	}

	// Check for cancellation
	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return nil, fmt.Errorf("%w: %v", ErrCancelled, e.Context.Err())
		default:
		}
	}

	obj, err := e.evalCore(node, scope)
	if err != nil {
		e.annotate(err, node)
		return nil, err
	}
	return obj, nil
}

func (e *Evaluator) annotate(err error, node ast.Node) {
	switch fault := err.(type) {
	case *RuntimeError:
		if !fault.Pos.IsValid() {
			fault.Pos = node.GetToken().Position()
			fault.StackTrace = e.stackTrace()
		}
	case *ThrowError:
		if !fault.Pos.IsValid() {
			fault.Pos = node.GetToken().Position()
			fault.StackTrace = e.stackTrace()
		}
	}
}

func (e *Evaluator) evalCore(node ast.Node, scope *Scope) (Object, error) {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.EvalProgram(node, scope)
	case *ast.ExpressionStatement:
		if node.Expression == nil {
			return nil, malformed("expression statement without expression")
		}
		return e.Eval(node.Expression, scope)
	case *ast.BlockStatement:
		return e.evalStatements(node.Statements, NewEnclosedScope(scope))
	case *ast.VarStatement:
		return e.evalVarStatement(node, scope)
	case *ast.AssignStatement:
		return e.evalAssignStatement(node, scope)
	case *ast.FunctionStatement:
		return e.evalFunctionStatement(node, scope)
	case *ast.ExternStatement:
		return e.evalExternStatement(node, scope)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, scope)
	case *ast.IfStatement:
		return e.evalIfStatement(node, scope)
	case *ast.WhileStatement:
		return e.evalWhileStatement(node, scope)
	case *ast.ForeachStatement:
		return e.evalForeachStatement(node, scope)
	case *ast.BreakStatement:
		return &BreakSignal{}, nil
	case *ast.ContinueStatement:
		return &ContinueSignal{}, nil
	case *ast.TryStatement:
		return e.evalTryStatement(node, scope)
	case *ast.ThrowStatement:
		return e.evalThrowStatement(node, scope)
	case *ast.UseStatement:
		return e.evalUseStatement(node, scope)

	// Literals
	case *ast.VoidLiteral:
		return VOID, nil
	case *ast.NullLiteral:
		return NULL, nil
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value), nil
	case *ast.ByteLiteral:
		return &Byte{Value: node.Value}, nil
	case *ast.IntegerLiteral:
		if node.Value == nil {
			return nil, malformed("integer literal without value")
		}
		return &Integer{Value: node.Value}, nil
	case *ast.DecimalLiteral:
		return NewDecimal(node.Value), nil
	case *ast.CharacterLiteral:
		return &Character{Value: node.Value}, nil
	case *ast.StringLiteral:
		return NewString(node.Value), nil
	case *ast.ListLiteral:
		return e.evalListLiteral(node, scope)
	case *ast.ArrayAllocation:
		return e.evalArrayAllocation(node, scope)
	case *ast.DictionaryLiteral:
		return e.evalDictionaryLiteral(node, scope)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(node, scope)
	case *ast.FunctionLiteral:
		return e.newClosure("", node.Parameters, node.Body, node.Returns, node.Token.Line, node.Token.Column, scope)

	// Expressions
	case *ast.Identifier:
		return e.evalIdentifier(node, scope)
	case *ast.MemberExpression:
		return e.evalMemberExpression(node, scope)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, scope)
	case *ast.CallExpression:
		return e.evalCallExpression(node, scope)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, scope)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, scope)
	case *ast.TernaryExpression:
		return e.evalTernaryExpression(node, scope)
	}
	return nil, malformed("unsupported node %T", node)
}

// EvalProgram runs a unit's statements in scope. A top-level return ends
// the unit.
func (e *Evaluator) EvalProgram(program *ast.Program, scope *Scope) (Object, error) {
	for _, stmt := range program.Statements {
		res, err := e.Eval(stmt, scope)
		if err != nil {
			return nil, err
		}
		switch r := res.(type) {
		case *ReturnValue:
			return r.Value, nil
		case *BreakSignal, *ContinueSignal:
			return nil, malformed("%s outside of a loop", r.Inspect())
		}
	}
	return VOID, nil
}

// evalStatements runs statements in scope, stopping at the first signal.
func (e *Evaluator) evalStatements(stmts []ast.Statement, scope *Scope) (Object, error) {
	for _, stmt := range stmts {
		res, err := e.Eval(stmt, scope)
		if err != nil {
			return nil, err
		}
		if isSignal(res) {
			return res, nil
		}
	}
	return VOID, nil
}

// evalBlock runs a nested block in a fresh child scope.
func (e *Evaluator) evalBlock(block *ast.BlockStatement, scope *Scope) (Object, error) {
	if block == nil {
		return nil, malformed("missing block")
	}
	return e.evalStatements(block.Statements, NewEnclosedScope(scope))
}

// PushCall adds a call frame to the stack
func (e *Evaluator) PushCall(name, namespace string, line, column int) {
	if name == "" {
		name = "<anonymous>"
	}
	e.CallStack = append(e.CallStack, StackFrame{Name: name, Namespace: namespace, Line: line, Column: column})
}

// PopCall removes the top call frame
func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

func (e *Evaluator) stackTrace() []StackFrame {
	if len(e.CallStack) == 0 {
		return nil
	}
	trace := make([]StackFrame, len(e.CallStack))
	copy(trace, e.CallStack)
	return trace
}

func namespaceName(scope *Scope) string {
	if scope == nil || scope.Namespace() == nil {
		return ""
	}
	return scope.Namespace().Name
}
