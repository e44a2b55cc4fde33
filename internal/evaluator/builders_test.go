package evaluator

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/token"
)

// Syntax tree builders. Every node gets line 1 unless placed with at().

func tok(lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, Line: 1, Column: 1}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: tok(name), Value: name}
}

func idents(names ...string) []*ast.Identifier {
	out := make([]*ast.Identifier, len(names))
	for i, n := range names {
		out[i] = ident(n)
	}
	return out
}

func intLit(v int64) *ast.IntegerLiteral {
	return &ast.IntegerLiteral{Token: tok("int"), Value: big.NewInt(v)}
}

func byteLit(v uint8) *ast.ByteLiteral {
	return &ast.ByteLiteral{Token: tok("byte"), Value: v}
}

func decLit(s string) *ast.DecimalLiteral {
	return &ast.DecimalLiteral{Token: tok(s), Value: decimal.RequireFromString(s)}
}

func strLit(s string) *ast.StringLiteral {
	return &ast.StringLiteral{Token: tok(s), Value: s}
}

func boolLit(v bool) *ast.BooleanLiteral {
	return &ast.BooleanLiteral{Token: tok("bool"), Value: v}
}

func list(elements ...ast.Expression) *ast.ListLiteral {
	return &ast.ListLiteral{Token: tok("["), Elements: elements}
}

func dict(kv ...ast.Expression) *ast.DictionaryLiteral {
	d := &ast.DictionaryLiteral{Token: tok("{")}
	for i := 0; i+1 < len(kv); i += 2 {
		d.Pairs = append(d.Pairs, &ast.DictionaryEntry{Key: kv[i], Value: kv[i+1]})
	}
	return d
}

func object(members ...*ast.ObjectMember) *ast.ObjectLiteral {
	return &ast.ObjectLiteral{Token: tok("new"), Members: members}
}

func field(name string, value ast.Expression) *ast.ObjectMember {
	return &ast.ObjectMember{Token: tok(name), Name: name, Value: value}
}

func member(left ast.Expression, name string) *ast.MemberExpression {
	return &ast.MemberExpression{Token: tok("."), Left: left, Member: ident(name)}
}

func index(left, idx ast.Expression) *ast.IndexExpression {
	return &ast.IndexExpression{Token: tok("["), Left: left, Index: idx}
}

func call(fn ast.Expression, args ...ast.Expression) *ast.CallExpression {
	return &ast.CallExpression{Token: tok("("), Function: fn, Arguments: args}
}

func infix(left ast.Expression, op string, right ast.Expression) *ast.InfixExpression {
	return &ast.InfixExpression{Token: tok(op), Left: left, Operator: op, Right: right}
}

func prefix(op string, right ast.Expression) *ast.PrefixExpression {
	return &ast.PrefixExpression{Token: tok(op), Operator: op, Right: right}
}

func lambda(params []string, returns bool, body ...ast.Statement) *ast.FunctionLiteral {
	return &ast.FunctionLiteral{Token: tok("func"), Parameters: idents(params...), Body: block(body...), Returns: returns}
}

func block(stmts ...ast.Statement) *ast.BlockStatement {
	return &ast.BlockStatement{Token: tok("{"), Statements: stmts}
}

func expr(e ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Token: e.GetToken(), Expression: e}
}

func printStmt(e ast.Expression) *ast.ExpressionStatement {
	return expr(call(ident("print"), e))
}

func varStmt(name string, value ast.Expression) *ast.VarStatement {
	return &ast.VarStatement{Token: tok("var"), Name: ident(name), Value: value}
}

func assign(target ast.Expression, op string, value ast.Expression) *ast.AssignStatement {
	return &ast.AssignStatement{Token: tok(op), Target: target, Operator: op, Value: value}
}

func fn(name string, params []string, returns bool, body ...ast.Statement) *ast.FunctionStatement {
	return &ast.FunctionStatement{Token: tok("func"), Name: ident(name), Parameters: idents(params...), Body: block(body...), Returns: returns}
}

func ret(value ast.Expression) *ast.ReturnStatement {
	return &ast.ReturnStatement{Token: tok("return"), Value: value}
}

func ifStmt(cond ast.Expression, then *ast.BlockStatement, otherwise *ast.BlockStatement) *ast.IfStatement {
	return &ast.IfStatement{Token: tok("if"), Condition: cond, Consequence: then, Alternative: otherwise}
}

func while(cond ast.Expression, body ...ast.Statement) *ast.WhileStatement {
	return &ast.WhileStatement{Token: tok("while"), Condition: cond, Body: block(body...)}
}

func foreach(variable string, iterable ast.Expression, body ...ast.Statement) *ast.ForeachStatement {
	return &ast.ForeachStatement{Token: tok("foreach"), Variable: ident(variable), Iterable: iterable, Body: block(body...)}
}

func throw(value ast.Expression) *ast.ThrowStatement {
	return &ast.ThrowStatement{Token: tok("throw"), Value: value}
}

func tryCatch(body *ast.BlockStatement, param string, catchBody *ast.BlockStatement, finally *ast.BlockStatement) *ast.TryStatement {
	t := &ast.TryStatement{Token: tok("try"), Body: body, CatchBody: catchBody, Finally: finally}
	if param != "" {
		t.CatchParam = ident(param)
	}
	return t
}

// at moves a statement to the given line.
func at(line int, stmt *ast.ExpressionStatement) *ast.ExpressionStatement {
	stmt.Token.Line = line
	if c, ok := stmt.Expression.(*ast.CallExpression); ok {
		c.Token.Line = line
		if id, ok := c.Function.(*ast.Identifier); ok {
			id.Token.Line = line
		}
	}
	return stmt
}

func newTestRuntime(out io.Writer) *RuntimeEnvironment {
	rt := NewRuntimeEnvironment()
	rt.Out = out
	rt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return rt
}

// run interprets stmts as namespace "test" and returns what they printed.
func run(t *testing.T, stmts ...ast.Statement) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rt := newTestRuntime(&out)
	_, err := rt.Interpret(context.Background(), &ast.Program{File: "test.ast.yaml", Namespace: "test", Statements: stmts})
	return out.String(), err
}

func mustRun(t *testing.T, stmts ...ast.Statement) string {
	t.Helper()
	out, err := run(t, stmts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}
