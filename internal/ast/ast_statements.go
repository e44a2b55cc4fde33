package ast

import (
	"github.com/funvibe/opal/internal/token"
)

// VarStatement declares a name in the innermost scope.
// var x = value
type VarStatement struct {
	Token token.Token // The 'var' token
	Name  *Identifier
	Value Expression // Optional, Null when absent
}

func (vs *VarStatement) statementNode()        {}
func (vs *VarStatement) TokenLiteral() string  { return vs.Token.Lexeme }
func (vs *VarStatement) GetToken() token.Token { return vs.Token }

// AssignStatement represents plain and compound assignment.
// x = 1, obj.a.b += 2, arr[i] <<= 1
type AssignStatement struct {
	Token    token.Token // The operator token
	Target   Expression  // *Identifier, *MemberExpression or *IndexExpression
	Operator string      // "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>="
	Value    Expression
}

func (as *AssignStatement) statementNode()        {}
func (as *AssignStatement) TokenLiteral() string  { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token { return as.Token }

// IsCompound reports whether the assignment combines the old value with an operator.
func (as *AssignStatement) IsCompound() bool { return as.Operator != "=" }

// FunctionStatement declares a named function. Re-declaring the same name with a
// different parameter count in the same scope adds an overload.
// func name(a, b) { ... }
type FunctionStatement struct {
	Token      token.Token // The 'func' token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
	Returns    bool // Declared with a return value (Provider/Function role)
}

func (fs *FunctionStatement) statementNode()        {}
func (fs *FunctionStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *FunctionStatement) GetToken() token.Token { return fs.Token }

// ExternStatement binds a natively registered callable to a local name.
// extern print = "console.print"
type ExternStatement struct {
	Token      token.Token // The 'extern' token
	Name       *Identifier
	Identifier string // Registry key of the native implementation
}

func (es *ExternStatement) statementNode()        {}
func (es *ExternStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExternStatement) GetToken() token.Token { return es.Token }

// ReturnStatement represents 'return' with an optional value.
type ReturnStatement struct {
	Token token.Token // The 'return' token
	Value Expression  // Optional
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// IfStatement represents if / else if / else chains.
type IfStatement struct {
	Token       token.Token // if
	Condition   Expression
	Consequence *BlockStatement
	ElseIfs     []*ElseIfClause
	Alternative *BlockStatement // Optional
}

// ElseIfClause is one 'else if' branch, tried in source order.
type ElseIfClause struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
}

func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

// WhileStatement represents a condition loop.
type WhileStatement struct {
	Token     token.Token // while
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token { return ws.Token }

// ForeachStatement drives the enumerator() protocol of its target.
// foreach (item in items) { ... }
type ForeachStatement struct {
	Token    token.Token // foreach
	Variable *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fs *ForeachStatement) statementNode()        {}
func (fs *ForeachStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForeachStatement) GetToken() token.Token { return fs.Token }

// BreakStatement exits the innermost loop.
type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) statementNode()        {}
func (bs *BreakStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token { return bs.Token }

// ContinueStatement skips to the next iteration of the innermost loop.
type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) statementNode()        {}
func (cs *ContinueStatement) TokenLiteral() string  { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token { return cs.Token }

// TryStatement represents try { } catch (e) { } finally { }.
type TryStatement struct {
	Token      token.Token // try
	Body       *BlockStatement
	CatchParam *Identifier     // Optional; the fault is discarded when nil
	CatchBody  *BlockStatement // Optional when Finally is present
	Finally    *BlockStatement // Optional
}

func (ts *TryStatement) statementNode()        {}
func (ts *TryStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TryStatement) GetToken() token.Token { return ts.Token }

// ThrowStatement raises an arbitrary value.
type ThrowStatement struct {
	Token token.Token // throw
	Value Expression
}

func (ts *ThrowStatement) statementNode()        {}
func (ts *ThrowStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *ThrowStatement) GetToken() token.Token { return ts.Token }

// UseStatement imports a snapshot of another namespace's top-level bindings.
// use collections
type UseStatement struct {
	Token     token.Token // use
	Namespace string
}

func (us *UseStatement) statementNode()        {}
func (us *UseStatement) TokenLiteral() string  { return us.Token.Lexeme }
func (us *UseStatement) GetToken() token.Token { return us.Token }
