package ast

import (
	"math/big"

	"github.com/funvibe/opal/internal/token"
	"github.com/shopspring/decimal"
)

// VoidLiteral represents the absence of a value.
type VoidLiteral struct {
	Token token.Token
}

func (vl *VoidLiteral) expressionNode()       {}
func (vl *VoidLiteral) TokenLiteral() string  { return vl.Token.Lexeme }
func (vl *VoidLiteral) GetToken() token.Token { return vl.Token }

// NullLiteral represents null.
type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) expressionNode()       {}
func (nl *NullLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NullLiteral) GetToken() token.Token { return nl.Token }

// BooleanLiteral represents boolean literals true/false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()       {}
func (b *BooleanLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token { return b.Token }

// ByteLiteral represents an unsigned 8-bit literal, e.g. 0x1Fb.
type ByteLiteral struct {
	Token token.Token
	Value uint8
}

func (bl *ByteLiteral) expressionNode()       {}
func (bl *ByteLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *ByteLiteral) GetToken() token.Token { return bl.Token }

// IntegerLiteral represents an arbitrary precision integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value *big.Int
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

// DecimalLiteral represents a base-10 decimal literal.
type DecimalLiteral struct {
	Token token.Token
	Value decimal.Decimal
}

func (dl *DecimalLiteral) expressionNode()       {}
func (dl *DecimalLiteral) TokenLiteral() string  { return dl.Token.Lexeme }
func (dl *DecimalLiteral) GetToken() token.Token { return dl.Token }

// CharacterLiteral represents a single code point, e.g. 'a'.
type CharacterLiteral struct {
	Token token.Token
	Value rune
}

func (cl *CharacterLiteral) expressionNode()       {}
func (cl *CharacterLiteral) TokenLiteral() string  { return cl.Token.Lexeme }
func (cl *CharacterLiteral) GetToken() token.Token { return cl.Token }

// StringLiteral represents a string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// ListLiteral builds an array from its elements: [1, 2, 3]
type ListLiteral struct {
	Token    token.Token // [
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()       {}
func (ll *ListLiteral) TokenLiteral() string  { return ll.Token.Lexeme }
func (ll *ListLiteral) GetToken() token.Token { return ll.Token }

// ArrayAllocation builds a fixed-length array filled with null: new[5]
type ArrayAllocation struct {
	Token token.Token // new
	Size  Expression
}

func (aa *ArrayAllocation) expressionNode()       {}
func (aa *ArrayAllocation) TokenLiteral() string  { return aa.Token.Lexeme }
func (aa *ArrayAllocation) GetToken() token.Token { return aa.Token }

// DictionaryLiteral represents {key: value, ...}
type DictionaryLiteral struct {
	Token token.Token // {
	Pairs []*DictionaryEntry
}

// DictionaryEntry is one key/value pair, evaluated key first.
type DictionaryEntry struct {
	Key   Expression
	Value Expression
}

func (dl *DictionaryLiteral) expressionNode()       {}
func (dl *DictionaryLiteral) TokenLiteral() string  { return dl.Token.Lexeme }
func (dl *DictionaryLiteral) GetToken() token.Token { return dl.Token }

// ObjectLiteral is an object initializer. Operator overloads and indexers have
// already been renamed to their canonical member names by the AST builder.
// new { name = "a", __operator_add__ = func(o) { ... } }
type ObjectLiteral struct {
	Token   token.Token // new
	Members []*ObjectMember
}

// ObjectMember is one member initializer.
type ObjectMember struct {
	Token token.Token
	Name  string
	Value Expression
}

func (ol *ObjectLiteral) expressionNode()       {}
func (ol *ObjectLiteral) TokenLiteral() string  { return ol.Token.Lexeme }
func (ol *ObjectLiteral) GetToken() token.Token { return ol.Token }

// MemberExpression represents dot access, e.g. obj.field
type MemberExpression struct {
	Token  token.Token // The '.' token
	Left   Expression
	Member *Identifier
}

func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token { return me.Token }

// IndexExpression represents indexing, e.g. arr[i]
type IndexExpression struct {
	Token token.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// CallExpression represents f(a, b) or obj.method(a)
type CallExpression struct {
	Token     token.Token // The '(' token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// InfixExpression represents a binary operation, e.g. a + b
type InfixExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// PrefixExpression represents a unary operation, e.g. -x or !ok
type PrefixExpression struct {
	Token    token.Token // The operator token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// TernaryExpression represents cond ? a : b
type TernaryExpression struct {
	Token       token.Token // ?
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (te *TernaryExpression) expressionNode()       {}
func (te *TernaryExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TernaryExpression) GetToken() token.Token { return te.Token }

// FunctionLiteral represents an anonymous function (closure).
// func(x, y) { return x + y }
type FunctionLiteral struct {
	Token      token.Token // The 'func' token
	Parameters []*Identifier
	Body       *BlockStatement
	Returns    bool
}

func (fl *FunctionLiteral) expressionNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FunctionLiteral) GetToken() token.Token { return fl.Token }
