// Package token holds the source positions attached to every AST node.
//
// Tokens are produced by the external parser; the runtime only reads their
// position fields when it builds diagnostics.
package token

import "fmt"

type TokenType string

const (
	ILLEGAL  TokenType = "ILLEGAL"
	IDENT    TokenType = "IDENT"
	KEYWORD  TokenType = "KEYWORD"
	LITERAL  TokenType = "LITERAL"
	OPERATOR TokenType = "OPERATOR"
	PUNCT    TokenType = "PUNCT"
)

// Token is the primary token of a node: its text plus row, start column and
// end column (all 1-based; zero means unknown).
type Token struct {
	Type      TokenType
	Lexeme    string
	Line      int
	Column    int
	EndColumn int
}

// Position is the diagnostic triple carried by runtime faults.
type Position struct {
	Line      int
	Column    int
	EndColumn int
}

func (t Token) Position() Position {
	return Position{Line: t.Line, Column: t.Column, EndColumn: t.EndColumn}
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "?"
	}
	if p.EndColumn > p.Column {
		return fmt.Sprintf("%d:%d-%d", p.Line, p.Column, p.EndColumn)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
