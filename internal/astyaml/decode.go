// Package astyaml loads syntax trees serialized as YAML by the front end.
//
// A unit is a mapping with file, namespace and statements keys. Every node is
// a mapping with a kind and an optional pos: [line, column, endColumn].
//
//	namespace: hello
//	statements:
//	  - kind: function
//	    name: main
//	    params: [args]
//	    body:
//	      - kind: expr
//	        expr:
//	          kind: call
//	          function: {kind: ident, name: print}
//	          args: [{kind: string, literal: "hello"}]
package astyaml

import (
	"fmt"
	"math/big"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/opal/internal/ast"
	"github.com/funvibe/opal/internal/token"
)

type rawProgram struct {
	File       string     `yaml:"file"`
	Namespace  string     `yaml:"namespace"`
	Statements []*rawNode `yaml:"statements"`
}

type rawNode struct {
	Kind string `yaml:"kind"`
	Pos  []int  `yaml:"pos"`

	Name      string   `yaml:"name"`
	Literal   string   `yaml:"literal"`
	Op        string   `yaml:"op"`
	Params    []string `yaml:"params"`
	Returns   bool     `yaml:"returns"`
	Extern    string   `yaml:"extern"`
	Namespace string   `yaml:"namespace"`
	Catch     string   `yaml:"catch"`

	Value    *rawNode `yaml:"value"`
	Target   *rawNode `yaml:"target"`
	Left     *rawNode `yaml:"left"`
	Right    *rawNode `yaml:"right"`
	Expr     *rawNode `yaml:"expr"`
	Cond     *rawNode `yaml:"cond"`
	Then     *rawNode `yaml:"then"`
	Else     *rawNode `yaml:"else"`
	Function *rawNode `yaml:"function"`
	Index    *rawNode `yaml:"index"`
	Size     *rawNode `yaml:"size"`
	Iterable *rawNode `yaml:"in"`

	Args      []*rawNode  `yaml:"args"`
	Elements  []*rawNode  `yaml:"elements"`
	Pairs     []rawPair   `yaml:"pairs"`
	Members   []*rawNode  `yaml:"members"`
	Body      []*rawNode  `yaml:"body"`
	ElseIfs   []rawBranch `yaml:"elif"`
	Otherwise []*rawNode  `yaml:"otherwise"`
	CatchBody []*rawNode  `yaml:"catchBody"`
	Finally   []*rawNode  `yaml:"finally"`
}

type rawPair struct {
	Key   *rawNode `yaml:"key"`
	Value *rawNode `yaml:"value"`
}

type rawBranch struct {
	Pos  []int      `yaml:"pos"`
	Cond *rawNode   `yaml:"cond"`
	Body []*rawNode `yaml:"body"`
}

// Decode converts YAML text into a program.
func Decode(data []byte) (*ast.Program, error) {
	var raw rawProgram
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	program := &ast.Program{File: raw.File, Namespace: raw.Namespace}
	for i, n := range raw.Statements {
		stmt, err := statement(n)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

func position(tt token.TokenType, lexeme string, pos []int) token.Token {
	tok := token.Token{Type: tt, Lexeme: lexeme}
	if len(pos) > 0 {
		tok.Line = pos[0]
	}
	if len(pos) > 1 {
		tok.Column = pos[1]
	}
	if len(pos) > 2 {
		tok.EndColumn = pos[2]
	}
	return tok
}

func (n *rawNode) token(tt token.TokenType, lexeme string) token.Token {
	return position(tt, lexeme, n.Pos)
}

func (n *rawNode) identifier() (*ast.Identifier, error) {
	if n.Name == "" {
		return nil, fmt.Errorf("%s: missing name", n.Kind)
	}
	return &ast.Identifier{Token: n.token(token.IDENT, n.Name), Value: n.Name}, nil
}

func (n *rawNode) parameters() []*ast.Identifier {
	params := make([]*ast.Identifier, len(n.Params))
	for i, p := range n.Params {
		params[i] = &ast.Identifier{Token: n.token(token.IDENT, p), Value: p}
	}
	return params
}

func statements(nodes []*rawNode) ([]ast.Statement, error) {
	out := make([]ast.Statement, 0, len(nodes))
	for _, n := range nodes {
		stmt, err := statement(n)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func blockOf(pos []int, nodes []*rawNode) (*ast.BlockStatement, error) {
	stmts, err := statements(nodes)
	if err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Token: position(token.PUNCT, "{", pos), Statements: stmts}, nil
}

func expressions(nodes []*rawNode) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(nodes))
	for _, n := range nodes {
		exp, err := expression(n)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, nil
}

// optional decodes an expression that may be absent.
func optional(n *rawNode) (ast.Expression, error) {
	if n == nil {
		return nil, nil
	}
	return expression(n)
}

func required(n *rawNode, parent, field string) (ast.Expression, error) {
	if n == nil {
		return nil, fmt.Errorf("%s: missing %s", parent, field)
	}
	return expression(n)
}

func statement(n *rawNode) (ast.Statement, error) {
	if n == nil {
		return nil, fmt.Errorf("empty statement")
	}
	switch n.Kind {
	case "expr":
		exp, err := required(n.Expr, n.Kind, "expr")
		if err != nil {
			return nil, err
		}
		tok := exp.GetToken()
		if len(n.Pos) > 0 {
			tok = n.token(tok.Type, tok.Lexeme)
		}
		return &ast.ExpressionStatement{Token: tok, Expression: exp}, nil

	case "block":
		return blockOf(n.Pos, n.Body)

	case "var":
		name, err := n.identifier()
		if err != nil {
			return nil, err
		}
		value, err := optional(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.VarStatement{Token: n.token(token.KEYWORD, "var"), Name: name, Value: value}, nil

	case "assign":
		op := n.Op
		if op == "" {
			op = "="
		}
		target, err := required(n.Target, n.Kind, "target")
		if err != nil {
			return nil, err
		}
		value, err := required(n.Value, n.Kind, "value")
		if err != nil {
			return nil, err
		}
		return &ast.AssignStatement{Token: n.token(token.OPERATOR, op), Target: target, Operator: op, Value: value}, nil

	case "function":
		name, err := n.identifier()
		if err != nil {
			return nil, err
		}
		body, err := blockOf(n.Pos, n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionStatement{Token: n.token(token.KEYWORD, "func"), Name: name, Parameters: n.parameters(), Body: body, Returns: n.Returns}, nil

	case "extern":
		name, err := n.identifier()
		if err != nil {
			return nil, err
		}
		if n.Extern == "" {
			return nil, fmt.Errorf("extern %s: missing extern identifier", n.Name)
		}
		return &ast.ExternStatement{Token: n.token(token.KEYWORD, "extern"), Name: name, Identifier: n.Extern}, nil

	case "return":
		value, err := optional(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Token: n.token(token.KEYWORD, "return"), Value: value}, nil

	case "if":
		cond, err := required(n.Cond, n.Kind, "cond")
		if err != nil {
			return nil, err
		}
		then, err := blockOf(n.Pos, n.Body)
		if err != nil {
			return nil, err
		}
		stmt := &ast.IfStatement{Token: n.token(token.KEYWORD, "if"), Condition: cond, Consequence: then}
		for _, branch := range n.ElseIfs {
			c, err := required(branch.Cond, "elif", "cond")
			if err != nil {
				return nil, err
			}
			body, err := blockOf(branch.Pos, branch.Body)
			if err != nil {
				return nil, err
			}
			stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIfClause{Token: position(token.KEYWORD, "else if", branch.Pos), Condition: c, Consequence: body})
		}
		if n.Otherwise != nil {
			if stmt.Alternative, err = blockOf(n.Pos, n.Otherwise); err != nil {
				return nil, err
			}
		}
		return stmt, nil

	case "while":
		cond, err := required(n.Cond, n.Kind, "cond")
		if err != nil {
			return nil, err
		}
		body, err := blockOf(n.Pos, n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStatement{Token: n.token(token.KEYWORD, "while"), Condition: cond, Body: body}, nil

	case "foreach":
		variable, err := n.identifier()
		if err != nil {
			return nil, err
		}
		iterable, err := required(n.Iterable, n.Kind, "in")
		if err != nil {
			return nil, err
		}
		body, err := blockOf(n.Pos, n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForeachStatement{Token: n.token(token.KEYWORD, "foreach"), Variable: variable, Iterable: iterable, Body: body}, nil

	case "break":
		return &ast.BreakStatement{Token: n.token(token.KEYWORD, "break")}, nil

	case "continue":
		return &ast.ContinueStatement{Token: n.token(token.KEYWORD, "continue")}, nil

	case "try":
		body, err := blockOf(n.Pos, n.Body)
		if err != nil {
			return nil, err
		}
		stmt := &ast.TryStatement{Token: n.token(token.KEYWORD, "try"), Body: body}
		if n.Catch != "" || n.CatchBody != nil {
			if stmt.CatchBody, err = blockOf(n.Pos, n.CatchBody); err != nil {
				return nil, err
			}
			if n.Catch != "" {
				stmt.CatchParam = &ast.Identifier{Token: n.token(token.IDENT, n.Catch), Value: n.Catch}
			}
		}
		if n.Finally != nil {
			if stmt.Finally, err = blockOf(n.Pos, n.Finally); err != nil {
				return nil, err
			}
		}
		if stmt.CatchBody == nil && stmt.Finally == nil {
			return nil, fmt.Errorf("try: needs catch or finally")
		}
		return stmt, nil

	case "throw":
		value, err := required(n.Value, n.Kind, "value")
		if err != nil {
			return nil, err
		}
		return &ast.ThrowStatement{Token: n.token(token.KEYWORD, "throw"), Value: value}, nil

	case "use":
		if n.Namespace == "" {
			return nil, fmt.Errorf("use: missing namespace")
		}
		return &ast.UseStatement{Token: n.token(token.KEYWORD, "use"), Namespace: n.Namespace}, nil
	}

	// Bare expressions are accepted as expression statements.
	exp, err := expression(n)
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Token: exp.GetToken(), Expression: exp}, nil
}

func expression(n *rawNode) (ast.Expression, error) {
	if n == nil {
		return nil, fmt.Errorf("empty expression")
	}
	switch n.Kind {
	case "void":
		return &ast.VoidLiteral{Token: n.token(token.LITERAL, "void")}, nil
	case "null":
		return &ast.NullLiteral{Token: n.token(token.LITERAL, "null")}, nil
	case "bool":
		v, err := strconv.ParseBool(n.Literal)
		if err != nil {
			return nil, fmt.Errorf("bool: invalid literal %q", n.Literal)
		}
		return &ast.BooleanLiteral{Token: n.token(token.LITERAL, n.Literal), Value: v}, nil
	case "byte":
		v, err := strconv.ParseUint(n.Literal, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("byte: invalid literal %q", n.Literal)
		}
		return &ast.ByteLiteral{Token: n.token(token.LITERAL, n.Literal), Value: uint8(v)}, nil
	case "int":
		v, ok := new(big.Int).SetString(n.Literal, 0)
		if !ok {
			return nil, fmt.Errorf("int: invalid literal %q", n.Literal)
		}
		return &ast.IntegerLiteral{Token: n.token(token.LITERAL, n.Literal), Value: v}, nil
	case "decimal":
		v, err := decimal.NewFromString(n.Literal)
		if err != nil {
			return nil, fmt.Errorf("decimal: invalid literal %q", n.Literal)
		}
		return &ast.DecimalLiteral{Token: n.token(token.LITERAL, n.Literal), Value: v}, nil
	case "char":
		if utf8.RuneCountInString(n.Literal) != 1 {
			return nil, fmt.Errorf("char: literal %q must be a single character", n.Literal)
		}
		r, _ := utf8.DecodeRuneInString(n.Literal)
		return &ast.CharacterLiteral{Token: n.token(token.LITERAL, n.Literal), Value: r}, nil
	case "string":
		return &ast.StringLiteral{Token: n.token(token.LITERAL, n.Literal), Value: n.Literal}, nil

	case "ident":
		return n.identifier()

	case "list":
		elements, err := expressions(n.Elements)
		if err != nil {
			return nil, err
		}
		return &ast.ListLiteral{Token: n.token(token.PUNCT, "["), Elements: elements}, nil

	case "alloc":
		size, err := required(n.Size, n.Kind, "size")
		if err != nil {
			return nil, err
		}
		return &ast.ArrayAllocation{Token: n.token(token.KEYWORD, "new"), Size: size}, nil

	case "dict":
		lit := &ast.DictionaryLiteral{Token: n.token(token.PUNCT, "{")}
		for _, pair := range n.Pairs {
			key, err := required(pair.Key, n.Kind, "key")
			if err != nil {
				return nil, err
			}
			value, err := required(pair.Value, n.Kind, "value")
			if err != nil {
				return nil, err
			}
			lit.Pairs = append(lit.Pairs, &ast.DictionaryEntry{Key: key, Value: value})
		}
		return lit, nil

	case "object":
		lit := &ast.ObjectLiteral{Token: n.token(token.KEYWORD, "new")}
		for _, m := range n.Members {
			if m == nil || m.Name == "" {
				return nil, fmt.Errorf("object: member without name")
			}
			value, err := required(m.Value, "object member "+m.Name, "value")
			if err != nil {
				return nil, err
			}
			lit.Members = append(lit.Members, &ast.ObjectMember{Token: m.token(token.IDENT, m.Name), Name: m.Name, Value: value})
		}
		return lit, nil

	case "member":
		left, err := required(n.Left, n.Kind, "left")
		if err != nil {
			return nil, err
		}
		name, err := n.identifier()
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpression{Token: n.token(token.PUNCT, "."), Left: left, Member: name}, nil

	case "index":
		left, err := required(n.Left, n.Kind, "left")
		if err != nil {
			return nil, err
		}
		idx, err := required(n.Index, n.Kind, "index")
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpression{Token: n.token(token.PUNCT, "["), Left: left, Index: idx}, nil

	case "call":
		function, err := required(n.Function, n.Kind, "function")
		if err != nil {
			return nil, err
		}
		args, err := expressions(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpression{Token: n.token(token.PUNCT, "("), Function: function, Arguments: args}, nil

	case "infix":
		left, err := required(n.Left, n.Kind, "left")
		if err != nil {
			return nil, err
		}
		right, err := required(n.Right, n.Kind, "right")
		if err != nil {
			return nil, err
		}
		if n.Op == "" {
			return nil, fmt.Errorf("infix: missing op")
		}
		return &ast.InfixExpression{Token: n.token(token.OPERATOR, n.Op), Left: left, Operator: n.Op, Right: right}, nil

	case "prefix":
		right, err := required(n.Right, n.Kind, "right")
		if err != nil {
			return nil, err
		}
		if n.Op == "" {
			return nil, fmt.Errorf("prefix: missing op")
		}
		return &ast.PrefixExpression{Token: n.token(token.OPERATOR, n.Op), Operator: n.Op, Right: right}, nil

	case "ternary":
		cond, err := required(n.Cond, n.Kind, "cond")
		if err != nil {
			return nil, err
		}
		then, err := required(n.Then, n.Kind, "then")
		if err != nil {
			return nil, err
		}
		otherwise, err := required(n.Else, n.Kind, "else")
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpression{Token: n.token(token.OPERATOR, "?"), Condition: cond, Consequence: then, Alternative: otherwise}, nil

	case "func":
		body, err := blockOf(n.Pos, n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionLiteral{Token: n.token(token.KEYWORD, "func"), Parameters: n.parameters(), Body: body, Returns: n.Returns}, nil
	}
	return nil, fmt.Errorf("unknown node kind %q", n.Kind)
}

// UnitName derives a namespace name from a unit path: the base name with
// its .ast.yaml, .yaml or .yml suffix removed.
func UnitName(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".ast.yaml", ".ast.yml", ".yaml", ".yml"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
