package evaluator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/opal/internal/ast"
)

func TestThrowCatchPrint(t *testing.T) {
	out := mustRun(t,
		tryCatch(block(throw(intLit(42))), "e", block(printStmt(ident("e"))), nil),
	)
	if out != "42\n" {
		t.Errorf("got %q", out)
	}
}

func TestCatchInternalFault(t *testing.T) {
	out := mustRun(t,
		tryCatch(
			block(printStmt(ident("undefinedName"))),
			"e",
			block(
				printStmt(member(ident("e"), "kind")),
				printStmt(member(ident("e"), "message")),
			),
			nil,
		),
	)
	want := lines("NameNotFound", "'undefinedName' is not defined")
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestUncaughtThrowReachesHost(t *testing.T) {
	_, err := run(t, throw(strLit("boom")))
	var thrown *ThrowError
	if !errors.As(err, &thrown) {
		t.Fatalf("expected ThrowError, got %v", err)
	}
	if thrown.Value.Inspect() != "boom" {
		t.Errorf("thrown value = %s", thrown.Value.Inspect())
	}
}

func TestFinallyAlwaysRuns(t *testing.T) {
	out, err := run(t,
		tryCatch(block(throw(intLit(1))), "", nil, block(printStmt(strLit("cleanup")))),
	)
	if out != "cleanup\n" {
		t.Errorf("got %q", out)
	}
	if _, ok := err.(*ThrowError); !ok {
		t.Errorf("throw should propagate past finally, got %v", err)
	}

	out = mustRun(t,
		tryCatch(block(throw(intLit(1))), "e", block(printStmt(strLit("caught"))), block(printStmt(strLit("finally")))),
	)
	if out != lines("caught", "finally") {
		t.Errorf("got %q", out)
	}
}

func TestCompoundAssignment(t *testing.T) {
	out := mustRun(t,
		varStmt("x", intLit(1)),
		assign(ident("x"), "+=", intLit(2)),
		assign(ident("x"), "<<=", byteLit(2)),
		printStmt(ident("x")),
	)
	if out != "12\n" {
		t.Errorf("got %q", out)
	}
}

func TestCompoundAssignmentToUnboundName(t *testing.T) {
	_, err := run(t, assign(ident("y"), "+=", intLit(1)))
	if !IsKind(err, NameNotFound) {
		t.Fatalf("expected NameNotFound, got %v", err)
	}
}

func TestPlainAssignmentDeclaresOrUpdates(t *testing.T) {
	out := mustRun(t,
		assign(ident("y"), "=", intLit(5)),
		fn("bump", nil, false, assign(ident("y"), "=", intLit(6))),
		expr(call(ident("bump"))),
		printStmt(ident("y")),
	)
	if out != "6\n" {
		t.Errorf("got %q", out)
	}
}

func TestOverloadedDeclarations(t *testing.T) {
	out := mustRun(t,
		fn("f", []string{"a"}, true, ret(ident("a"))),
		fn("f", []string{"a", "b"}, true, ret(ident("b"))),
		printStmt(call(ident("f"), intLit(1))),
		printStmt(call(ident("f"), intLit(1), intLit(2))),
		printStmt(call(ident("typeOf"), ident("f"))),
	)
	if out != lines("1", "2", "METHOD_SET") {
		t.Errorf("got %q", out)
	}

	_, err := run(t,
		fn("f", []string{"a"}, true, ret(ident("a"))),
		fn("f", []string{"b"}, true, ret(ident("b"))),
	)
	if !IsKind(err, OverloadConflict) {
		t.Fatalf("expected OverloadConflict, got %v", err)
	}

	_, err = run(t,
		fn("f", []string{"a"}, true, ret(ident("a"))),
		expr(call(ident("f"))),
	)
	if !IsKind(err, OverloadNotFound) {
		t.Fatalf("expected OverloadNotFound, got %v", err)
	}
}

func TestClosuresCaptureDefiningScope(t *testing.T) {
	out := mustRun(t,
		fn("makeCounter", nil, true,
			varStmt("n", intLit(0)),
			ret(lambda(nil, true,
				assign(ident("n"), "+=", intLit(1)),
				ret(ident("n")),
			)),
		),
		varStmt("next", call(ident("makeCounter"))),
		expr(call(ident("next"))),
		printStmt(call(ident("next"))),
	)
	if out != "2\n" {
		t.Errorf("got %q", out)
	}
}

func TestWhileWithBreakAndContinue(t *testing.T) {
	out := mustRun(t,
		varStmt("i", intLit(0)),
		while(boolLit(true),
			assign(ident("i"), "+=", intLit(1)),
			ifStmt(infix(ident("i"), "==", intLit(2)), block(&ast.ContinueStatement{Token: tok("continue")}), nil),
			ifStmt(infix(ident("i"), ">", intLit(4)), block(&ast.BreakStatement{Token: tok("break")}), nil),
			printStmt(ident("i")),
		),
	)
	if out != lines("1", "3", "4") {
		t.Errorf("got %q", out)
	}
}

func TestForeach(t *testing.T) {
	out := mustRun(t,
		varStmt("sum", intLit(0)),
		foreach("x", list(intLit(1), byteLit(2), decLit("0.5")),
			assign(ident("sum"), "+=", ident("x")),
		),
		printStmt(ident("sum")),
		foreach("p", dict(strLit("a"), intLit(1), strLit("b"), intLit(2)),
			printStmt(infix(member(ident("p"), "key"), "+", member(ident("p"), "value"))),
		),
	)
	if out != lines("3.5", "a1", "b2") {
		t.Errorf("got %q", out)
	}
}

func TestDictionaryEnumerationSurvivesMutation(t *testing.T) {
	out := mustRun(t,
		varStmt("d", dict(intLit(1), intLit(10), intLit(2), intLit(20), intLit(3), intLit(30))),
		foreach("kv", ident("d"),
			printStmt(member(ident("kv"), "key")),
			expr(call(member(ident("d"), "remove"), member(ident("kv"), "key"))),
			assign(index(ident("d"), intLit(9)), "=", intLit(90)),
		),
		printStmt(call(member(ident("d"), "length"))),
		printStmt(ident("d")),
	)
	if out != lines("1", "2", "3", "1", "{9: 90}") {
		t.Errorf("got %q", out)
	}
}

func TestConditionMustBeBoolean(t *testing.T) {
	_, err := run(t, ifStmt(intLit(1), block(), nil))
	if !IsKind(err, OperableError) {
		t.Fatalf("expected OperableError, got %v", err)
	}
}

func TestIndexingAndMembers(t *testing.T) {
	out := mustRun(t,
		varStmt("a", list(intLit(1), intLit(2), intLit(3))),
		assign(index(ident("a"), intLit(1)), "=", intLit(5)),
		assign(index(ident("a"), intLit(2)), "*=", intLit(10)),
		printStmt(ident("a")),
		printStmt(call(member(ident("a"), "length"))),
		varStmt("d", dict()),
		assign(index(ident("d"), strLit("k")), "=", strLit("v")),
		printStmt(index(ident("d"), strLit("k"))),
		printStmt(call(member(ident("d"), "contains"), strLit("k"))),
	)
	if out != lines("[1, 5, 30]", "3", "v", "true") {
		t.Errorf("got %q", out)
	}

	_, err := run(t,
		varStmt("a", list(intLit(1))),
		printStmt(index(ident("a"), intLit(1))),
	)
	if !IsKind(err, IndexOutOfRange) {
		t.Fatalf("expected IndexOutOfRange, got %v", err)
	}
}

func TestStringMembersAreReadOnly(t *testing.T) {
	for _, op := range []string{"=", "+="} {
		_, err := run(t,
			varStmt("s", strLit("abc")),
			assign(member(ident("s"), "length"), op, intLit(1)),
		)
		if !IsKind(err, OperableError) {
			t.Errorf("%s: expected OperableError, got %v", op, err)
		}
	}
	out := mustRun(t,
		varStmt("s", strLit("abc")),
		varStmt("n", call(member(ident("s"), "length"))),
		printStmt(ident("n")),
	)
	if out != lines("3") {
		t.Errorf("got %q", out)
	}
}

func TestObjectLiteralOverrides(t *testing.T) {
	out := mustRun(t,
		varStmt("v", object(
			field("x", intLit(3)),
			field("__operator_add__", lambda([]string{"o"}, true,
				ret(infix(member(ident("this"), "x"), "+", member(ident("o"), "x"))),
			)),
			field("__operator_neg__", lambda(nil, true,
				ret(prefix("-", member(ident("this"), "x"))),
			)),
			field("toString", lambda(nil, true, ret(strLit("<v>")))),
		)),
		printStmt(infix(ident("v"), "+", ident("v"))),
		printStmt(prefix("-", ident("v"))),
		printStmt(ident("v")),
		printStmt(infix(strLit("value: "), "+", ident("v"))),
		assign(member(ident("v"), "x"), "+=", intLit(1)),
		printStmt(member(ident("v"), "x")),
	)
	if out != lines("6", "-3", "<v>", "value: <v>", "4") {
		t.Errorf("got %q", out)
	}

	_, err := run(t,
		varStmt("v", object(field("x", intLit(3)))),
		printStmt(member(ident("v"), "y")),
	)
	if !IsKind(err, MemberNotFound) {
		t.Fatalf("expected MemberNotFound, got %v", err)
	}
}

func TestStackExhaustionIsNotCatchable(t *testing.T) {
	var out bytes.Buffer
	rt := newTestRuntime(&out)
	rt.MaxDepth = 200
	_, err := rt.Interpret(context.Background(), &ast.Program{Namespace: "deep", Statements: []ast.Statement{
		fn("f", []string{"n"}, true, ret(call(ident("f"), ident("n")))),
		tryCatch(block(expr(call(ident("f"), intLit(1)))), "e", block(printStmt(strLit("caught"))), nil),
	}})
	if !errors.Is(err, ErrStackExhausted) {
		t.Fatalf("expected ErrStackExhausted, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("catch must not run, printed %q", out.String())
	}
}

func TestCancelledContext(t *testing.T) {
	rt := newTestRuntime(&bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := rt.Interpret(ctx, &ast.Program{Namespace: "c", Statements: []ast.Statement{
		while(boolLit(true)),
	}})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestFaultCarriesPositionAndStack(t *testing.T) {
	_, err := run(t,
		fn("inner", nil, false, at(7, expr(call(ident("missing"))))),
		at(9, expr(call(ident("inner")))),
	)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected RuntimeError, got %v", err)
	}
	if rtErr.Kind != NameNotFound || rtErr.Pos.Line != 7 {
		t.Errorf("got %s at line %d", rtErr.Kind, rtErr.Pos.Line)
	}
	if len(rtErr.StackTrace) != 1 || rtErr.StackTrace[0].Name != "inner" || rtErr.StackTrace[0].Line != 9 {
		t.Errorf("stack trace = %+v", rtErr.StackTrace)
	}
	if !strings.Contains(rtErr.Full(), "at inner (test:9:1)") {
		t.Errorf("Full() = %s", rtErr.Full())
	}
}

func TestUseImportsSnapshot(t *testing.T) {
	var out bytes.Buffer
	rt := newTestRuntime(&out)
	ctx := context.Background()
	_, err := rt.Interpret(ctx, &ast.Program{Namespace: "lib", Statements: []ast.Statement{
		varStmt("greeting", strLit("hi")),
		fn("shout", []string{"s"}, true, ret(infix(ident("s"), "+", strLit("!")))),
	}})
	if err != nil {
		t.Fatalf("lib: %v", err)
	}
	_, err = rt.Interpret(ctx, &ast.Program{Namespace: "app", Statements: []ast.Statement{
		&ast.UseStatement{Token: tok("use"), Namespace: "lib"},
		printStmt(call(ident("shout"), ident("greeting"))),
		assign(ident("greeting"), "=", strLit("changed")),
	}})
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	if out.String() != "hi!\n" {
		t.Errorf("got %q", out.String())
	}
	lib, _ := rt.Namespace("lib")
	if v, _ := lib.Lookup("greeting"); v.Inspect() != "hi" {
		t.Errorf("import must not alias the source namespace, lib.greeting = %s", v.Inspect())
	}

	_, err = rt.Interpret(ctx, &ast.Program{Namespace: "bad", Statements: []ast.Statement{
		&ast.UseStatement{Token: tok("use"), Namespace: "nowhere"},
	}})
	if !IsKind(err, NameNotFound) {
		t.Errorf("expected NameNotFound, got %v", err)
	}
}

func TestImportedBindingsAfterUse(t *testing.T) {
	var out bytes.Buffer
	rt := newTestRuntime(&out)
	ctx := context.Background()
	_, err := rt.Interpret(ctx, &ast.Program{Namespace: "lib", Statements: []ast.Statement{
		varStmt("greeting", strLit("hi")),
		varStmt("count", intLit(1)),
		fn("bump", nil, false, assign(ident("count"), "+=", intLit(10))),
	}})
	if err != nil {
		t.Fatalf("lib: %v", err)
	}
	_, err = rt.Interpret(ctx, &ast.Program{Namespace: "app", Statements: []ast.Statement{
		&ast.UseStatement{Token: tok("use"), Namespace: "lib"},
		assign(ident("greeting"), "+=", strLit("!")),
		fn("report", nil, false,
			printStmt(ident("greeting")),
			printStmt(ident("count")),
		),
	}})
	if err != nil {
		t.Fatalf("app: %v", err)
	}

	app, _ := rt.Namespace("app")
	lib, _ := rt.Namespace("lib")
	if v, ok := app.LookupImported("greeting"); !ok || v.Inspect() != "hi!" {
		t.Errorf("compound assignment must update the imported binding, got %v", v)
	}
	if _, ok := app.Local.GetLocal("greeting"); ok {
		t.Errorf("compound assignment must not declare a local binding")
	}
	if v, _ := lib.Lookup("greeting"); v.Inspect() != "hi" {
		t.Errorf("lib.greeting = %s", v.Inspect())
	}

	if _, err := rt.Invoke(ctx, "lib", "bump"); err != nil {
		t.Fatalf("bump: %v", err)
	}
	if v, _ := lib.Lookup("count"); v.Inspect() != "11" {
		t.Fatalf("lib.count = %s", v.Inspect())
	}
	if _, err := rt.Invoke(ctx, "app", "report"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if out.String() != lines("hi!", "1") {
		t.Errorf("imports are a snapshot taken at use, got %q", out.String())
	}
}

func TestInvokeEntry(t *testing.T) {
	var out bytes.Buffer
	rt := newTestRuntime(&out)
	ctx := context.Background()
	_, err := rt.Interpret(ctx, &ast.Program{Namespace: "app", Statements: []ast.Statement{
		fn("main", []string{"args"}, false, printStmt(call(ident("typeOf"), ident("args")))),
		fn("greet", []string{"name"}, true, ret(infix(strLit("hello "), "+", ident("name")))),
	}})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if _, err := rt.InvokeEntry(ctx, "app", "main", nil); err != nil {
		t.Fatalf("InvokeEntry: %v", err)
	}
	if out.String() != "VOID\n" {
		t.Errorf("got %q", out.String())
	}

	res, err := rt.Invoke(ctx, "app", "greet", NewString("opal"))
	if err != nil || res.Inspect() != "hello opal" {
		t.Errorf("Invoke = %v, %v", res, err)
	}
	if _, err := rt.Invoke(ctx, "app", "nope"); !IsKind(err, NameNotFound) {
		t.Errorf("expected NameNotFound, got %v", err)
	}
}

func TestExternBinding(t *testing.T) {
	var out bytes.Buffer
	rt := newTestRuntime(&out)
	double := NewNativeMethod("double", 1, RoleFunction, func(e *Evaluator, args []Object) (Object, error) {
		return e.applyBinary(OpMul, args[0], NewInteger(2))
	})
	if err := rt.RegisterExtern("host.double", double); err != nil {
		t.Fatalf("RegisterExtern: %v", err)
	}
	_, err := rt.Interpret(context.Background(), &ast.Program{Namespace: "x", Statements: []ast.Statement{
		&ast.ExternStatement{Token: tok("extern"), Name: ident("double"), Identifier: "host.double"},
		&ast.ExternStatement{Token: tok("extern"), Name: ident("pow"), Identifier: "math.pow"},
		printStmt(call(ident("double"), intLit(21))),
		printStmt(call(ident("pow"), intLit(2), intLit(10))),
	}})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out.String() != lines("42", "1024") {
		t.Errorf("got %q", out.String())
	}
}

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	rt := newTestRuntime(&out)
	rt.SetInput(strings.NewReader("first\r\nsecond"))
	_, err := rt.Interpret(context.Background(), &ast.Program{Namespace: "io", Statements: []ast.Statement{
		printStmt(call(ident("readLine"))),
		printStmt(call(ident("readLine"))),
		printStmt(call(ident("readLine"))),
	}})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out.String() != lines("first", "second", "null") {
		t.Errorf("got %q", out.String())
	}
}
