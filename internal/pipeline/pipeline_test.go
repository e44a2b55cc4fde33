package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/opal/internal/evaluator"
)

func testRuntime(out io.Writer) *evaluator.RuntimeEnvironment {
	rt := evaluator.NewRuntimeEnvironment()
	rt.Out = out
	rt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return rt
}

func writeUnit(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderInterpretsUnit(t *testing.T) {
	var out bytes.Buffer
	rt := testRuntime(&out)
	path := writeUnit(t, "lib.ast.yaml", `
statements:
  - kind: var
    name: answer
    value: {kind: int, literal: "42"}
  - kind: call
    function: {kind: ident, name: print}
    args: [{kind: ident, name: answer}]
`)

	res := Loader(rt).Run(NewPipelineContext(context.Background(), path))
	if res.Failed() {
		t.Fatalf("load failed: %v", res.Err())
	}
	if res.AstRoot.Namespace != "lib" || res.Namespace == nil || res.Namespace.Name != "lib" {
		t.Errorf("namespace = %q", res.AstRoot.Namespace)
	}
	if v, ok := res.Namespace.Lookup("answer"); !ok || v.Inspect() != "42" {
		t.Errorf("answer = %v", v)
	}
	if out.String() != "42\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestStagesStopAfterFailure(t *testing.T) {
	rt := testRuntime(io.Discard)

	res := Loader(rt).Run(NewPipelineContext(context.Background(), filepath.Join(t.TempDir(), "absent.ast.yaml")))
	if !res.Failed() || res.AstRoot != nil {
		t.Fatalf("missing file: errors=%v root=%v", res.Errors, res.AstRoot)
	}
	if len(res.Errors) != 1 {
		t.Errorf("expected one error, got %d", len(res.Errors))
	}

	bad := writeUnit(t, "bad.ast.yaml", "statements: [{kind: nope}]")
	res = Loader(rt).Run(NewPipelineContext(context.Background(), bad))
	if !res.Failed() || !strings.Contains(res.Err().Error(), "bad.ast.yaml") {
		t.Errorf("decode error = %v", res.Err())
	}
	if _, ok := rt.Namespace("bad"); ok {
		t.Errorf("a unit that failed to decode must not create a namespace")
	}
}

func TestPresetSourceSkipsRead(t *testing.T) {
	rt := testRuntime(io.Discard)
	ctx := NewPipelineContext(context.Background(), "inline.ast.yaml")
	ctx.Source = []byte("statements: [{kind: var, name: x}]")

	res := Loader(rt).Run(ctx)
	if res.Failed() {
		t.Fatalf("load failed: %v", res.Err())
	}
	if v, ok := res.Namespace.Lookup("x"); !ok || v != evaluator.NULL {
		t.Errorf("x = %v", v)
	}
}

func TestUncaughtFaultIsRecorded(t *testing.T) {
	rt := testRuntime(io.Discard)
	path := writeUnit(t, "boom.ast.yaml", `
statements:
  - kind: throw
    value: {kind: string, literal: "boom"}
`)
	res := Loader(rt).Run(NewPipelineContext(context.Background(), path))
	if !res.Failed() {
		t.Fatalf("expected failure")
	}
	var thrown *evaluator.ThrowError
	if !errors.As(res.Err(), &thrown) || thrown.Value.Inspect() != "boom" {
		t.Errorf("error = %v", res.Err())
	}
}

func TestLoaderRunsUnitsInOrder(t *testing.T) {
	var out bytes.Buffer
	rt := testRuntime(&out)
	ctx := context.Background()

	loader := Loader(rt)
	for _, name := range []string{"greet.ast.yaml", "main.ast.yaml"} {
		res := loader.Run(NewPipelineContext(ctx, filepath.Join("testdata", name)))
		if res.Failed() {
			t.Fatalf("%s: %v", name, res.Err())
		}
	}
	if _, ok := rt.Namespace("greet"); !ok {
		t.Fatalf("namespace greet was not derived from the file name")
	}

	if _, err := rt.InvokeEntry(ctx, "main", "main", []string{"world"}); err != nil {
		t.Fatalf("InvokeEntry: %v", err)
	}
	want := "6.5\nmedium\nx\nhello, world\n"
	if got := out.String(); got != want {
		t.Errorf("output mismatch:\nwant %q\n got %q", want, got)
	}
}
