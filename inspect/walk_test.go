package inspect_test

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/wasm-exports/errors"
	"github.com/wippyai/wasm-exports/inspect"
	"github.com/wippyai/wasm-exports/signature"
)

func TestWriteExports(t *testing.T) {
	exports := []signature.Export{
		{Name: "zeta", Type: signature.Func(nil, nil)},
		{Name: "alpha", Type: signature.Global(signature.Var, signature.F64)},
		{Name: "zeta", Type: signature.Memory(signature.MemoryType{Min: 1})},
		{Name: "", Type: signature.Table(signature.TableType{Element: signature.FuncRef, Max: signature.Max(0)})},
	}

	var buf bytes.Buffer
	if err := inspect.WriteExports(&buf, exports); err != nil {
		t.Fatalf("WriteExports: %v", err)
	}

	want := "zeta: fn() -> ()\n" +
		"alpha: global var f64\n" +
		"zeta: memory 32 [1..]\n" +
		": table $func [0..0]\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != len(exports) {
		t.Errorf("expected %d lines, got %d", len(exports), lines)
	}
}

func TestWriteExportsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := inspect.WriteExports(&buf, nil); err != nil {
		t.Fatalf("WriteExports: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWriteExportsNamesVerbatim(t *testing.T) {
	exports := []signature.Export{
		{Name: "tab\there", Type: signature.Func(nil, nil)},
		{Name: "nl\nname", Type: signature.Func(nil, nil)},
	}
	var buf bytes.Buffer
	if err := inspect.WriteExports(&buf, exports); err != nil {
		t.Fatalf("WriteExports: %v", err)
	}
	want := "tab\there: fn() -> ()\nnl\nname: fn() -> ()\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// failingWriter accepts n writes and fails every write after that.
type failingWriter struct {
	lines []string
	n     int
}

var errBrokenPipe = stderrors.New("broken pipe")

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(w.lines) >= w.n {
		return 0, errBrokenPipe
	}
	w.lines = append(w.lines, string(p))
	return len(p), nil
}

func TestWriteExportsStopsOnFailure(t *testing.T) {
	exports := []signature.Export{
		{Name: "a", Type: signature.Func(nil, nil)},
		{Name: "b", Type: signature.Func(nil, nil)},
		{Name: "c", Type: signature.Func(nil, nil)},
	}
	w := &failingWriter{n: 1}

	err := inspect.WriteExports(w, exports)
	if !stderrors.Is(err, errors.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if !stderrors.Is(err, errBrokenPipe) {
		t.Errorf("expected cause to be kept, got %v", err)
	}
	if len(w.lines) != 1 || w.lines[0] != "a: fn() -> ()\n" {
		t.Errorf("expected only the first line written, got %q", w.lines)
	}
}
