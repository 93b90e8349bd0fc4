package inspect_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/wasm-exports/errors"
	"github.com/wippyai/wasm-exports/inspect"
	"github.com/wippyai/wasm-exports/wasm"
)

// answerModule exports a function returning i32 and a bounded memory.
func answerModule(body []byte) []byte {
	m := &wasm.Module{
		Types:    []wasm.FuncType{{Params: simple(wasm.ValI32), Results: simple(wasm.ValI32)}},
		Funcs:    []uint32{0},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1, Max: ptrTo(uint64(2))}}},
		Code:     []wasm.FuncBody{{Raw: body}},
		Exports: []wasm.Export{
			{Name: "answer", Kind: wasm.KindFunc},
			{Name: "memory", Kind: wasm.KindMemory},
		},
	}
	return m.Encode()
}

// local.get 0; end
var identityBody = []byte{0x00, 0x20, 0x00, 0x0B}

func TestLoad(t *testing.T) {
	exports, err := inspect.Load(context.Background(), allKinds().Encode(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var buf bytes.Buffer
	if err := inspect.WriteExports(&buf, exports); err != nil {
		t.Fatalf("WriteExports: %v", err)
	}
	want := "imported_fn: fn(i32, i64) -> (f32)\n" +
		"run: fn() -> ()\n" +
		"imported_tbl: table $extern [2..5]\n" +
		"table: table $func [0..]\n" +
		"imported_mem: shared memory 32 [1..16]\n" +
		"memory: memory 64 [0..]\n" +
		"imported_g: global const v128\n" +
		"counter: global var f64\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestLoadDuplicateNames(t *testing.T) {
	m := &wasm.Module{
		Types:   []wasm.FuncType{{}},
		Funcs:   []uint32{0},
		Globals: []wasm.Global{{Type: wasm.GlobalType{Type: wasm.Simple(wasm.ValI32)}}},
		Code:    []wasm.FuncBody{emptyBody},
		Exports: []wasm.Export{
			{Name: "dup", Kind: wasm.KindGlobal},
			{Name: "dup", Kind: wasm.KindFunc},
		},
	}

	exports, err := inspect.Load(context.Background(), m.Encode(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	if exports[0].String() != "dup: global const i32" || exports[1].String() != "dup: fn() -> ()" {
		t.Errorf("unexpected exports %q, %q", exports[0].String(), exports[1].String())
	}
}

func TestLoadDecodeFailure(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not a wasm module")},
		{"bad version", []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}},
		{"function without body", (&wasm.Module{
			Types:   []wasm.FuncType{{}},
			Funcs:   []uint32{0},
			Exports: []wasm.Export{{Name: "f", Kind: wasm.KindFunc}},
		}).Encode()},
		{"export out of range", (&wasm.Module{
			Exports: []wasm.Export{{Name: "f", Kind: wasm.KindFunc, Idx: 7}},
		}).Encode()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exports, err := inspect.Load(context.Background(), tc.data, nil)
			if !stderrors.Is(err, errors.ErrDecode) {
				t.Fatalf("expected decode error, got %v", err)
			}
			if exports != nil {
				t.Errorf("expected no exports on failure, got %d", len(exports))
			}
		})
	}
}

func TestLoadCompile(t *testing.T) {
	exports, err := inspect.Load(context.Background(), answerModule(identityBody), &inspect.Config{Compile: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	if got := exports[0].String(); got != "answer: fn(i32) -> (i32)" {
		t.Errorf("got %q", got)
	}
	if got := exports[1].String(); got != "memory: memory 32 [1..2]" {
		t.Errorf("got %q", got)
	}
}

func TestLoadCompileFailure(t *testing.T) {
	// the body leaves nothing on the stack for the i32 result
	data := answerModule([]byte{0x00, 0x0B})

	if _, err := inspect.Load(context.Background(), data, nil); err != nil {
		t.Fatalf("structural load should pass, got %v", err)
	}

	_, err := inspect.Load(context.Background(), data, &inspect.Config{Compile: true})
	if !stderrors.Is(err, errors.ErrValidate) {
		t.Fatalf("expected validate error, got %v", err)
	}
	if stderrors.Is(err, errors.ErrDecode) {
		t.Error("compile failure should not be a decode error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.wasm")
	if err := os.WriteFile(path, answerModule(identityBody), 0o644); err != nil {
		t.Fatal(err)
	}

	exports, err := inspect.LoadFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(exports) != 2 {
		t.Errorf("expected 2 exports, got %d", len(exports))
	}
}

func TestLoadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.wasm")

	_, err := inspect.LoadFile(context.Background(), path, nil)
	if !stderrors.Is(err, errors.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("expected cause to be kept, got %v", err)
	}
}
