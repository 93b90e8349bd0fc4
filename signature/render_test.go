package signature_test

import (
	"testing"

	"github.com/wippyai/wasm-exports/signature"
)

func TestValueTypeString(t *testing.T) {
	tests := []struct {
		vt   signature.ValueType
		want string
	}{
		{signature.I32, "i32"},
		{signature.I64, "i64"},
		{signature.F32, "f32"},
		{signature.F64, "f64"},
		{signature.V128, "v128"},
		{signature.FuncRef, "$func"},
		{signature.ExternRef, "$extern"},
	}

	seen := make(map[string]signature.ValueType)
	for _, tt := range tests {
		got := tt.vt.String()
		if got != tt.want {
			t.Errorf("ValueType(0x%02x).String() = %q, want %q", byte(tt.vt), got, tt.want)
		}
		if prev, dup := seen[got]; dup {
			t.Errorf("0x%02x and 0x%02x both render as %q", byte(prev), byte(tt.vt), got)
		}
		seen[got] = tt.vt
	}
}

func TestValueTypeStringUnknown(t *testing.T) {
	if got := signature.ValueType(0x01).String(); got != "unknown" {
		t.Errorf("got %q, want unknown", got)
	}
}

func TestMutabilityString(t *testing.T) {
	if got := signature.Const.String(); got != "const" {
		t.Errorf("Const = %q", got)
	}
	if got := signature.Var.String(); got != "var" {
		t.Errorf("Var = %q", got)
	}
}

func TestExternTypeString(t *testing.T) {
	vt := func(v ...signature.ValueType) []signature.ValueType { return v }

	tests := []struct {
		name string
		typ  signature.ExternType
		want string
	}{
		{"empty func", signature.Func(nil, nil), "fn() -> ()"},
		{"func", signature.Func(vt(signature.I32, signature.I64), vt(signature.F32)), "fn(i32, i64) -> (f32)"},
		{"multi result", signature.Func(nil, vt(signature.V128, signature.FuncRef)), "fn() -> (v128, $func)"},
		{"const global", signature.Global(signature.Const, signature.I32), "global const i32"},
		{"var global", signature.Global(signature.Var, signature.F64), "global var f64"},
		{"unbounded table", signature.Table(signature.TableType{Element: signature.FuncRef}), "table $func [0..]"},
		{"bounded table", signature.Table(signature.TableType{Element: signature.ExternRef, Min: 2, Max: signature.Max(5)}), "table $extern [2..5]"},
		{"zero max table", signature.Table(signature.TableType{Element: signature.FuncRef, Max: signature.Max(0)}), "table $func [0..0]"},
		{"shared memory64", signature.Memory(signature.MemoryType{Shared: true, Memory64: true, Min: 1, Max: signature.Max(16)}), "shared memory 64 [1..16]"},
		{"plain memory", signature.Memory(signature.MemoryType{}), "memory 32 [0..]"},
		{"large memory64", signature.Memory(signature.MemoryType{Memory64: true, Min: 1 << 40}), "memory 64 [1099511627776..]"},
		{"inverted limits", signature.Table(signature.TableType{Element: signature.FuncRef, Min: 9, Max: signature.Max(3)}), "table $func [9..3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExternTypeNilVariant(t *testing.T) {
	tests := []struct {
		kind signature.ExternKind
		want string
	}{
		{signature.KindFunc, "fn() -> ()"},
		{signature.KindGlobal, "global const unknown"},
		{signature.KindTable, "table unknown [0..]"},
		{signature.KindMemory, "memory 32 [0..]"},
		{signature.ExternKind(9), "unknown"},
	}
	for _, tt := range tests {
		got := signature.ExternType{Kind: tt.kind}.String()
		if got != tt.want {
			t.Errorf("kind %v: got %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestExportStringIsStable(t *testing.T) {
	exp := signature.Export{
		Name: "run",
		Type: signature.Func([]signature.ValueType{signature.I32}, nil),
	}
	first := exp.String()
	second := exp.String()
	if first != "run: fn(i32) -> ()" {
		t.Fatalf("got %q", first)
	}
	if first != second {
		t.Errorf("rendering changed between calls: %q vs %q", first, second)
	}
}

func TestExportNameNotEscaped(t *testing.T) {
	exp := signature.Export{Name: "a\tb", Type: signature.Global(signature.Var, signature.I64)}
	if got := exp.String(); got != "a\tb: global var i64" {
		t.Errorf("got %q", got)
	}
}
