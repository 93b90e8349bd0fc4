package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindUnsupported,
				Path:   []string{"exports", "memory"},
				Detail: "tag exports",
			},
			contains: []string{"[decode]", "unsupported", "exports.memory", "tag exports"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name:     "error with cause",
			err:      Write("export line", errors.New("broken pipe")),
			contains: []string{"[io]", "write", "export line", "caused by", "broken pipe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Decode(cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindUnsupported,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindUnsupported}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseIO, Kind: KindUnsupported}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrDecode) {
		t.Error("errors.Is should match the phase sentinel")
	}
	if errors.Is(err, ErrIO) {
		t.Error("errors.Is should not match another phase sentinel")
	}
}

func TestPhaseSentinels(t *testing.T) {
	tests := []struct {
		err      error
		name     string
		decode   bool
		validate bool
		io       bool
	}{
		{Decode(errors.New("bad magic")), "decode", true, false, false},
		{Unsupported([]string{"exports", "exn"}, "tag exports"), "unsupported", true, false, false},
		{Compile(errors.New("invalid function body")), "compile", false, true, false},
		{Read("module.wasm", errors.New("no such file")), "read", false, false, true},
		{Write("export line", errors.New("broken pipe")), "write", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, ErrDecode); got != tt.decode {
				t.Errorf("Is(ErrDecode) = %v, want %v", got, tt.decode)
			}
			if got := errors.Is(tt.err, ErrValidate); got != tt.validate {
				t.Errorf("Is(ErrValidate) = %v, want %v", got, tt.validate)
			}
			if got := errors.Is(tt.err, ErrIO); got != tt.io {
				t.Errorf("Is(ErrIO) = %v, want %v", got, tt.io)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindOutOfBounds).
		Path("exports", "run").
		Value(42).
		Cause(cause).
		Detail("index %d, have %d", 42, 3).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindOutOfBounds {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
	}
	if len(err.Path) != 2 || err.Path[1] != "run" {
		t.Errorf("Path = %v", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if err.Detail != "index 42, have 3" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("Cause not set")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"decode", Decode(errors.New("x")), PhaseDecode, KindInvalidData},
		{"unsupported", Unsupported(nil, "gc types"), PhaseDecode, KindUnsupported},
		{"out of bounds", OutOfBounds([]string{"e"}, "function", 4, 2), PhaseDecode, KindOutOfBounds},
		{"compile", Compile(errors.New("x")), PhaseValidate, KindInvalidData},
		{"read", Read("a.wasm", errors.New("x")), PhaseIO, KindRead},
		{"write", Write("output", errors.New("x")), PhaseIO, KindWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase || tt.err.Kind != tt.kind {
				t.Errorf("got %s/%s, want %s/%s", tt.err.Phase, tt.err.Kind, tt.phase, tt.kind)
			}
		})
	}

	oob := OutOfBounds(nil, "memory", 4, 2)
	if oob.Detail != "memory index 4 out of bounds (length 2)" {
		t.Errorf("Detail = %q", oob.Detail)
	}
}
