package signature

import (
	"strconv"
	"strings"
)

func (v ValueType) String() string {
	switch v {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case V128:
		return "v128"
	case FuncRef:
		return "$func"
	case ExternRef:
		return "$extern"
	default:
		return "unknown"
	}
}

func (m Mutability) String() string {
	if m == Var {
		return "var"
	}
	return "const"
}

// String renders the signature as "fn(params) -> (results)".
func (f FuncType) String() string {
	var b strings.Builder
	f.write(&b)
	return b.String()
}

func (f FuncType) write(b *strings.Builder) {
	b.WriteString("fn(")
	writeValueTypes(b, f.Params)
	b.WriteString(") -> (")
	writeValueTypes(b, f.Results)
	b.WriteByte(')')
}

func writeValueTypes(b *strings.Builder, types []ValueType) {
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
}

// String renders the global as "global <mutability> <type>".
func (g GlobalType) String() string {
	var b strings.Builder
	g.write(&b)
	return b.String()
}

func (g GlobalType) write(b *strings.Builder) {
	b.WriteString("global ")
	b.WriteString(g.Mutability.String())
	b.WriteByte(' ')
	b.WriteString(g.ValueType.String())
}

// String renders the table as "table <elem> [min..max]".
func (t TableType) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TableType) write(b *strings.Builder) {
	b.WriteString("table ")
	b.WriteString(t.Element.String())
	b.WriteByte(' ')
	writeLimits(b, t.Min, t.Max)
}

// String renders the memory as "[shared ]memory <32|64> [min..max]".
func (m MemoryType) String() string {
	var b strings.Builder
	m.write(&b)
	return b.String()
}

func (m MemoryType) write(b *strings.Builder) {
	if m.Shared {
		b.WriteString("shared ")
	}
	b.WriteString("memory ")
	if m.Memory64 {
		b.WriteString("64")
	} else {
		b.WriteString("32")
	}
	b.WriteByte(' ')
	writeLimits(b, m.Min, m.Max)
}

// writeLimits writes "[min..max]", leaving the maximum out when absent.
// Limits are printed as given, even when min exceeds max.
func writeLimits(b *strings.Builder, lo uint64, hi *uint64) {
	b.WriteByte('[')
	b.WriteString(strconv.FormatUint(lo, 10))
	b.WriteString("..")
	if hi != nil {
		b.WriteString(strconv.FormatUint(*hi, 10))
	}
	b.WriteByte(']')
}

// String renders the active variant. A nil variant renders as its zero value.
func (e ExternType) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e ExternType) write(b *strings.Builder) {
	switch e.Kind {
	case KindFunc:
		if e.Func == nil {
			FuncType{}.write(b)
			return
		}
		e.Func.write(b)
	case KindGlobal:
		if e.Global == nil {
			GlobalType{}.write(b)
			return
		}
		e.Global.write(b)
	case KindTable:
		if e.Table == nil {
			TableType{}.write(b)
			return
		}
		e.Table.write(b)
	case KindMemory:
		if e.Memory == nil {
			MemoryType{}.write(b)
			return
		}
		e.Memory.write(b)
	default:
		b.WriteString("unknown")
	}
}

// String renders the export as "<name>: <type>". The name is not escaped.
func (e Export) String() string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteString(": ")
	e.Type.write(&b)
	return b.String()
}
