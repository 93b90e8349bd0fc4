package wasm

import "encoding/binary"

// Encode encodes the module to WebAssembly binary format.
// Globals without an init expression get a zero-valued constant of their type.
func (m *Module) Encode() []byte {
	w := &encoder{}

	w.buf = binary.LittleEndian.AppendUint32(w.buf, Magic)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, Version)

	if len(m.Types) > 0 {
		sec := &encoder{}
		sec.u32(uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.u8(FuncTypeByte)
			writeValTypes(sec, ft.Params)
			writeValTypes(sec, ft.Results)
		}
		w.section(SectionType, sec)
	}

	if len(m.Imports) > 0 {
		sec := &encoder{}
		sec.u32(uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec.name(imp.Module)
			sec.name(imp.Name)
			sec.u8(imp.Desc.Kind)
			switch imp.Desc.Kind {
			case KindFunc:
				sec.u32(imp.Desc.TypeIdx)
			case KindTable:
				if imp.Desc.Table != nil {
					writeTableType(sec, *imp.Desc.Table)
				}
			case KindMemory:
				if imp.Desc.Memory != nil {
					writeLimits(sec, imp.Desc.Memory.Limits)
				}
			case KindGlobal:
				if imp.Desc.Global != nil {
					writeGlobalType(sec, *imp.Desc.Global)
				}
			case KindTag:
				sec.u8(0)
				sec.u32(imp.Desc.TypeIdx)
			}
		}
		w.section(SectionImport, sec)
	}

	if len(m.Funcs) > 0 {
		sec := &encoder{}
		sec.u32(uint32(len(m.Funcs)))
		for _, typeIdx := range m.Funcs {
			sec.u32(typeIdx)
		}
		w.section(SectionFunction, sec)
	}

	if len(m.Tables) > 0 {
		sec := &encoder{}
		sec.u32(uint32(len(m.Tables)))
		for _, t := range m.Tables {
			writeTableType(sec, t)
		}
		w.section(SectionTable, sec)
	}

	if len(m.Memories) > 0 {
		sec := &encoder{}
		sec.u32(uint32(len(m.Memories)))
		for _, mem := range m.Memories {
			writeLimits(sec, mem.Limits)
		}
		w.section(SectionMemory, sec)
	}

	if len(m.Globals) > 0 {
		sec := &encoder{}
		sec.u32(uint32(len(m.Globals)))
		for _, g := range m.Globals {
			writeGlobalType(sec, g.Type)
			if len(g.Init) > 0 {
				sec.raw(g.Init)
			} else {
				writeZeroInit(sec, g.Type.Type)
			}
		}
		w.section(SectionGlobal, sec)
	}

	if len(m.Exports) > 0 {
		sec := &encoder{}
		sec.u32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.name(exp.Name)
			sec.u8(exp.Kind)
			sec.u32(exp.Idx)
		}
		w.section(SectionExport, sec)
	}

	if len(m.Code) > 0 {
		sec := &encoder{}
		sec.u32(uint32(len(m.Code)))
		for _, body := range m.Code {
			sec.u32(uint32(len(body.Raw)))
			sec.raw(body.Raw)
		}
		w.section(SectionCode, sec)
	}

	return w.buf
}

func writeValType(w *encoder, t ExtValType) {
	w.u8(byte(t.ValType))
	if t.RefType != nil && (t.ValType == ValRefNull || t.ValType == ValRef) {
		w.s64(t.RefType.HeapType)
	}
}

func writeValTypes(w *encoder, types []ExtValType) {
	w.u32(uint32(len(types)))
	for _, t := range types {
		writeValType(w, t)
	}
}

func writeLimits(w *encoder, l Limits) {
	var flags byte
	if l.Max != nil {
		flags |= LimitsHasMax
	}
	if l.Shared {
		flags |= LimitsShared
	}
	if l.Memory64 {
		flags |= LimitsMemory64
	}
	w.u8(flags)

	if l.Memory64 {
		w.u64(l.Min)
		if l.Max != nil {
			w.u64(*l.Max)
		}
	} else {
		w.u32(uint32(l.Min))
		if l.Max != nil {
			w.u32(uint32(*l.Max))
		}
	}
}

func writeTableType(w *encoder, t TableType) {
	writeValType(w, t.Elem)
	writeLimits(w, t.Limits)
}

func writeGlobalType(w *encoder, g GlobalType) {
	writeValType(w, g.Type)
	if g.Mutable {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// writeZeroInit writes the constant expression producing the zero value of t.
func writeZeroInit(w *encoder, t ExtValType) {
	switch t.ValType {
	case ValI32:
		w.u8(OpI32Const)
		w.u8(0)
	case ValI64:
		w.u8(OpI64Const)
		w.u8(0)
	case ValF32:
		w.u8(OpF32Const)
		w.raw(make([]byte, 4))
	case ValF64:
		w.u8(OpF64Const)
		w.raw(make([]byte, 8))
	case ValV128:
		w.u8(OpPrefixSIMD)
		w.u32(SimdV128Const)
		w.raw(make([]byte, 16))
	case ValFuncRef:
		w.u8(OpRefNull)
		w.s64(HeapTypeFunc)
	case ValExtern:
		w.u8(OpRefNull)
		w.s64(HeapTypeExtern)
	case ValRefNull, ValRef:
		w.u8(OpRefNull)
		if t.RefType != nil {
			w.s64(t.RefType.HeapType)
		} else {
			w.s64(HeapTypeFunc)
		}
	}
	w.u8(OpEnd)
}

// encoder appends binary-format primitives to a byte slice.
type encoder struct {
	buf []byte
}

func (e *encoder) u8(b byte) {
	e.buf = append(e.buf, b)
}

func (e *encoder) raw(data []byte) {
	e.buf = append(e.buf, data...)
}

func (e *encoder) u32(v uint32) {
	e.u64(uint64(v))
}

func (e *encoder) u64(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

func (e *encoder) s64(v int64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			e.buf = append(e.buf, b)
			return
		}
		e.buf = append(e.buf, b|0x80)
	}
}

func (e *encoder) name(s string) {
	e.u32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

// section writes id followed by the size-prefixed body.
func (e *encoder) section(id byte, body *encoder) {
	e.u8(id)
	e.u32(uint32(len(body.buf)))
	e.raw(body.buf)
}
