package wasm

import (
	"errors"
	"fmt"
	"io"

	"github.com/wippyai/wasm-exports/wasm/internal/binary"
)

// Parsing errors returned by ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
	ErrGCTypes        = errors.New("gc type definitions are not supported")
)

// ParseModule parses a WebAssembly binary module.
// Only the sections that shape export types are decoded; the rest are skipped
// after their framing and ordering are checked.
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	m := &Module{}

	// Section order is canonical order, not section ID order
	var lastSectionOrder int

	for r.Len() > 0 {
		sectionID, err := r.ReadByte()
		if err != nil {
			return nil, r.WrapError("section header", err)
		}

		if sectionID != SectionCustom {
			order := sectionOrder(sectionID)
			if order == 0 {
				return nil, fmt.Errorf("unknown section ID: 0x%02x", sectionID)
			}
			if order <= lastSectionOrder {
				return nil, fmt.Errorf("section %d appears out of order", sectionID)
			}
			lastSectionOrder = order
		}

		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, r.WrapError("section size", err)
		}

		sectionData, err := r.ReadBytes(int(sectionSize))
		if err != nil {
			return nil, r.WrapError("section data", err)
		}

		name, parse := sectionParser(sectionID)
		if parse == nil {
			continue
		}

		sr := binary.NewReader(sectionData)
		if err := parse(sr, m); err != nil {
			return nil, fmt.Errorf("%s section: %w", name, err)
		}
		if sr.Len() != 0 {
			return nil, fmt.Errorf("%s section: %d trailing bytes", name, sr.Len())
		}
	}

	return m, nil
}

type sectionParseFunc func(*binary.Reader, *Module) error

// sectionParser returns the decoder for a section, or nil if it is skipped.
func sectionParser(id byte) (string, sectionParseFunc) {
	switch id {
	case SectionCustom:
		return "custom", parseCustomSection
	case SectionType:
		return "type", parseTypeSection
	case SectionImport:
		return "import", parseImportSection
	case SectionFunction:
		return "function", parseFunctionSection
	case SectionTable:
		return "table", parseTableSection
	case SectionMemory:
		return "memory", parseMemorySection
	case SectionGlobal:
		return "global", parseGlobalSection
	case SectionExport:
		return "export", parseExportSection
	case SectionCode:
		return "code", parseCodeSection
	default:
		return "", nil
	}
}

// sectionOrder returns the canonical ordering for a section ID, or 0 if unknown.
func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6 // Tag comes after Memory, before Global
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11 // DataCount must come before Code
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 0
	}
}

// parseCustomSection checks the section name and discards the payload.
func parseCustomSection(r *binary.Reader, _ *Module) error {
	if _, err := r.ReadName(); err != nil {
		return err
	}
	return r.Skip(r.Len())
}

func parseTypeSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Types = make([]FuncType, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("read type form at index %d: %w", i, err)
		}
		switch form {
		case FuncTypeByte:
		case RecTypeByte, SubTypeByte, SubFinalByte, StructTypeByte, ArrayTypeByte:
			return ErrGCTypes
		default:
			return fmt.Errorf("unsupported type form 0x%02x", form)
		}
		ft, err := readFuncType(r)
		if err != nil {
			return err
		}
		m.Types = append(m.Types, ft)
	}
	return nil
}

func readFuncType(r *binary.Reader) (FuncType, error) {
	params, err := readValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	results, err := readValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	return FuncType{Params: params, Results: results}, nil
}

func readValTypes(r *binary.Reader) ([]ExtValType, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	types := make([]ExtValType, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		vt, err := readValType(r)
		if err != nil {
			return nil, err
		}
		types = append(types, vt)
	}
	return types, nil
}

// readValType reads a value type, including the heap type of typed references.
func readValType(r *binary.Reader) (ExtValType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return ExtValType{}, err
	}
	vt := ValType(b)
	if vt != ValRefNull && vt != ValRef {
		return ExtValType{ValType: vt}, nil
	}
	heapType, err := r.ReadS64()
	if err != nil {
		return ExtValType{}, err
	}
	return ExtValType{
		ValType: vt,
		RefType: &RefType{Nullable: vt == ValRefNull, HeapType: heapType},
	}, nil
}

func parseImportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Imports = make([]Import, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		module, err := r.ReadName()
		if err != nil {
			return err
		}
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}

		imp := Import{Module: module, Name: name, Desc: ImportDesc{Kind: kind}}

		switch kind {
		case KindFunc:
			imp.Desc.TypeIdx, err = r.ReadU32()
			if err != nil {
				return err
			}
		case KindTable:
			table, err := readTableType(r)
			if err != nil {
				return err
			}
			imp.Desc.Table = &table
		case KindMemory:
			memory, err := readMemoryType(r)
			if err != nil {
				return err
			}
			imp.Desc.Memory = &memory
		case KindGlobal:
			global, err := readGlobalType(r)
			if err != nil {
				return err
			}
			imp.Desc.Global = &global
		case KindTag:
			// attribute byte and type index
			if _, err := r.ReadByte(); err != nil {
				return err
			}
			if imp.Desc.TypeIdx, err = r.ReadU32(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown import kind: %d", kind)
		}

		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func parseFunctionSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Funcs = make([]uint32, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		m.Funcs = append(m.Funcs, idx)
	}
	return nil
}

func parseTableSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Tables = make([]TableType, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		table, err := readTableType(r)
		if err != nil {
			return err
		}
		m.Tables = append(m.Tables, table)
	}
	return nil
}

func parseMemorySection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Memories = make([]MemoryType, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		memory, err := readMemoryType(r)
		if err != nil {
			return err
		}
		m.Memories = append(m.Memories, memory)
	}
	return nil
}

func parseGlobalSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Globals = make([]Global, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		globalType, err := readGlobalType(r)
		if err != nil {
			return err
		}
		init, err := readInitExpr(r)
		if err != nil {
			return fmt.Errorf("global %d init: %w", i, err)
		}
		m.Globals = append(m.Globals, Global{Type: globalType, Init: init})
	}
	return nil
}

func parseExportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Exports = make([]Export, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		if kind > KindTag {
			return fmt.Errorf("invalid export kind: 0x%02x", kind)
		}
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Idx: idx})
	}
	return nil
}

func parseCodeSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Code = make([]FuncBody, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		bodySize, err := r.ReadU32()
		if err != nil {
			return err
		}
		body, err := r.ReadBytes(int(bodySize))
		if err != nil {
			return fmt.Errorf("function body %d: %w", i, err)
		}
		m.Code = append(m.Code, FuncBody{Raw: body})
	}
	return nil
}

func readLimits(r *binary.Reader) (Limits, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return Limits{}, err
	}
	if flags&^(LimitsHasMax|LimitsShared|LimitsMemory64) != 0 {
		return Limits{}, fmt.Errorf("invalid limits flags 0x%02x", flags)
	}

	l := Limits{
		Shared:   flags&LimitsShared != 0,
		Memory64: flags&LimitsMemory64 != 0,
	}

	readBound := r.ReadU64
	if !l.Memory64 {
		readBound = func() (uint64, error) {
			v, err := r.ReadU32()
			return uint64(v), err
		}
	}

	if l.Min, err = readBound(); err != nil {
		return Limits{}, err
	}
	if flags&LimitsHasMax != 0 {
		maxVal, err := readBound()
		if err != nil {
			return Limits{}, err
		}
		l.Max = &maxVal
	}

	if l.Max != nil && l.Min > *l.Max {
		return Limits{}, fmt.Errorf("limits min (%d) exceeds max (%d)", l.Min, *l.Max)
	}

	return l, nil
}

func readTableType(r *binary.Reader) (TableType, error) {
	first, err := r.ReadByte()
	if err != nil {
		return TableType{}, err
	}

	// Table with init expression: 0x40 0x00 reftype limits expr
	if first == TableInitPrefix {
		zero, err := r.ReadByte()
		if err != nil {
			return TableType{}, err
		}
		if zero != 0x00 {
			return TableType{}, fmt.Errorf("expected 0x00 after 0x40, got 0x%02x", zero)
		}
		elem, err := readValType(r)
		if err != nil {
			return TableType{}, err
		}
		limits, err := readLimits(r)
		if err != nil {
			return TableType{}, err
		}
		if _, err := readInitExpr(r); err != nil {
			return TableType{}, err
		}
		return TableType{Elem: elem, Limits: limits}, nil
	}

	elem := ExtValType{ValType: ValType(first)}
	if elem.ValType == ValRefNull || elem.ValType == ValRef {
		heapType, err := r.ReadS64()
		if err != nil {
			return TableType{}, err
		}
		elem.RefType = &RefType{Nullable: elem.ValType == ValRefNull, HeapType: heapType}
	}

	limits, err := readLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{Elem: elem, Limits: limits}, nil
}

func readMemoryType(r *binary.Reader) (MemoryType, error) {
	limits, err := readLimits(r)
	if err != nil {
		return MemoryType{}, err
	}
	return MemoryType{Limits: limits}, nil
}

func readGlobalType(r *binary.Reader) (GlobalType, error) {
	vt, err := readValType(r)
	if err != nil {
		return GlobalType{}, err
	}
	mut, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, err
	}
	if mut > 1 {
		return GlobalType{}, fmt.Errorf("invalid global mutability 0x%02x", mut)
	}
	return GlobalType{Type: vt, Mutable: mut == 1}, nil
}

// readInitExpr reads a constant expression up to and including its end opcode.
func readInitExpr(r *binary.Reader) ([]byte, error) {
	start := r.Position()
	var expr []byte
	for {
		op, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		expr = append(expr, op)
		if op == OpEnd {
			return expr, nil
		}
		imm, err := skipInitExprImmediate(r, op)
		if err != nil {
			return nil, fmt.Errorf("constant expression at %d: %w", start, err)
		}
		expr = append(expr, imm...)
	}
}

// skipInitExprImmediate consumes the immediates of a constant-expression
// opcode and returns their raw bytes.
func skipInitExprImmediate(r *binary.Reader, op byte) ([]byte, error) {
	switch op {
	case OpI32Const, OpI64Const, OpGlobalGet, OpRefNull, OpRefFunc:
		return readLEB128Bytes(r)
	case OpF32Const:
		return r.ReadBytes(4)
	case OpF64Const:
		return r.ReadBytes(8)
	case OpI32Add, OpI32Sub, OpI32Mul, OpI64Add, OpI64Sub, OpI64Mul:
		return nil, nil
	case OpPrefixSIMD:
		sub, err := readLEB128Bytes(r)
		if err != nil {
			return nil, err
		}
		if subop := leb128Value(sub); subop != uint64(SimdV128Const) {
			return nil, fmt.Errorf("simd opcode %d not allowed in constant expression", subop)
		}
		v, err := r.ReadBytes(16)
		if err != nil {
			return nil, err
		}
		return append(sub, v...), nil
	default:
		return nil, fmt.Errorf("opcode 0x%02x not allowed in constant expression", op)
	}
}

// leb128Value decodes raw unsigned LEB128 bytes as returned by readLEB128Bytes.
// Non-minimal encodings decode to the same value as minimal ones.
func leb128Value(raw []byte) uint64 {
	var v uint64
	for i, b := range raw {
		v |= uint64(b&0x7f) << (7 * uint(i))
	}
	return v
}

func readLEB128Bytes(r *binary.Reader) ([]byte, error) {
	start := r.Position()
	var out []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		if b&0x80 == 0 {
			return out, nil
		}
		if r.Position()-start >= 10 {
			return nil, binary.ErrOverflow
		}
	}
}
