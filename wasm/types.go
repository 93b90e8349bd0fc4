package wasm

// Module holds the parts of a WebAssembly module that describe its exports.
// Sections that do not affect export types are checked for framing and skipped.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // Type indices for declared functions
	Tables   []TableType
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Code     []FuncBody
}

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []ExtValType
	Results []ExtValType
}

// ExtValType is a value type plus heap type information for typed references.
// RefType is only set when ValType is ValRefNull or ValRef.
type ExtValType struct {
	RefType *RefType
	ValType ValType
}

// Simple wraps a plain value type.
func Simple(v ValType) ExtValType {
	return ExtValType{ValType: v}
}

// RefType represents a reference type with nullable flag and heap type
type RefType struct {
	Nullable bool
	HeapType int64 // Encoded as s33: negative for abstract types, positive for type indices
}

// ValType represents a WebAssembly value type.
// See constants.go for ValI32, ValI64, ValF32, ValF64, etc.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	case ValRefNull:
		return "ref null"
	case ValRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Import represents an imported function, table, memory, global, or tag.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported item.
// Kind uses KindFunc, KindTable, KindMemory, KindGlobal, or KindTag constants.
type ImportDesc struct {
	Table   *TableType
	Memory  *MemoryType
	Global  *GlobalType
	TypeIdx uint32
	Kind    byte
}

// TableType describes a table with element type and size limits.
type TableType struct {
	Elem   ExtValType
	Limits Limits
}

// MemoryType describes a linear memory with size limits.
type MemoryType struct {
	Limits Limits
}

// Limits describes size constraints for tables and memories.
type Limits struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	Type    ExtValType
	Mutable bool
}

// Global represents a global variable with type and initialization.
type Global struct {
	Type GlobalType
	Init []byte // Raw init expression bytes, including the end opcode
}

// Export describes an exported item.
// Kind uses KindFunc, KindTable, KindMemory, KindGlobal, or KindTag constants.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// FuncBody is a function body kept as raw bytes (locals and code).
type FuncBody struct {
	Raw []byte
}

// NumImported counts imports of the given kind.
func (m *Module) NumImported(kind byte) int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == kind {
			count++
		}
	}
	return count
}

// importAt returns the idx-th import of the given kind.
func (m *Module) importAt(kind byte, idx uint32) (*Import, bool) {
	for i := range m.Imports {
		if m.Imports[i].Desc.Kind != kind {
			continue
		}
		if idx == 0 {
			return &m.Imports[i], true
		}
		idx--
	}
	return nil, false
}

// LookupFunc returns the signature of a function in the function index space,
// where imported functions come first.
func (m *Module) LookupFunc(funcIdx uint32) (*FuncType, bool) {
	numImported := uint32(m.NumImported(KindFunc))
	var typeIdx uint32
	if funcIdx < numImported {
		imp, _ := m.importAt(KindFunc, funcIdx)
		typeIdx = imp.Desc.TypeIdx
	} else {
		local := funcIdx - numImported
		if int(local) >= len(m.Funcs) {
			return nil, false
		}
		typeIdx = m.Funcs[local]
	}
	if int(typeIdx) >= len(m.Types) {
		return nil, false
	}
	return &m.Types[typeIdx], true
}

// LookupTable returns a table in the table index space.
func (m *Module) LookupTable(tableIdx uint32) (*TableType, bool) {
	numImported := uint32(m.NumImported(KindTable))
	if tableIdx < numImported {
		imp, _ := m.importAt(KindTable, tableIdx)
		return imp.Desc.Table, imp.Desc.Table != nil
	}
	local := tableIdx - numImported
	if int(local) >= len(m.Tables) {
		return nil, false
	}
	return &m.Tables[local], true
}

// LookupMemory returns a memory in the memory index space.
func (m *Module) LookupMemory(memIdx uint32) (*MemoryType, bool) {
	numImported := uint32(m.NumImported(KindMemory))
	if memIdx < numImported {
		imp, _ := m.importAt(KindMemory, memIdx)
		return imp.Desc.Memory, imp.Desc.Memory != nil
	}
	local := memIdx - numImported
	if int(local) >= len(m.Memories) {
		return nil, false
	}
	return &m.Memories[local], true
}

// LookupGlobal returns a global in the global index space.
func (m *Module) LookupGlobal(globalIdx uint32) (*GlobalType, bool) {
	numImported := uint32(m.NumImported(KindGlobal))
	if globalIdx < numImported {
		imp, _ := m.importAt(KindGlobal, globalIdx)
		return imp.Desc.Global, imp.Desc.Global != nil
	}
	local := globalIdx - numImported
	if int(local) >= len(m.Globals) {
		return nil, false
	}
	return &m.Globals[local].Type, true
}
