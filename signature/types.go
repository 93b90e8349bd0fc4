package signature

// ValueType is the kind of value a slot holds.
type ValueType byte

// Value types. The numbering follows the binary format encodings.
const (
	I32       ValueType = 0x7F
	I64       ValueType = 0x7E
	F32       ValueType = 0x7D
	F64       ValueType = 0x7C
	V128      ValueType = 0x7B
	FuncRef   ValueType = 0x70
	ExternRef ValueType = 0x6F
)

// Mutability reports whether a global may change after instantiation.
type Mutability byte

const (
	Const Mutability = 0
	Var   Mutability = 1
)

// FuncType is a function signature. Params and Results are positional.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// GlobalType describes a global variable.
type GlobalType struct {
	Mutability Mutability
	ValueType  ValueType
}

// TableType describes a table. Max is nil when the table is unbounded.
type TableType struct {
	Max     *uint64
	Min     uint64
	Element ValueType
}

// MemoryType describes a linear memory in pages. Max is nil when unbounded.
type MemoryType struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

// ExternKind identifies which variant of ExternType is active.
type ExternKind byte

// Extern kinds, numbered like export descriptors in the binary format.
const (
	KindFunc   ExternKind = 0
	KindTable  ExternKind = 1
	KindMemory ExternKind = 2
	KindGlobal ExternKind = 3
)

func (k ExternKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// ExternType is the type of an exported item.
// Exactly one of Func, Global, Table or Memory is set, selected by Kind.
type ExternType struct {
	Func   *FuncType
	Global *GlobalType
	Table  *TableType
	Memory *MemoryType
	Kind   ExternKind
}

// Func wraps a function signature as an ExternType.
func Func(params, results []ValueType) ExternType {
	return ExternType{Kind: KindFunc, Func: &FuncType{Params: params, Results: results}}
}

// Global wraps a global type as an ExternType.
func Global(mut Mutability, vt ValueType) ExternType {
	return ExternType{Kind: KindGlobal, Global: &GlobalType{Mutability: mut, ValueType: vt}}
}

// Table wraps a table type as an ExternType.
func Table(t TableType) ExternType {
	return ExternType{Kind: KindTable, Table: &t}
}

// Memory wraps a memory type as an ExternType.
func Memory(m MemoryType) ExternType {
	return ExternType{Kind: KindMemory, Memory: &m}
}

// Export is a named exported item.
type Export struct {
	Name string
	Type ExternType
}

// Max returns a pointer to v, for filling optional maximums.
func Max(v uint64) *uint64 {
	return &v
}
