// Package wasm decodes the parts of a WebAssembly binary module that
// determine the types of its exports.
//
// The decoder reads the type, import, function, table, memory, global, export
// and code sections. Start, element, data, data count, tag and custom sections
// are checked for framing and ordering and then skipped. Function bodies are
// kept as raw bytes.
//
// # Supported Features
//
//	WebAssembly 2.0 value types (i32, i64, f32, f64, v128, funcref, externref)
//	Typed references (ref null ht, ref ht) in signatures
//	Threads (shared memory limits)
//	Memory64 (64-bit memory limits)
//	Extended-const global initializers
//
// GC type definitions (rec, sub, struct, array) are rejected with ErrGCTypes.
//
// # Parsing
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.ParseModuleValidate(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, exp := range module.Exports {
//	    fmt.Println(exp.Name, exp.Kind, exp.Idx)
//	}
//
// Index spaces put imports before local definitions. LookupFunc, LookupTable,
// LookupMemory and LookupGlobal resolve an index in the combined space.
//
// # Encoding
//
// Encode writes the same subset back to binary, which is convenient for
// building fixtures:
//
//	m := &wasm.Module{
//	    Types:   []wasm.FuncType{{}},
//	    Funcs:   []uint32{0},
//	    Code:    []wasm.FuncBody{{Raw: []byte{0x00, wasm.OpEnd}}},
//	    Exports: []wasm.Export{{Name: "run", Kind: wasm.KindFunc}},
//	}
//	data := m.Encode()
package wasm
