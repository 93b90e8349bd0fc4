// Package wasmexports lists the exports of WebAssembly modules together with
// their type signatures.
//
// # Architecture Overview
//
//	wasmexports/
//	├── signature/          Export types and their canonical text rendering
//	├── inspect/            Export resolution, loading and line output
//	├── wasm/               Core WASM binary decoder, validator and encoder
//	├── engine/             wazero compile check
//	├── errors/             Structured errors with phase and kind
//	└── cmd/wasm-exports/   Command line tool
//
// # Output Format
//
// Each export is printed on its own line as "name: signature":
//
//	memory: memory 32 [17..]
//	add: fn(i32, i32) -> (i32)
//	__stack_pointer: global var i32
//	__indirect_function_table: table $func [1..1]
//
// Value types render as i32, i64, f32, f64, v128, $func and $extern.
// Memories are prefixed with "shared" when shared and carry their address
// width (32 or 64). A missing maximum leaves the range open: [min..].
//
// # Quick Start
//
//	exports, err := inspect.LoadFile(ctx, "module.wasm", nil)
//	if err != nil {
//	    return err
//	}
//	return inspect.WriteExports(os.Stdout, exports)
//
// Set Config.Compile to also compile the module with wazero, which checks
// function bodies and the sections the decoder skips.
package wasmexports
