// Package engine runs modules through wazero's compiler.
//
// The export decoder only reads the sections that shape export types. When a
// caller wants the stronger guarantee that the module would actually load,
// Compile hands the bytes to wazero, which validates every section including
// function bodies, and reports the function and memory exports it found.
//
//	summary, err := engine.Compile(ctx, data, &engine.Config{EnableThreads: true})
//
// wazero does not implement memory64 or the GC proposal; such modules fail
// to compile even when their exports decode fine.
package engine
