// Package signature models the types of WebAssembly exports and renders them
// as canonical one-line text.
//
// Every type implements fmt.Stringer. Rendering is pure and never fails:
//
//	signature.Func([]signature.ValueType{signature.I32, signature.I64}, []signature.ValueType{signature.F32}).String()
//	// fn(i32, i64) -> (f32)
//
//	signature.Table(signature.TableType{Element: signature.FuncRef}).String()
//	// table $func [0..]
//
//	signature.Memory(signature.MemoryType{Shared: true, Memory64: true, Min: 1, Max: signature.Max(16)}).String()
//	// shared memory 64 [1..16]
//
// Reference types render as $func and $extern. Limits print the minimum and,
// when present, the maximum; an absent maximum leaves the range open ("[0..]"),
// which is distinct from a zero maximum ("[0..0]").
package signature
