// Package inspect turns a decoded WebAssembly module into typed export
// signatures and writes them as text.
//
// Load runs the full pipeline on raw bytes:
//
//	exports, err := inspect.Load(ctx, data, &inspect.Config{Compile: true})
//	if err != nil {
//	    return err
//	}
//	return inspect.WriteExports(os.Stdout, exports)
//
// Each export becomes one line of the form "name: signature", in the order
// the module's export section lists them. Names are printed as they are,
// duplicates included.
//
// Errors are *errors.Error values. Decoder and resolution failures are in
// PhaseDecode (errors.ErrDecode), a failed wazero compile is in PhaseValidate
// (errors.ErrValidate), and read or write failures are in PhaseIO
// (errors.ErrIO).
package inspect
