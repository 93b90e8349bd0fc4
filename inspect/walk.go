package inspect

import (
	"io"

	"github.com/wippyai/wasm-exports/errors"
	"github.com/wippyai/wasm-exports/signature"
)

// WriteExports writes one "name: signature" line per export, in order.
// It stops at the first write failure. Writing nothing is a success.
func WriteExports(w io.Writer, exports []signature.Export) error {
	for _, exp := range exports {
		if _, err := io.WriteString(w, exp.String()+"\n"); err != nil {
			return errors.Write("export line", err)
		}
	}
	return nil
}
