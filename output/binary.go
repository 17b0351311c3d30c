// Package output serializes an assembled byte image to the external
// formats the command-line front end exposes: raw binary and
// upper-case hex listings, plus a symbol-table dump for diagnostics.
package output

import "io"

// WriteBinary writes image verbatim: the concatenation of emitted
// bytes in emission order, with no header and no padding to the start
// origin. The caller is expected to know the image's load address
// separately.
func WriteBinary(w io.Writer, image []byte) error {
	_, err := w.Write(image)
	return err
}
