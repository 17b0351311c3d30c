package output

import (
	"bufio"
	"fmt"
	"io"
)

// DefaultBytesPerLine is the row width spec.md §6 specifies when no
// configuration overrides it.
const DefaultBytesPerLine = 16

// WriteHex renders image as hex text: upper-case 4-digit addresses,
// up to bytesPerLine bytes per row (DefaultBytesPerLine if <= 0),
// single-space delimited, newline-terminated. Addresses are relative
// to origin, the image's load address.
func WriteHex(w io.Writer, image []byte, origin int64, bytesPerLine int) error {
	if bytesPerLine <= 0 {
		bytesPerLine = DefaultBytesPerLine
	}
	bw := bufio.NewWriter(w)

	for offset := 0; offset < len(image); offset += bytesPerLine {
		end := offset + bytesPerLine
		if end > len(image) {
			end = len(image)
		}
		row := image[offset:end]

		if _, err := fmt.Fprintf(bw, "%04X:", origin+int64(offset)); err != nil {
			return err
		}
		for _, b := range row {
			if _, err := fmt.Fprintf(bw, " %02X", b); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}
