package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/eightbitforge/asm65/asm"
)

// WriteSymbols dumps every resolved symbol as "NAME = $HHHH", sorted by
// name for stable output, one per line.
func WriteSymbols(w io.Writer, symbols *asm.SymbolTable) error {
	names := symbols.Names()
	sort.Strings(names)

	for _, name := range names {
		v, _ := symbols.Get(name)
		if _, err := fmt.Fprintf(w, "%s = $%04X\n", name, uint64(v)&0xFFFF); err != nil {
			return err
		}
	}
	return nil
}
