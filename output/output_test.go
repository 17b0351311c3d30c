package output

import (
	"bytes"
	"testing"

	"github.com/eightbitforge/asm65/asm"
)

func TestWriteBinary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBinary(&buf, []byte{0xA9, 0x01, 0xEA}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0xA9, 0x01, 0xEA}) {
		t.Fatalf("unexpected binary output: %v", buf.Bytes())
	}
}

func TestWriteHexSingleRow(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHex(&buf, []byte{0xA9, 0x01, 0xEA}, 0x1000, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1000: A9 01 EA\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestWriteHexWrapsAtSixteenBytes(t *testing.T) {
	image := make([]byte, 20)
	for i := range image {
		image[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := WriteHex(&buf, image, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d: %q", len(lines), buf.String())
	}
}

func TestWriteHexCustomRowWidth(t *testing.T) {
	image := []byte{0x01, 0x02, 0x03, 0x04}
	var buf bytes.Buffer
	if err := WriteHex(&buf, image, 0, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "0000: 01 02\n0002: 03 04\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestWriteSymbolsSortedByName(t *testing.T) {
	st := asm.NewSymbolTable()
	st.Set("zebra", 0x10)
	st.Set("alpha", 0x20)

	var buf bytes.Buffer
	if err := WriteSymbols(&buf, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "alpha = $0020\nzebra = $0010\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}
