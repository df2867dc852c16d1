package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math/rand/v2"
)

// Writer encodes addresses in the trace format.
type Writer struct {
	w   *bufio.Writer
	buf [RecordSize]byte
}

// NewWriter creates a Writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one address.
func (w *Writer) Write(addr uint32) error {
	binary.BigEndian.PutUint32(w.buf[:], addr)
	_, err := w.w.Write(w.buf[:])

	return err
}

// Flush writes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// A Generator produces synthetic traces.
type Generator struct {
	Count   int
	MaxAddr uint32

	// Stride, when non-zero, walks addresses sequentially by Stride bytes,
	// wrapping at MaxAddr. Otherwise addresses are uniform in [0, MaxAddr).
	Stride uint32

	Rand *rand.Rand
}

// Generate writes g.Count addresses into w.
func (g Generator) Generate(w *Writer) error {
	if g.MaxAddr == 0 {
		return errors.New("maximum address must be positive")
	}

	var addr uint32

	for i := 0; i < g.Count; i++ {
		next := addr
		if g.Stride == 0 {
			next = g.Rand.Uint32N(g.MaxAddr)
		} else {
			addr = (addr + g.Stride) % g.MaxAddr
		}

		err := w.Write(next)
		if err != nil {
			return err
		}
	}

	return w.Flush()
}
