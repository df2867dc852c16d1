// Package trace reads memory-address traces and drives a cache model with
// them.
package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// RecordSize is the number of bytes of one trace record.
const RecordSize = 4

// An AddressSource produces the addresses of a trace in order.
type AddressSource interface {
	// Next returns the next address. ok is false once the trace is exhausted.
	Next() (addr uint32, ok bool, err error)
}

// Reader decodes big-endian 32-bit addresses.
type Reader struct {
	r          *bufio.Reader
	closer     io.Closer
	numRecords uint64
	buf        [RecordSize]byte
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// OpenFile opens a trace file.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	reader := NewReader(f)
	reader.closer = f
	reader.numRecords = uint64(info.Size()) / RecordSize

	return reader, nil
}

// NumRecords returns the number of complete records in the file, or 0 if the
// reader is not backed by a file.
func (r *Reader) NumRecords() uint64 {
	return r.numRecords
}

// Next reads one address. A trailing partial record ends the trace.
func (r *Reader) Next() (uint32, bool, error) {
	_, err := io.ReadFull(r.r, r.buf[:])
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("read trace: %w", err)
	}

	return binary.BigEndian.Uint32(r.buf[:]), true, nil
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}
