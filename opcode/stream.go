package opcode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/rawtile"
)

// reader decodes big-endian values from a byte slice. The first short read
// sticks in err and every later read returns zero.
type reader struct {
	data []byte
	off  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.err = fmt.Errorf("opcode: %d bytes needed at offset %d of %d: %w",
			n, r.off, len(r.data), rawtile.ErrBadFormat)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) uint16() uint16 {
	if b := r.next(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (r *reader) uint32() uint32 {
	if b := r.next(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (r *reader) int32() int32 { return int32(r.uint32()) }

func (r *reader) float32() float32 { return math.Float32frombits(r.uint32()) }

func (r *reader) float64() float64 {
	if b := r.next(8); b != nil {
		return math.Float64frombits(binary.BigEndian.Uint64(b))
	}
	return 0
}

// bytes returns a copy of the next n bytes.
func (r *reader) bytes(n int) []byte {
	b := r.next(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (r *reader) remaining() int { return len(r.data) - r.off }

// done reports the sticky error, or ErrBadFormat when bytes are left over.
func (r *reader) done(what string) error {
	if r.err != nil {
		return fmt.Errorf("%s: %w", what, r.err)
	}
	if n := r.remaining(); n != 0 {
		return fmt.Errorf("opcode: %s: %d trailing bytes: %w", what, n, rawtile.ErrBadFormat)
	}
	return nil
}

// writer appends big-endian values.
type writer struct {
	buf []byte
}

func (w *writer) uint16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }

func (w *writer) uint32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }

func (w *writer) int32(v int32) { w.uint32(uint32(v)) }

func (w *writer) float32(v float32) { w.uint32(math.Float32bits(v)) }

func (w *writer) float64(v float64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(v))
}

func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }
