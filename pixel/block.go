package pixel

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/gogpu/rawtile"
)

// MaxBlockBytes bounds a single allocation request.
const MaxBlockBytes = math.MaxInt32

// NewBlock allocates n zeroed bytes aligned for any Elem type.
func NewBlock(n int) ([]byte, error) {
	if n < 0 || n > MaxBlockBytes {
		return nil, fmt.Errorf("pixel: block of %d bytes: %w", n, rawtile.ErrMemoryFull)
	}
	if n == 0 {
		return []byte{}, nil
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n), nil
}

// view reinterprets an aligned byte slice as a slice of T.
func view[T Elem](data []byte) []T {
	var z T
	n := len(data) / int(unsafe.Sizeof(z))
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), n)
}

// lowPart is the element index of the least significant part of a wider
// integer when viewed as an array of narrower ones.
var lowPart = func() int {
	x := uint16(1)
	if *(*byte)(unsafe.Pointer(&x)) == 1 {
		return 0
	}
	return 1
}()
