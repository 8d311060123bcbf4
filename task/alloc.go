package task

import "github.com/gogpu/rawtile/pixel"

// Allocator hands out scratch memory to tasks.
type Allocator interface {
	Allocate(n int) ([]byte, error)
	Release(block []byte)
}

// HeapAllocator allocates fresh blocks and leaves released ones to the GC.
type HeapAllocator struct{}

// Allocate implements Allocator.
func (HeapAllocator) Allocate(n int) ([]byte, error) { return pixel.NewBlock(n) }

// Release implements Allocator.
func (HeapAllocator) Release([]byte) {}

// PoolAllocator recycles blocks through a pixel.Pool, so that consecutive
// tasks with the same tile size reuse their staging buffers.
type PoolAllocator struct {
	pool *pixel.Pool
}

// NewPoolAllocator returns an allocator over p. A nil p creates a pool
// keeping up to 2*DefaultMaxThreads blocks per size.
func NewPoolAllocator(p *pixel.Pool) *PoolAllocator {
	if p == nil {
		p = pixel.NewPool(2 * DefaultMaxThreads)
	}
	return &PoolAllocator{pool: p}
}

// Allocate implements Allocator.
func (a *PoolAllocator) Allocate(n int) ([]byte, error) { return a.pool.Get(n) }

// Release implements Allocator.
func (a *PoolAllocator) Release(block []byte) { a.pool.Put(block) }

// Pool returns the underlying block pool.
func (a *PoolAllocator) Pool() *pixel.Pool { return a.pool }
