package pixel

import "sync"

// Pool is a thread-safe pool for reusing aligned pixel blocks.
//
// Pool groups blocks by their byte size, which is what tile staging buffers
// of a task share across threads and across tasks with the same tile size.
type Pool struct {
	mu      sync.Mutex
	buckets map[int][][]byte
	maxSize int // max blocks per bucket
}

// NewPool creates a block pool retaining at most maxPerBucket blocks of each
// size. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[int][][]byte),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed block of n bytes, reusing a pooled one if possible.
func (p *Pool) Get(n int) ([]byte, error) {
	p.mu.Lock()
	bucket := p.buckets[n]
	if len(bucket) > 0 {
		block := bucket[len(bucket)-1]
		p.buckets[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		clear(block)
		return block, nil
	}
	p.mu.Unlock()
	return NewBlock(n)
}

// Put returns a block to the pool. Blocks beyond the bucket limit are
// dropped for the GC.
func (p *Pool) Put(block []byte) {
	if block == nil {
		return
	}
	n := len(block)

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[n]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[n] = append(bucket, block)
}

// Len returns the number of pooled blocks.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, b := range p.buckets {
		total += len(b)
	}
	return total
}
