package buffer

import (
	"io"
	"sync"
)

// DefaultSize is the chunk size used when streaming downloads to disk.
const DefaultSize = 128 * 1024

type Pool struct {
	pool sync.Pool
	size int
}

func NewPool(size int) *Pool {
	p := &Pool{size: size}
	p.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return p
}

func (p *Pool) Get() *[]byte {
	return p.pool.Get().(*[]byte)
}

func (p *Pool) Put(b *[]byte) {
	if b == nil || cap(*b) < p.size {
		return
	}
	*b = (*b)[:p.size]
	p.pool.Put(b)
}

// Copy streams src into dst through a pooled chunk.
func (p *Pool) Copy(dst io.Writer, src io.Reader) (int64, error) {
	buf := p.Get()
	defer p.Put(buf)
	return io.CopyBuffer(dst, src, *buf)
}

var Default = NewPool(DefaultSize)

func Copy(dst io.Writer, src io.Reader) (int64, error) {
	return Default.Copy(dst, src)
}
