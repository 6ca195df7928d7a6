package translit

import "sync"

// Pool hands out Contexts to concurrent callers. Each checkout belongs to
// one goroutine until it is returned, so engines are never shared.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool whose contexts are built with opts.
func NewPool(opts ...Option) *Pool {
	p := &Pool{}
	p.pool.New = func() any { return NewContext(opts...) }
	return p
}

// Warm builds one engine and keeps it in the pool.
func (p *Pool) Warm() error {
	c := p.pool.Get().(*Context)
	defer p.pool.Put(c)
	return c.Warm()
}

// ASCII transliterates text with a pooled Context.
func (p *Pool) ASCII(text string) string {
	if isASCII(text) {
		return text
	}
	c := p.pool.Get().(*Context)
	defer p.pool.Put(c)
	return c.ASCII(text)
}

var defaultPool = NewPool()

// Default returns the process-wide pool behind ASCII.
func Default() *Pool { return defaultPool }

// ASCII transliterates text to ASCII using a process-wide pool. It is safe
// for concurrent use.
func ASCII(text string) string {
	return defaultPool.ASCII(text)
}
