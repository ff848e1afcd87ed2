package connectors

import "sync/atomic"

// PageSize is a per-query result count that can change while searches run.
type PageSize struct {
	n atomic.Int64
}

// NewPageSize returns a PageSize holding n, or def when n is not positive.
func NewPageSize(n, def int) *PageSize {
	p := &PageSize{}
	if n <= 0 {
		n = def
	}
	p.n.Store(int64(n))
	return p
}

// Set replaces the page size. Non-positive values are ignored.
func (p *PageSize) Set(n int) {
	if n > 0 {
		p.n.Store(int64(n))
	}
}

// Get returns the current page size.
func (p *PageSize) Get() int {
	return int(p.n.Load())
}
