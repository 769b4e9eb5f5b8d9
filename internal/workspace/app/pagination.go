package app

import (
	"context"
	"sync"
	"time"
)

// FetchFunc one page fetch in a direction. False means the server had no
// more items in that direction.
type FetchFunc func(ctx context.Context, limit int) (bool, error)

// Paginator per-list cursor state: whether older/newer data remains and a
// leading-edge debounce so sentinel flapping does not flood the server.
// Exhaustion is durable for the life of the cursor; only Reset (on channel
// switch) re-arms a direction.
type Paginator struct {
	mu sync.Mutex

	limit    int
	debounce time.Duration

	hasMoreBefore bool
	hasMoreAfter  bool
	loadingBefore bool
	loadingAfter  bool
	lastBefore    time.Time
	lastAfter     time.Time

	fetchBefore FetchFunc
	fetchAfter  FetchFunc
}

// NewPaginator init a cursor for one list
func NewPaginator(limit int, fetchBefore, fetchAfter FetchFunc) *Paginator {
	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	return &Paginator{
		limit:         limit,
		debounce:      500 * time.Millisecond,
		hasMoreBefore: true,
		hasMoreAfter:  true,
		fetchBefore:   fetchBefore,
		fetchAfter:    fetchAfter,
	}
}

// HasMoreBefore whether older data may remain
func (p *Paginator) HasMoreBefore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMoreBefore
}

// HasMoreAfter whether newer data may remain
func (p *Paginator) HasMoreAfter() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMoreAfter
}

// LoadBefore fetch one older page if armed and not debounced. Returns
// whether a fetch was issued.
func (p *Paginator) LoadBefore(ctx context.Context) bool {
	p.mu.Lock()
	now := time.Now()
	if !p.hasMoreBefore || p.loadingBefore || now.Sub(p.lastBefore) < p.debounce {
		p.mu.Unlock()
		return false
	}
	p.loadingBefore = true
	p.lastBefore = now
	p.mu.Unlock()

	more, err := p.fetchBefore(ctx, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingBefore = false
	if err == nil && !more {
		// 空頁即枯竭, 本頻道不再往這個方向抓
		p.hasMoreBefore = false
	}
	return true
}

// LoadAfter fetch one newer page if armed and not debounced
func (p *Paginator) LoadAfter(ctx context.Context) bool {
	p.mu.Lock()
	now := time.Now()
	if !p.hasMoreAfter || p.loadingAfter || now.Sub(p.lastAfter) < p.debounce {
		p.mu.Unlock()
		return false
	}
	p.loadingAfter = true
	p.lastAfter = now
	p.mu.Unlock()

	more, err := p.fetchAfter(ctx, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingAfter = false
	if err == nil && !more {
		p.hasMoreAfter = false
	}
	return true
}

// Reset re-arm both directions, done on channel switch
func (p *Paginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hasMoreBefore = true
	p.hasMoreAfter = true
	p.lastBefore = time.Time{}
	p.lastAfter = time.Time{}
}
