package app

import (
	"context"
	"sync"
)

// ViewportCoordinator couples sentinel visibility signals from the embedding
// UI to the pagination cursor, and tracks whether appends should auto-scroll.
// It holds no layout knowledge itself; the UI reports heights and visibility.
type ViewportCoordinator struct {
	mu  sync.Mutex
	pag *Paginator

	// goToBottomVisible flips true once the bottom sentinel scrolls out of
	// view; while false the viewer is at the bottom and appends follow.
	goToBottomVisible bool
}

// NewViewportCoordinator init the coordinator over one paginator
func NewViewportCoordinator(pag *Paginator) *ViewportCoordinator {
	return &ViewportCoordinator{pag: pag}
}

// TopSentinelVisible the oldest loaded item scrolled into view
func (v *ViewportCoordinator) TopSentinelVisible(ctx context.Context) {
	v.pag.LoadBefore(ctx)
}

// BottomSentinelVisible the newest loaded item scrolled into view
func (v *ViewportCoordinator) BottomSentinelVisible(ctx context.Context) {
	v.mu.Lock()
	v.goToBottomVisible = false
	v.mu.Unlock()
	v.pag.LoadAfter(ctx)
}

// BottomSentinelHidden the newest loaded item left the view
func (v *ViewportCoordinator) BottomSentinelHidden() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.goToBottomVisible = true
}

// ShouldAutoScroll whether an append should pull the view to the bottom
func (v *ViewportCoordinator) ShouldAutoScroll() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.goToBottomVisible
}

// GoToBottomVisible whether the jump-to-bottom affordance should show
func (v *ViewportCoordinator) GoToBottomVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.goToBottomVisible
}

// PreserveScrollTop scroll offset compensating a prepend: the content grew
// above the viewport, so the offset moves by the height delta.
func (v *ViewportCoordinator) PreserveScrollTop(scrollTop, heightBefore, heightAfter float64) float64 {
	return scrollTop + (heightAfter - heightBefore)
}

// Reset re-arm pagination and drop viewport state, done on channel switch
func (v *ViewportCoordinator) Reset() {
	v.mu.Lock()
	v.goToBottomVisible = false
	v.mu.Unlock()
	v.pag.Reset()
}
