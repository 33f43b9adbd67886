package catalog

import (
	"context"
	"sync"

	"github.com/Clark-Hu/moviegrid/internal/domain"
)

// Pager tracks the page cursor of a scrolling list. A fresh load starts at
// page 1 and each scroll to the end asks for the following page.
type Pager struct {
	svc *Service
	q   domain.Query

	mu   sync.Mutex
	page int
}

// NewPager returns a Pager for q. Nothing is loaded until Reset or Next.
func NewPager(svc *Service, q domain.Query) *Pager {
	return &Pager{svc: svc, q: q}
}

// Reset rewinds to page 1 (optionally with a new query) and loads it.
func (p *Pager) Reset(ctx context.Context, q domain.Query) <-chan domain.Resource {
	p.mu.Lock()
	p.page = 1
	p.q = q
	p.mu.Unlock()
	return p.svc.Load(ctx, 1, q)
}

// Next advances the cursor and loads the following page.
func (p *Pager) Next(ctx context.Context) <-chan domain.Resource {
	p.mu.Lock()
	p.page++
	page, q := p.page, p.q
	p.mu.Unlock()
	return p.svc.Load(ctx, page, q)
}

// Page reports the last requested page, 0 before the first load.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}
