package transport

import (
	"context"
	"fmt"
	"io"
	"sync"

	"walletlink/internal/domain"
)

// Printer writes each URL on its own line.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

func (p *Printer) OpenURL(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintln(p.w, url); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransportUnavailable, err)
	}
	return nil
}

var _ domain.Transport = (*Printer)(nil)
