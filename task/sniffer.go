package task

import (
	"context"
	"fmt"

	"github.com/gogpu/rawtile"
)

// Sniffer reports progress and signals cooperative cancellation.
type Sniffer interface {
	// SniffForAbort returns an error wrapping rawtile.ErrAborted once the
	// work should stop.
	SniffForAbort() error

	// UpdateProgress reports the completed fraction in [0, 1].
	UpdateProgress(fraction float64)
}

// Sniff polls s, treating nil as never aborting.
func Sniff(s Sniffer) error {
	if s == nil {
		return nil
	}
	return s.SniffForAbort()
}

// ContextSniffer aborts when its context is done.
type ContextSniffer struct {
	ctx        context.Context
	onProgress func(float64)
}

// NewContextSniffer returns a sniffer bound to ctx. onProgress may be nil.
func NewContextSniffer(ctx context.Context, onProgress func(float64)) *ContextSniffer {
	return &ContextSniffer{ctx: ctx, onProgress: onProgress}
}

// SniffForAbort implements Sniffer.
func (s *ContextSniffer) SniffForAbort() error {
	if s.ctx.Err() == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", rawtile.ErrAborted, context.Cause(s.ctx))
}

// UpdateProgress implements Sniffer.
func (s *ContextSniffer) UpdateProgress(fraction float64) {
	if s.onProgress != nil {
		s.onProgress(fraction)
	}
}
