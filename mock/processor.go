package mock

import (
	"context"

	"github.com/fwojciec/helpdoc"
)

var _ helpdoc.Processor = (*Processor)(nil)

// Processor is a mock implementation of helpdoc.Processor.
type Processor struct {
	ProcessFn func(ctx context.Context, snap *helpdoc.DocumentSnapshot, opts helpdoc.ProcessOptions) (*helpdoc.ExtractionResult, error)
}

func (p *Processor) Process(ctx context.Context, snap *helpdoc.DocumentSnapshot, opts helpdoc.ProcessOptions) (*helpdoc.ExtractionResult, error) {
	return p.ProcessFn(ctx, snap, opts)
}
