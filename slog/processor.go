package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/helpdoc"
)

// Ensure LoggingProcessor implements helpdoc.Processor.
var _ helpdoc.Processor = (*LoggingProcessor)(nil)

// LoggingProcessor wraps a Processor and logs the template, region
// selector and outcome of every extraction.
type LoggingProcessor struct {
	next   helpdoc.Processor
	logger *slog.Logger
}

// NewLoggingProcessor creates a new LoggingProcessor.
func NewLoggingProcessor(next helpdoc.Processor, logger *slog.Logger) *LoggingProcessor {
	return &LoggingProcessor{next: next, logger: logger}
}

// Process delegates to the wrapped processor.
func (p *LoggingProcessor) Process(ctx context.Context, snap *helpdoc.DocumentSnapshot, opts helpdoc.ProcessOptions) (result *helpdoc.ExtractionResult, err error) {
	defer func(begin time.Time) {
		if err != nil {
			p.logger.Warn("process",
				"url", snap.SourceURL,
				"code", helpdoc.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		p.logger.Info("process",
			"url", snap.SourceURL,
			"template", result.Template.String(),
			"selector", result.SelectorUsed,
			"readerMode", result.Diagnostics.ReaderMode,
			"contentLength", result.Diagnostics.ContentLength,
			"droppedFragments", result.Diagnostics.DroppedFragments,
			"duration", time.Since(begin),
		)
	}(time.Now())

	return p.next.Process(ctx, snap, opts)
}
