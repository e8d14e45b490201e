package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/helpdoc"
	"golang.org/x/sync/errgroup"
)

// Run executes the extract command. Outputs are written to stdout in
// argument order; failures are reported on stderr after all URLs finish.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	format, err := helpdoc.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	outputs := make([][]byte, len(c.URLs))
	errs := make([]error, len(c.URLs))

	g, ctx := errgroup.WithContext(deps.Ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i, raw := range c.URLs {
		i, raw := i, raw
		g.Go(func() error {
			rendered, err := c.extract(ctx, deps, raw, format)
			if err != nil {
				errs[i] = err
				return nil
			}
			outputs[i] = rendered.Body
			return nil
		})
	}
	_ = g.Wait()

	written := 0
	for _, body := range outputs {
		if body == nil {
			continue
		}
		if written > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		_, _ = deps.Stdout.Write(body)
		if len(body) > 0 && body[len(body)-1] != '\n' {
			fmt.Fprintln(deps.Stdout)
		}
		written++
	}

	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		fmt.Fprintf(deps.Stderr, "%s: %s\n", c.URLs[i], helpdoc.ErrorMessage(err))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d extractions failed", failed, len(c.URLs))
	}
	return nil
}

func (c *ExtractCmd) extract(ctx context.Context, deps *Dependencies, raw string, format helpdoc.Format) (*helpdoc.Rendered, error) {
	target, err := helpdoc.ResolveURL(deps.BaseURL, raw)
	if err != nil {
		return nil, err
	}

	html, err := deps.Fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	result, err := deps.Processor.Process(ctx, &helpdoc.DocumentSnapshot{
		RawHTML:   html,
		SourceURL: target,
	}, helpdoc.ProcessOptions{Selector: c.Selector})
	if err != nil {
		return nil, err
	}

	return helpdoc.Render(result, format, helpdoc.RenderOptions{Debug: c.Debug})
}
