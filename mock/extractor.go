package mock

import "github.com/fwojciec/helpdoc"

var _ helpdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of helpdoc.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*helpdoc.ExtractResult, error)
	NameFn    func() string
}

func (e *Extractor) Extract(html string) (*helpdoc.ExtractResult, error) {
	return e.ExtractFn(html)
}

func (e *Extractor) Name() string {
	if e.NameFn == nil {
		return "mock"
	}
	return e.NameFn()
}
