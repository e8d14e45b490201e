package mock

import "github.com/fwojciec/helpdoc"

var _ helpdoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of helpdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
