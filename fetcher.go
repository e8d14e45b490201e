package helpdoc

import "context"

// Fetcher retrieves raw HTML for a target address from an upstream provider.
// A transport failure or a response without HTML is reported as EUNAVAILABLE.
type Fetcher interface {
	// Fetch returns the HTML for the fully-qualified URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases provider resources.
	Close() error
}
