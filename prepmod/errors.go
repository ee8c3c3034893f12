package prepmod

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid prepmod configuration")
	// ErrNoFetcher indicates a Searcher was built without a page fetcher
	ErrNoFetcher = errors.New("searcher has no page fetcher")
)

// TransportError is returned when a search page could not be fetched at all
// (connection, DNS or TLS failure). It aborts the whole run.
type TransportError struct {
	Page int
	URL  string
	Err  error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching page %d from %s: %v", e.Page, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
