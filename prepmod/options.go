package prepmod

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPClient uses a copy of the given http.Client, sharing its
// transport. The copy gets the client's own timeout and redirect policy;
// the caller's client is left untouched.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// WithOutput sets where user-facing progress lines (waiting-room notices) go.
func WithOutput(w io.Writer) SearcherOption {
	return func(s *Searcher) {
		if w != nil {
			s.out = w
		}
	}
}

// WithSleeper replaces the waiting-room delay, mainly for tests.
func WithSleeper(sleep Sleeper) SearcherOption {
	return func(s *Searcher) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithWaitInterval sets how long to wait before retrying a waiting-room page.
func WithWaitInterval(d time.Duration) SearcherOption {
	return func(s *Searcher) {
		if d > 0 {
			s.waitInterval = d
		}
	}
}

// WithExtractor replaces the clinic extractor.
func WithExtractor(e *Extractor) SearcherOption {
	return func(s *Searcher) {
		if e != nil {
			s.extractor = e
		}
	}
}

// sleepContext is the default Sleeper.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
