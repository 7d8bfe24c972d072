package stockwatch

import (
	"context"
	"time"
)

// Fetcher retrieves the HTML of product pages.
type Fetcher interface {
	// Fetch returns the HTML of the page at url.
	// Non-success HTTP statuses, transport errors and timeouts are errors.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Sleeper pauses the monitor between check cycles.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
