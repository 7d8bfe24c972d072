package mock

import (
	"context"
	"time"

	"github.com/fwojciec/stockwatch"
)

var _ stockwatch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of stockwatch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ stockwatch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of stockwatch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ stockwatch.Sleeper = (*Sleeper)(nil)

// Sleeper is a mock implementation of stockwatch.Sleeper.
type Sleeper struct {
	SleepFn func(ctx context.Context, d time.Duration) error
}

func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	return s.SleepFn(ctx, d)
}
