// Package slog provides logging decorators for stockwatch services using log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/stockwatch"
)

// Compile-time interface verification.
var (
	_ stockwatch.Fetcher    = (*LoggingFetcher)(nil)
	_ stockwatch.Extractor  = (*LoggingExtractor)(nil)
	_ stockwatch.Notifier   = (*LoggingNotifier)(nil)
	_ stockwatch.StateStore = (*LoggingStateStore)(nil)
)

// LoggingFetcher wraps a Fetcher and logs every fetch outcome.
type LoggingFetcher struct {
	next   stockwatch.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next stockwatch.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		f.logger.Log(ctx, level, "fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingExtractor wraps an Extractor and logs what was found on each page.
type LoggingExtractor struct {
	next   stockwatch.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next stockwatch.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the snapshot.
func (e *LoggingExtractor) Extract(html string) (s *stockwatch.Snapshot, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Error("extract", "duration", time.Since(begin), "err", err)
			return
		}
		if s == nil {
			e.logger.Warn("extract returned no snapshot", "duration", time.Since(begin))
			return
		}
		labels := make([]string, 0, len(s.Sizes))
		for _, size := range s.Sizes {
			labels = append(labels, size.Label)
		}
		e.logger.Debug("extract",
			"name", s.Name,
			"state", s.State,
			"sizes", labels,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(html)
}

// LoggingNotifier wraps a Notifier and logs every delivery attempt.
type LoggingNotifier struct {
	next   stockwatch.Notifier
	logger *slog.Logger
}

// NewLoggingNotifier creates a new LoggingNotifier.
func NewLoggingNotifier(next stockwatch.Notifier, logger *slog.Logger) *LoggingNotifier {
	return &LoggingNotifier{next: next, logger: logger}
}

// Notify delegates to the wrapped notifier and logs the outcome.
func (n *LoggingNotifier) Notify(ctx context.Context, msg *stockwatch.Message) (err error) {
	defer func(begin time.Time) {
		if err != nil {
			n.logger.Error("notification failed",
				"link", msg.Link,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		n.logger.Info("notification sent",
			"link", msg.Link,
			"bytes", len(msg.Text),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return n.next.Notify(ctx, msg)
}

// LoggingStateStore wraps a StateStore and logs loads and saves.
type LoggingStateStore struct {
	next   stockwatch.StateStore
	logger *slog.Logger
}

// NewLoggingStateStore creates a new LoggingStateStore.
func NewLoggingStateStore(next stockwatch.StateStore, logger *slog.Logger) *LoggingStateStore {
	return &LoggingStateStore{next: next, logger: logger}
}

// Load delegates to the wrapped store and logs the outcome.
func (s *LoggingStateStore) Load(ctx context.Context, links []string) (state stockwatch.StateMap, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "state load",
			"entries", len(state),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, links)
}

// Save delegates to the wrapped store and logs the outcome.
func (s *LoggingStateStore) Save(ctx context.Context, state stockwatch.StateMap) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "state save",
			"entries", len(state),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, state)
}
