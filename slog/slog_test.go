package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/stockwatch"
	"github.com/fwojciec/stockwatch/mock"
	swslog "github.com/fwojciec/stockwatch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs name state and size labels", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*stockwatch.Snapshot, error) {
				return &stockwatch.Snapshot{
					Name:  "SHIRT",
					State: stockwatch.AvailabilityAvailable,
					Sizes: []stockwatch.Size{{Label: "S", Status: stockwatch.SizeAvailable}},
				}, nil
			},
		}

		s, err := swslog.NewLoggingExtractor(inner, newDebugLogger(&buf)).Extract("<html></html>")

		require.NoError(t, err)
		assert.Equal(t, "SHIRT", s.Name)
		output := buf.String()
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, "name=SHIRT")
		assert.Contains(t, output, "state=AVAILABLE")
		assert.Contains(t, output, "sizes=[S]")
	})

	t.Run("logs a missing snapshot without failing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*stockwatch.Snapshot, error) {
				return nil, nil
			},
		}

		s, err := swslog.NewLoggingExtractor(inner, newDebugLogger(&buf)).Extract("<html></html>")

		require.NoError(t, err)
		assert.Nil(t, s)
		assert.Contains(t, buf.String(), "no snapshot")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*stockwatch.Snapshot, error) {
				return nil, errors.New("bad html")
			},
		}

		_, err := swslog.NewLoggingExtractor(inner, newDebugLogger(&buf)).Extract("")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"bad html\"")
	})
}

func TestLoggingNotifier_Notify(t *testing.T) {
	t.Parallel()

	t.Run("logs sent notification", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Notifier{
			NotifyFn: func(ctx context.Context, msg *stockwatch.Message) error { return nil },
		}

		err := swslog.NewLoggingNotifier(inner, newDebugLogger(&buf)).Notify(context.Background(),
			&stockwatch.Message{Link: "https://example.com/p1.html", Text: "hello"})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "notification sent")
		assert.Contains(t, output, "link=https://example.com/p1.html")
		assert.Contains(t, output, "bytes=5")
	})

	t.Run("logs failed notification and returns error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Notifier{
			NotifyFn: func(ctx context.Context, msg *stockwatch.Message) error {
				return errors.New("chat not found")
			},
		}

		err := swslog.NewLoggingNotifier(inner, newDebugLogger(&buf)).Notify(context.Background(),
			&stockwatch.Message{Text: "hello"})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "notification failed")
		assert.Contains(t, output, "err=\"chat not found\"")
	})
}

func TestLoggingStateStore(t *testing.T) {
	t.Parallel()

	t.Run("logs load with entry count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.StateStore{
			LoadFn: func(ctx context.Context, links []string) (stockwatch.StateMap, error) {
				return stockwatch.NewStateMap(links), nil
			},
		}

		state, err := swslog.NewLoggingStateStore(inner, newDebugLogger(&buf)).Load(context.Background(), []string{"a", "b"})

		require.NoError(t, err)
		assert.Len(t, state, 2)
		assert.Contains(t, buf.String(), "state load")
		assert.Contains(t, buf.String(), "entries=2")
	})

	t.Run("logs save failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.StateStore{
			SaveFn: func(ctx context.Context, state stockwatch.StateMap) error {
				return errors.New("disk full")
			},
		}

		err := swslog.NewLoggingStateStore(inner, newDebugLogger(&buf)).Save(context.Background(), stockwatch.StateMap{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "state save")
		assert.Contains(t, output, "err=\"disk full\"")
	})
}
