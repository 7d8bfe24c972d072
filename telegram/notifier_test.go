package telegram_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/stockwatch"
	"github.com/fwojciec/stockwatch/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time verification that Notifier implements stockwatch.Notifier
var _ stockwatch.Notifier = (*telegram.Notifier)(nil)

type sentMessage struct {
	path      string
	chatID    string
	text      string
	parseMode string
}

// newBotServer fakes the sendMessage endpoint and records each request.
func newBotServer(t *testing.T, status int, body string) (*httptest.Server, <-chan sentMessage) {
	t.Helper()

	sent := make(chan sentMessage, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			_ = r.ParseForm()
		}
		sent <- sentMessage{
			path:      r.URL.Path,
			chatID:    r.FormValue("chat_id"),
			text:      r.FormValue("text"),
			parseMode: r.FormValue("parse_mode"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, sent
}

const okResponse = `{"ok":true,"result":{"message_id":42,"date":1700000000,"chat":{"id":12345,"type":"private"},"text":"ok"}}`

func TestNewNotifier(t *testing.T) {
	t.Parallel()

	t.Run("requires token", func(t *testing.T) {
		t.Parallel()

		_, err := telegram.NewNotifier("", "12345")

		require.Error(t, err)
		assert.Equal(t, stockwatch.EINVALID, stockwatch.ErrorCode(err))
	})

	t.Run("requires chat id", func(t *testing.T) {
		t.Parallel()

		_, err := telegram.NewNotifier("123:abc", "  ")

		require.Error(t, err)
		assert.Equal(t, stockwatch.EINVALID, stockwatch.ErrorCode(err))
	})
}

func TestNotifier_Notify(t *testing.T) {
	t.Parallel()

	t.Run("posts HTML message to chat", func(t *testing.T) {
		t.Parallel()

		srv, sent := newBotServer(t, http.StatusOK, okResponse)
		n, err := telegram.NewNotifier("123:abc", "12345", telegram.WithServerURL(srv.URL+"/"))
		require.NoError(t, err)

		err = n.Notify(context.Background(), &stockwatch.Message{Text: "✅ <b>back</b>"})

		require.NoError(t, err)
		got := <-sent
		assert.Equal(t, "/bot123:abc/sendMessage", got.path)
		assert.Equal(t, "12345", got.chatID)
		assert.Equal(t, "✅ <b>back</b>", got.text)
		assert.Equal(t, "HTML", got.parseMode)
	})

	t.Run("sends channel usernames as strings", func(t *testing.T) {
		t.Parallel()

		srv, sent := newBotServer(t, http.StatusOK, okResponse)
		n, err := telegram.NewNotifier("123:abc", "@restocks", telegram.WithServerURL(srv.URL))
		require.NoError(t, err)

		require.NoError(t, n.Notify(context.Background(), &stockwatch.Message{Text: "hi"}))

		assert.Contains(t, (<-sent).chatID, "@restocks")
	})

	t.Run("returns unavailable when API rejects message", func(t *testing.T) {
		t.Parallel()

		srv, _ := newBotServer(t, http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
		n, err := telegram.NewNotifier("123:abc", "12345", telegram.WithServerURL(srv.URL))
		require.NoError(t, err)

		err = n.Notify(context.Background(), &stockwatch.Message{Text: "hi"})

		require.Error(t, err)
		assert.Equal(t, stockwatch.EUNAVAILABLE, stockwatch.ErrorCode(err))
	})

	t.Run("returns unavailable when server is unreachable", func(t *testing.T) {
		t.Parallel()

		n, err := telegram.NewNotifier("123:abc", "12345",
			telegram.WithServerURL("http://non-existent-host.invalid"),
			telegram.WithTimeout(500*time.Millisecond),
		)
		require.NoError(t, err)

		err = n.Notify(context.Background(), &stockwatch.Message{Text: "hi"})

		require.Error(t, err)
		assert.Equal(t, stockwatch.EUNAVAILABLE, stockwatch.ErrorCode(err))
	})
}
