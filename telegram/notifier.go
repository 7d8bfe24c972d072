// Package telegram implements stockwatch.Notifier with the Telegram Bot API.
package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/stockwatch"
	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// DefaultServerURL is the public Telegram Bot API endpoint.
const DefaultServerURL = "https://api.telegram.org"

// DefaultSendTimeout bounds a single sendMessage call.
const DefaultSendTimeout = 10 * time.Second

// Ensure Notifier implements stockwatch.Notifier at compile time.
var _ stockwatch.Notifier = (*Notifier)(nil)

// Notifier posts messages to one chat using HTML parse mode.
type Notifier struct {
	client    *tgbot.Bot
	chatID    any
	serverURL string
	timeout   time.Duration
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithServerURL sets the Bot API base URL. Defaults to DefaultServerURL.
func WithServerURL(u string) Option {
	return func(n *Notifier) {
		n.serverURL = u
	}
}

// WithTimeout sets the timeout for a single send.
// Defaults to DefaultSendTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		n.timeout = d
	}
}

// NewNotifier creates a Notifier for the bot token and chat.
// Returns an EINVALID error if either is empty.
func NewNotifier(token, chatID string, opts ...Option) (*Notifier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, stockwatch.Errorf(stockwatch.EINVALID, "telegram bot token is required")
	}
	if strings.TrimSpace(chatID) == "" {
		return nil, stockwatch.Errorf(stockwatch.EINVALID, "telegram chat id is required")
	}

	n := &Notifier{
		chatID:    normalizeChatID(chatID),
		serverURL: DefaultServerURL,
		timeout:   DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(n)
	}

	client, err := tgbot.New(token,
		tgbot.WithSkipGetMe(),
		tgbot.WithServerURL(strings.TrimRight(n.serverURL, "/")),
	)
	if err != nil {
		return nil, stockwatch.Errorf(stockwatch.EINVALID, "init telegram bot: %v", err)
	}
	n.client = client

	return n, nil
}

// Notify sends msg.Text to the configured chat.
// Transport errors and API rejections are returned as EUNAVAILABLE.
func (n *Notifier) Notify(ctx context.Context, msg *stockwatch.Message) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	sent, err := n.client.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      msg.Text,
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		return stockwatch.Errorf(stockwatch.EUNAVAILABLE, "telegram send: %v", err)
	}
	if sent == nil || sent.ID <= 0 {
		return stockwatch.Errorf(stockwatch.EUNAVAILABLE, "telegram send returned empty message id")
	}
	return nil
}

// normalizeChatID converts numeric chat IDs to int64 and keeps
// channel usernames such as "@restocks" as strings.
func normalizeChatID(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if numeric, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return numeric
	}
	return trimmed
}
