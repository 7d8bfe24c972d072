package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/stockwatch"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"TOML file with flag defaults"`

	Links    string        `default:"links.txt" help:"File with one product link per line"`
	State    string        `default:"state.json" help:"JSON state file"`
	StateDB  string        `name:"state-db" help:"SQLite state database (used instead of --state)"`
	Interval time.Duration `short:"i" default:"60s" help:"Pause between check cycles"`
	Timeout  time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Rate     float64       `default:"0" help:"Requests per second per storefront (0 disables)"`

	Browser       bool     `help:"Render pages with headless Chrome"`
	UserAgent     string   `name:"user-agent" help:"User-Agent header sent with every fetch"`
	LinkPattern   []string `name:"link-pattern" short:"p" help:"Only track links matching regex (repeatable)"`
	ExcludeLink   []string `name:"exclude-link-pattern" short:"x" help:"Skip links matching regex (repeatable)"`
	SoldOutMarker []string `name:"sold-out-marker" help:"Text marking a product as sold out (repeatable)"`
	AddMarker     []string `name:"add-marker" help:"Text of the add-to-cart button (repeatable)"`

	LogFile string `name:"log-file" help:"Append logs to this file instead of stderr"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Token       string `env:"TELEGRAM_BOT_TOKEN" help:"Telegram bot token"`
	ChatID      string `name:"chat-id" env:"TELEGRAM_CHAT_ID" help:"Telegram chat id or @channel"`
	TelegramAPI string `name:"telegram-api" hidden:"" default:"https://api.telegram.org" help:"Telegram Bot API base URL"`
}

// Config is the validated runtime configuration.
type Config struct {
	LinksPath   string
	StatePath   string
	StateDBPath string
	Interval    time.Duration
	Timeout     time.Duration
	Rate        float64

	Browser        bool
	UserAgent      string
	LinkFilter     *stockwatch.LinkFilter
	SoldOutMarkers []string
	AddMarkers     []string

	LogFile string
	Verbose bool

	Token       string
	ChatID      string
	TelegramAPI string
}

// config validates the parsed flags and returns the runtime configuration.
// Secrets are checked separately by requireSecrets so that a run without
// links can exit cleanly before they are needed.
func (c *CLI) config() (Config, error) {
	if c.Interval <= 0 {
		return Config{}, fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Rate < 0 {
		return Config{}, fmt.Errorf("rate must not be negative, got %v", c.Rate)
	}

	include, err := compilePatterns(c.LinkPattern)
	if err != nil {
		return Config{}, err
	}
	exclude, err := compilePatterns(c.ExcludeLink)
	if err != nil {
		return Config{}, err
	}
	var filter *stockwatch.LinkFilter
	if len(include) > 0 || len(exclude) > 0 {
		filter = &stockwatch.LinkFilter{Include: include, Exclude: exclude}
	}

	return Config{
		LinksPath:      c.Links,
		StatePath:      c.State,
		StateDBPath:    c.StateDB,
		Interval:       c.Interval,
		Timeout:        c.Timeout,
		Rate:           c.Rate,
		Browser:        c.Browser,
		UserAgent:      c.UserAgent,
		LinkFilter:     filter,
		SoldOutMarkers: c.SoldOutMarker,
		AddMarkers:     c.AddMarker,
		LogFile:        c.LogFile,
		Verbose:        c.Verbose,
		Token:          strings.TrimSpace(c.Token),
		ChatID:         strings.TrimSpace(c.ChatID),
		TelegramAPI:    c.TelegramAPI,
	}, nil
}

// requireSecrets reports a missing bot token or chat id.
func (c Config) requireSecrets() error {
	if c.Token == "" {
		return fmt.Errorf("telegram bot token not set: use --token or TELEGRAM_BOT_TOKEN")
	}
	if c.ChatID == "" {
		return fmt.Errorf("telegram chat id not set: use --chat-id or TELEGRAM_CHAT_ID")
	}
	return nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid link pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
