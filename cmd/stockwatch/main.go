package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/stockwatch"
	"github.com/fwojciec/stockwatch/fs"
	"github.com/fwojciec/stockwatch/goquery"
	swhttp "github.com/fwojciec/stockwatch/http"
	"github.com/fwojciec/stockwatch/monitor"
	"github.com/fwojciec/stockwatch/rod"
	swslog "github.com/fwojciec/stockwatch/slog"
	"github.com/fwojciec/stockwatch/sqlite"
	"github.com/fwojciec/stockwatch/telegram"
	"github.com/joho/godotenv"
)

func main() {
	// Real environment variables win over .env entries.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is set by Run once flags are parsed and validated.
	Config Config

	// SQLite database, when --state-db is used.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases the fetcher, log file and database.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run parses args, wires the monitor and runs it until ctx is canceled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("stockwatch"),
		kong.Description("Watch product pages and send a Telegram message when a sold out product is back in stock"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(TOML),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := cli.config()
	if err != nil {
		return err
	}
	m.Config = cfg

	defer m.Close()

	logger, err := m.openLogger(stderr)
	if err != nil {
		return err
	}

	// An empty link list is a clean exit, whatever else is configured.
	links, err := fs.ReadLinks(cfg.LinksPath)
	if stockwatch.ErrorCode(err) == stockwatch.ENOTFOUND {
		logger.Warn("links file not found, nothing to monitor", "path", cfg.LinksPath)
		fmt.Fprintf(stdout, "No links to monitor: %s\n", stockwatch.ErrorMessage(err))
		return nil
	} else if err != nil {
		return err
	}

	links, rejected := cfg.LinkFilter.Split(links)
	for _, link := range rejected {
		logger.Warn("link skipped by link patterns", "url", link)
	}
	if len(links) == 0 {
		logger.Warn("no links to monitor", "path", cfg.LinksPath)
		fmt.Fprintf(stdout, "No links to monitor in %s\n", cfg.LinksPath)
		return nil
	}

	if err := cfg.requireSecrets(); err != nil {
		return err
	}

	mon, err := m.newMonitor(links, logger)
	if err != nil {
		return err
	}
	mon.Progress = func(c monitor.Check) {
		fmt.Fprintf(stdout, "%s: %s\n", c.Link, c.Snapshot.State)
	}

	logger.Info("monitoring started", "links", len(links), "interval", cfg.Interval)
	err = mon.Run(ctx)
	logger.Info("monitoring stopped")
	return err
}

// openLogger returns a text logger writing to stderr or appending to the
// configured log file.
func (m *Main) openLogger(stderr io.Writer) (*slog.Logger, error) {
	w := stderr
	if m.Config.LogFile != "" {
		f, err := os.OpenFile(m.Config.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		m.closers = append(m.closers, f)
		w = f
	}

	level := slog.LevelInfo
	if m.Config.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// newMonitor wires the fetcher, extractor, state store and notifier selected
// by the configuration, each wrapped in its logging decorator.
func (m *Main) newMonitor(links []string, logger *slog.Logger) (*monitor.Monitor, error) {
	cfg := m.Config

	fetcher, err := m.newFetcher()
	if err != nil {
		return nil, err
	}

	var extractorOpts []goquery.Option
	if len(cfg.SoldOutMarkers) > 0 {
		extractorOpts = append(extractorOpts, goquery.WithSoldOutMarkers(cfg.SoldOutMarkers...))
	}
	if len(cfg.AddMarkers) > 0 {
		extractorOpts = append(extractorOpts, goquery.WithAddToCartMarkers(cfg.AddMarkers...))
	}

	store, err := m.newStateStore()
	if err != nil {
		return nil, err
	}

	notifier, err := telegram.NewNotifier(cfg.Token, cfg.ChatID,
		telegram.WithServerURL(cfg.TelegramAPI),
		telegram.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}

	mon := &monitor.Monitor{
		Links:     links,
		Fetcher:   swslog.NewLoggingFetcher(fetcher, logger),
		Extractor: swslog.NewLoggingExtractor(goquery.NewExtractor(extractorOpts...), logger),
		Store:     swslog.NewLoggingStateStore(store, logger),
		Notifier:  swslog.NewLoggingNotifier(notifier, logger),
		Interval:  cfg.Interval,
		Logger:    logger,
	}
	if cfg.Rate > 0 {
		mon.Limiter = monitor.NewDomainLimiter(cfg.Rate)
	}
	return mon, nil
}

func (m *Main) newFetcher() (stockwatch.Fetcher, error) {
	cfg := m.Config
	if cfg.Browser {
		opts := []rod.Option{rod.WithFetchTimeout(cfg.Timeout)}
		if cfg.UserAgent != "" {
			opts = append(opts, rod.WithUserAgent(cfg.UserAgent))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		m.closers = append(m.closers, f)
		return f, nil
	}

	opts := []swhttp.Option{swhttp.WithTimeout(cfg.Timeout)}
	if cfg.UserAgent != "" {
		opts = append(opts, swhttp.WithUserAgent(cfg.UserAgent))
	}
	f := swhttp.NewFetcher(opts...)
	m.closers = append(m.closers, f)
	return f, nil
}

func (m *Main) newStateStore() (stockwatch.StateStore, error) {
	if m.Config.StateDBPath == "" {
		return fs.NewStateStore(m.Config.StatePath), nil
	}

	m.DB = sqlite.NewDB(m.Config.StateDBPath)
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", m.Config.StateDBPath, err)
	}
	m.closers = append(m.closers, m.DB)
	return sqlite.NewStateStore(m.DB), nil
}
