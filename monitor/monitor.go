// Package monitor drives the periodic restock checks: it fetches every
// tracked link, compares the new snapshot with the stored one, delivers
// restock notifications and persists the state.
package monitor

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/fwojciec/stockwatch"
	"github.com/google/uuid"
)

// DefaultInterval is the pause between two check cycles.
const DefaultInterval = 60 * time.Second

// Check is the outcome of checking a single link.
type Check struct {
	Link     string
	Snapshot stockwatch.Snapshot

	// Changed reports whether the snapshot differs from the stored one.
	Changed bool

	// Notified reports whether a restock notification was delivered.
	Notified bool
}

// ProgressFunc is called after each link is checked.
type ProgressFunc func(Check)

// CycleResult summarizes one pass over all links.
type CycleResult struct {
	Checked  int
	Failed   int
	Restocks int
	Notified int
}

// Monitor checks a fixed list of product links for restocks.
//
// Links are processed sequentially in configured order. A failure on one link
// is recorded as an error snapshot for that link and never stops the cycle.
// Monitor is not safe for concurrent use.
type Monitor struct {
	Links     []string
	Fetcher   stockwatch.Fetcher
	Extractor stockwatch.Extractor
	Store     stockwatch.StateStore
	Notifier  stockwatch.Notifier

	// Limiter, when set, is waited on before every fetch, keyed by domain.
	Limiter stockwatch.DomainLimiter

	// Sleeper pauses between cycles. Defaults to TimerSleeper.
	Sleeper stockwatch.Sleeper

	// Interval between cycles. Defaults to DefaultInterval.
	Interval time.Duration

	// Logger defaults to a handler that discards everything.
	Logger *slog.Logger

	// Progress is optional.
	Progress ProgressFunc

	state stockwatch.StateMap
}

// State returns a copy of the current in-memory state.
func (m *Monitor) State() stockwatch.StateMap {
	return maps.Clone(m.state)
}

// Load reads the persisted state. Unreadable or malformed state is logged
// and replaced with the unknown snapshot for every link, so Load only fails
// when ctx is done.
func (m *Monitor) Load(ctx context.Context) error {
	state, err := m.Store.Load(ctx, m.Links)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.logger().Warn("state unreadable, starting from unknown baseline",
			"code", stockwatch.ErrorCode(err),
			"err", err,
		)
		state = stockwatch.NewStateMap(m.Links)
	}
	m.state = state.WithDefaults(m.Links)
	return nil
}

// Bootstrap checks every link once, replaces the baseline with the results
// and sends a single initial-status message covering all links. The initial
// message is sent whatever the states are and never counts as a restock.
func (m *Monitor) Bootstrap(ctx context.Context) error {
	m.ensureState()
	logger := m.logger().With("cycle", uuid.NewString())
	logger.Info("bootstrap started", "links", len(m.Links))

	for _, link := range m.Links {
		if err := ctx.Err(); err != nil {
			return err
		}
		prev := m.state.Get(link)
		cur, err := m.check(ctx, logger, link, prev)
		if err != nil {
			return err
		}
		m.state[link] = cur
		m.report(Check{Link: link, Snapshot: cur, Changed: Fingerprint(prev) != Fingerprint(cur)})
	}

	msg := &stockwatch.Message{Text: stockwatch.FormatInitialStatus(m.Links, m.state)}
	if err := m.Notifier.Notify(context.WithoutCancel(ctx), msg); err != nil {
		logger.Error("initial status not delivered", "err", err)
	}

	m.persist(ctx, logger)
	logger.Info("bootstrap finished")
	return nil
}

// Cycle checks every link once. Restock notifications are delivered as soon
// as the transition is seen, and the link's entry is overwritten whether or
// not delivery succeeded. State is persisted once at the end of the cycle.
//
// When ctx is done between links, Cycle stops and returns the partial result
// with ctx.Err(); the state is not persisted in that case.
func (m *Monitor) Cycle(ctx context.Context) (CycleResult, error) {
	m.ensureState()
	logger := m.logger().With("cycle", uuid.NewString())
	logger.Info("cycle started", "links", len(m.Links))
	start := time.Now()

	var res CycleResult
	for _, link := range m.Links {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		prev := m.state.Get(link)
		cur, err := m.check(ctx, logger, link, prev)
		if err != nil {
			return res, err
		}
		res.Checked++
		if cur.State == stockwatch.AvailabilityError {
			res.Failed++
		}

		ch := Check{Link: link, Snapshot: cur, Changed: Fingerprint(prev) != Fingerprint(cur)}
		if msg, ok := stockwatch.Evaluate(link, prev, cur); ok {
			res.Restocks++
			logger.Info("restock detected", "url", link, "name", cur.Name)
			if err := m.Notifier.Notify(context.WithoutCancel(ctx), msg); err != nil {
				logger.Error("restock notification not delivered", "url", link, "err", err)
			} else {
				res.Notified++
				ch.Notified = true
			}
		}
		m.state[link] = cur
		m.report(ch)
	}

	m.persist(ctx, logger)
	logger.Info("cycle finished",
		"checked", res.Checked,
		"failed", res.Failed,
		"notifications", res.Notified,
		"duration", time.Since(start),
	)
	return res, nil
}

// Run loads the state, bootstraps and then runs a cycle every Interval until
// ctx is done. On cancellation the state is persisted one final time and Run
// returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Load(ctx); err != nil {
		return nil
	}
	defer m.persist(context.WithoutCancel(ctx), m.logger())

	if err := m.Bootstrap(ctx); err != nil {
		m.logger().Info("stopped during bootstrap")
		return nil
	}

	interval := m.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	for {
		m.logger().Debug("waiting", "duration", interval)
		if err := m.sleeper().Sleep(ctx, interval); err != nil {
			m.logger().Info("stopped")
			return nil
		}
		if _, err := m.Cycle(ctx); err != nil {
			m.logger().Info("stopped during cycle")
			return nil
		}
	}
}

// check fetches and extracts one link. Fetch and extraction failures become
// an error snapshot carrying the previous name; only a canceled limiter wait
// is returned as an error. The fetch itself is not interrupted by ctx.
func (m *Monitor) check(ctx context.Context, logger *slog.Logger, link string, prev stockwatch.Snapshot) (stockwatch.Snapshot, error) {
	if m.Limiter != nil {
		if err := m.Limiter.Wait(ctx, Domain(link)); err != nil {
			return stockwatch.Snapshot{}, err
		}
	}

	html, err := m.Fetcher.Fetch(context.WithoutCancel(ctx), link)
	if err != nil {
		logger.Warn("check failed", "url", link, "stage", "fetch", "err", err)
		return stockwatch.ErrorSnapshot(prev.Name), nil
	}

	s, err := m.Extractor.Extract(html)
	if err == nil && s == nil {
		err = stockwatch.Errorf(stockwatch.EINTERNAL, "extractor returned no snapshot")
	}
	if err != nil {
		logger.Warn("check failed", "url", link, "stage", "extract", "err", err)
		return stockwatch.ErrorSnapshot(prev.Name), nil
	}

	cur := s.Normalize()
	logger.Info("checked",
		"url", link,
		"state", cur.State,
		"changed", Fingerprint(prev) != Fingerprint(cur),
	)
	return cur, nil
}

func (m *Monitor) persist(ctx context.Context, logger *slog.Logger) {
	if m.state == nil {
		return
	}
	if err := m.Store.Save(ctx, m.state); err != nil {
		logger.Error("state not saved", "err", err)
	}
}

func (m *Monitor) report(c Check) {
	if m.Progress != nil {
		m.Progress(c)
	}
}

func (m *Monitor) ensureState() {
	if m.state == nil {
		m.state = stockwatch.NewStateMap(m.Links)
	}
}

func (m *Monitor) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}

func (m *Monitor) sleeper() stockwatch.Sleeper {
	if m.Sleeper == nil {
		return TimerSleeper{}
	}
	return m.Sleeper
}
