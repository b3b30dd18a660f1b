// Package poller pulls readings from a live source on a cron schedule and
// records them in the store.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/source"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/store"
)

// DefaultSchedule polls at the dashboard refresh rate.
const DefaultSchedule = "@every 5s"

// pruneSchedule is how often readings older than the retention are removed.
const pruneSchedule = "@hourly"

// ErrNoReading is returned by Latest before the first successful poll.
var ErrNoReading = errors.New("no reading polled yet")

// ErrAlreadyStarted is returned by Start on a running poller.
var ErrAlreadyStarted = errors.New("poller already started")

// Config controls the poller.
type Config struct {
	// Schedule is a cron spec or descriptor, e.g. "@every 5s".
	Schedule string
	// Retention removes stored readings older than this. Zero keeps all.
	Retention time.Duration
}

// Poller is the background ingestion loop.
type Poller struct {
	src    source.Source
	st     store.Store
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	latest *model.Reading
	cron   *cron.Cron
	cancel context.CancelFunc
}

// New creates a poller. st may be nil, in which case readings are only kept
// in memory as the latest value.
func New(src source.Source, st store.Store, cfg Config, logger *zap.Logger) *Poller {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{src: src, st: st, cfg: cfg, logger: logger, now: time.Now}
}

// Poll pulls one reading, persists it and records it as the latest.
func (p *Poller) Poll(ctx context.Context) (model.Reading, error) {
	r, err := p.src.Next(ctx)
	if err != nil {
		return model.Reading{}, fmt.Errorf("poll %s: %w", p.src.Name(), err)
	}
	if p.st != nil {
		if r, err = p.st.Save(ctx, r); err != nil {
			return model.Reading{}, fmt.Errorf("poll %s: %w", p.src.Name(), err)
		}
	}
	p.mu.Lock()
	p.latest = &r
	p.mu.Unlock()

	p.logger.Debug("Reading polled",
		zap.String("source", p.src.Name()),
		zap.String("id", r.ID),
		zap.Float64("ph", r.PH),
		zap.Float64("temperature", r.Temperature),
		zap.Float64("dissolved_oxygen", r.DissolvedOxygen))
	return r, nil
}

// Latest returns the most recent polled reading.
func (p *Poller) Latest() (model.Reading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return model.Reading{}, ErrNoReading
	}
	return *p.latest, nil
}

// Start polls once immediately and then on the configured schedule until
// Stop is called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(p.cfg.Schedule, func() { p.tick(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule %q: %w", p.cfg.Schedule, err)
	}
	if p.cfg.Retention > 0 && p.st != nil {
		if _, err := c.AddFunc(pruneSchedule, func() { p.prune(ctx) }); err != nil {
			cancel()
			return fmt.Errorf("schedule prune: %w", err)
		}
	}

	p.mu.Lock()
	if p.cron != nil {
		p.mu.Unlock()
		cancel()
		return ErrAlreadyStarted
	}
	p.cron, p.cancel = c, cancel
	p.mu.Unlock()

	// Run immediately on startup.
	p.tick(ctx)
	c.Start()
	p.logger.Info("Poller started",
		zap.String("source", p.src.Name()),
		zap.String("schedule", p.cfg.Schedule),
		zap.Duration("retention", p.cfg.Retention))
	return nil
}

// Stop halts the schedule and waits for a running poll to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	c, cancel := p.cron, p.cancel
	p.cron, p.cancel = nil, nil
	p.mu.Unlock()
	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	p.logger.Info("Poller stopped")
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := p.Poll(ctx); err != nil {
		p.logger.Warn("Scheduled poll failed", zap.Error(err))
	}
}

func (p *Poller) prune(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := p.st.Prune(ctx, p.now().Add(-p.cfg.Retention))
	if err != nil {
		p.logger.Warn("Prune failed", zap.Error(err))
		return
	}
	if n > 0 {
		p.logger.Info("Pruned old readings", zap.Int64("count", n))
	}
}
