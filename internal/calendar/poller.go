package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Publisher receives the ranked event; nil means nothing to show.
type Publisher interface {
	SetCalendar(ev *Event)
}

type PollerConfig struct {
	Interval   time.Duration
	Lookbehind time.Duration
	Lookahead  time.Duration
}

type Poller struct {
	src    Source
	pub    Publisher
	cfg    PollerConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewPoller(src Source, pub Publisher, cfg PollerConfig, logger *slog.Logger) *Poller {
	return &Poller{
		src:    src,
		pub:    pub,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

func (p *Poller) Name() string            { return "calendar" }
func (p *Poller) Interval() time.Duration { return p.cfg.Interval }

// Poll fetches the window around now and publishes the ranked pick. On
// error nothing is published, so the previous pick stays on screen.
func (p *Poller) Poll(ctx context.Context) error {
	now := p.now()
	entries, err := p.src.Events(ctx, now.Add(-p.cfg.Lookbehind), now.Add(p.cfg.Lookahead))
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}

	ev, ok := Rank(entries, now)
	if !ok {
		p.logger.Debug("no calendar event to show", "candidates", len(entries))
		p.pub.SetCalendar(nil)
		return nil
	}

	p.logger.Debug("calendar pick", "title", ev.Title, "start", ev.Start, "quick_join", ev.JoinURL != "", "candidates", len(entries))
	p.pub.SetCalendar(&ev)
	return nil
}
