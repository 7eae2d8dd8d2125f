package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marcin-skalski/statusdeck/internal/calendar"
	"github.com/marcin-skalski/statusdeck/internal/config"
	"github.com/marcin-skalski/statusdeck/internal/console"
	"github.com/marcin-skalski/statusdeck/internal/github"
	"github.com/marcin-skalski/statusdeck/internal/input"
	"github.com/marcin-skalski/statusdeck/internal/launcher"
	"github.com/marcin-skalski/statusdeck/internal/poller"
	"github.com/marcin-skalski/statusdeck/internal/state"
)

// GitHubAPI is the part of the GitHub client the pollers need.
type GitHubAPI interface {
	github.NotificationLister
	github.PullRequestSearcher
}

// Deps are the external collaborators. A nil feed or device disables the
// matching task.
type Deps struct {
	ConfigPath string
	GitHub     GitHubAPI
	Calendar   calendar.Source
	Device     input.Device
	Launcher   launcher.Launcher
}

type Daemon struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger

	store      *state.Store
	machine    *console.Machine
	runner     *poller.Runner
	dispatcher *input.Dispatcher

	now func() time.Time
	wg  sync.WaitGroup

	hookMu   sync.Mutex
	onChange func()
}

func New(cfg *config.Config, deps Deps, logger *slog.Logger) (*Daemon, error) {
	store := state.NewStore(cfg.Shortcuts)

	var tasks []poller.Task
	if deps.Calendar != nil {
		tasks = append(tasks, calendar.NewPoller(deps.Calendar, store, calendar.PollerConfig{
			Interval:   cfg.Calendar.Interval.Duration,
			Lookbehind: cfg.Calendar.Lookbehind.Duration,
			Lookahead:  cfg.Calendar.Lookahead.Duration,
		}, logger.With("poller", "calendar")))
	}
	if deps.GitHub != nil {
		tasks = append(tasks,
			github.NewNotificationPoller(deps.GitHub, store, cfg.GitHub.NotificationsInterval.Duration, logger.With("poller", "notifications")),
			github.NewPullRequestPoller(deps.GitHub, store, cfg.GitHub.User, cfg.GitHub.PullsInterval.Duration, logger.With("poller", "pulls")),
		)
	}

	d := &Daemon{
		cfg:        cfg,
		configPath: deps.ConfigPath,
		logger:     logger,
		store:      store,
		machine:    console.New(store, deps.Launcher, cfg.Pages.PreserveSubstate, logger.With("component", "console")),
		runner:     poller.NewRunner(cfg.RequestTimeout.Duration, logger, tasks...),
		now:        time.Now,
	}

	if deps.Device != nil {
		keys, err := input.ParseKeyMap(cfg.Input.KeyMap)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		d.dispatcher = input.NewDispatcher(deps.Device, keys, cfg.Input.PollInterval.Duration, logger.With("component", "input"))
	}

	d.store.SetClock(d.clockText())
	return d, nil
}

// OnChange registers fn to be called after a control-panel key changes
// the state.
func (d *Daemon) OnChange(fn func()) {
	d.hookMu.Lock()
	defer d.hookMu.Unlock()
	d.onChange = fn
}

func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("daemon started",
		"refresh_interval", d.cfg.Refresh.Interval,
		"pollers", len(d.runner.AllStatus()),
		"input", d.dispatcher != nil)

	d.runner.Start(ctx)

	if d.dispatcher != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := d.dispatcher.Run(ctx, d.panelKey); err != nil {
				d.logger.Error("input dispatcher failed", "err", err)
			}
		}()
	}

	if d.configPath != "" {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := config.Watch(ctx, d.configPath, d.logger, d.reload); err != nil {
				d.logger.Warn("config watch disabled", "err", err)
			}
		}()
	}

	ticker := time.NewTicker(d.cfg.Refresh.Interval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down, waiting for tasks")
			d.runner.Wait()
			d.wg.Wait()
			d.logger.Info("all tasks stopped")
			return nil
		case <-ticker.C:
			d.refresh()
		}
	}
}

// refresh is one frame of the refresh ticker.
func (d *Daemon) refresh() {
	d.machine.Heartbeat()
	d.store.SetClock(d.clockText())
}

func (d *Daemon) clockText() string {
	return d.now().Format(d.cfg.Refresh.ClockFormat)
}

// HandleKey applies a logical key from any source to the page machine.
func (d *Daemon) HandleKey(k input.Key) {
	d.machine.HandleKey(k)
}

func (d *Daemon) panelKey(k input.Key) {
	d.machine.HandleKey(k)

	d.hookMu.Lock()
	fn := d.onChange
	d.hookMu.Unlock()
	if fn != nil {
		fn()
	}
}

func (d *Daemon) reload(cfg *config.Config) {
	d.store.SetShortcuts(cfg.Shortcuts)
	d.logger.Info("shortcuts reloaded", "groups", len(cfg.Shortcuts))
}

// Store exposes the shared state.
func (d *Daemon) Store() *state.Store {
	return d.store
}
