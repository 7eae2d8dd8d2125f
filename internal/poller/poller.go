// Package poller runs long-lived refresh tasks. Each task owns one feed and
// publishes into shared state on its own cadence; a failing cycle is logged
// and counted, never fatal, and the task's previous output stays in place.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Task is one feed. Poll fetches, parses and publishes in a single cycle.
type Task interface {
	Name() string
	Interval() time.Duration
	Poll(ctx context.Context) error
}

// Status is the runtime health of one task.
type Status struct {
	Name        string
	Healthy     bool
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	LastLatency time.Duration
}

type Runner struct {
	tasks   []Task
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.RWMutex
	statuses map[string]*Status

	wg sync.WaitGroup
}

// NewRunner returns a runner for tasks. timeout bounds every Poll call;
// zero means no per-cycle deadline.
func NewRunner(timeout time.Duration, logger *slog.Logger, tasks ...Task) *Runner {
	r := &Runner{
		tasks:    tasks,
		timeout:  timeout,
		logger:   logger,
		statuses: make(map[string]*Status, len(tasks)),
	}
	for _, t := range tasks {
		r.statuses[t.Name()] = &Status{Name: t.Name(), Healthy: true}
	}
	return r
}

// Start launches one goroutine per task. Each polls immediately and then on
// its interval until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	for _, t := range r.tasks {
		r.wg.Add(1)
		go func(t Task) {
			defer r.wg.Done()
			r.loop(ctx, t)
		}(t)
	}
}

// Wait blocks until every task goroutine has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, t Task) {
	logger := r.logger.With("poller", t.Name())
	logger.Info("poller started", "interval", t.Interval())

	r.RunOnce(ctx, t)

	ticker := time.NewTicker(t.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("poller stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx, t)
		}
	}
}

// RunOnce performs a single cycle of t and records its outcome.
func (r *Runner) RunOnce(ctx context.Context, t Task) error {
	pollCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := safePoll(pollCtx, t)
	latency := time.Since(start)

	r.record(t.Name(), start, latency, err)

	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		r.logger.Error("poll failed, keeping previous data", "poller", t.Name(), "err", err, "latency", latency)
		return err
	}
	r.logger.Debug("poll ok", "poller", t.Name(), "latency", latency)
	return nil
}

func safePoll(ctx context.Context, t Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in %s poll: %v", t.Name(), p)
		}
	}()
	return t.Poll(ctx)
}

func (r *Runner) record(name string, at time.Time, latency time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.statuses[name]
	if !ok {
		s = &Status{Name: name}
		r.statuses[name] = s
	}
	s.LastRun = at
	s.LastLatency = latency
	s.RunCount++
	s.LastError = err
	s.Healthy = err == nil
	if err != nil {
		s.ErrorCount++
	}
}

// Status returns a copy of the named task's status.
func (r *Runner) Status(name string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.statuses[name]
	if !ok {
		return Status{}, false
	}
	return *s, true
}

// AllStatus returns a copy of every task status sorted by name.
func (r *Runner) AllStatus() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Status, 0, len(r.statuses))
	for _, s := range r.statuses {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
