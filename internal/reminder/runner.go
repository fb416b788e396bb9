// Package reminder announces upcoming events on a cron schedule
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/gmsas95/lifetrack/internal/metrics"
	"github.com/gmsas95/lifetrack/internal/store"
)

// Notifier delivers a reminder text to one destination
type Notifier interface {
	Name() string
	Notify(ctx context.Context, message string) error
}

// EventSource is the slice of the store the runner needs
type EventSource interface {
	UpcomingEvents(ctx context.Context, now time.Time, lead time.Duration) ([]store.Event, error)
	MarkReminded(ctx context.Context, ids ...string) error
}

// Config holds reminder runner configuration
type Config struct {
	Schedule string        // cron spec, "@every 1m" by default
	Lead     time.Duration // how far ahead events are announced
	Location *time.Location
}

// Runner checks for due events on every cron tick
type Runner struct {
	config    Config
	events    EventSource
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	cron      *cron.Cron
	notifiers []Notifier
	cancel    context.CancelFunc
	running   bool
	mu        sync.RWMutex
}

// NewRunner creates a new reminder runner. The schedule is validated here.
func NewRunner(config Config, events EventSource, logger *zap.Logger, m *metrics.Metrics) (*Runner, error) {
	if config.Schedule == "" {
		config.Schedule = "@every 1m"
	}
	if config.Lead <= 0 {
		config.Lead = 15 * time.Minute
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Default()
	}

	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", config.Schedule, err)
	}

	return &Runner{
		config:  config,
		events:  events,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}, nil
}

// AddNotifier registers a destination for reminders
func (r *Runner) AddNotifier(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifiers = append(r.notifiers, n)
}

// Start schedules the check and runs it once immediately
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("reminder runner already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.cron = cron.New(cron.WithLocation(r.config.Location))
	if _, err := r.cron.AddFunc(r.config.Schedule, func() { r.Check(ctx) }); err != nil {
		r.cancel()
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	r.running = true
	r.cron.Start()
	go r.Check(ctx)

	r.logger.Info("Reminder runner started",
		zap.String("schedule", r.config.Schedule),
		zap.Duration("lead", r.config.Lead),
	)
	return nil
}

// Stop stops the scheduler and waits for a running check to finish
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	c, cancel := r.cron, r.cancel
	r.mu.Unlock()

	cancel()
	<-c.Stop().Done()
	r.logger.Info("Reminder runner stopped")
}

// IsRunning returns whether the runner is active
func (r *Runner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// Check announces every due event and returns how many were delivered
func (r *Runner) Check(ctx context.Context) int {
	now := r.now().In(r.config.Location)

	events, err := r.events.UpcomingEvents(ctx, now, r.config.Lead)
	if err != nil {
		r.logger.Error("Failed to load upcoming events", zap.Error(err))
		return 0
	}
	if len(events) == 0 {
		return 0
	}

	r.mu.RLock()
	notifiers := append([]Notifier(nil), r.notifiers...)
	r.mu.RUnlock()

	if len(notifiers) == 0 {
		r.logger.Debug("Events due but no notifier registered", zap.Int("count", len(events)))
		return 0
	}

	var delivered []string
	for _, ev := range events {
		msg := Message(ev, now)
		if r.notifyAll(ctx, notifiers, msg) {
			delivered = append(delivered, ev.ID)
			r.metrics.RecordReminderSent()
		}
	}

	if err := r.events.MarkReminded(ctx, delivered...); err != nil {
		r.logger.Error("Failed to mark events reminded", zap.Error(err))
	}
	if len(delivered) > 0 {
		r.logger.Info("Reminders sent", zap.Int("count", len(delivered)))
	}
	return len(delivered)
}

// notifyAll fans out concurrently and reports whether any notifier succeeded
func (r *Runner) notifyAll(ctx context.Context, notifiers []Notifier, msg string) bool {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok bool
	)
	for _, n := range notifiers {
		wg.Add(1)
		go func(n Notifier) {
			defer wg.Done()
			if err := n.Notify(ctx, msg); err != nil {
				r.logger.Warn("Reminder delivery failed", zap.String("notifier", n.Name()), zap.Error(err))
				return
			}
			mu.Lock()
			ok = true
			mu.Unlock()
		}(n)
	}
	wg.Wait()
	return ok
}

// Message renders the reminder text for an event
func Message(ev store.Event, now time.Time) string {
	when := ev.StartTime
	if ev.Date != now.Format(store.DateLayout) {
		if d, err := time.Parse(store.DateLayout, ev.Date); err == nil {
			when += " ngày " + d.Format("02/01")
		}
	}

	msg := fmt.Sprintf("⏰ Nhắc nhở: %s lúc %s", ev.Title, when)
	if start, err := ev.StartAt(now.Location()); err == nil {
		if mins := int(start.Sub(now).Round(time.Minute).Minutes()); mins > 0 {
			msg += fmt.Sprintf(" (còn %d phút)", mins)
		}
	}
	return msg
}
