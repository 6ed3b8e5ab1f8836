package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayush-madan/paypilot/internal/billing"
	"github.com/ayush-madan/paypilot/internal/core"
	"github.com/ayush-madan/paypilot/internal/storage"
)

// ReminderPublisher sends reminder-due notifications to downstream
// consumers.
type ReminderPublisher interface {
	PublishReminderDue(ctx context.Context, billID, reminderID int64, frequency, message string) error
}

// ReminderWorker periodically scans reminder settings, fires the ones that
// have come due, and refreshes the overdue-day counters of unpaid bills.
// Last-sent times are tracked in memory, so a restart may resend at most
// one notification per reminder.
type ReminderWorker struct {
	bills     *billing.Service
	reminders storage.ReminderStore
	publisher ReminderPublisher
	interval  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	lastSent map[int64]time.Time
}

// WorkerOption configures a ReminderWorker.
type WorkerOption func(*ReminderWorker)

// WithWorkerClock overrides the time source, for tests.
func WithWorkerClock(now func() time.Time) WorkerOption {
	return func(w *ReminderWorker) { w.now = now }
}

func NewReminderWorker(bills *billing.Service, reminders storage.ReminderStore, publisher ReminderPublisher, interval time.Duration, opts ...WorkerOption) *ReminderWorker {
	w := &ReminderWorker{
		bills:     bills,
		reminders: reminders,
		publisher: publisher,
		interval:  interval,
		now:       time.Now,
		lastSent:  make(map[int64]time.Time),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run executes ticks at the configured interval until ctx is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Reminder worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reminder worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Tick(ctx); err != nil {
				slog.ErrorContext(ctx, "Reminder tick failed", "error", err)
			}
		}
	}
}

// Tick performs one pass: refresh overdue counters, then fire due
// reminders. Returns the number of reminders published.
func (w *ReminderWorker) Tick(ctx context.Context) (int, error) {
	now := w.now()

	if updated, err := w.bills.RefreshOverdueDays(ctx, now); err != nil {
		slog.ErrorContext(ctx, "Failed to refresh overdue days", "error", err)
	} else if updated > 0 {
		slog.InfoContext(ctx, "Refreshed overdue days", "bills_updated", updated)
	}

	settings, err := w.reminders.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reminder settings: %w", err)
	}

	// Publishing is I/O bound, so due reminders fire concurrently with a
	// bounded degree. Failures are logged per reminder and never abort
	// the pass.
	var fired atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, rs := range settings {
		due, err := w.isDue(rs, now)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check reminder dueness",
				"reminder_id", rs.ID,
				"error", err)
			continue
		}
		if !due {
			continue
		}

		rs := rs
		g.Go(func() error {
			if err := w.fire(gctx, rs, now); err != nil {
				slog.ErrorContext(gctx, "Failed to fire reminder",
					"reminder_id", rs.ID,
					"bill_id", rs.BillID,
					"error", err)
				return nil
			}
			fired.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if fired.Load() > 0 {
		slog.InfoContext(ctx, "Reminder pass complete",
			"fired", fired.Load(),
			"total_checked", len(settings))
	}

	return int(fired.Load()), nil
}

func (w *ReminderWorker) isDue(rs core.ReminderSettings, now time.Time) (bool, error) {
	// Reminders are dormant before their start date.
	if now.Before(rs.StartDate.Time) {
		return false, nil
	}

	checker, err := GetDuenessChecker(rs.Frequency)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	last := w.lastSent[rs.ID]
	w.mu.Unlock()

	return checker.IsDue(last, now, rs.StartDate), nil
}

func (w *ReminderWorker) fire(ctx context.Context, rs core.ReminderSettings, now time.Time) error {
	bill, err := w.bills.GetBillByID(ctx, rs.BillID)
	if err != nil {
		return fmt.Errorf("load bill %d: %w", rs.BillID, err)
	}

	// Paid bills need no reminding.
	if bill.PaymentStatus.Is(core.StatusPaid) {
		return nil
	}

	message := rs.CustomMessage
	if message == "" {
		message = fmt.Sprintf("Payment for %s is due", bill.Name)
	}

	if err := w.publisher.PublishReminderDue(ctx, rs.BillID, rs.ID, string(rs.Frequency), message); err != nil {
		return fmt.Errorf("publish reminder: %w", err)
	}

	w.mu.Lock()
	w.lastSent[rs.ID] = now
	w.mu.Unlock()

	slog.InfoContext(ctx, "Reminder fired",
		"reminder_id", rs.ID,
		"bill_id", rs.BillID,
		"bill_name", bill.Name,
		"frequency", rs.Frequency)

	return nil
}
