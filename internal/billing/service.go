package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayush-madan/paypilot/internal/core"
	"github.com/ayush-madan/paypilot/internal/storage"
)

// EventPublisher receives bill lifecycle events for downstream consumers.
// Publishing is best-effort: the service logs failures but never fails the
// operation that triggered the event.
type EventPublisher interface {
	PublishBillPaid(ctx context.Context, billID int64) error
}

// Service orchestrates the lifecycle and query engines over a BillStore.
// All operations are synchronous; concurrency discipline is owned by the
// store. Persistence errors propagate unmodified.
type Service struct {
	store  storage.BillStore
	events EventPublisher
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithEvents attaches a lifecycle event publisher.
func WithEvents(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.BillStore, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddParams carries the caller-supplied fields for a new bill. The id is
// assigned by the store.
type AddParams struct {
	Name              string
	Category          core.Category
	DueDate           *core.Date
	Amount            core.Money
	ReminderFrequency core.Frequency
	Attachment        string
	Notes             string
	Recurring         bool
	PaymentStatus     core.PaymentStatus
	OverdueDays       int
}

// AddBill validates and persists a new bill, returning it with the
// store-assigned id.
func (s *Service) AddBill(ctx context.Context, p AddParams) (*core.Bill, error) {
	status, err := core.ParsePaymentStatus(string(p.PaymentStatus))
	if err != nil {
		return nil, fmt.Errorf("add bill: %w", err)
	}

	bill := core.Bill{
		Name:              p.Name,
		Category:          p.Category,
		DueDate:           p.DueDate,
		Amount:            p.Amount,
		ReminderFrequency: p.ReminderFrequency,
		Attachment:        p.Attachment,
		Notes:             p.Notes,
		Recurring:         p.Recurring,
		PaymentStatus:     status,
		OverdueDays:       p.OverdueDays,
	}
	if err := bill.Validate(); err != nil {
		return nil, fmt.Errorf("add bill: %w", err)
	}

	if err := s.store.Add(ctx, &bill); err != nil {
		return nil, fmt.Errorf("add bill: %w", err)
	}

	slog.InfoContext(ctx, "Bill added",
		"id", bill.ID,
		"name", bill.Name,
		"category", bill.Category,
		"payment_status", bill.PaymentStatus)

	return &bill, nil
}

// GetAllBills returns the full current collection. The store hands out a
// defensive copy, so callers may mutate the result freely.
func (s *Service) GetAllBills(ctx context.Context) ([]core.Bill, error) {
	return s.store.GetAll(ctx)
}

// GetBillByID returns a single bill, or storage.ErrNotFound.
func (s *Service) GetBillByID(ctx context.Context, id int64) (*core.Bill, error) {
	return s.store.GetByID(ctx, id)
}

// GetBillsOverview applies the strict overview aggregation over the full
// collection: exact status equality, category/"All" rule, exclusive date
// range.
func (s *Service) GetBillsOverview(ctx context.Context, c OverviewCriteria) ([]core.Bill, error) {
	bills, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOverview(bills, c), nil
}

// GetOverdueBills seeds from the overdue set and applies the three-stage
// filter pipeline.
func (s *Service) GetOverdueBills(ctx context.Context, c Criteria) ([]core.Bill, error) {
	bills, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overdue := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		if IsOverdue(b, now) {
			overdue = append(overdue, b)
		}
	}
	return Filter(overdue, c), nil
}

// GetUpcomingBills seeds from the upcoming set and applies the three-stage
// filter pipeline.
func (s *Service) GetUpcomingBills(ctx context.Context, c Criteria) ([]core.Bill, error) {
	bills, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	upcoming := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		if IsUpcoming(b) {
			upcoming = append(upcoming, b)
		}
	}
	return Filter(upcoming, c), nil
}

// SnoozeBill postpones the due date of the bill with the given id. An
// absent id is a silent no-op rather than an error, and so is a bill that
// is already paid (a paid bill must keep its cleared due date); any other
// store error propagates.
func (s *Service) SnoozeBill(ctx context.Context, snoozeDate core.Date, billID int64) error {
	applied := false
	err := s.store.Update(ctx, billID, func(b *core.Bill) error {
		applied = Snooze(b, snoozeDate)
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Snooze skipped, bill not found", "id", billID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("snooze bill %d: %w", billID, err)
	}
	if !applied {
		slog.WarnContext(ctx, "Snooze skipped, bill already paid", "id", billID)
		return nil
	}

	slog.InfoContext(ctx, "Bill snoozed", "id", billID, "new_due_date", snoozeDate.Format("2006-01-02"))
	return nil
}

// MarkBillAsPaid transitions the bill to Paid and clears its due date.
// Idempotent; an absent id is a silent no-op like SnoozeBill.
func (s *Service) MarkBillAsPaid(ctx context.Context, billID int64) error {
	err := s.store.Update(ctx, billID, func(b *core.Bill) error {
		MarkPaid(b)
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Mark paid skipped, bill not found", "id", billID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark bill %d as paid: %w", billID, err)
	}

	slog.InfoContext(ctx, "Bill marked as paid", "id", billID)
	s.publishPaid(ctx, billID)
	return nil
}

func (s *Service) publishPaid(ctx context.Context, billID int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishBillPaid(ctx, billID); err != nil {
		// The bill is already persisted; event delivery is best-effort.
		slog.ErrorContext(ctx, "Failed to publish bill paid event", "id", billID, "error", err)
	}
}

// UpdateBill replaces the mutable fields of an existing bill. Unlike
// SnoozeBill and MarkBillAsPaid this reports ErrNotFound: the caller named
// a bill it expects to exist.
func (s *Service) UpdateBill(ctx context.Context, bill core.Bill) error {
	if err := bill.Validate(); err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	err := s.store.Update(ctx, bill.ID, func(b *core.Bill) error {
		*b = bill.Clone()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update bill %d: %w", bill.ID, err)
	}
	return nil
}

// DeleteBill removes a bill. Its id is never reassigned within a session.
func (s *Service) DeleteBill(ctx context.Context, billID int64) error {
	if err := s.store.Delete(ctx, billID); err != nil {
		return fmt.Errorf("delete bill %d: %w", billID, err)
	}
	slog.InfoContext(ctx, "Bill deleted", "id", billID)
	return nil
}

// RefreshOverdueDays recomputes the overdue-day counter for every unpaid
// bill with a past due date. Returns the number of bills updated.
func (s *Service) RefreshOverdueDays(ctx context.Context, now time.Time) (int, error) {
	bills, err := s.store.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, b := range bills {
		days := OverdueDays(b, now)
		if days == b.OverdueDays {
			continue
		}
		err := s.store.Update(ctx, b.ID, func(cur *core.Bill) error {
			cur.OverdueDays = OverdueDays(*cur, now)
			return nil
		})
		if errors.Is(err, storage.ErrNotFound) {
			continue // deleted between snapshot and update
		}
		if err != nil {
			return updated, fmt.Errorf("refresh overdue days for bill %d: %w", b.ID, err)
		}
		updated++
	}
	return updated, nil
}
