package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayush-madan/paypilot/internal/core"
	"github.com/ayush-madan/paypilot/internal/storage"
)

// ReminderService manages per-bill reminder settings. The settings hold a
// weak id-based back-reference to their bill; the bill itself is only
// consulted to confirm existence.
type ReminderService struct {
	bills     storage.BillStore
	reminders storage.ReminderStore
}

func NewReminderService(bills storage.BillStore, reminders storage.ReminderStore) *ReminderService {
	return &ReminderService{bills: bills, reminders: reminders}
}

// UpdateReminderSettings creates or replaces the reminder configuration of
// a bill. Returns storage.ErrNotFound when the bill does not exist.
func (s *ReminderService) UpdateReminderSettings(ctx context.Context, billID int64, frequency core.Frequency, startDate core.Date, message, notificationPref string) (*core.ReminderSettings, error) {
	if _, err := s.bills.GetByID(ctx, billID); err != nil {
		return nil, fmt.Errorf("update reminder settings: %w", err)
	}

	rs := core.ReminderSettings{
		Frequency:        frequency,
		StartDate:        startDate,
		CustomMessage:    message,
		NotificationPref: notificationPref,
		BillID:           billID,
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("update reminder settings: %w", err)
	}

	existing, err := s.reminders.GetByBillID(ctx, billID)
	switch {
	case err == nil:
		rs.ID = existing.ID
		if err := s.reminders.Update(ctx, rs); err != nil {
			return nil, fmt.Errorf("update reminder settings: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		if err := s.reminders.Add(ctx, &rs); err != nil {
			return nil, fmt.Errorf("add reminder settings: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup reminder settings: %w", err)
	}

	slog.InfoContext(ctx, "Reminder settings saved",
		"reminder_id", rs.ID,
		"bill_id", billID,
		"frequency", rs.Frequency)

	return &rs, nil
}

// GetReminderSettings returns the configuration owned by a bill, or
// storage.ErrNotFound.
func (s *ReminderService) GetReminderSettings(ctx context.Context, billID int64) (*core.ReminderSettings, error) {
	return s.reminders.GetByBillID(ctx, billID)
}

// DeleteReminderSettings removes a bill's reminder configuration. Deleting
// settings that never existed is not an error: the end state is the same.
func (s *ReminderService) DeleteReminderSettings(ctx context.Context, billID int64) error {
	rs, err := s.reminders.GetByBillID(ctx, billID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup reminder settings: %w", err)
	}
	if err := s.reminders.Delete(ctx, rs.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete reminder settings: %w", err)
	}
	return nil
}
