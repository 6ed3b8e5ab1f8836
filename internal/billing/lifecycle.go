package billing

import (
	"time"

	"github.com/ayush-madan/paypilot/internal/core"
)

// IsOverdue reports whether b belongs to the overdue set at the given
// moment: the status denotes pending payment, or the due date has passed.
// A past due date is always overdue and a far-future one never is.
func IsOverdue(b core.Bill, now time.Time) bool {
	if b.PaymentStatus.Is(core.StatusPending) {
		return true
	}
	return b.DueDate != nil && b.DueDate.Before(now)
}

// IsUpcoming reports whether b belongs to the upcoming set. The predicate
// is status-based only: a bill is upcoming exactly when it is flagged so.
func IsUpcoming(b core.Bill) bool {
	return b.PaymentStatus.Is(core.StatusUpcoming)
}

// OverdueDays returns the number of whole days b is past due at the given
// moment. Paid bills and bills not yet due report 0.
func OverdueDays(b core.Bill, now time.Time) int {
	if b.PaymentStatus.Is(core.StatusPaid) || b.DueDate == nil {
		return 0
	}
	days := int(now.Sub(b.DueDate.Time).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Snooze postpones the bill's due date without touching its payment status.
// Paid bills carry no due date, so the transition does not apply to them:
// the bill is left unchanged and false is returned.
func Snooze(b *core.Bill, newDue core.Date) bool {
	if b.PaymentStatus.Is(core.StatusPaid) {
		return false
	}
	d := newDue
	b.DueDate = &d
	return true
}

// MarkPaid performs the terminal transition: status becomes Paid, the due
// date is cleared, and the overdue counter resets. Reapplying it to an
// already-paid bill is a no-op, so the transition is idempotent.
func MarkPaid(b *core.Bill) {
	b.PaymentStatus = core.StatusPaid
	b.DueDate = nil
	b.OverdueDays = 0
}
