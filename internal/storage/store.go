// Package storage defines the persistence contracts consumed by the billing
// service. Implementations live in the memory and sqlite subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/ayush-madan/paypilot/internal/core"
)

// ErrNotFound is returned by id-based lookups and keyed updates when no
// record matches. The billing service deliberately swallows it for snooze
// and mark-paid (silent no-op contract); every other caller propagates it.
var ErrNotFound = errors.New("record not found")

// BillStore is a keyed collection of bills. Ids are assigned by the store
// from a monotonic counter that is independent of the collection size, so
// deleting bills never causes id reuse within a session.
type BillStore interface {
	// Add persists a new bill and populates bill.ID.
	Add(ctx context.Context, bill *core.Bill) error

	// GetAll returns a snapshot of every bill. Callers own the returned
	// slice; mutating it never affects stored state.
	GetAll(ctx context.Context) ([]core.Bill, error)

	// GetByID returns the bill with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*core.Bill, error)

	// Update applies fn to the bill with the given id under the store's
	// write lock and persists the result. Returns ErrNotFound if no bill
	// matches; returns fn's error unmodified if fn fails.
	Update(ctx context.Context, id int64, fn func(*core.Bill) error) error

	// ReplaceAll overwrites the whole collection. Used for seeding and
	// import; single-record mutations go through Update.
	ReplaceAll(ctx context.Context, bills []core.Bill) error

	// Delete removes the bill with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Close releases any resources held by the store.
	Close() error
}

// ReminderStore holds per-bill reminder settings, with an id counter
// independent of bill ids.
type ReminderStore interface {
	// Add persists new settings and populates rs.ID.
	Add(ctx context.Context, rs *core.ReminderSettings) error

	// GetByID returns the settings with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*core.ReminderSettings, error)

	// GetByBillID returns the settings owned by a bill, or ErrNotFound.
	GetByBillID(ctx context.Context, billID int64) (*core.ReminderSettings, error)

	// Update replaces the settings with a matching id, or returns ErrNotFound.
	Update(ctx context.Context, rs core.ReminderSettings) error

	// GetAll returns a snapshot of every reminder configuration.
	GetAll(ctx context.Context) ([]core.ReminderSettings, error)

	// Delete removes the settings with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}
