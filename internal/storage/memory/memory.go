// Package memory provides mutex-guarded in-memory implementations of the
// storage contracts. Every operation is a synchronous read-modify-write
// under one exclusive lock per store, so concurrent callers cannot lose
// updates through the replace-on-write path.
package memory

import (
	"context"
	"sync"

	"github.com/ayush-madan/paypilot/internal/core"
	"github.com/ayush-madan/paypilot/internal/storage"
)

// BillStore keeps bills in a slice ordered by insertion. The id counter is
// monotonic and never derived from the collection size, so deletions do
// not lead to id collisions.
type BillStore struct {
	mu     sync.Mutex
	bills  []core.Bill
	nextID int64
}

var _ storage.BillStore = (*BillStore)(nil)

func NewBillStore() *BillStore {
	return &BillStore{nextID: 1}
}

// NewSeededBillStore returns a store preloaded with demo bills for local
// development.
func NewSeededBillStore() *BillStore {
	s := NewBillStore()
	due1 := core.NewDate(2024, 8, 15)
	due3 := core.NewDate(2024, 7, 30)
	seed := []core.Bill{
		{ID: 1, Name: "Electricity Bill", Category: core.CategoryUtilities, DueDate: &due1, Amount: core.Money{Cents: 10050}, ReminderFrequency: core.Monthly, Notes: "Pay before due date", PaymentStatus: core.StatusUpcoming},
		{ID: 2, Name: "Internet Bill", Category: core.CategoryInternetCharges, Amount: core.Money{Cents: 6000}, ReminderFrequency: core.Monthly, Recurring: true, PaymentStatus: core.StatusPaid},
		{ID: 3, Name: "Rent", Category: core.CategoryHouseRent, DueDate: &due3, Amount: core.Money{Cents: 120000}, ReminderFrequency: core.Monthly, Notes: "Rent for June", PaymentStatus: core.StatusPending, OverdueDays: 5},
		{ID: 4, Name: "Groceries", Category: core.CategoryGroceries, Amount: core.Money{Cents: 20000}, ReminderFrequency: core.Weekly, Notes: "Weekly groceries", PaymentStatus: core.StatusPaid},
	}
	s.bills = seed
	s.nextID = 5
	return s
}

func (s *BillStore) Add(_ context.Context, bill *core.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill.ID = s.nextID
	s.nextID++
	s.bills = append(s.bills, bill.Clone())
	return nil
}

func (s *BillStore) GetAll(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Bill, len(s.bills))
	for i, b := range s.bills {
		out[i] = b.Clone()
	}
	return out, nil
}

func (s *BillStore) GetByID(_ context.Context, id int64) (*core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bills {
		if b.ID == id {
			c := b.Clone()
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *BillStore) Update(_ context.Context, id int64, fn func(*core.Bill) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bills {
		if s.bills[i].ID != id {
			continue
		}
		b := s.bills[i].Clone()
		if err := fn(&b); err != nil {
			return err
		}
		b.ID = id // id is immutable after creation
		s.bills[i] = b
		return nil
	}
	return storage.ErrNotFound
}

func (s *BillStore) ReplaceAll(_ context.Context, bills []core.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bills = make([]core.Bill, len(bills))
	for i, b := range bills {
		s.bills[i] = b.Clone()
		// Keep the counter ahead of imported ids.
		if b.ID >= s.nextID {
			s.nextID = b.ID + 1
		}
	}
	return nil
}

func (s *BillStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bills {
		if s.bills[i].ID == id {
			s.bills = append(s.bills[:i], s.bills[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *BillStore) Close() error { return nil }

// ReminderStore keeps reminder settings with its own id counter,
// independent of bill ids.
type ReminderStore struct {
	mu        sync.Mutex
	reminders []core.ReminderSettings
	nextID    int64
}

var _ storage.ReminderStore = (*ReminderStore)(nil)

func NewReminderStore() *ReminderStore {
	return &ReminderStore{nextID: 1}
}

func (s *ReminderStore) Add(_ context.Context, rs *core.ReminderSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs.ID = s.nextID
	s.nextID++
	s.reminders = append(s.reminders, *rs)
	return nil
}

func (s *ReminderStore) GetByID(_ context.Context, id int64) (*core.ReminderSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reminders {
		if r.ID == id {
			c := r
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *ReminderStore) GetByBillID(_ context.Context, billID int64) (*core.ReminderSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reminders {
		if r.BillID == billID {
			c := r
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *ReminderStore) Update(_ context.Context, rs core.ReminderSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reminders {
		if s.reminders[i].ID == rs.ID {
			s.reminders[i] = rs
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *ReminderStore) GetAll(_ context.Context) ([]core.ReminderSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.ReminderSettings, len(s.reminders))
	copy(out, s.reminders)
	return out, nil
}

func (s *ReminderStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reminders {
		if s.reminders[i].ID == id {
			s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}
