package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ayush-madan/paypilot/internal/core"
)

// Store is an in-memory BillExporter for local development and tests.
type Store struct {
	mu    sync.Mutex
	items []Entry
}

// Entry is one exported row.
type Entry struct {
	Bill   core.Bill
	PaidAt core.Date
}

func New() *Store {
	return &Store{}
}

// Append stores the bill and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, b core.Bill, paidAt core.Date) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, Entry{Bill: b.Clone(), PaidAt: paidAt})
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Entries returns a copy of everything exported so far.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.items...)
}
