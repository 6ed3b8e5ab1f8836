// Package backend selects and opens the configured storage backend.
package backend

import (
	"fmt"

	"github.com/ayush-madan/paypilot/internal/config"
	"github.com/ayush-madan/paypilot/internal/storage"
	"github.com/ayush-madan/paypilot/internal/storage/memory"
	"github.com/ayush-madan/paypilot/internal/storage/sqlite"
)

// Stores bundles the two stores of a backend so callers can open and close
// them as a unit.
type Stores struct {
	Bills     storage.BillStore
	Reminders storage.ReminderStore
}

// Open creates the stores for the configured backend. The memory backend
// starts seeded with demo bills; sqlite opens (and migrates) the database
// at the configured path.
func Open(cfg *config.Config) (*Stores, error) {
	switch cfg.DataBackend {
	case "sqlite":
		bills, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return &Stores{
			Bills:     bills,
			Reminders: sqlite.NewReminderStore(bills.DB()),
		}, nil
	case "memory":
		return &Stores{
			Bills:     memory.NewSeededBillStore(),
			Reminders: memory.NewReminderStore(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

// Close releases the backend's resources.
func (s *Stores) Close() error {
	return s.Bills.Close()
}
