package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ayush-madan/paypilot/internal/core"
	"github.com/ayush-madan/paypilot/internal/storage"
)

func newTestStore(t *testing.T) *BillStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "paypilot_test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBill(name string, status core.PaymentStatus) *core.Bill {
	b := &core.Bill{
		Name:          name,
		Category:      core.CategoryUtilities,
		Amount:        core.Money{Cents: 10050},
		PaymentStatus: status,
	}
	if !status.Is(core.StatusPaid) {
		due := core.NewDate(2024, 8, 15)
		b.DueDate = &due
	}
	return b
}

func TestBillStore_AddAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := testBill("Electricity Bill", core.StatusUpcoming)
	if err := s.Add(ctx, b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("Add did not populate the bill id")
	}

	got, err := s.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Electricity Bill" || !got.PaymentStatus.Is(core.StatusUpcoming) {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(core.NewDate(2024, 8, 15).Time) {
		t.Errorf("due date round-trip mismatch: %v", got.DueDate)
	}
}

func TestBillStore_PaidBillHasNullDueDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := testBill("Internet Bill", core.StatusPaid)
	if err := s.Add(ctx, b); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DueDate != nil {
		t.Errorf("paid bill due date = %v, want nil", got.DueDate)
	}
}

func TestBillStore_NoIDReuseAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := testBill("A", core.StatusUpcoming)
	b := testBill("B", core.StatusUpcoming)
	s.Add(ctx, a)
	s.Add(ctx, b)

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	c := testBill("C", core.StatusUpcoming)
	s.Add(ctx, c)
	if c.ID <= b.ID {
		t.Errorf("id after delete = %d, want > %d (AUTOINCREMENT must not reuse)", c.ID, b.ID)
	}
}

func TestBillStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := testBill("Rent", core.StatusPending)
	s.Add(ctx, b)

	err := s.Update(ctx, b.ID, func(bill *core.Bill) error {
		bill.PaymentStatus = core.StatusPaid
		bill.DueDate = nil
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.GetByID(ctx, b.ID)
	if !got.PaymentStatus.Is(core.StatusPaid) || got.DueDate != nil {
		t.Errorf("update not applied: status=%s due=%v", got.PaymentStatus, got.DueDate)
	}

	if err := s.Update(ctx, 9999, func(*core.Bill) error { return nil }); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update(absent id) = %v, want ErrNotFound", err)
	}
}

func TestBillStore_UpdateRollsBackOnFnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := testBill("Rent", core.StatusPending)
	s.Add(ctx, b)

	wantErr := errors.New("mutator failed")
	err := s.Update(ctx, b.ID, func(bill *core.Bill) error {
		bill.Name = "should not persist"
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Update = %v, want mutator error", err)
	}

	got, _ := s.GetByID(ctx, b.ID)
	if got.Name != "Rent" {
		t.Errorf("failed update leaked changes: name = %q", got.Name)
	}
}

func TestBillStore_GetAllOrdered(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, testBill("A", core.StatusUpcoming))
	s.Add(ctx, testBill("B", core.StatusPending))

	bills, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(bills) != 2 || bills[0].Name != "A" || bills[1].Name != "B" {
		t.Errorf("GetAll = %+v, want [A B] in id order", bills)
	}
}

func TestReminderStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rstore := NewReminderStore(s.DB())

	b := testBill("Rent", core.StatusPending)
	s.Add(ctx, b)

	rs := &core.ReminderSettings{
		Frequency:        core.Monthly,
		StartDate:        core.NewDate(2024, 8, 1),
		CustomMessage:    "rent is due",
		NotificationPref: "email",
		BillID:           b.ID,
	}
	if err := rstore.Add(ctx, rs); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := rstore.GetByBillID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByBillID: %v", err)
	}
	if got.Frequency != core.Monthly || got.CustomMessage != "rent is due" {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	got.Frequency = core.Weekly
	if err := rstore.Update(ctx, *got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := rstore.GetByID(ctx, got.ID)
	if again.Frequency != core.Weekly {
		t.Errorf("frequency after update = %s, want weekly", again.Frequency)
	}

	if _, err := rstore.GetByBillID(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByBillID(absent) = %v, want ErrNotFound", err)
	}
}
