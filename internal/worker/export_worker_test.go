package worker

import (
	"context"
	"testing"
	"time"

	"github.com/ayush-madan/paypilot/internal/amqp"
	"github.com/ayush-madan/paypilot/internal/billing"
	"github.com/ayush-madan/paypilot/internal/core"
	sheetsmem "github.com/ayush-madan/paypilot/internal/sheets/memory"
	"github.com/ayush-madan/paypilot/internal/storage/memory"
)

func TestHandleBillPaid_ExportsPaidBill(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBillStore()
	svc := billing.NewService(store)
	exporter := sheetsmem.New()
	w := NewExportWorker(store, exporter)

	due := core.NewDate(2024, 8, 15)
	bill, err := svc.AddBill(ctx, billing.AddParams{
		Name:          "Electricity Bill",
		Category:      core.CategoryUtilities,
		DueDate:       &due,
		Amount:        core.Money{Cents: 10050},
		PaymentStatus: core.StatusUpcoming,
	})
	if err != nil {
		t.Fatalf("AddBill: %v", err)
	}
	if err := svc.MarkBillAsPaid(ctx, bill.ID); err != nil {
		t.Fatalf("MarkBillAsPaid: %v", err)
	}

	msg := &amqp.BillPaidMessage{
		BillID:    bill.ID,
		Timestamp: time.Date(2024, 8, 16, 9, 30, 0, 0, time.UTC),
	}
	if err := w.HandleBillPaid(ctx, msg); err != nil {
		t.Fatalf("HandleBillPaid: %v", err)
	}

	entries := exporter.Entries()
	if len(entries) != 1 {
		t.Fatalf("exported entries = %d, want 1", len(entries))
	}
	if entries[0].Bill.ID != bill.ID {
		t.Errorf("exported bill id = %d, want %d", entries[0].Bill.ID, bill.ID)
	}
	if !entries[0].PaidAt.Equal(core.NewDate(2024, 8, 16).Time) {
		t.Errorf("exported paid date = %v, want 2024-08-16", entries[0].PaidAt)
	}
}

func TestHandleBillPaid_SkipsDeletedBill(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBillStore()
	exporter := sheetsmem.New()
	w := NewExportWorker(store, exporter)

	msg := &amqp.BillPaidMessage{BillID: 99, Timestamp: time.Now()}
	if err := w.HandleBillPaid(ctx, msg); err != nil {
		t.Errorf("HandleBillPaid(deleted bill) = %v, want nil", err)
	}
	if len(exporter.Entries()) != 0 {
		t.Error("deleted bill must not be exported")
	}
}

func TestHandleBillPaid_SkipsUnpaidBill(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBillStore()
	svc := billing.NewService(store)
	exporter := sheetsmem.New()
	w := NewExportWorker(store, exporter)

	due := core.NewDate(2024, 8, 15)
	bill, err := svc.AddBill(ctx, billing.AddParams{
		Name:          "Electricity Bill",
		Category:      core.CategoryUtilities,
		DueDate:       &due,
		Amount:        core.Money{Cents: 10050},
		PaymentStatus: core.StatusUpcoming,
	})
	if err != nil {
		t.Fatalf("AddBill: %v", err)
	}

	msg := &amqp.BillPaidMessage{BillID: bill.ID, Timestamp: time.Now()}
	if err := w.HandleBillPaid(ctx, msg); err != nil {
		t.Errorf("HandleBillPaid(unpaid bill) = %v, want nil", err)
	}
	if len(exporter.Entries()) != 0 {
		t.Error("unpaid bill must not be exported")
	}
}
