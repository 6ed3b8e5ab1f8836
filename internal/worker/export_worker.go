package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayush-madan/paypilot/internal/amqp"
	"github.com/ayush-madan/paypilot/internal/core"
	"github.com/ayush-madan/paypilot/internal/sheets"
	"github.com/ayush-madan/paypilot/internal/storage"
)

// ExportWorker appends paid bills to an external ledger, driven by
// bill-paid events.
type ExportWorker struct {
	bills    storage.BillStore
	exporter sheets.BillExporter
}

func NewExportWorker(bills storage.BillStore, exporter sheets.BillExporter) *ExportWorker {
	return &ExportWorker{
		bills:    bills,
		exporter: exporter,
	}
}

// HandleBillPaid processes a single bill-paid message. Bills deleted before
// the message arrives are skipped rather than requeued forever.
func (w *ExportWorker) HandleBillPaid(ctx context.Context, msg *amqp.BillPaidMessage) error {
	bill, err := w.bills.GetByID(ctx, msg.BillID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Bill deleted before export, skipping", "bill_id", msg.BillID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get bill from storage: %w", err)
	}

	// Only terminal bills land in the ledger. A stale message for a bill
	// that was reopened is dropped.
	if !bill.PaymentStatus.Is(core.StatusPaid) {
		slog.WarnContext(ctx, "Bill no longer paid, skipping export",
			"bill_id", bill.ID,
			"payment_status", bill.PaymentStatus)
		return nil
	}

	paidAt := core.DateOf(msg.Timestamp)
	ref, err := w.exporter.Append(ctx, *bill, paidAt)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Exported paid bill",
		"bill_id", bill.ID,
		"bill_name", bill.Name,
		"amount_cents", bill.Amount.Cents,
		"row_ref", ref)

	return nil
}
