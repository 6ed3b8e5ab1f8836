package sheets

import (
	"context"

	"github.com/ayush-madan/paypilot/internal/core"
)

// Ports for outbound adapters.
type (
	// BillExporter appends a paid bill to an external ledger and returns an
	// adapter-specific row reference.
	BillExporter interface {
		Append(ctx context.Context, b core.Bill, paidAt core.Date) (rowRef string, err error)
	}
)
