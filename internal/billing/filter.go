// Package billing implements the bill lifecycle and query engines plus the
// orchestrating service that external callers use.
package billing

import (
	"strings"

	"github.com/ayush-madan/paypilot/internal/core"
)

// Criteria is the shared filter input for the overdue, upcoming, snooze and
// mark-paid queries. Zero values mean "no filter": an empty Category or Name
// skips that stage, and the date stage only runs when both bounds are set.
type Criteria struct {
	Category core.Category
	Name     string
	From     *core.Date
	To       *core.Date
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.Category == "" && c.Name == "" && c.From == nil && c.To == nil
}

// Filter applies the three-stage pipeline to bills: category, then name,
// then date range, each stage narrowing the previous stage's output. The
// result is always a subset of the input, in input order.
//
// Category matching is case-insensitive and the special "All" value passes
// everything through. Name matching is case-insensitive with no wildcard.
// The date stage is inclusive on both bounds and only applies when both are
// present; bills without a due date never pass it.
func Filter(bills []core.Bill, c Criteria) []core.Bill {
	if c.IsZero() {
		return bills
	}

	out := bills

	if c.Category != "" && !c.Category.IsAll() {
		filtered := make([]core.Bill, 0, len(out))
		for _, b := range out {
			if strings.EqualFold(string(b.Category), string(c.Category)) {
				filtered = append(filtered, b)
			}
		}
		out = filtered
	}

	if c.Name != "" {
		filtered := make([]core.Bill, 0, len(out))
		for _, b := range out {
			if strings.EqualFold(b.Name, c.Name) {
				filtered = append(filtered, b)
			}
		}
		out = filtered
	}

	if c.From != nil && c.To != nil {
		filtered := make([]core.Bill, 0, len(out))
		for _, b := range out {
			if b.DueDate != nil && b.DueDate.Within(*c.From, *c.To) {
				filtered = append(filtered, b)
			}
		}
		out = filtered
	}

	return out
}

// OverviewCriteria is the stricter aggregation variant: exact status
// equality and an exclusive date range. It is intentionally a separate type
// from Criteria; the two rule sets must not be unified.
type OverviewCriteria struct {
	Category core.Category
	From     core.Date
	To       core.Date
	Status   core.PaymentStatus
}

// Match reports whether b satisfies the overview rules: the category/"All"
// rule, a due date strictly between From and To, and a payment status that
// is exactly equal (no case folding). Bills without a due date never match.
func (c OverviewCriteria) Match(b core.Bill) bool {
	if !b.Category.Matches(c.Category) {
		return false
	}
	if b.DueDate == nil || !b.DueDate.StrictlyWithin(c.From, c.To) {
		return false
	}
	return string(b.PaymentStatus) == string(c.Status)
}

// FilterOverview retains the bills matching c, in input order.
func FilterOverview(bills []core.Bill, c OverviewCriteria) []core.Bill {
	out := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		if c.Match(b) {
			out = append(out, b)
		}
	}
	return out
}
