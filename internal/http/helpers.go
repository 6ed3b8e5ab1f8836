package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayush-madan/paypilot/internal/billing"
	"github.com/ayush-madan/paypilot/internal/core"
)

const dateLayout = "2006-01-02"

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse(dateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsedTime}, nil
}

// parseCriteria reads the optional category, name, from, and to query
// parameters. A date range needs both bounds; a single bound is rejected
// rather than silently ignored.
func parseCriteria(r *http.Request) (billing.Criteria, error) {
	q := r.URL.Query()
	c := billing.Criteria{
		Category: core.Category(strings.TrimSpace(q.Get("category"))),
		Name:     strings.TrimSpace(q.Get("name")),
	}

	fromStr := strings.TrimSpace(q.Get("from"))
	toStr := strings.TrimSpace(q.Get("to"))
	if (fromStr == "") != (toStr == "") {
		return billing.Criteria{}, errors.New("date range requires both from and to")
	}
	if fromStr != "" {
		from, err := parseDate(fromStr)
		if err != nil {
			return billing.Criteria{}, errors.New("invalid from date")
		}
		to, err := parseDate(toStr)
		if err != nil {
			return billing.Criteria{}, errors.New("invalid to date")
		}
		c.From = &from
		c.To = &to
	}

	return c, nil
}

// parseOverviewCriteria reads the stricter overview parameters: all four
// are required.
func parseOverviewCriteria(r *http.Request) (billing.OverviewCriteria, error) {
	q := r.URL.Query()

	category := strings.TrimSpace(q.Get("category"))
	status := strings.TrimSpace(q.Get("status"))
	fromStr := strings.TrimSpace(q.Get("from"))
	toStr := strings.TrimSpace(q.Get("to"))

	if category == "" || status == "" || fromStr == "" || toStr == "" {
		return billing.OverviewCriteria{}, errors.New("overview requires category, status, from, and to")
	}

	from, err := parseDate(fromStr)
	if err != nil {
		return billing.OverviewCriteria{}, errors.New("invalid from date")
	}
	to, err := parseDate(toStr)
	if err != nil {
		return billing.OverviewCriteria{}, errors.New("invalid to date")
	}

	return billing.OverviewCriteria{
		Category: core.Category(category),
		From:     from,
		To:       to,
		Status:   core.PaymentStatus(status),
	}, nil
}
