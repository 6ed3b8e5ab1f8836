package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayush-madan/paypilot/internal/billing"
	"github.com/ayush-madan/paypilot/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.NewBillStore()
	reminderStore := memory.NewReminderStore()
	bills := billing.NewService(store)
	reminders := billing.NewReminderService(store, reminderStore)
	return NewServer(":0", bills, reminders)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func createBill(t *testing.T, srv *Server, name, category, dueDate string) billView {
	t.Helper()
	body := `{"name":"` + name + `","category":"` + category + `","due_date":"` + dueDate + `","amount":"100.50","payment_status":"Upcoming"}`
	rr := doRequest(t, srv, http.MethodPost, "/api/bills", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create bill status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var v billView
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestCreateBill(t *testing.T) {
	srv := newTestServer(t)

	t.Run("success assigns sequential ids", func(t *testing.T) {
		first := createBill(t, srv, "Electricity Bill", "Utilities", "2030-08-15")
		if first.ID != 1 {
			t.Errorf("first id = %d, want 1", first.ID)
		}
		if first.AmountCents != 10050 {
			t.Errorf("amount cents = %d, want 10050", first.AmountCents)
		}

		second := createBill(t, srv, "Internet Bill", "Internet Charges", "2030-08-20")
		if second.ID != 2 {
			t.Errorf("second id = %d, want 2", second.ID)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		body := `{"name":"X","category":"Utilities","due_date":"2030-08-15","amount":"abc","payment_status":"Upcoming"}`
		rr := doRequest(t, srv, http.MethodPost, "/api/bills", body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rr.Code)
		}
	})

	t.Run("invalid payment status", func(t *testing.T) {
		body := `{"name":"X","category":"Utilities","due_date":"2030-08-15","amount":"1.00","payment_status":"settled"}`
		rr := doRequest(t, srv, http.MethodPost, "/api/bills", body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rr.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := doRequest(t, srv, http.MethodPost, "/api/bills", "{not json")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestGetBill(t *testing.T) {
	srv := newTestServer(t)
	created := createBill(t, srv, "Electricity Bill", "Utilities", "2030-08-15")

	rr := doRequest(t, srv, http.MethodGet, "/api/bills/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got billView
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != created.Name || got.DueDate != "2030-08-15" {
		t.Errorf("got = %+v, want created bill", got)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/bills/99", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("absent bill status = %d, want 404", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/bills/abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rr.Code)
	}
}

func TestListBills(t *testing.T) {
	srv := newTestServer(t)
	createBill(t, srv, "Electricity Bill", "Utilities", "2030-08-15")
	createBill(t, srv, "Internet Bill", "Internet Charges", "2030-08-20")

	rr := doRequest(t, srv, http.MethodGet, "/api/bills", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var bills []billView
	if err := json.Unmarshal(rr.Body.Bytes(), &bills); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bills) != 2 {
		t.Errorf("len = %d, want 2", len(bills))
	}
}

func TestUpcomingAndOverdueQueries(t *testing.T) {
	srv := newTestServer(t)
	createBill(t, srv, "Electricity Bill", "Utilities", "2030-08-15")
	createBill(t, srv, "Groceries", "Groceries", "2020-01-01") // past due

	rr := doRequest(t, srv, http.MethodGet, "/api/bills/upcoming?category=Utilities", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("upcoming status = %d", rr.Code)
	}
	var upcoming []billView
	json.Unmarshal(rr.Body.Bytes(), &upcoming)
	if len(upcoming) != 1 || upcoming[0].Name != "Electricity Bill" {
		t.Errorf("upcoming = %+v, want only Electricity Bill", upcoming)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/bills/overdue", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("overdue status = %d", rr.Code)
	}
	var overdue []billView
	json.Unmarshal(rr.Body.Bytes(), &overdue)
	if len(overdue) != 1 || overdue[0].Name != "Groceries" {
		t.Errorf("overdue = %+v, want only Groceries", overdue)
	}

	// A single date bound is rejected.
	rr = doRequest(t, srv, http.MethodGet, "/api/bills/overdue?from=2024-01-01", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("single-bound status = %d, want 400", rr.Code)
	}
}

func TestBillsOverview(t *testing.T) {
	srv := newTestServer(t)
	createBill(t, srv, "Electricity Bill", "Utilities", "2024-08-15")

	rr := doRequest(t, srv, http.MethodGet,
		"/api/bills/overview?category=Utilities&status=Upcoming&from=2024-08-14&to=2024-08-16", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var bills []billView
	json.Unmarshal(rr.Body.Bytes(), &bills)
	if len(bills) != 1 || bills[0].ID != 1 {
		t.Errorf("overview = %+v, want exactly bill 1", bills)
	}

	// Missing parameters are rejected.
	rr = doRequest(t, srv, http.MethodGet, "/api/bills/overview?category=Utilities", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("partial params status = %d, want 400", rr.Code)
	}
}

func TestSnoozeBill(t *testing.T) {
	srv := newTestServer(t)
	createBill(t, srv, "Electricity Bill", "Utilities", "2030-08-15")

	rr := doRequest(t, srv, http.MethodPost, "/api/bills/1/snooze", `{"snooze_date":"2030-08-20"}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("snooze status = %d, want 204", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/bills/1", "")
	var got billView
	json.Unmarshal(rr.Body.Bytes(), &got)
	if got.DueDate != "2030-08-20" {
		t.Errorf("due date after snooze = %s, want 2030-08-20", got.DueDate)
	}

	// Absent id stays a no-op at the API surface too.
	rr = doRequest(t, srv, http.MethodPost, "/api/bills/99/snooze", `{"snooze_date":"2030-08-20"}`)
	if rr.Code != http.StatusNoContent {
		t.Errorf("snooze absent status = %d, want 204", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodPost, "/api/bills/1/snooze", `{"snooze_date":"not-a-date"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad date status = %d, want 422", rr.Code)
	}
}

func TestMarkBillPaid(t *testing.T) {
	srv := newTestServer(t)
	createBill(t, srv, "Electricity Bill", "Utilities", "2030-08-15")

	rr := doRequest(t, srv, http.MethodPost, "/api/bills/1/paid", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("mark paid status = %d, want 204", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/bills/1", "")
	var got billView
	json.Unmarshal(rr.Body.Bytes(), &got)
	if got.PaymentStatus != "Paid" || got.DueDate != "" {
		t.Errorf("after mark paid: status=%s due=%s, want Paid with no due date", got.PaymentStatus, got.DueDate)
	}

	// Idempotent, including over HTTP.
	rr = doRequest(t, srv, http.MethodPost, "/api/bills/1/paid", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("second mark paid status = %d, want 204", rr.Code)
	}
}

func TestUpdateAndDeleteBill(t *testing.T) {
	srv := newTestServer(t)
	createBill(t, srv, "Electricity Bill", "Utilities", "2030-08-15")

	body := `{"name":"Electricity Bill (updated)","category":"Utilities","due_date":"2030-09-01","amount":"120.00","payment_status":"Pending"}`
	rr := doRequest(t, srv, http.MethodPut, "/api/bills/1", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var got billView
	json.Unmarshal(rr.Body.Bytes(), &got)
	if got.Name != "Electricity Bill (updated)" || got.PaymentStatus != "Pending" {
		t.Errorf("updated bill = %+v", got)
	}

	rr = doRequest(t, srv, http.MethodPut, "/api/bills/99", body)
	if rr.Code != http.StatusNotFound {
		t.Errorf("update absent status = %d, want 404", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodDelete, "/api/bills/1", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rr.Code)
	}
	rr = doRequest(t, srv, http.MethodDelete, "/api/bills/1", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestReminderEndpoints(t *testing.T) {
	srv := newTestServer(t)
	createBill(t, srv, "Electricity Bill", "Utilities", "2030-08-15")

	rr := doRequest(t, srv, http.MethodGet, "/api/bills/1/reminder", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("get before create status = %d, want 404", rr.Code)
	}

	body := `{"frequency":"weekly","start_date":"2030-08-01","custom_message":"Pay up","notification_pref":"email"}`
	rr = doRequest(t, srv, http.MethodPut, "/api/bills/1/reminder", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("put reminder status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var rv reminderView
	json.Unmarshal(rr.Body.Bytes(), &rv)
	if rv.BillID != 1 || rv.Frequency != "weekly" {
		t.Errorf("reminder view = %+v", rv)
	}

	// Reminder for an unknown bill.
	rr = doRequest(t, srv, http.MethodPut, "/api/bills/99/reminder", body)
	if rr.Code != http.StatusNotFound {
		t.Errorf("put reminder for absent bill status = %d, want 404", rr.Code)
	}

	// Unknown frequency.
	rr = doRequest(t, srv, http.MethodPut, "/api/bills/1/reminder",
		`{"frequency":"fortnightly","start_date":"2030-08-01"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad frequency status = %d, want 422", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/bills/1/reminder", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get reminder status = %d", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodDelete, "/api/bills/1/reminder", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete reminder status = %d, want 204", rr.Code)
	}
	rr = doRequest(t, srv, http.MethodGet, "/api/bills/1/reminder", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rr.Code)
	}
}
