package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ayush-madan/paypilot/internal/billing"
	"github.com/ayush-madan/paypilot/internal/core"
	applog "github.com/ayush-madan/paypilot/internal/log"
	"github.com/ayush-madan/paypilot/internal/storage"
)

// billPayload is the write-side representation of a bill. Amount is a
// decimal string ("12.34" or "12,34") parsed to cents on input.
type billPayload struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	DueDate           string `json:"due_date,omitempty"`
	Amount            string `json:"amount"`
	ReminderFrequency string `json:"reminder_frequency,omitempty"`
	Attachment        string `json:"attachment,omitempty"`
	Notes             string `json:"notes,omitempty"`
	Recurring         bool   `json:"recurring"`
	PaymentStatus     string `json:"payment_status"`
}

// billView is the read-side representation.
type billView struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	DueDate           string `json:"due_date,omitempty"`
	AmountCents       int64  `json:"amount_cents"`
	ReminderFrequency string `json:"reminder_frequency,omitempty"`
	Attachment        string `json:"attachment,omitempty"`
	Notes             string `json:"notes,omitempty"`
	Recurring         bool   `json:"recurring"`
	PaymentStatus     string `json:"payment_status"`
	OverdueDays       int    `json:"overdue_days"`
}

type reminderPayload struct {
	Frequency        string `json:"frequency"`
	StartDate        string `json:"start_date"`
	CustomMessage    string `json:"custom_message,omitempty"`
	NotificationPref string `json:"notification_pref,omitempty"`
}

type reminderView struct {
	ID               int64  `json:"id"`
	BillID           int64  `json:"bill_id"`
	Frequency        string `json:"frequency"`
	StartDate        string `json:"start_date"`
	CustomMessage    string `json:"custom_message,omitempty"`
	NotificationPref string `json:"notification_pref,omitempty"`
}

func toBillView(b core.Bill) billView {
	v := billView{
		ID:                b.ID,
		Name:              b.Name,
		Category:          string(b.Category),
		AmountCents:       b.Amount.Cents,
		ReminderFrequency: string(b.ReminderFrequency),
		Attachment:        b.Attachment,
		Notes:             b.Notes,
		Recurring:         b.Recurring,
		PaymentStatus:     string(b.PaymentStatus),
		OverdueDays:       b.OverdueDays,
	}
	if b.DueDate != nil {
		v.DueDate = b.DueDate.Format(dateLayout)
	}
	return v
}

func toBillViews(bills []core.Bill) []billView {
	out := make([]billView, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillView(b))
	}
	return out
}

func toReminderView(rs core.ReminderSettings) reminderView {
	return reminderView{
		ID:               rs.ID,
		BillID:           rs.BillID,
		Frequency:        string(rs.Frequency),
		StartDate:        rs.StartDate.Format(dateLayout),
		CustomMessage:    rs.CustomMessage,
		NotificationPref: rs.NotificationPref,
	}
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.bills.GetAllBills(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to list bills", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillViews(bills))
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var payload billPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	params, err := toAddParams(payload)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	}

	bill, err := s.bills.AddBill(r.Context(), params)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	}

	billOperationsTotal.WithLabelValues("create").Inc()
	writeJSON(w, http.StatusCreated, toBillView(*bill))
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	bill, err := s.bills.GetBillByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "bill not found", err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to get bill", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillView(*bill))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload billPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	params, err := toAddParams(payload)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	}

	bill := core.Bill{
		ID:                id,
		Name:              params.Name,
		Category:          params.Category,
		DueDate:           params.DueDate,
		Amount:            params.Amount,
		ReminderFrequency: params.ReminderFrequency,
		Attachment:        params.Attachment,
		Notes:             params.Notes,
		Recurring:         params.Recurring,
		PaymentStatus:     params.PaymentStatus,
		OverdueDays:       params.OverdueDays,
	}

	err = s.bills.UpdateBill(r.Context(), bill)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "bill not found", err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	}

	billOperationsTotal.WithLabelValues("update").Inc()
	writeJSON(w, http.StatusOK, toBillView(bill))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := s.bills.DeleteBill(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "bill not found", err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to delete bill", err)
		return
	}

	billOperationsTotal.WithLabelValues("delete").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBillsOverview(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseOverviewCriteria(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	bills, err := s.bills.GetBillsOverview(r.Context(), criteria)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to get overview", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillViews(bills))
}

func (s *Server) handleOverdueBills(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	bills, err := s.bills.GetOverdueBills(r.Context(), criteria)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to get overdue bills", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillViews(bills))
}

func (s *Server) handleUpcomingBills(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	bills, err := s.bills.GetUpcomingBills(r.Context(), criteria)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to get upcoming bills", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillViews(bills))
}

func (s *Server) handleSnoozeBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload struct {
		SnoozeDate string `json:"snooze_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	snoozeDate, err := parseDate(payload.SnoozeDate)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid snooze date", err)
		return
	}

	if err := s.bills.SnoozeBill(r.Context(), snoozeDate, id); err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to snooze bill", err)
		return
	}

	billOperationsTotal.WithLabelValues("snooze").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkBillPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.bills.MarkBillAsPaid(r.Context(), id); err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to mark bill as paid", err)
		return
	}

	billOperationsTotal.WithLabelValues("mark_paid").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rs, err := s.reminders.GetReminderSettings(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "reminder settings not found", err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to get reminder settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderView(*rs))
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload reminderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	startDate, err := parseDate(payload.StartDate)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid start date", err)
		return
	}

	rs, err := s.reminders.UpdateReminderSettings(r.Context(), id,
		core.Frequency(payload.Frequency), startDate, payload.CustomMessage, payload.NotificationPref)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "bill not found", err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderView(*rs))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.reminders.DeleteReminderSettings(r.Context(), id); err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to delete reminder settings", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toAddParams(p billPayload) (billing.AddParams, error) {
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		return billing.AddParams{}, err
	}

	params := billing.AddParams{
		Name:              p.Name,
		Category:          core.Category(p.Category),
		Amount:            core.Money{Cents: cents},
		ReminderFrequency: core.Frequency(p.ReminderFrequency),
		Attachment:        p.Attachment,
		Notes:             p.Notes,
		Recurring:         p.Recurring,
		PaymentStatus:     core.PaymentStatus(p.PaymentStatus),
	}

	if p.DueDate != "" {
		due, err := parseDate(p.DueDate)
		if err != nil {
			return billing.AddParams{}, err
		}
		params.DueDate = &due
	}

	return params, nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "invalid bill id", err)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	if status >= 500 {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, status,
			applog.FieldError, err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
