package amqp

import (
	"encoding/json"
	"time"
)

// ReminderDueMessage notifies that a bill reminder has come due. It carries
// only identifiers and the rendered message; consumers fetch the bill when
// they need the full record.
type ReminderDueMessage struct {
	BillID     int64     `json:"bill_id"`
	ReminderID int64     `json:"reminder_id"`
	Frequency  string    `json:"frequency"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewReminderDueMessage creates a reminder-due message stamped with the
// current time.
func NewReminderDueMessage(billID, reminderID int64, frequency, message string) *ReminderDueMessage {
	return &ReminderDueMessage{
		BillID:     billID,
		ReminderID: reminderID,
		Frequency:  frequency,
		Message:    message,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderDueMessageFromJSON creates a message from JSON bytes
func ReminderDueMessageFromJSON(data []byte) (*ReminderDueMessage, error) {
	var msg ReminderDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BillPaidMessage notifies that a bill reached the paid state.
type BillPaidMessage struct {
	BillID    int64     `json:"bill_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBillPaidMessage creates a bill-paid message stamped with the current
// time.
func NewBillPaidMessage(billID int64) *BillPaidMessage {
	return &BillPaidMessage{
		BillID:    billID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BillPaidMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillPaidMessageFromJSON creates a message from JSON bytes
func BillPaidMessageFromJSON(data []byte) (*BillPaidMessage, error) {
	var msg BillPaidMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
