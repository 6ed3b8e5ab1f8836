package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusUpcoming PaymentStatus = "Upcoming"
	StatusPending  PaymentStatus = "Pending"
	StatusPaid     PaymentStatus = "Paid"
)

const (
	CategoryAll               Category = "All"
	CategoryUtilities         Category = "Utilities"
	CategoryDebtPayments      Category = "Debt Payments"
	CategoryHouseRent         Category = "House Rent"
	CategoryGroceries         Category = "Groceries"
	CategoryInternetCharges   Category = "Internet Charges"
	CategoryRetirementCharges Category = "Retirement Charges"
	CategoryCellPhoneCharges  Category = "Cell Phone Charges"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	// PaymentStatus is the lifecycle state of a bill. Stored values are
	// normalized through ParsePaymentStatus so the engines can compare
	// statuses without ad-hoc case-insensitive string matching.
	PaymentStatus string

	// Category is a bill category. The constants above are the conventional
	// set but free-form values are accepted; comparisons are case-insensitive
	// and CategoryAll matches everything.
	Category string

	// Frequency is a reminder repetition token.
	Frequency string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Bill is a trackable financial obligation. DueDate is nil exactly when
	// the bill is paid.
	Bill struct {
		ID                int64
		Name              string
		Category          Category
		DueDate           *Date
		Amount            Money
		ReminderFrequency Frequency
		Attachment        string // opaque path, pass-through only
		Notes             string
		Recurring         bool
		PaymentStatus     PaymentStatus
		OverdueDays       int
	}

	// ReminderSettings is the per-bill notification policy. BillID is a weak
	// back-reference resolved through the bill store, never an owning pointer.
	ReminderSettings struct {
		ID               int64
		Frequency        Frequency
		StartDate        Date
		CustomMessage    string
		NotificationPref string
		BillID           int64
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidStatus   = errors.New("invalid payment status")
	ErrInvalidDueDate  = errors.New("invalid due date")
	ErrEmptyName       = errors.New("empty bill name")
	ErrEmptyCategory   = errors.New("empty bill category")
	ErrNegativeOverdue = errors.New("negative overdue days")
)

// ParsePaymentStatus normalizes a raw status token. "pending" and the legacy
// "overdue" token both map to StatusPending.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upcoming":
		return StatusUpcoming, nil
	case "pending", "overdue":
		return StatusPending, nil
	case "paid":
		return StatusPaid, nil
	}
	return "", ErrInvalidStatus
}

// Is reports whether s denotes the same state as other, ignoring case.
func (s PaymentStatus) Is(other PaymentStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// Matches reports whether c matches the requested category. CategoryAll
// on either side matches everything; otherwise the comparison is
// case-insensitive.
func (c Category) Matches(other Category) bool {
	if other.IsAll() || c.IsAll() {
		return true
	}
	return strings.EqualFold(string(c), string(other))
}

// IsAll reports whether c is the wildcard category.
func (c Category) IsAll() bool {
	return strings.EqualFold(string(c), string(CategoryAll))
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to day granularity in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Within reports whether d falls in [from, to] inclusive.
func (d Date) Within(from, to Date) bool {
	return !d.Before(from.Time) && !d.After(to.Time)
}

// StrictlyWithin reports whether d falls in (from, to) exclusive.
func (d Date) StrictlyWithin(from, to Date) bool {
	return d.After(from.Time) && d.Before(to.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the bill's field constraints and the paid/due-date
// invariant: DueDate is nil exactly when the status is Paid.
func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if len(b.Name) > 200 {
		return errors.New("bill name too long (max 200 characters)")
	}
	if strings.TrimSpace(string(b.Category)) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParsePaymentStatus(string(b.PaymentStatus)); err != nil {
		return err
	}
	if b.OverdueDays < 0 {
		return ErrNegativeOverdue
	}
	paid := b.PaymentStatus.Is(StatusPaid)
	if paid && b.DueDate != nil {
		return errors.New("paid bill must not carry a due date")
	}
	if !paid {
		if b.DueDate == nil {
			return ErrInvalidDueDate
		}
		if err := b.DueDate.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy, detaching the due date pointer.
func (b Bill) Clone() Bill {
	out := b
	if b.DueDate != nil {
		d := *b.DueDate
		out.DueDate = &d
	}
	return out
}

func (rs ReminderSettings) Validate() error {
	switch rs.Frequency {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return errors.New("invalid reminder frequency")
	}
	if err := rs.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if len(rs.CustomMessage) > 500 {
		return errors.New("custom message too long (max 500 characters)")
	}
	if rs.BillID <= 0 {
		return errors.New("reminder settings must reference a bill")
	}
	return nil
}
