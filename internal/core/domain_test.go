package core

import (
	"testing"
)

func TestParsePaymentStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    PaymentStatus
		wantErr bool
	}{
		{"Upcoming", StatusUpcoming, false},
		{"UPCOMING", StatusUpcoming, false},
		{"pending", StatusPending, false},
		{"Overdue", StatusPending, false},
		{"  paid ", StatusPaid, false},
		{"", "", true},
		{"settled", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePaymentStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePaymentStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePaymentStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryMatches(t *testing.T) {
	tests := []struct {
		name      string
		category  Category
		requested Category
		want      bool
	}{
		{"exact match", CategoryUtilities, CategoryUtilities, true},
		{"case-insensitive", Category("utilities"), CategoryUtilities, true},
		{"mismatch", CategoryGroceries, CategoryUtilities, false},
		{"All bypasses everything", CategoryGroceries, CategoryAll, true},
		{"lowercase all bypasses", CategoryGroceries, Category("all"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.Matches(tt.requested); got != tt.want {
				t.Errorf("Category(%q).Matches(%q) = %v, want %v", tt.category, tt.requested, got, tt.want)
			}
		})
	}
}

func TestBillValidate_PaidDueDateInvariant(t *testing.T) {
	due := NewDate(2024, 8, 15)

	base := Bill{
		ID:            1,
		Name:          "Electricity Bill",
		Category:      CategoryUtilities,
		Amount:        Money{Cents: 10050},
		PaymentStatus: StatusUpcoming,
		DueDate:       &due,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid upcoming bill failed validation: %v", err)
	}

	paidWithDate := base
	paidWithDate.PaymentStatus = StatusPaid
	if err := paidWithDate.Validate(); err == nil {
		t.Error("paid bill with a due date should fail validation")
	}

	paid := base
	paid.PaymentStatus = StatusPaid
	paid.DueDate = nil
	if err := paid.Validate(); err != nil {
		t.Errorf("paid bill without due date should validate: %v", err)
	}

	unpaidNoDate := base
	unpaidNoDate.DueDate = nil
	if err := unpaidNoDate.Validate(); err == nil {
		t.Error("unpaid bill without a due date should fail validation")
	}
}

func TestBillValidate_Fields(t *testing.T) {
	due := NewDate(2024, 8, 15)

	tests := []struct {
		name    string
		mutate  func(*Bill)
		wantErr error
	}{
		{"empty name", func(b *Bill) { b.Name = "  " }, ErrEmptyName},
		{"empty category", func(b *Bill) { b.Category = "" }, ErrEmptyCategory},
		{"zero amount", func(b *Bill) { b.Amount = Money{} }, ErrInvalidAmount},
		{"bad status", func(b *Bill) { b.PaymentStatus = "settled" }, ErrInvalidStatus},
		{"negative overdue days", func(b *Bill) { b.OverdueDays = -1 }, ErrNegativeOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bill{
				ID:            1,
				Name:          "Rent",
				Category:      CategoryHouseRent,
				Amount:        Money{Cents: 120000},
				PaymentStatus: StatusPending,
				DueDate:       &due,
			}
			tt.mutate(&b)
			if err := b.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBillClone_DetachesDueDate(t *testing.T) {
	due := NewDate(2024, 8, 15)
	b := Bill{ID: 1, Name: "Rent", DueDate: &due}

	c := b.Clone()
	*c.DueDate = NewDate(2025, 1, 1)

	if !b.DueDate.Equal(NewDate(2024, 8, 15).Time) {
		t.Error("mutating the clone's due date changed the original")
	}
}

func TestDateWithin(t *testing.T) {
	from := NewDate(2024, 8, 14)
	to := NewDate(2024, 8, 16)

	tests := []struct {
		name   string
		d      Date
		want   bool
		strict bool
	}{
		{"inside inclusive", NewDate(2024, 8, 15), true, false},
		{"lower bound inclusive", NewDate(2024, 8, 14), true, false},
		{"upper bound inclusive", NewDate(2024, 8, 16), true, false},
		{"before range", NewDate(2024, 8, 13), false, false},
		{"inside exclusive", NewDate(2024, 8, 15), true, true},
		{"lower bound exclusive", NewDate(2024, 8, 14), false, true},
		{"upper bound exclusive", NewDate(2024, 8, 16), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bool
			if tt.strict {
				got = tt.d.StrictlyWithin(from, to)
			} else {
				got = tt.d.Within(from, to)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReminderSettingsValidate(t *testing.T) {
	rs := ReminderSettings{
		ID:        1,
		Frequency: Monthly,
		StartDate: NewDate(2024, 8, 1),
		BillID:    1,
	}
	if err := rs.Validate(); err != nil {
		t.Fatalf("valid reminder settings failed validation: %v", err)
	}

	bad := rs
	bad.Frequency = "fortnightly"
	if err := bad.Validate(); err == nil {
		t.Error("invalid frequency should fail validation")
	}

	orphan := rs
	orphan.BillID = 0
	if err := orphan.Validate(); err == nil {
		t.Error("reminder settings without bill reference should fail validation")
	}
}
