// Package sqlite provides SQLite-backed implementations of the storage
// contracts using the pure Go driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ayush-madan/paypilot/internal/core"
	"github.com/ayush-madan/paypilot/internal/storage"
)

const dateLayout = "2006-01-02"

// BillStore implements storage.BillStore over a bills table. Ids come from
// an AUTOINCREMENT primary key, which SQLite guarantees to be monotonic and
// never reused after deletion.
type BillStore struct {
	db *sql.DB
}

var _ storage.BillStore = (*BillStore)(nil)

// Open creates the database file if needed, runs migrations, and returns a
// ready store.
func Open(dbPath string) (*BillStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &BillStore{db: db}, nil
}

func (s *BillStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying handle so the reminder store can share it.
func (s *BillStore) DB() *sql.DB {
	return s.db
}

const billColumns = "id, name, category, due_date, amount_cents, reminder_frequency, attachment, notes, is_recurring, payment_status, overdue_days"

func scanBill(row interface{ Scan(...any) error }) (core.Bill, error) {
	var (
		b         core.Bill
		due       sql.NullString
		recurring int64
	)
	err := row.Scan(&b.ID, &b.Name, &b.Category, &due, &b.Amount.Cents,
		&b.ReminderFrequency, &b.Attachment, &b.Notes, &recurring,
		&b.PaymentStatus, &b.OverdueDays)
	if err != nil {
		return core.Bill{}, err
	}
	b.Recurring = recurring != 0
	if due.Valid {
		d, err := parseDate(due.String)
		if err != nil {
			return core.Bill{}, fmt.Errorf("parse due date %q: %w", due.String, err)
		}
		b.DueDate = &d
	}
	return b, nil
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}

func dueArg(d *core.Date) any {
	if d == nil {
		return nil
	}
	return d.Format(dateLayout)
}

func boolArg(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (s *BillStore) Add(ctx context.Context, bill *core.Bill) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (name, category, due_date, amount_cents, reminder_frequency, attachment, notes, is_recurring, payment_status, overdue_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.Name, string(bill.Category), dueArg(bill.DueDate), bill.Amount.Cents,
		string(bill.ReminderFrequency), bill.Attachment, bill.Notes,
		boolArg(bill.Recurring), string(bill.PaymentStatus), bill.OverdueDays)
	if err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	bill.ID = id

	slog.InfoContext(ctx, "Bill saved to SQLite",
		"id", bill.ID,
		"name", bill.Name,
		"category", bill.Category,
		"amount_cents", bill.Amount.Cents,
		"payment_status", bill.PaymentStatus)

	return nil
}

func (s *BillStore) GetAll(ctx context.Context) ([]core.Bill, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+billColumns+" FROM bills ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

func (s *BillStore) GetByID(ctx context.Context, id int64) (*core.Bill, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+billColumns+" FROM bills WHERE id = ?", id)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bill by id: %w", err)
	}
	return &b, nil
}

func (s *BillStore) Update(ctx context.Context, id int64, fn func(*core.Bill) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT "+billColumns+" FROM bills WHERE id = ?", id)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load bill for update: %w", err)
	}

	if err := fn(&b); err != nil {
		return err
	}
	b.ID = id // id is immutable after creation

	_, err = tx.ExecContext(ctx,
		`UPDATE bills SET name = ?, category = ?, due_date = ?, amount_cents = ?, reminder_frequency = ?, attachment = ?, notes = ?, is_recurring = ?, payment_status = ?, overdue_days = ? WHERE id = ?`,
		b.Name, string(b.Category), dueArg(b.DueDate), b.Amount.Cents,
		string(b.ReminderFrequency), b.Attachment, b.Notes,
		boolArg(b.Recurring), string(b.PaymentStatus), b.OverdueDays, id)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

func (s *BillStore) ReplaceAll(ctx context.Context, bills []core.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM bills"); err != nil {
		return fmt.Errorf("clear bills: %w", err)
	}

	for _, b := range bills {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bills (id, name, category, due_date, amount_cents, reminder_frequency, attachment, notes, is_recurring, payment_status, overdue_days)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Name, string(b.Category), dueArg(b.DueDate), b.Amount.Cents,
			string(b.ReminderFrequency), b.Attachment, b.Notes,
			boolArg(b.Recurring), string(b.PaymentStatus), b.OverdueDays)
		if err != nil {
			return fmt.Errorf("insert bill %d: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func (s *BillStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ReminderStore implements storage.ReminderStore over the same database.
type ReminderStore struct {
	db *sql.DB
}

var _ storage.ReminderStore = (*ReminderStore)(nil)

// NewReminderStore wraps an already-opened database handle; the schema is
// managed by the bill store's migrations.
func NewReminderStore(db *sql.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

const reminderColumns = "id, frequency, start_date, custom_message, notification_pref, bill_id"

func scanReminder(row interface{ Scan(...any) error }) (core.ReminderSettings, error) {
	var (
		rs    core.ReminderSettings
		start string
	)
	err := row.Scan(&rs.ID, &rs.Frequency, &start, &rs.CustomMessage, &rs.NotificationPref, &rs.BillID)
	if err != nil {
		return core.ReminderSettings{}, err
	}
	d, err := parseDate(start)
	if err != nil {
		return core.ReminderSettings{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	rs.StartDate = d
	return rs, nil
}

func (s *ReminderStore) Add(ctx context.Context, rs *core.ReminderSettings) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminder_settings (frequency, start_date, custom_message, notification_pref, bill_id)
		 VALUES (?, ?, ?, ?, ?)`,
		string(rs.Frequency), rs.StartDate.Format(dateLayout), rs.CustomMessage, rs.NotificationPref, rs.BillID)
	if err != nil {
		return fmt.Errorf("insert reminder settings: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	rs.ID = id
	return nil
}

func (s *ReminderStore) GetByID(ctx context.Context, id int64) (*core.ReminderSettings, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reminderColumns+" FROM reminder_settings WHERE id = ?", id)
	rs, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder settings by id: %w", err)
	}
	return &rs, nil
}

func (s *ReminderStore) GetByBillID(ctx context.Context, billID int64) (*core.ReminderSettings, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reminderColumns+" FROM reminder_settings WHERE bill_id = ?", billID)
	rs, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder settings by bill id: %w", err)
	}
	return &rs, nil
}

func (s *ReminderStore) Update(ctx context.Context, rs core.ReminderSettings) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminder_settings SET frequency = ?, start_date = ?, custom_message = ?, notification_pref = ?, bill_id = ? WHERE id = ?`,
		string(rs.Frequency), rs.StartDate.Format(dateLayout), rs.CustomMessage, rs.NotificationPref, rs.BillID, rs.ID)
	if err != nil {
		return fmt.Errorf("update reminder settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *ReminderStore) GetAll(ctx context.Context) ([]core.ReminderSettings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+reminderColumns+" FROM reminder_settings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query reminder settings: %w", err)
	}
	defer rows.Close()

	var out []core.ReminderSettings
	for rows.Next() {
		rs, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder settings: %w", err)
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder settings: %w", err)
	}
	return out, nil
}

func (s *ReminderStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminder_settings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete reminder settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
