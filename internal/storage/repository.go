// Package storage is the SQLite persistence layer. Amounts are stored
// as decimal strings and dates as ISO-8601 strings so that text
// comparison matches chronological order. The two uniqueness invariants
// (one payment per subscription and date, one active budget per user
// and category) live in the schema, so concurrent writers fail safely
// at the database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func parseStoredAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored amount %q: %w", s, err)
	}
	return d, nil
}

func nullableDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

// rangeClause appends bound conditions for a date column, treating zero
// bounds as open-ended.
func rangeClause(column string, rng core.Range, conds *[]string, args *[]any) {
	if !rng.Start.IsZero() {
		*conds = append(*conds, column+" >= ?")
		*args = append(*args, rng.Start.String())
	}
	if !rng.End.IsZero() {
		*conds = append(*conds, column+" <= ?")
		*args = append(*args, rng.End.String())
	}
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Transactions

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount, category, date, description)
		 VALUES (?, ?, ?, ?, ?)`,
		t.UserID, t.Amount.String(), t.Category, t.Date.String(), t.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, category, date, description
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return scanTransaction(row)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, category = ?, date = ?, description = ?
		 WHERE id = ? AND user_id = ?`,
		t.Amount.String(), t.Category, t.Date.String(), t.Description, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, rng core.Range) ([]core.Transaction, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}
	rangeClause("date", rng, &conds, &args)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, category, date, description
		 FROM transactions
		 WHERE `+strings.Join(conds, " AND ")+`
		 ORDER BY date DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var amount, date string
	err := row.Scan(&t.ID, &t.UserID, &amount, &t.Category, &date, &t.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	if t.Amount, err = parseStoredAmount(amount); err != nil {
		return core.Transaction{}, err
	}
	if t.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// Subscriptions

func (r *SQLiteRepository) CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions
		     (user_id, name, amount, category, billing_cycle, billing_day, start_date, end_date, status, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.Name, s.Amount.String(), s.Category, string(s.BillingCycle), s.BillingDay,
		s.StartDate.String(), nullableDate(s.EndDate), string(s.Status), s.Description)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return core.Subscription{}, fmt.Errorf("subscription id: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) GetSubscription(ctx context.Context, userID, id int64) (core.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, amount, category, billing_cycle, billing_day,
		        start_date, end_date, status, description
		 FROM subscriptions WHERE id = ? AND user_id = ?`, id, userID)
	return scanSubscription(row)
}

func (r *SQLiteRepository) UpdateSubscription(ctx context.Context, s core.Subscription) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions
		 SET name = ?, amount = ?, category = ?, billing_cycle = ?, billing_day = ?,
		     start_date = ?, end_date = ?, status = ?, description = ?,
		     updated_at = datetime('now')
		 WHERE id = ? AND user_id = ?`,
		s.Name, s.Amount.String(), s.Category, string(s.BillingCycle), s.BillingDay,
		s.StartDate.String(), nullableDate(s.EndDate), string(s.Status), s.Description,
		s.ID, s.UserID)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteSubscription(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context, userID int64, statuses ...core.SubscriptionStatus) ([]core.Subscription, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, st := range statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		conds = append(conds, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount, category, billing_cycle, billing_day,
		        start_date, end_date, status, description
		 FROM subscriptions
		 WHERE `+strings.Join(conds, " AND ")+`
		 ORDER BY name, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []core.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSubscription(row rowScanner) (core.Subscription, error) {
	var s core.Subscription
	var amount, startDate, cycle, status string
	var endDate sql.NullString
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &amount, &s.Category, &cycle, &s.BillingDay,
		&startDate, &endDate, &status, &s.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subscription{}, core.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, fmt.Errorf("scan subscription: %w", err)
	}
	s.BillingCycle = core.Cadence(cycle)
	s.Status = core.SubscriptionStatus(status)
	if s.Amount, err = parseStoredAmount(amount); err != nil {
		return core.Subscription{}, err
	}
	if s.StartDate, err = core.ParseDate(startDate); err != nil {
		return core.Subscription{}, err
	}
	if endDate.Valid {
		if s.EndDate, err = core.ParseDate(endDate.String); err != nil {
			return core.Subscription{}, err
		}
	}
	return s, nil
}

// Payments

// CreatePaymentIfAbsent inserts a payment unless one already exists for
// the same (subscription, date). The insert is atomic on the unique
// index, so two concurrent generators cannot both create the row; the
// loser observes created = false and reads back the existing record.
func (r *SQLiteRepository) CreatePaymentIfAbsent(ctx context.Context, p core.SubscriptionPayment) (core.SubscriptionPayment, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subscription_payments (subscription_id, amount, date, is_paid, paid_date)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(subscription_id, date) DO NOTHING`,
		p.SubscriptionID, p.Amount.String(), p.Date.String(), p.IsPaid, nullableDate(p.PaidDate))
	if err != nil {
		return core.SubscriptionPayment{}, false, fmt.Errorf("insert payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.SubscriptionPayment{}, false, fmt.Errorf("payment rows affected: %w", err)
	}
	if affected == 0 {
		row := r.db.QueryRowContext(ctx,
			`SELECT id, subscription_id, amount, date, is_paid, paid_date
			 FROM subscription_payments WHERE subscription_id = ? AND date = ?`,
			p.SubscriptionID, p.Date.String())
		existing, err := scanPayment(row)
		if err != nil {
			return core.SubscriptionPayment{}, false, err
		}
		return existing, false, nil
	}

	if p.ID, err = res.LastInsertId(); err != nil {
		return core.SubscriptionPayment{}, false, fmt.Errorf("payment id: %w", err)
	}
	return p, true, nil
}

// LatestPaymentDate returns the date of the newest posted payment for a
// subscription, or the zero date when none exist. ISO text dates make
// MAX() chronological.
func (r *SQLiteRepository) LatestPaymentDate(ctx context.Context, subscriptionID int64) (core.Date, error) {
	var latest sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(date) FROM subscription_payments WHERE subscription_id = ?`,
		subscriptionID).Scan(&latest)
	if err != nil {
		return core.Date{}, fmt.Errorf("latest payment date: %w", err)
	}
	if !latest.Valid {
		return core.Date{}, nil
	}
	return core.ParseDate(latest.String)
}

// GetPayment checks ownership through the parent subscription.
func (r *SQLiteRepository) GetPayment(ctx context.Context, userID, paymentID int64) (core.SubscriptionPayment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT p.id, p.subscription_id, p.amount, p.date, p.is_paid, p.paid_date
		 FROM subscription_payments p
		 JOIN subscriptions s ON s.id = p.subscription_id
		 WHERE p.id = ? AND s.user_id = ?`, paymentID, userID)
	return scanPayment(row)
}

func (r *SQLiteRepository) UpdatePayment(ctx context.Context, p core.SubscriptionPayment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscription_payments SET is_paid = ?, paid_date = ? WHERE id = ?`,
		p.IsPaid, nullableDate(p.PaidDate), p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListPaymentDetails(ctx context.Context, userID int64, rng core.Range) ([]core.PaymentDetail, error) {
	conds := []string{"s.user_id = ?"}
	args := []any{userID}
	rangeClause("p.date", rng, &conds, &args)

	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.subscription_id, p.amount, p.date, p.is_paid, p.paid_date,
		        s.name, s.category, s.status
		 FROM subscription_payments p
		 JOIN subscriptions s ON s.id = p.subscription_id
		 WHERE `+strings.Join(conds, " AND ")+`
		 ORDER BY p.date DESC, p.id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list payment details: %w", err)
	}
	defer rows.Close()

	var out []core.PaymentDetail
	for rows.Next() {
		var d core.PaymentDetail
		var amount, date, status string
		var paidDate sql.NullString
		err := rows.Scan(&d.Payment.ID, &d.Payment.SubscriptionID, &amount, &date,
			&d.Payment.IsPaid, &paidDate, &d.Name, &d.Category, &status)
		if err != nil {
			return nil, fmt.Errorf("scan payment detail: %w", err)
		}
		d.Status = core.SubscriptionStatus(status)
		if d.Payment.Amount, err = parseStoredAmount(amount); err != nil {
			return nil, err
		}
		if d.Payment.Date, err = core.ParseDate(date); err != nil {
			return nil, err
		}
		if paidDate.Valid {
			if d.Payment.PaidDate, err = core.ParseDate(paidDate.String); err != nil {
				return nil, err
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanPayment(row rowScanner) (core.SubscriptionPayment, error) {
	var p core.SubscriptionPayment
	var amount, date string
	var paidDate sql.NullString
	err := row.Scan(&p.ID, &p.SubscriptionID, &amount, &date, &p.IsPaid, &paidDate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SubscriptionPayment{}, core.ErrNotFound
	}
	if err != nil {
		return core.SubscriptionPayment{}, fmt.Errorf("scan payment: %w", err)
	}
	if p.Amount, err = parseStoredAmount(amount); err != nil {
		return core.SubscriptionPayment{}, err
	}
	if p.Date, err = core.ParseDate(date); err != nil {
		return core.SubscriptionPayment{}, err
	}
	if paidDate.Valid {
		if p.PaidDate, err = core.ParseDate(paidDate.String); err != nil {
			return core.SubscriptionPayment{}, err
		}
	}
	return p, nil
}

// Budgets

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets
		     (user_id, category, amount, period_start, period_end, recurrence, is_active, is_recurring, is_shared)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.Category, b.Amount.String(), b.PeriodStart.String(), b.PeriodEnd.String(),
		string(b.Recurrence), b.IsActive, b.IsRecurring, b.IsShared)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount, period_start, period_end, recurrence,
		        is_active, is_recurring, is_shared
		 FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	return scanBudget(row)
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		 SET category = ?, amount = ?, period_start = ?, period_end = ?, recurrence = ?,
		     is_active = ?, is_recurring = ?, is_shared = ?
		 WHERE id = ? AND user_id = ?`,
		b.Category, b.Amount.String(), b.PeriodStart.String(), b.PeriodEnd.String(),
		string(b.Recurrence), b.IsActive, b.IsRecurring, b.IsShared, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64, activeOnly bool) ([]core.Budget, error) {
	query := `SELECT id, user_id, category, amount, period_start, period_end, recurrence,
	                 is_active, is_recurring, is_shared
	          FROM budgets WHERE user_id = ?`
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY period_start DESC, category"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListExpiredActiveBudgets(ctx context.Context, userID int64, today core.Date) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount, period_start, period_end, recurrence,
		        is_active, is_recurring, is_shared
		 FROM budgets
		 WHERE user_id = ? AND is_active = 1 AND period_end < ?`,
		userID, today.String())
	if err != nil {
		return nil, fmt.Errorf("list expired budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeactivateBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate budget: %w", err)
	}
	return requireRow(res)
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var b core.Budget
	var amount, periodStart, periodEnd, recurrence string
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &amount, &periodStart, &periodEnd,
		&recurrence, &b.IsActive, &b.IsRecurring, &b.IsShared)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	b.Recurrence = core.Cadence(recurrence)
	if b.Amount, err = parseStoredAmount(amount); err != nil {
		return core.Budget{}, err
	}
	if b.PeriodStart, err = core.ParseDate(periodStart); err != nil {
		return core.Budget{}, err
	}
	if b.PeriodEnd, err = core.ParseDate(periodEnd); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

// Incomes

func (r *SQLiteRepository) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, amount, source, date_received, period_start, period_end)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		i.UserID, i.Amount.String(), i.Source, i.DateReceived.String(),
		i.PeriodStart.String(), i.PeriodEnd.String())
	if err != nil {
		return core.Income{}, fmt.Errorf("insert income: %w", err)
	}
	if i.ID, err = res.LastInsertId(); err != nil {
		return core.Income{}, fmt.Errorf("income id: %w", err)
	}
	return i, nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, userID, id int64) (core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, source, date_received, period_start, period_end
		 FROM incomes WHERE id = ? AND user_id = ?`, id, userID)
	return scanIncome(row)
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, i core.Income) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE incomes
		 SET amount = ?, source = ?, date_received = ?, period_start = ?, period_end = ?
		 WHERE id = ? AND user_id = ?`,
		i.Amount.String(), i.Source, i.DateReceived.String(),
		i.PeriodStart.String(), i.PeriodEnd.String(), i.ID, i.UserID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM incomes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(res)
}

// ListIncomes filters by interval overlap with the covered period, not
// by point containment, since each income spans a period.
func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID int64, rng core.Range) ([]core.Income, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}
	if !rng.Start.IsZero() {
		conds = append(conds, "period_end >= ?")
		args = append(args, rng.Start.String())
	}
	if !rng.End.IsZero() {
		conds = append(conds, "period_start <= ?")
		args = append(args, rng.End.String())
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, source, date_received, period_start, period_end
		 FROM incomes
		 WHERE `+strings.Join(conds, " AND ")+`
		 ORDER BY date_received DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func scanIncome(row rowScanner) (core.Income, error) {
	var i core.Income
	var amount, received, periodStart, periodEnd string
	err := row.Scan(&i.ID, &i.UserID, &amount, &i.Source, &received, &periodStart, &periodEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, core.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("scan income: %w", err)
	}
	if i.Amount, err = parseStoredAmount(amount); err != nil {
		return core.Income{}, err
	}
	if i.DateReceived, err = core.ParseDate(received); err != nil {
		return core.Income{}, err
	}
	if i.PeriodStart, err = core.ParseDate(periodStart); err != nil {
		return core.Income{}, err
	}
	if i.PeriodEnd, err = core.ParseDate(periodEnd); err != nil {
		return core.Income{}, err
	}
	return i, nil
}

// ListUserIDs returns every user owning a subscription or budget, the
// population the scheduled sweep visits.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM subscriptions
		 UNION
		 SELECT user_id FROM budgets
		 ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
