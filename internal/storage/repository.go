// Package storage owns the sqlite schema and every query the application
// runs against it: user credentials, transaction CRUD, budget upserts and
// the aggregation reports.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// New wraps an existing database handle. The schema must already exist.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Open opens (creating if needed) the sqlite database at dbPath and runs
// the embedded migrations.
func Open(dbPath string) (*Repository, error) {
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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return New(db), nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new user row. Returns ErrDuplicate when the
// username is taken.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		if isConstraintViolation(err) {
			return core.User{}, ErrDuplicate
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", username)

	return core.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

// GetUser looks a user up by exact (case-sensitive) username.
func (r *Repository) GetUser(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		return core.User{}, mapRowErr(err)
	}
	return u, nil
}

// Authenticate returns the user only when both username and password hash
// match exactly; any mismatch yields ErrNotFound.
func (r *Repository) Authenticate(ctx context.Context, username, passwordHash string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username FROM users WHERE username = ? AND password_hash = ?`,
		username, passwordHash).Scan(&u.ID, &u.Username)
	if err != nil {
		return core.User{}, mapRowErr(err)
	}
	return u, nil
}

// AddTransaction inserts a transaction row. The type CHECK constraint
// rejects anything outside the income/expense enum.
func (r *Repository) AddTransaction(ctx context.Context, userID int64, t core.TransactionType, amount core.Money, description, category string, date core.Date) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, type, amount_cents, description, category, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, string(t), amount.Cents, description, category, date.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", userID,
		"type", string(t),
		"amount_cents", amount.Cents,
		"category", category,
		"date", date.String())

	return core.Transaction{
		ID:          id,
		UserID:      userID,
		Type:        t,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
	}, nil
}

// ListTransactions returns every transaction of the user, newest first:
// date descending with id descending breaking ties by insertion recency.
func (r *Repository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, amount_cents, description, category, date
		 FROM transactions WHERE user_id = ?
		 ORDER BY date DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetTransaction fetches one transaction scoped to its owner. A row owned
// by another user is indistinguishable from a missing one.
func (r *Repository) GetTransaction(ctx context.Context, id, userID int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, amount_cents, description, category, date
		 FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, mapRowErr(err)
	}
	return t, nil
}

// UpdateTransaction rewrites the mutable fields of a transaction. Type and
// owner stay untouched. Ownership is not re-checked here; callers scope
// through GetTransaction first.
func (r *Repository) UpdateTransaction(ctx context.Context, id int64, amount core.Money, description, category string, date core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount_cents = ?, description = ?, category = ?, date = ? WHERE id = ?`,
		amount.Cents, description, category, date.String(), id)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "amount_cents", amount.Cents)
	return nil
}

// DeleteTransaction removes a transaction by id.
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// MonthlyReport aggregates one calendar month: totals by type and
// per-category sums per type. Months with no activity yield the zero
// shape.
func (r *Repository) MonthlyReport(ctx context.Context, userID int64, year, month int) (core.MonthlyReport, error) {
	report := core.MonthlyReport{Year: year, Month: month}
	y, m := yearArg(year), monthArg(month)

	income, expenses, err := r.typeTotals(ctx,
		`SELECT type, COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND strftime('%Y', date) = ? AND strftime('%m', date) = ?
		 GROUP BY type`,
		userID, y, m)
	if err != nil {
		return report, fmt.Errorf("monthly totals: %w", err)
	}
	report.TotalIncome = income
	report.TotalExpenses = expenses
	report.NetSavings = income.Sub(expenses)

	report.IncomeByCategory, err = r.categorySums(ctx,
		`SELECT category, SUM(amount_cents) FROM transactions
		 WHERE user_id = ? AND type = 'income'
		 AND strftime('%Y', date) = ? AND strftime('%m', date) = ?
		 GROUP BY category ORDER BY category`,
		userID, y, m)
	if err != nil {
		return report, fmt.Errorf("monthly income by category: %w", err)
	}

	report.ExpensesByCategory, err = r.categorySums(ctx,
		`SELECT category, SUM(amount_cents) FROM transactions
		 WHERE user_id = ? AND type = 'expense'
		 AND strftime('%Y', date) = ? AND strftime('%m', date) = ?
		 GROUP BY category ORDER BY category`,
		userID, y, m)
	if err != nil {
		return report, fmt.Errorf("monthly expenses by category: %w", err)
	}

	return report, nil
}

// YearlyReport aggregates a calendar year plus a fixed 12-entry month
// breakdown, zero-filled for silent months.
func (r *Repository) YearlyReport(ctx context.Context, userID int64, year int) (core.YearlyReport, error) {
	report := core.YearlyReport{Year: year}
	y := yearArg(year)

	income, expenses, err := r.typeTotals(ctx,
		`SELECT type, COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND strftime('%Y', date) = ?
		 GROUP BY type`,
		userID, y)
	if err != nil {
		return report, fmt.Errorf("yearly totals: %w", err)
	}
	report.TotalIncome = income
	report.TotalExpenses = expenses
	report.NetSavings = income.Sub(expenses)

	rows, err := r.db.QueryContext(ctx,
		`SELECT CAST(strftime('%m', date) AS INTEGER), type, SUM(amount_cents)
		 FROM transactions
		 WHERE user_id = ? AND strftime('%Y', date) = ?
		 GROUP BY 1, type ORDER BY 1`,
		userID, y)
	if err != nil {
		return report, fmt.Errorf("yearly month breakdown: %w", err)
	}
	defer rows.Close()

	months := make([]core.MonthSummary, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for rows.Next() {
		var (
			month int
			typ   string
			cents int64
		)
		if err := rows.Scan(&month, &typ, &cents); err != nil {
			return report, fmt.Errorf("scan month breakdown: %w", err)
		}
		if month < 1 || month > 12 {
			continue
		}
		if typ == string(core.Income) {
			months[month-1].Income = core.Money{Cents: cents}
		} else {
			months[month-1].Expenses = core.Money{Cents: cents}
		}
	}
	if err := rows.Err(); err != nil {
		return report, fmt.Errorf("month breakdown rows: %w", err)
	}
	for i := range months {
		months[i].Savings = months[i].Income.Sub(months[i].Expenses)
	}
	report.MonthlySummary = months

	return report, nil
}

// CategorySummary returns lifetime per-category sums, one list per type.
func (r *Repository) CategorySummary(ctx context.Context, userID int64) (core.CategorySummary, error) {
	var summary core.CategorySummary
	var err error

	summary.IncomeCategories, err = r.categorySums(ctx,
		`SELECT category, SUM(amount_cents) FROM transactions
		 WHERE user_id = ? AND type = 'income'
		 GROUP BY category ORDER BY category`,
		userID)
	if err != nil {
		return summary, fmt.Errorf("income category summary: %w", err)
	}

	summary.ExpenseCategories, err = r.categorySums(ctx,
		`SELECT category, SUM(amount_cents) FROM transactions
		 WHERE user_id = ? AND type = 'expense'
		 GROUP BY category ORDER BY category`,
		userID)
	if err != nil {
		return summary, fmt.Errorf("expense category summary: %w", err)
	}

	return summary, nil
}

// SetBudget upserts the budget for (user, category). Re-setting a category
// keeps the existing row id and replaces the amount.
func (r *Repository) SetBudget(ctx context.Context, userID int64, category string, amount core.Money) (core.Budget, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, amount_cents) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET amount_cents = excluded.amount_cents`,
		userID, category, amount.Cents)
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}

	var b core.Budget
	err = r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount_cents FROM budgets WHERE user_id = ? AND category = ?`,
		userID, category).Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents)
	if err != nil {
		return core.Budget{}, fmt.Errorf("read back budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget set",
		"id", b.ID, "user_id", userID, "category", category, "amount_cents", amount.Cents)
	return b, nil
}

// ListBudgets returns all budgets of the user.
func (r *Repository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount_cents FROM budgets WHERE user_id = ? ORDER BY category`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("budget rows: %w", err)
	}
	return budgets, nil
}

// GetCategoryBudget returns the monthly budget amount for a category, or
// ErrNotFound when none is set.
func (r *Repository) GetCategoryBudget(ctx context.Context, userID int64, category string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT amount_cents FROM budgets WHERE user_id = ? AND category = ?`,
		userID, category).Scan(&cents)
	if err != nil {
		return core.Money{}, mapRowErr(err)
	}
	return core.Money{Cents: cents}, nil
}

// UpdateBudget replaces a budget's amount by row id.
func (r *Repository) UpdateBudget(ctx context.Context, id int64, amount core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET amount_cents = ? WHERE id = ?`, amount.Cents, id)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Budget updated", "id", id, "amount_cents", amount.Cents)
	return nil
}

// DeleteBudget removes a budget by row id.
func (r *Repository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Budget deleted", "id", id)
	return nil
}

// MonthlySpending sums the user's expense transactions for one category in
// one year-month. Zero when none exist.
func (r *Repository) MonthlySpending(ctx context.Context, userID int64, category string, ym core.YearMonth) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND category = ? AND type = 'expense'
		 AND strftime('%Y', date) = ? AND strftime('%m', date) = ?`,
		userID, category, yearArg(ym.Year), monthArg(ym.Month)).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("monthly spending: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// ExportUserData fetches everything a backup document needs. The two
// collections are independent, so they are read concurrently.
func (r *Repository) ExportUserData(ctx context.Context, userID int64) ([]core.Transaction, []core.Budget, error) {
	var (
		transactions []core.Transaction
		budgets      []core.Budget
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = r.ListTransactions(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = r.ListBudgets(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("export user data: %w", err)
	}

	return transactions, budgets, nil
}

// RestoreUserData replaces the user's transactions and budgets with the
// supplied records inside a single database transaction, so a mid-restore
// failure cannot leave the account half-emptied.
func (r *Repository) RestoreUserData(ctx context.Context, userID int64, transactions []core.Transaction, budgets []core.Budget) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}

	for _, t := range transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (user_id, type, amount_cents, description, category, date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			userID, string(t.Type), t.Amount.Cents, t.Description, t.Category, t.Date.String()); err != nil {
			return fmt.Errorf("restore transaction: %w", err)
		}
	}
	for _, b := range budgets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (user_id, category, amount_cents) VALUES (?, ?, ?)`,
			userID, b.Category, b.Amount.Cents); err != nil {
			return fmt.Errorf("restore budget: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}

	slog.InfoContext(ctx, "User data restored",
		"user_id", userID,
		"transactions", len(transactions),
		"budgets", len(budgets))
	return nil
}

// typeTotals runs a type/SUM grouping query and splits the result into
// income and expense totals, defaulting each to zero.
func (r *Repository) typeTotals(ctx context.Context, query string, args ...any) (income, expenses core.Money, err error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return core.Money{}, core.Money{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			typ   string
			cents int64
		)
		if err := rows.Scan(&typ, &cents); err != nil {
			return core.Money{}, core.Money{}, err
		}
		if typ == string(core.Income) {
			income = core.Money{Cents: cents}
		} else {
			expenses = core.Money{Cents: cents}
		}
	}
	return income, expenses, rows.Err()
}

// categorySums runs a category/SUM grouping query.
func (r *Repository) categorySums(ctx context.Context, query string, args ...any) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []core.CategoryAmount
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, err
		}
		sums = append(sums, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	return sums, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t       core.Transaction
		typ     string
		dateStr string
	)
	if err := row.Scan(&t.ID, &t.UserID, &typ, &t.Amount.Cents, &t.Description, &t.Category, &dateStr); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(typ)
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	t.Date = date
	return t, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transaction rows: %w", err)
	}
	return transactions, nil
}

func yearArg(year int) string {
	return fmt.Sprintf("%04d", year)
}

func monthArg(month int) string {
	return fmt.Sprintf("%02d", month)
}
