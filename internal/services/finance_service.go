// Package services orchestrates the storage layer on behalf of the
// interactive surface: session identity, category enforcement, budget
// warnings and backup/restore.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/backup"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Session identifies the authenticated user. It is passed explicitly to
// every operation; there is no process-wide current user.
type Session struct {
	UserID   int64
	Username string
}

// BudgetWarning describes an expense that would push a category over its
// monthly budget. The caller decides whether to proceed.
type BudgetWarning struct {
	Category string
	Budget   core.Money
	Spent    core.Money
	NewTotal core.Money
	Overage  core.Money
}

// BudgetStatus is one row of the budget overview: configured budget
// against the month's actual spending.
type BudgetStatus struct {
	Budget    core.Budget
	Spent     core.Money
	Remaining core.Money
	Over      bool
}

type FinanceService struct {
	repo *storage.Repository
}

func New(repo *storage.Repository) *FinanceService {
	return &FinanceService{repo: repo}
}

// Register creates a new account. The password gate here is deliberately
// just the minimum-length rule; see auth.ValidatePassword for the stricter
// unwired policy.
func (s *FinanceService) Register(ctx context.Context, username, password string) error {
	if err := auth.ValidateUsername(username); err != nil {
		return err
	}
	if err := auth.CheckMinLength(password); err != nil {
		return err
	}
	if _, err := s.repo.GetUser(ctx, username); err == nil {
		return storage.ErrDuplicate
	} else if !storage.IsNotFound(err) {
		return fmt.Errorf("check username: %w", err)
	}

	_, err := s.repo.CreateUser(ctx, username, auth.HashPassword(password))
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "User registered", log.FieldUsername, username)
	return nil
}

// Login authenticates and opens a session.
func (s *FinanceService) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.repo.Authenticate(ctx, username, auth.HashPassword(password))
	if err != nil {
		return Session{}, err
	}

	slog.InfoContext(ctx, "User logged in", log.FieldUserID, user.ID, log.FieldUsername, user.Username)
	return Session{UserID: user.ID, Username: user.Username}, nil
}

// AddIncome records an income transaction. The category must be one of the
// fixed income categories.
func (s *FinanceService) AddIncome(ctx context.Context, sess Session, amount core.Money, description, category string, date core.Date) (core.Transaction, error) {
	return s.addTransaction(ctx, sess, core.Income, amount, description, category, date)
}

// AddExpense records an expense transaction. Budget checking is separate:
// call CheckBudget first and let the user confirm any overage.
func (s *FinanceService) AddExpense(ctx context.Context, sess Session, amount core.Money, description, category string, date core.Date) (core.Transaction, error) {
	return s.addTransaction(ctx, sess, core.Expense, amount, description, category, date)
}

func (s *FinanceService) addTransaction(ctx context.Context, sess Session, typ core.TransactionType, amount core.Money, description, category string, date core.Date) (core.Transaction, error) {
	t := core.Transaction{
		UserID:      sess.UserID,
		Type:        typ,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if !core.ValidCategory(typ, category) {
		return core.Transaction{}, core.ErrInvalidCategory
	}
	return s.repo.AddTransaction(ctx, sess.UserID, typ, amount, description, category, date)
}

// CheckBudget reports whether adding amount as an expense in the given
// category and month would exceed the configured budget. A nil warning
// means no budget is set or the total stays within it.
func (s *FinanceService) CheckBudget(ctx context.Context, sess Session, category string, amount core.Money, date core.Date) (*BudgetWarning, error) {
	budget, err := s.repo.GetCategoryBudget(ctx, sess.UserID, category)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	spent, err := s.repo.MonthlySpending(ctx, sess.UserID, category, date.YearMonth())
	if err != nil {
		return nil, err
	}

	newTotal := spent.Add(amount)
	if newTotal.Cents <= budget.Cents {
		return nil, nil
	}
	return &BudgetWarning{
		Category: category,
		Budget:   budget,
		Spent:    spent,
		NewTotal: newTotal,
		Overage:  newTotal.Sub(budget),
	}, nil
}

// ListTransactions returns the session user's transactions, newest first.
func (s *FinanceService) ListTransactions(ctx context.Context, sess Session) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, sess.UserID)
}

// GetTransaction fetches one of the session user's transactions. Rows
// owned by other users come back as not found.
func (s *FinanceService) GetTransaction(ctx context.Context, sess Session, id int64) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, id, sess.UserID)
}

// UpdateTransaction rewrites the mutable fields of one of the session
// user's transactions. The ownership check runs here; the category must
// belong to the transaction's immutable type.
func (s *FinanceService) UpdateTransaction(ctx context.Context, sess Session, id int64, amount core.Money, description, category string, date core.Date) error {
	existing, err := s.repo.GetTransaction(ctx, id, sess.UserID)
	if err != nil {
		return err
	}
	updated := existing
	updated.Amount = amount
	updated.Description = description
	updated.Category = category
	updated.Date = date
	if err := updated.Validate(); err != nil {
		return err
	}
	if !core.ValidCategory(existing.Type, category) {
		return core.ErrInvalidCategory
	}
	return s.repo.UpdateTransaction(ctx, id, amount, description, category, date)
}

// DeleteTransaction removes one of the session user's transactions.
func (s *FinanceService) DeleteTransaction(ctx context.Context, sess Session, id int64) error {
	if _, err := s.repo.GetTransaction(ctx, id, sess.UserID); err != nil {
		return err
	}
	return s.repo.DeleteTransaction(ctx, id)
}

// MonthlyReport aggregates one calendar month for the session user.
func (s *FinanceService) MonthlyReport(ctx context.Context, sess Session, ym core.YearMonth) (core.MonthlyReport, error) {
	return s.repo.MonthlyReport(ctx, sess.UserID, ym.Year, ym.Month)
}

// YearlyReport aggregates one calendar year for the session user.
func (s *FinanceService) YearlyReport(ctx context.Context, sess Session, year int) (core.YearlyReport, error) {
	return s.repo.YearlyReport(ctx, sess.UserID, year)
}

// CategorySummary returns lifetime per-category sums for the session user.
func (s *FinanceService) CategorySummary(ctx context.Context, sess Session) (core.CategorySummary, error) {
	return s.repo.CategorySummary(ctx, sess.UserID)
}

// SetBudget upserts a monthly budget for an expense category.
func (s *FinanceService) SetBudget(ctx context.Context, sess Session, category string, amount core.Money) (core.Budget, error) {
	if err := amount.Validate(); err != nil {
		return core.Budget{}, err
	}
	if !core.ValidCategory(core.Expense, category) {
		return core.Budget{}, core.ErrInvalidCategory
	}
	return s.repo.SetBudget(ctx, sess.UserID, category, amount)
}

// ListBudgets returns the session user's budgets.
func (s *FinanceService) ListBudgets(ctx context.Context, sess Session) ([]core.Budget, error) {
	return s.repo.ListBudgets(ctx, sess.UserID)
}

// UpdateBudget replaces a budget's amount.
func (s *FinanceService) UpdateBudget(ctx context.Context, sess Session, id int64, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateBudget(ctx, id, amount)
}

// DeleteBudget removes a budget.
func (s *FinanceService) DeleteBudget(ctx context.Context, sess Session, id int64) error {
	return s.repo.DeleteBudget(ctx, id)
}

// BudgetOverview compares each configured budget against the month's
// actual spending.
func (s *FinanceService) BudgetOverview(ctx context.Context, sess Session, ym core.YearMonth) ([]BudgetStatus, error) {
	budgets, err := s.repo.ListBudgets(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.repo.MonthlySpending(ctx, sess.UserID, b.Category, ym)
		if err != nil {
			return nil, err
		}
		remaining := b.Amount.Sub(spent)
		statuses = append(statuses, BudgetStatus{
			Budget:    b,
			Spent:     spent,
			Remaining: remaining,
			Over:      remaining.Cents < 0,
		})
	}
	return statuses, nil
}

// Backup writes the session user's data to a JSON file in dir and returns
// the file path.
func (s *FinanceService) Backup(ctx context.Context, sess Session, dir string) (string, error) {
	transactions, budgets, err := s.repo.ExportUserData(ctx, sess.UserID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	path, err := backup.WriteFile(dir, sess.Username, backup.NewDocument(transactions, budgets, now), now)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Backup written",
		log.FieldUserID, sess.UserID,
		log.FieldPath, path,
		log.FieldCount, len(transactions))
	return path, nil
}

// Restore replaces the session user's data with the contents of a backup
// file. The replacement is atomic: a failure leaves existing data intact.
func (s *FinanceService) Restore(ctx context.Context, sess Session, path string) error {
	doc, err := backup.ReadFile(path)
	if err != nil {
		return err
	}
	transactions, budgets, err := doc.Records()
	if err != nil {
		return fmt.Errorf("invalid backup: %w", err)
	}
	if err := s.repo.RestoreUserData(ctx, sess.UserID, transactions, budgets); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Backup restored",
		log.FieldUserID, sess.UserID,
		log.FieldPath, path,
		log.FieldCount, len(transactions))
	return nil
}
