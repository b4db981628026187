package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/auth"
	"fintrack/internal/backup"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func newTestService(t *testing.T) *FinanceService {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return New(repo)
}

func registerAndLogin(t *testing.T, svc *FinanceService, username string) Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, username, "secret123"))
	sess, err := svc.Login(ctx, username, "secret123")
	require.NoError(t, err)
	return sess
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "secret123"))

	// Duplicate username
	err := svc.Register(ctx, "alice", "other456")
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	// Invalid username and short password never reach storage
	assert.ErrorIs(t, svc.Register(ctx, "a!", "secret123"), auth.ErrInvalidUsername)
	assert.ErrorIs(t, svc.Register(ctx, "bob", "12345"), auth.ErrPasswordTooShort)

	// The registration gate is length-only: a letters-only password passes
	require.NoError(t, svc.Register(ctx, "carol", "abcdef"))

	sess, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
	assert.NotZero(t, sess.UserID)

	_, err = svc.Login(ctx, "alice", "wrongpass")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddIncomeAndExpense(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sess := registerAndLogin(t, svc, "alice")

	tx, err := svc.AddIncome(ctx, sess, core.Money{Cents: 200000}, "january pay", "Salary", core.NewDate(2024, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, core.Income, tx.Type)

	_, err = svc.AddExpense(ctx, sess, core.Money{Cents: 5000}, "lunch", "Food", core.NewDate(2024, 1, 16))
	require.NoError(t, err)

	// Category must match the transaction type's list
	_, err = svc.AddIncome(ctx, sess, core.Money{Cents: 100}, "x", "Food", core.NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, core.ErrInvalidCategory)
	_, err = svc.AddExpense(ctx, sess, core.Money{Cents: 100}, "x", "Salary", core.NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	// Validation failures leave no rows behind
	_, err = svc.AddExpense(ctx, sess, core.Money{Cents: 0}, "x", "Food", core.NewDate(2024, 1, 1))
	assert.Error(t, err)
	list, err := svc.ListTransactions(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCheckBudget(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sess := registerAndLogin(t, svc, "alice")
	date := core.NewDate(2024, 1, 20)

	// No budget set: no warning
	warning, err := svc.CheckBudget(ctx, sess, "Food", core.Money{Cents: 10000}, date)
	require.NoError(t, err)
	assert.Nil(t, warning)

	_, err = svc.SetBudget(ctx, sess, "Food", core.Money{Cents: 50000})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, sess, core.Money{Cents: 30000}, "groceries", "Food", core.NewDate(2024, 1, 5))
	require.NoError(t, err)

	// Within budget: 300 + 150 <= 500
	warning, err = svc.CheckBudget(ctx, sess, "Food", core.Money{Cents: 15000}, date)
	require.NoError(t, err)
	assert.Nil(t, warning)

	// Over budget: 300 + 250 > 500
	warning, err = svc.CheckBudget(ctx, sess, "Food", core.Money{Cents: 25000}, date)
	require.NoError(t, err)
	require.NotNil(t, warning)
	assert.Equal(t, int64(50000), warning.Budget.Cents)
	assert.Equal(t, int64(30000), warning.Spent.Cents)
	assert.Equal(t, int64(55000), warning.NewTotal.Cents)
	assert.Equal(t, int64(5000), warning.Overage.Cents)

	// Spending in another month does not count against this one
	warning, err = svc.CheckBudget(ctx, sess, "Food", core.Money{Cents: 25000}, core.NewDate(2024, 2, 20))
	require.NoError(t, err)
	assert.Nil(t, warning)
}

func TestUpdateTransaction_OwnershipAndType(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerAndLogin(t, svc, "alice")
	bob := registerAndLogin(t, svc, "bob")

	tx, err := svc.AddExpense(ctx, alice, core.Money{Cents: 5000}, "lunch", "Food", core.NewDate(2024, 1, 16))
	require.NoError(t, err)

	// Another user cannot touch it
	err = svc.UpdateTransaction(ctx, bob, tx.ID, core.Money{Cents: 1}, "x", "Food", core.NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, storage.ErrNotFound)
	err = svc.DeleteTransaction(ctx, bob, tx.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Category list is pinned to the immutable type
	err = svc.UpdateTransaction(ctx, alice, tx.ID, core.Money{Cents: 1}, "x", "Salary", core.NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	require.NoError(t, svc.UpdateTransaction(ctx, alice, tx.ID, core.Money{Cents: 7500}, "dinner", "Entertainment", core.NewDate(2024, 1, 17)))
	got, err := svc.GetTransaction(ctx, alice, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), got.Amount.Cents)
	assert.Equal(t, core.Expense, got.Type)

	require.NoError(t, svc.DeleteTransaction(ctx, alice, tx.ID))
	_, err = svc.GetTransaction(ctx, alice, tx.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetBudget_ExpenseCategoriesOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sess := registerAndLogin(t, svc, "alice")

	_, err := svc.SetBudget(ctx, sess, "Salary", core.Money{Cents: 100})
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	b, err := svc.SetBudget(ctx, sess, "Food", core.Money{Cents: 100})
	require.NoError(t, err)

	again, err := svc.SetBudget(ctx, sess, "Food", core.Money{Cents: 200})
	require.NoError(t, err)
	assert.Equal(t, b.ID, again.ID)

	budgets, err := svc.ListBudgets(ctx, sess)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, int64(200), budgets[0].Amount.Cents)
}

func TestBudgetOverview(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sess := registerAndLogin(t, svc, "alice")
	ym := core.YearMonth{Year: 2024, Month: 1}

	_, err := svc.SetBudget(ctx, sess, "Food", core.Money{Cents: 20000})
	require.NoError(t, err)
	_, err = svc.SetBudget(ctx, sess, "Travel", core.Money{Cents: 10000})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, sess, core.Money{Cents: 25000}, "groceries", "Food", core.NewDate(2024, 1, 10))
	require.NoError(t, err)

	statuses, err := svc.BudgetOverview(ctx, sess, ym)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	// ListBudgets orders by category: Food then Travel
	food := statuses[0]
	assert.Equal(t, "Food", food.Budget.Category)
	assert.Equal(t, int64(25000), food.Spent.Cents)
	assert.Equal(t, int64(-5000), food.Remaining.Cents)
	assert.True(t, food.Over)

	travel := statuses[1]
	assert.Zero(t, travel.Spent.Cents)
	assert.False(t, travel.Over)
}

func TestBackupRestore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sess := registerAndLogin(t, svc, "alice")
	dir := t.TempDir()

	_, err := svc.AddIncome(ctx, sess, core.Money{Cents: 200000}, "pay", "Salary", core.NewDate(2024, 1, 15))
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, sess, core.Money{Cents: 50000}, "rent", "Rent", core.NewDate(2024, 1, 1))
	require.NoError(t, err)
	_, err = svc.SetBudget(ctx, sess, "Rent", core.Money{Cents: 60000})
	require.NoError(t, err)

	path, err := svc.Backup(ctx, sess, dir)
	require.NoError(t, err)
	doc, err := backup.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Transactions, 2)
	assert.Len(t, doc.Budgets, 1)

	// Mutate, then restore back to the snapshot
	_, err = svc.AddExpense(ctx, sess, core.Money{Cents: 100}, "coffee", "Food", core.NewDate(2024, 1, 20))
	require.NoError(t, err)
	require.NoError(t, svc.Restore(ctx, sess, path))

	list, err := svc.ListTransactions(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	budgets, err := svc.ListBudgets(ctx, sess)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, int64(60000), budgets[0].Amount.Cents)
}

func TestRestore_MissingFile(t *testing.T) {
	svc := newTestService(t)
	sess := registerAndLogin(t, svc, "alice")
	err := svc.Restore(context.Background(), sess, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
