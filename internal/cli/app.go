package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// App runs the interactive menu loop. One session at a time; every
// operation returns to the menu regardless of outcome.
//
// Input is pumped through a channel so a blocked prompt can be abandoned:
// SIGINT aborts the prompt (and with it the current operation), context
// cancellation winds the whole loop down.
type App struct {
	svc *services.FinanceService
	cfg *config.Config
	in  *bufio.Scanner
	out io.Writer

	lines     chan string
	interrupt chan os.Signal
	done      <-chan struct{}
}

func NewApp(svc *services.FinanceService, cfg *config.Config) *App {
	return &App{
		svc:       svc,
		cfg:       cfg,
		in:        bufio.NewScanner(os.Stdin),
		out:       os.Stdout,
		interrupt: make(chan os.Signal, 1),
	}
}

// Run drives the authentication and main menus until the user exits or
// input is exhausted.
func (a *App) Run(ctx context.Context) error {
	a.done = ctx.Done()
	a.lines = make(chan string)
	go a.readLines()

	signal.Notify(a.interrupt, os.Interrupt)
	defer signal.Stop(a.interrupt)

	printHeader(a.out, "Personal Finance Manager")

	for {
		if ctx.Err() != nil {
			return nil
		}
		choice, ok := a.authMenu()
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			sess, ok := a.login(ctx)
			if ok {
				if done := a.mainLoop(ctx, sess); done {
					return nil
				}
			}
		case "2":
			a.register(ctx)
		case "3":
			fmt.Fprintln(a.out, "Thank you for using Personal Finance Manager!")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please try again.")
		}
	}
}

// readLines feeds stdin into the prompt channel, closing it on EOF.
func (a *App) readLines() {
	defer close(a.lines)
	for a.in.Scan() {
		select {
		case a.lines <- a.in.Text():
		case <-a.done:
			return
		}
	}
}

func (a *App) authMenu() (string, bool) {
	fmt.Fprintln(a.out, "\n=== Authentication Menu ===")
	fmt.Fprintln(a.out, "1. Login")
	fmt.Fprintln(a.out, "2. Register")
	fmt.Fprintln(a.out, "3. Exit")
	return a.prompt("Enter your choice (1-3): ")
}

// mainLoop runs the authenticated menu. It returns true when the whole
// application should exit (input exhausted) rather than just logging out.
func (a *App) mainLoop(ctx context.Context, sess services.Session) bool {
	for {
		if ctx.Err() != nil {
			return true
		}
		fmt.Fprintf(a.out, "\n=== Welcome, %s! ===\n", sess.Username)
		fmt.Fprintln(a.out, "1. Add Income")
		fmt.Fprintln(a.out, "2. Add Expense")
		fmt.Fprintln(a.out, "3. View Transactions")
		fmt.Fprintln(a.out, "4. Update Transaction")
		fmt.Fprintln(a.out, "5. Delete Transaction")
		fmt.Fprintln(a.out, "6. Generate Reports")
		fmt.Fprintln(a.out, "7. Manage Budget")
		fmt.Fprintln(a.out, "8. Backup Data")
		fmt.Fprintln(a.out, "9. Restore Data")
		fmt.Fprintln(a.out, "10. Logout")

		choice, ok := a.prompt("Enter your choice (1-10): ")
		if !ok {
			return true
		}
		switch strings.TrimSpace(choice) {
		case "1":
			a.addTransaction(ctx, sess, core.Income)
		case "2":
			a.addTransaction(ctx, sess, core.Expense)
		case "3":
			a.viewTransactions(ctx, sess)
		case "4":
			a.updateTransaction(ctx, sess)
		case "5":
			a.deleteTransaction(ctx, sess)
		case "6":
			a.generateReports(ctx, sess)
		case "7":
			a.manageBudget(ctx, sess)
		case "8":
			a.backupData(ctx, sess)
		case "9":
			a.restoreData(ctx, sess)
		case "10":
			fmt.Fprintln(a.out, "Logged out successfully!")
			return false
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please try again.")
		}
	}
}

func (a *App) register(ctx context.Context) {
	fmt.Fprintln(a.out, "\n=== User Registration ===")

	username, ok := a.prompt("Enter username: ")
	if !ok {
		return
	}
	username = strings.TrimSpace(username)
	if err := auth.ValidateUsername(username); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	password, ok := a.promptPassword("Enter password: ")
	if !ok {
		return
	}
	if err := auth.CheckMinLength(password); err != nil {
		fmt.Fprintln(a.out, "Password must be at least 6 characters long!")
		return
	}
	confirm, ok := a.promptPassword("Confirm password: ")
	if !ok {
		return
	}
	if password != confirm {
		fmt.Fprintln(a.out, "Passwords don't match!")
		return
	}

	if err := a.svc.Register(ctx, username, password); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			fmt.Fprintln(a.out, "Username already exists! Please choose a different one.")
		} else {
			fmt.Fprintln(a.out, "Registration failed. Please try again.")
		}
		return
	}
	fmt.Fprintf(a.out, "User '%s' registered successfully!\n", username)
}

func (a *App) login(ctx context.Context) (services.Session, bool) {
	fmt.Fprintln(a.out, "\n=== User Login ===")

	username, ok := a.prompt("Enter username: ")
	if !ok {
		return services.Session{}, false
	}
	password, ok := a.promptPassword("Enter password: ")
	if !ok {
		return services.Session{}, false
	}

	sess, err := a.svc.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid username or password!")
		return services.Session{}, false
	}
	fmt.Fprintf(a.out, "Welcome back, %s!\n", sess.Username)
	return sess, true
}

func (a *App) addTransaction(ctx context.Context, sess services.Session, typ core.TransactionType) {
	if typ == core.Income {
		fmt.Fprintln(a.out, "\n=== Add Income ===")
	} else {
		fmt.Fprintln(a.out, "\n=== Add Expense ===")
	}

	amount, ok := a.promptAmount("Enter amount: $")
	if !ok {
		return
	}
	description, ok := a.prompt("Enter description: ")
	if !ok {
		return
	}
	description = strings.TrimSpace(description)
	if description == "" {
		fmt.Fprintln(a.out, "Description cannot be empty!")
		return
	}
	category, ok := a.promptCategory(typ)
	if !ok {
		return
	}
	date, ok := a.promptDate("Enter date (YYYY-MM-DD) or press Enter for today: ")
	if !ok {
		return
	}

	if typ == core.Expense {
		warning, err := a.svc.CheckBudget(ctx, sess, category, amount, date)
		if err != nil {
			fmt.Fprintln(a.out, "Failed to check budget!")
			return
		}
		if warning != nil {
			renderBudgetWarning(a.out, *warning)
			if !a.promptConfirm("Do you want to continue? (y/N): ") {
				fmt.Fprintln(a.out, "Expense cancelled.")
				return
			}
		}
	}

	var err error
	if typ == core.Income {
		_, err = a.svc.AddIncome(ctx, sess, amount, description, category, date)
	} else {
		_, err = a.svc.AddExpense(ctx, sess, amount, description, category, date)
	}
	if err != nil {
		fmt.Fprintf(a.out, "Failed to add %s!\n", typ)
		return
	}
	if typ == core.Income {
		fmt.Fprintln(a.out, "Income added successfully!")
	} else {
		fmt.Fprintln(a.out, "Expense added successfully!")
	}
}

func (a *App) viewTransactions(ctx context.Context, sess services.Session) {
	fmt.Fprintln(a.out, "\n=== Transaction History ===")
	transactions, err := a.svc.ListTransactions(ctx, sess)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load transactions!")
		return
	}
	renderTransactions(a.out, transactions)
}

func (a *App) updateTransaction(ctx context.Context, sess services.Session) {
	fmt.Fprintln(a.out, "\n=== Update Transaction ===")

	id, ok := a.promptID("Enter transaction ID to update: ")
	if !ok {
		return
	}
	current, err := a.svc.GetTransaction(ctx, sess, id)
	if err != nil {
		fmt.Fprintln(a.out, "Transaction not found or you don't have permission to update it!")
		return
	}

	fmt.Fprintln(a.out, "\nCurrent transaction details:")
	fmt.Fprintf(a.out, "Type: %s\n", current.Type)
	fmt.Fprintf(a.out, "Amount: %s\n", current.Amount)
	fmt.Fprintf(a.out, "Description: %s\n", current.Description)
	fmt.Fprintf(a.out, "Category: %s\n", current.Category)
	fmt.Fprintf(a.out, "Date: %s\n", current.Date)
	fmt.Fprintln(a.out, "\nEnter new values (press Enter to keep current value):")

	amount := current.Amount
	if input, ok := a.prompt(fmt.Sprintf("Amount (%s): ", current.Amount)); ok && strings.TrimSpace(input) != "" {
		if parsed, err := core.ParseAmount(input); err == nil {
			amount = parsed
		} else {
			fmt.Fprintln(a.out, "Invalid amount! Keeping original amount.")
		}
	}

	description := current.Description
	if input, ok := a.prompt(fmt.Sprintf("Description (%s): ", current.Description)); ok && strings.TrimSpace(input) != "" {
		description = strings.TrimSpace(input)
	}

	category := a.reselectCategory(current)

	date := current.Date
	if input, ok := a.prompt(fmt.Sprintf("Date (%s): ", current.Date)); ok && strings.TrimSpace(input) != "" {
		if parsed, err := core.ParseDate(input); err == nil {
			date = parsed
		} else {
			fmt.Fprintln(a.out, "Invalid date format! Keeping original date.")
		}
	}

	if err := a.svc.UpdateTransaction(ctx, sess, id, amount, description, category, date); err != nil {
		fmt.Fprintln(a.out, "Failed to update transaction!")
		return
	}
	fmt.Fprintln(a.out, "Transaction updated successfully!")
}

// reselectCategory offers the category list matching the transaction's
// immutable type; empty or invalid input keeps the current category.
func (a *App) reselectCategory(current core.Transaction) string {
	cats := core.CategoriesFor(current.Type)
	fmt.Fprintf(a.out, "\nCurrent category: %s\n", current.Category)
	fmt.Fprintln(a.out, "Categories:")
	for i, c := range cats {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, c)
	}

	input, ok := a.prompt("Select new category (number) or press Enter to keep current: ")
	if !ok || strings.TrimSpace(input) == "" {
		return current.Category
	}
	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return current.Category
	}
	category, err := core.CategoryAt(current.Type, choice)
	if err != nil {
		return current.Category
	}
	return category
}

func (a *App) deleteTransaction(ctx context.Context, sess services.Session) {
	fmt.Fprintln(a.out, "\n=== Delete Transaction ===")

	id, ok := a.promptID("Enter transaction ID to delete: ")
	if !ok {
		return
	}
	current, err := a.svc.GetTransaction(ctx, sess, id)
	if err != nil {
		fmt.Fprintln(a.out, "Transaction not found or you don't have permission to delete it!")
		return
	}

	fmt.Fprintln(a.out, "\nTransaction to delete:")
	fmt.Fprintf(a.out, "Type: %s\n", current.Type)
	fmt.Fprintf(a.out, "Amount: %s\n", current.Amount)
	fmt.Fprintf(a.out, "Description: %s\n", current.Description)
	fmt.Fprintf(a.out, "Category: %s\n", current.Category)
	fmt.Fprintf(a.out, "Date: %s\n", current.Date)

	if !a.promptConfirm("\nAre you sure you want to delete this transaction? (y/N): ") {
		fmt.Fprintln(a.out, "Deletion cancelled.")
		return
	}
	if err := a.svc.DeleteTransaction(ctx, sess, id); err != nil {
		fmt.Fprintln(a.out, "Failed to delete transaction!")
		return
	}
	fmt.Fprintln(a.out, "Transaction deleted successfully!")
}

func (a *App) generateReports(ctx context.Context, sess services.Session) {
	fmt.Fprintln(a.out, "\n=== Financial Reports ===")
	fmt.Fprintln(a.out, "1. Monthly Report")
	fmt.Fprintln(a.out, "2. Yearly Report")
	fmt.Fprintln(a.out, "3. Category Summary")

	choice, ok := a.prompt("Select report type (1-3): ")
	if !ok {
		return
	}
	switch strings.TrimSpace(choice) {
	case "1":
		a.monthlyReport(ctx, sess)
	case "2":
		a.yearlyReport(ctx, sess)
	case "3":
		a.categorySummary(ctx, sess)
	default:
		fmt.Fprintln(a.out, "Invalid choice!")
	}
}

func (a *App) monthlyReport(ctx context.Context, sess services.Session) {
	input, ok := a.prompt("Enter month and year (YYYY-MM) or press Enter for current month: ")
	if !ok {
		return
	}
	ym := core.CurrentYearMonth()
	if strings.TrimSpace(input) != "" {
		parsed, err := core.ParseYearMonth(input)
		if err != nil {
			fmt.Fprintln(a.out, "Invalid month format! Use YYYY-MM")
			return
		}
		ym = parsed
	}

	report, err := a.svc.MonthlyReport(ctx, sess, ym)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to generate report!")
		return
	}
	renderMonthlyReport(a.out, report)
}

func (a *App) yearlyReport(ctx context.Context, sess services.Session) {
	input, ok := a.prompt("Enter year (YYYY) or press Enter for current year: ")
	if !ok {
		return
	}
	year := core.CurrentYearMonth().Year
	if strings.TrimSpace(input) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			fmt.Fprintln(a.out, "Invalid year format!")
			return
		}
		year = parsed
	}

	report, err := a.svc.YearlyReport(ctx, sess, year)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to generate report!")
		return
	}
	renderYearlyReport(a.out, report)
}

func (a *App) categorySummary(ctx context.Context, sess services.Session) {
	summary, err := a.svc.CategorySummary(ctx, sess)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to generate summary!")
		return
	}
	renderCategorySummary(a.out, summary)
}

func (a *App) manageBudget(ctx context.Context, sess services.Session) {
	fmt.Fprintln(a.out, "\n=== Budget Management ===")
	fmt.Fprintln(a.out, "1. Set Monthly Budget")
	fmt.Fprintln(a.out, "2. View Current Budgets")
	fmt.Fprintln(a.out, "3. Update Budget")
	fmt.Fprintln(a.out, "4. Delete Budget")

	choice, ok := a.prompt("Select option (1-4): ")
	if !ok {
		return
	}
	switch strings.TrimSpace(choice) {
	case "1":
		a.setBudget(ctx, sess)
	case "2":
		a.viewBudgets(ctx, sess)
	case "3":
		a.updateBudget(ctx, sess)
	case "4":
		a.deleteBudget(ctx, sess)
	default:
		fmt.Fprintln(a.out, "Invalid choice!")
	}
}

func (a *App) setBudget(ctx context.Context, sess services.Session) {
	category, ok := a.promptCategory(core.Expense)
	if !ok {
		return
	}
	amount, ok := a.promptAmount(fmt.Sprintf("Enter monthly budget for %s: $", category))
	if !ok {
		return
	}
	if _, err := a.svc.SetBudget(ctx, sess, category, amount); err != nil {
		fmt.Fprintln(a.out, "Failed to set budget!")
		return
	}
	fmt.Fprintf(a.out, "Budget set for %s: %s/month\n", category, amount)
}

func (a *App) viewBudgets(ctx context.Context, sess services.Session) {
	statuses, err := a.svc.BudgetOverview(ctx, sess, core.CurrentYearMonth())
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load budgets!")
		return
	}
	renderBudgetOverview(a.out, statuses)
}

// selectBudget lists the user's budgets and reads a 1-based selection.
func (a *App) selectBudget(ctx context.Context, sess services.Session, verb string) (core.Budget, bool) {
	budgets, err := a.svc.ListBudgets(ctx, sess)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load budgets!")
		return core.Budget{}, false
	}
	if len(budgets) == 0 {
		fmt.Fprintln(a.out, "No budgets set.")
		return core.Budget{}, false
	}

	fmt.Fprintln(a.out, "\nCurrent Budgets:")
	for i, b := range budgets {
		fmt.Fprintf(a.out, "%d. %s: %s\n", i+1, b.Category, b.Amount)
	}

	input, ok := a.prompt(fmt.Sprintf("Select budget to %s (number): ", verb))
	if !ok {
		return core.Budget{}, false
	}
	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		fmt.Fprintln(a.out, "Please enter a valid number!")
		return core.Budget{}, false
	}
	if choice < 1 || choice > len(budgets) {
		fmt.Fprintln(a.out, "Invalid selection!")
		return core.Budget{}, false
	}
	return budgets[choice-1], true
}

func (a *App) updateBudget(ctx context.Context, sess services.Session) {
	budget, ok := a.selectBudget(ctx, sess, "update")
	if !ok {
		return
	}
	amount, ok := a.promptAmount(fmt.Sprintf("Enter new budget amount for %s: $", budget.Category))
	if !ok {
		return
	}
	if err := a.svc.UpdateBudget(ctx, sess, budget.ID, amount); err != nil {
		fmt.Fprintln(a.out, "Failed to update budget!")
		return
	}
	fmt.Fprintf(a.out, "Budget updated for %s: %s/month\n", budget.Category, amount)
}

func (a *App) deleteBudget(ctx context.Context, sess services.Session) {
	budget, ok := a.selectBudget(ctx, sess, "delete")
	if !ok {
		return
	}
	if !a.promptConfirm(fmt.Sprintf("Delete budget for %s? (y/N): ", budget.Category)) {
		fmt.Fprintln(a.out, "Deletion cancelled.")
		return
	}
	if err := a.svc.DeleteBudget(ctx, sess, budget.ID); err != nil {
		fmt.Fprintln(a.out, "Failed to delete budget!")
		return
	}
	fmt.Fprintf(a.out, "Budget deleted for %s\n", budget.Category)
}

func (a *App) backupData(ctx context.Context, sess services.Session) {
	fmt.Fprintln(a.out, "\n=== Backup Data ===")
	path, err := a.svc.Backup(ctx, sess, a.cfg.BackupDir)
	if err != nil {
		fmt.Fprintln(a.out, "Backup failed!")
		return
	}
	fmt.Fprintf(a.out, "Data backed up successfully to: %s\n", path)
}

func (a *App) restoreData(ctx context.Context, sess services.Session) {
	fmt.Fprintln(a.out, "\n=== Restore Data ===")

	filename, ok := a.prompt("Enter backup filename: ")
	if !ok {
		return
	}
	filename = strings.TrimSpace(filename)
	if _, err := os.Stat(filename); err != nil {
		fmt.Fprintln(a.out, "Backup file not found!")
		return
	}

	fmt.Fprintln(a.out, "\nWARNING: This will replace all your current data!")
	if !a.promptConfirm("Are you sure you want to restore? (y/N): ") {
		fmt.Fprintln(a.out, "Restore cancelled.")
		return
	}
	if err := a.svc.Restore(ctx, sess, filename); err != nil {
		fmt.Fprintln(a.out, "Restore failed!")
		return
	}
	fmt.Fprintln(a.out, "Data restored successfully!")
}
