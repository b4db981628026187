package cli

import (
	"fmt"
	"io"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

func printHeader(out io.Writer, title string) {
	line := strings.Repeat("=", 60)
	pad := (60 - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintln(out, line)
	fmt.Fprintf(out, "%s%s\n", strings.Repeat(" ", pad), title)
	fmt.Fprintln(out, line)
}

// truncate shortens text to max characters with a trailing ellipsis.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}

func renderTransactions(out io.Writer, transactions []core.Transaction) {
	if len(transactions) == 0 {
		fmt.Fprintln(out, "No transactions found.")
		return
	}
	fmt.Fprintf(out, "%-5s %-8s %-13s %-15s %-20s %-12s\n",
		"ID", "Type", "Amount", "Category", "Description", "Date")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, t := range transactions {
		fmt.Fprintf(out, "%-5d %-8s %-13s %-15s %-20s %-12s\n",
			t.ID, t.Type, t.Amount, t.Category, truncate(t.Description, 20), t.Date)
	}
}

func renderMonthlyReport(out io.Writer, report core.MonthlyReport) {
	fmt.Fprintf(out, "\n=== Monthly Report for %s %d ===\n", core.MonthName(report.Month), report.Year)
	fmt.Fprintf(out, "Total Income: %s\n", report.TotalIncome)
	fmt.Fprintf(out, "Total Expenses: %s\n", report.TotalExpenses)
	fmt.Fprintf(out, "Net Savings: %s\n", report.NetSavings)

	if len(report.IncomeByCategory) > 0 {
		fmt.Fprintln(out, "\nIncome by Category:")
		for _, c := range report.IncomeByCategory {
			fmt.Fprintf(out, "  %s: %s\n", c.Name, c.Amount)
		}
	}
	if len(report.ExpensesByCategory) > 0 {
		fmt.Fprintln(out, "\nExpenses by Category:")
		for _, c := range report.ExpensesByCategory {
			fmt.Fprintf(out, "  %s: %s\n", c.Name, c.Amount)
		}
	}
}

func renderYearlyReport(out io.Writer, report core.YearlyReport) {
	fmt.Fprintf(out, "\n=== Yearly Report for %d ===\n", report.Year)
	fmt.Fprintf(out, "Total Income: %s\n", report.TotalIncome)
	fmt.Fprintf(out, "Total Expenses: %s\n", report.TotalExpenses)
	fmt.Fprintf(out, "Net Savings: %s\n", report.NetSavings)

	fmt.Fprintln(out, "\nMonthly Summary:")
	for _, m := range report.MonthlySummary {
		fmt.Fprintf(out, "  %s: Income %s, Expenses %s, Savings %s\n",
			core.MonthName(m.Month), m.Income, m.Expenses, m.Savings)
	}
}

func renderCategorySummary(out io.Writer, summary core.CategorySummary) {
	fmt.Fprintln(out, "\n=== Category Summary ===")
	if len(summary.IncomeCategories) > 0 {
		fmt.Fprintln(out, "\nIncome Categories (Total):")
		for _, c := range summary.IncomeCategories {
			fmt.Fprintf(out, "  %s: %s\n", c.Name, c.Amount)
		}
	}
	if len(summary.ExpenseCategories) > 0 {
		fmt.Fprintln(out, "\nExpense Categories (Total):")
		for _, c := range summary.ExpenseCategories {
			fmt.Fprintf(out, "  %s: %s\n", c.Name, c.Amount)
		}
	}
	if len(summary.IncomeCategories) == 0 && len(summary.ExpenseCategories) == 0 {
		fmt.Fprintln(out, "No transactions recorded yet.")
	}
}

func renderBudgetOverview(out io.Writer, statuses []services.BudgetStatus) {
	if len(statuses) == 0 {
		fmt.Fprintln(out, "No budgets set.")
		return
	}
	fmt.Fprintln(out, "\nCurrent Monthly Budgets:")
	fmt.Fprintf(out, "%-15s %-13s %-13s %-13s %s\n",
		"Category", "Budget", "Spent", "Remaining", "Status")
	fmt.Fprintln(out, strings.Repeat("-", 65))
	for _, s := range statuses {
		status := "On Track"
		if s.Over {
			status = "Over Budget"
		}
		fmt.Fprintf(out, "%-15s %-13s %-13s %-13s %s\n",
			s.Budget.Category, s.Budget.Amount, s.Spent, s.Remaining, status)
	}
}

func renderBudgetWarning(out io.Writer, w services.BudgetWarning) {
	fmt.Fprintf(out, "\nWARNING: This expense will exceed your monthly budget for %s!\n", w.Category)
	fmt.Fprintf(out, "Budget: %s\n", w.Budget)
	fmt.Fprintf(out, "Current spending: %s\n", w.Spent)
	fmt.Fprintf(out, "New total: %s\n", w.NewTotal)
	fmt.Fprintf(out, "Over budget by: %s\n", w.Overage)
}
