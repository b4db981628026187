package cli

import (
	"bytes"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 20, "short"},
		{"exactly twenty chars", 20, "exactly twenty chars"},
		{"this description is far too long", 20, "this description ..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.max); got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
	}
}

func TestRenderTransactionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderTransactions(&buf, nil)
	if !strings.Contains(buf.String(), "No transactions found.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestRenderTransactionsTable(t *testing.T) {
	var buf bytes.Buffer
	renderTransactions(&buf, []core.Transaction{
		{
			ID:          7,
			Type:        core.Expense,
			Amount:      core.Money{Cents: 4550},
			Category:    "Food",
			Description: "groceries",
			Date:        core.NewDate(2024, 3, 15),
		},
	})
	out := buf.String()
	for _, want := range []string{"ID", "$45.50", "Food", "groceries", "2024-03-15"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMonthlyReport(t *testing.T) {
	var buf bytes.Buffer
	renderMonthlyReport(&buf, core.MonthlyReport{
		Year:          2024,
		Month:         3,
		TotalIncome:   core.Money{Cents: 200000},
		TotalExpenses: core.Money{Cents: 50000},
		NetSavings:    core.Money{Cents: 150000},
		ExpensesByCategory: []core.CategoryAmount{
			{Name: "Rent", Amount: core.Money{Cents: 50000}},
		},
	})
	out := buf.String()
	for _, want := range []string{"March 2024", "$2,000.00", "$500.00", "$1,500.00", "Rent"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBudgetOverviewStatus(t *testing.T) {
	var buf bytes.Buffer
	renderBudgetOverview(&buf, []services.BudgetStatus{
		{
			Budget:    core.Budget{Category: "Food", Amount: core.Money{Cents: 50000}},
			Spent:     core.Money{Cents: 20000},
			Remaining: core.Money{Cents: 30000},
			Over:      false,
		},
		{
			Budget:    core.Budget{Category: "Travel", Amount: core.Money{Cents: 10000}},
			Spent:     core.Money{Cents: 15000},
			Remaining: core.Money{Cents: -5000},
			Over:      true,
		},
	})
	out := buf.String()
	if !strings.Contains(out, "On Track") {
		t.Errorf("expected On Track row:\n%s", out)
	}
	if !strings.Contains(out, "Over Budget") {
		t.Errorf("expected Over Budget row:\n%s", out)
	}
}

func TestRenderBudgetWarning(t *testing.T) {
	var buf bytes.Buffer
	renderBudgetWarning(&buf, services.BudgetWarning{
		Category: "Food",
		Budget:   core.Money{Cents: 50000},
		Spent:    core.Money{Cents: 30000},
		NewTotal: core.Money{Cents: 55000},
		Overage:  core.Money{Cents: 5000},
	})
	out := buf.String()
	for _, want := range []string{"WARNING", "Food", "$500.00", "$550.00", "$50.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
