package core

import "time"

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthlyReport aggregates one calendar month of activity.
type MonthlyReport struct {
	Year               int
	Month              int // 1-12
	TotalIncome        Money
	TotalExpenses      Money
	NetSavings         Money
	IncomeByCategory   []CategoryAmount
	ExpensesByCategory []CategoryAmount
}

// MonthSummary is one row of a yearly report's month breakdown.
type MonthSummary struct {
	Month    int // 1-12
	Income   Money
	Expenses Money
	Savings  Money
}

// YearlyReport aggregates a calendar year. MonthlySummary always holds
// exactly 12 entries, months 1..12 in order, zero-filled where the month
// had no activity.
type YearlyReport struct {
	Year           int
	TotalIncome    Money
	TotalExpenses  Money
	NetSavings     Money
	MonthlySummary []MonthSummary
}

// CategorySummary holds lifetime per-category sums, one list per type.
type CategorySummary struct {
	IncomeCategories  []CategoryAmount
	ExpenseCategories []CategoryAmount
}

// MonthName returns the English month name, or "Unknown" when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "Unknown"
	}
	return time.Month(month).String()
}
