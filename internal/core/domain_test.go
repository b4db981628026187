package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-01", true},
		{"2024-02-29", true}, // leap day
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"2024-01-32", false},
		{"01-01-2024", false},
		{"2024/01/01", false},
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected ok, got %v", tc.in, err)
			}
			if d.String() != tc.in {
				t.Fatalf("%q round-tripped as %q", tc.in, d.String())
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseYearMonth(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01", true},
		{"2024-12", true},
		{"2024-13", false},
		{"2024-00", false},
		{"1899-06", false},
		{"2101-01", false},
		{"abc", false},
	}
	for _, tc := range cases {
		ym, err := ParseYearMonth(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected ok, got %v", tc.in, err)
			}
			if ym.String() != tc.in {
				t.Fatalf("%q round-tripped as %q", tc.in, ym.String())
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:        Expense,
		Amount:      Money{Cents: 100},
		Description: "lunch",
		Category:    "Food",
		Date:        NewDate(2024, 1, 15),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Amount: Money{Cents: 1}, Description: "a", Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Income, Amount: Money{Cents: 0}, Description: "a", Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Income, Amount: Money{Cents: 1}, Description: "  ", Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Income, Amount: Money{Cents: 1}, Description: "a", Category: "", Date: NewDate(2024, 1, 1)},
		{Type: Income, Amount: Money{Cents: 1}, Description: "a", Category: "c"},
	}
	for i, tr := range bads {
		if err := tr.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryAt(t *testing.T) {
	if c, err := CategoryAt(Income, 1); err != nil || c != "Salary" {
		t.Fatalf("expected Salary, got %q (%v)", c, err)
	}
	if c, err := CategoryAt(Expense, len(ExpenseCategories)); err != nil || c != "Other" {
		t.Fatalf("expected Other, got %q (%v)", c, err)
	}
	for _, n := range []int{0, -1, len(IncomeCategories) + 1} {
		if _, err := CategoryAt(Income, n); err == nil {
			t.Fatalf("choice %d expected error", n)
		}
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory(Expense, "Food") {
		t.Fatal("Food should be a valid expense category")
	}
	if ValidCategory(Income, "Food") {
		t.Fatal("Food should not be a valid income category")
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(1) != "January" || MonthName(12) != "December" {
		t.Fatal("unexpected month names")
	}
	if MonthName(0) != "Unknown" || MonthName(13) != "Unknown" {
		t.Fatal("out-of-range months should be Unknown")
	}
}
