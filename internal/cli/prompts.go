package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"fintrack/internal/core"
)

// prompt prints a label and reads one line. ok is false on EOF, on
// SIGINT, and on shutdown; the caller aborts the current operation.
func (a *App) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	select {
	case line, ok := <-a.lines:
		if !ok {
			fmt.Fprintln(a.out)
			return "", false
		}
		return line, true
	case <-a.interrupt:
		fmt.Fprintln(a.out)
		return "", false
	case <-a.done:
		return "", false
	}
}

// promptPassword reads a password with terminal echo disabled. When stdin
// is not a terminal (tests, pipes) it falls back to a plain line read.
func (a *App) promptPassword(label string) (string, bool) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return a.prompt(label)
	}
	fmt.Fprint(a.out, label)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", false
	}
	return string(pw), true
}

// promptConfirm asks a y/N question. Anything but y declines.
func (a *App) promptConfirm(label string) bool {
	answer, ok := a.prompt(label)
	if !ok {
		return false
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y"
}

// promptAmount reads and validates an amount, or aborts.
func (a *App) promptAmount(label string) (core.Money, bool) {
	input, ok := a.prompt(label)
	if !ok {
		return core.Money{}, false
	}
	amount, err := core.ParseAmount(input)
	if err != nil {
		switch err {
		case core.ErrAmountTooLarge:
			fmt.Fprintln(a.out, "Amount is too large!")
		default:
			fmt.Fprintln(a.out, "Invalid amount! Enter a positive number, e.g. 42.50")
		}
		return core.Money{}, false
	}
	return amount, true
}

// promptDate reads a YYYY-MM-DD date, defaulting to today on empty input.
func (a *App) promptDate(label string) (core.Date, bool) {
	input, ok := a.prompt(label)
	if !ok {
		return core.Date{}, false
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return core.Today(), true
	}
	date, err := core.ParseDate(input)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid date format! Use YYYY-MM-DD")
		return core.Date{}, false
	}
	return date, true
}

// promptCategory shows the category list for a transaction type and reads
// a 1-based selection. Out-of-range and non-numeric selections abort
// without mutating anything.
func (a *App) promptCategory(typ core.TransactionType) (string, bool) {
	cats := core.CategoriesFor(typ)
	if typ == core.Income {
		fmt.Fprintln(a.out, "\nIncome Categories:")
	} else {
		fmt.Fprintln(a.out, "\nExpense Categories:")
	}
	for i, c := range cats {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, c)
	}

	input, ok := a.prompt("Select category (number): ")
	if !ok {
		return "", false
	}
	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		fmt.Fprintln(a.out, "Please enter a valid number!")
		return "", false
	}
	category, err := core.CategoryAt(typ, choice)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid category selection!")
		return "", false
	}
	return category, true
}

// promptID reads a numeric row identifier.
func (a *App) promptID(label string) (int64, bool) {
	input, ok := a.prompt(label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Please enter a valid ID!")
		return 0, false
	}
	return id, true
}
