package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType is the closed income/expense enum. The storage layer
	// enforces it again with a CHECK constraint.
	TransactionType string

	// Date is a calendar date without a time component, persisted as
	// YYYY-MM-DD text.
	Date struct {
		time.Time
	}

	// YearMonth is the granularity used for budget-vs-spending comparison.
	YearMonth struct {
		Year  int
		Month int // 1-12
	}

	User struct {
		ID           int64
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	Transaction struct {
		ID          int64
		UserID      int64
		Type        TransactionType
		Amount      Money
		Description string
		Category    string
		Date        Date
		CreatedAt   time.Time
	}

	Budget struct {
		ID        int64
		UserID    int64
		Category  string
		Amount    Money
		CreatedAt time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountTooLarge   = errors.New("amount too large")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidYearMonth = errors.New("invalid year-month")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType parses the persisted enum form.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// ParseDate parses a date in strict YYYY-MM-DD form. Real calendar
// validity is required: 2024-02-30 and month 13 are rejected, as is any
// other layout such as 01-01-2024.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// YearMonth returns the year-month the date falls in.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Time.Year(), Month: int(d.Time.Month())}
}

// ParseYearMonth parses a YYYY-MM string. Months outside 1-12 and years
// outside 1900-2100 are rejected.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, ErrInvalidYearMonth
	}
	ym := YearMonth{Year: t.Year(), Month: int(t.Month())}
	if ym.Year < 1900 || ym.Year > 2100 {
		return YearMonth{}, ErrInvalidYearMonth
	}
	return ym, nil
}

// CurrentYearMonth returns the current year and month.
func CurrentYearMonth() YearMonth {
	now := time.Now()
	return YearMonth{Year: now.Year(), Month: int(now.Month())}
}

func (ym YearMonth) String() string {
	return time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Validate checks a transaction before it reaches storage.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrInvalidCategory
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
