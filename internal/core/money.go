// Package core holds the domain types and pure validation rules shared by
// the storage and application layers.
//
// This file contains amount parsing and money formatting. Amounts are kept
// as int64 cents; floats only appear at the display and backup-file
// boundaries.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// MaxAmountCents is the inclusive upper bound for a single amount:
// 999,999,999.00 in cents.
const MaxAmountCents int64 = 99_999_999_900

// Money is a monetary amount in cents.
type Money struct {
	Cents int64
}

// ParseAmount converts a user-entered amount string to cents.
//
// A leading currency symbol and thousands separators are stripped before
// parsing, so "$1,000.50" parses to 100050. Rounding is half-up on the
// third decimal digit. Empty, non-numeric, zero, negative, and
// over-the-limit inputs are rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Guard the *100 below
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrAmountTooLarge
	}
	// First two fractional digits carry; half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	if cents > MaxAmountCents {
		return Money{}, ErrAmountTooLarge
	}
	return Money{Cents: cents}, nil
}

// FromFloat converts a decimal amount (as read from a backup file) to
// cents, rounding half-up on the half cent.
func FromFloat(amount float64) Money {
	if amount < 0 {
		return Money{Cents: -FromFloat(-amount).Cents}
	}
	return Money{Cents: int64(amount*100 + 0.5)}
}

// Float returns the decimal value for display and serialization.
// Use cents for arithmetic.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	if m.Cents > MaxAmountCents {
		return ErrAmountTooLarge
	}
	return nil
}

// Sub returns m minus other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Add returns the sum of m and other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// String formats the amount as currency with thousands separators,
// e.g. "$1,234.56" or "$-500.00".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	b.WriteString("$")
	b.WriteString(sign)
	lead := len(whole) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(whole[:lead])
	for i := lead; i < len(whole); i += 3 {
		b.WriteString(",")
		b.WriteString(whole[i : i+3])
	}
	b.WriteString(".")
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	b.WriteString(frac)
	return b.String()
}
