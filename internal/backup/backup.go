// Package backup implements the JSON backup file format: a document with
// a backup_date stamp plus the user's transactions and budgets. The shape
// is a fixed external contract; files written by earlier versions of the
// tool restore unchanged.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
)

type TransactionRecord struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

type BudgetRecord struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Document is the on-disk backup shape. Missing fields unmarshal to empty
// sequences.
type Document struct {
	BackupDate   string              `json:"backup_date"`
	Transactions []TransactionRecord `json:"transactions"`
	Budgets      []BudgetRecord      `json:"budgets"`
}

// NewDocument builds a backup document from domain records.
func NewDocument(transactions []core.Transaction, budgets []core.Budget, now time.Time) Document {
	doc := Document{
		BackupDate:   now.Format(time.RFC3339),
		Transactions: make([]TransactionRecord, 0, len(transactions)),
		Budgets:      make([]BudgetRecord, 0, len(budgets)),
	}
	for _, t := range transactions {
		doc.Transactions = append(doc.Transactions, TransactionRecord{
			Type:        string(t.Type),
			Amount:      t.Amount.Float(),
			Description: t.Description,
			Category:    t.Category,
			Date:        t.Date.String(),
		})
	}
	for _, b := range budgets {
		doc.Budgets = append(doc.Budgets, BudgetRecord{
			Category: b.Category,
			Amount:   b.Amount.Float(),
		})
	}
	return doc
}

// Records converts the document back into domain values, validating each
// record. Restore is all-or-nothing, so one malformed record fails the
// whole document.
func (d Document) Records() ([]core.Transaction, []core.Budget, error) {
	transactions := make([]core.Transaction, 0, len(d.Transactions))
	for i, rec := range d.Transactions {
		typ, err := core.ParseTransactionType(rec.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		date, err := core.ParseDate(rec.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		transactions = append(transactions, core.Transaction{
			Type:        typ,
			Amount:      core.FromFloat(rec.Amount),
			Description: rec.Description,
			Category:    rec.Category,
			Date:        date,
		})
	}
	budgets := make([]core.Budget, 0, len(d.Budgets))
	for _, rec := range d.Budgets {
		budgets = append(budgets, core.Budget{
			Category: rec.Category,
			Amount:   core.FromFloat(rec.Amount),
		})
	}
	return transactions, budgets, nil
}

// FileName returns the conventional backup file name for a user.
func FileName(username string, now time.Time) string {
	return fmt.Sprintf("finance_backup_%s_%s.json", username, now.Format("20060102_150405"))
}

// WriteFile writes the document into dir under the conventional name and
// returns the full path.
func WriteFile(dir, username string, doc Document, now time.Time) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	path := filepath.Join(dir, FileName(username, now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}
	return path, nil
}

// ReadFile loads a backup document from path.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read backup file: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode backup: %w", err)
	}
	return doc, nil
}
