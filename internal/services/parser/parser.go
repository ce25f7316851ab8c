// Package parser turns uploaded balance files into candidate records.
// A parser never fails the whole file for one bad row; it appends a
// line-numbered error to the shared Result and keeps going. Only
// stream-level failures abort the parse, and even those end up in the
// Result rather than as returned errors.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one (account name, amount) candidate row. It is resolved to an
// account by the upload service and never persisted as-is.
type Record struct {
	AccountName string
	Amount      decimal.Decimal
}

// Result is the outcome aggregate for one upload request. It is built
// incrementally: parsers append errors and set Success when parsing produced
// at least one record; the upload service fills in the counts and message.
type Result struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	ProcessedRecords int      `json:"processedRecords"`
	SkippedRecords   int      `json:"skippedRecords"`
	Errors           []string `json:"errors"`
}

func NewResult() *Result {
	return &Result{Errors: make([]string, 0)}
}

// Parser converts a raw file stream into candidate records.
type Parser interface {
	Parse(ctx context.Context, r io.Reader, res *Result) []Record
	SupportedExtensions() []string
}

// parseAmount accepts invariant-culture decimal text: optional leading sign,
// thousands separators, decimal point. No currency symbols.
func parseAmount(text string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
}

func isDecimal(text string) bool {
	if text == "" {
		return false
	}
	_, err := parseAmount(text)
	return err == nil
}

// trims surrounding whitespace, then surrounding quote characters.
func cleanField(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

func parseRecord(accountName, amountText string) (Record, error) {
	if strings.TrimSpace(accountName) == "" {
		return Record{}, errors.New("Account name cannot be empty")
	}
	if strings.TrimSpace(amountText) == "" {
		return Record{}, errors.New("Amount cannot be empty")
	}
	amount, err := parseAmount(amountText)
	if err != nil {
		return Record{}, fmt.Errorf("Invalid amount format: %s", amountText)
	}
	return Record{AccountName: accountName, Amount: amount}, nil
}
