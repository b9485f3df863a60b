package models

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionItem represents a single ledger or bank transaction.
type TransactionItem struct {
	Date        civil.Date      `json:"date"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	AccountID   string          `json:"accountId,omitempty"`
}

// HoldingItem represents one position in a portfolio.
type HoldingItem struct {
	Symbol   string              `json:"symbol"`
	Quantity decimal.Decimal     `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
	Value    decimal.NullDecimal `json:"value"`
	Currency string              `json:"currency,omitempty"`
}

// StatementMetadata is optional header context for a statement.
// Empty strings and zero/invalid values count as absent.
type StatementMetadata struct {
	AccountName    string              `json:"accountName,omitempty"`
	AccountID      string              `json:"accountId,omitempty"`
	PeriodStart    *civil.Date         `json:"periodStart,omitempty"`
	PeriodEnd      *civil.Date         `json:"periodEnd,omitempty"`
	OpeningBalance decimal.NullDecimal `json:"openingBalance"`
	ClosingBalance decimal.NullDecimal `json:"closingBalance"`
	Currency       string              `json:"currency,omitempty"`
}
