package models

import (
	"encoding/json"
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// UnmarshalJSON rejects transactions without a date or amount.
func (t *TransactionItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date        *civil.Date      `json:"date"`
		Description string           `json:"description"`
		Amount      *decimal.Decimal `json:"amount"`
		Category    string           `json:"category"`
		Currency    string           `json:"currency"`
		AccountID   string           `json:"accountId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Date == nil {
		return errors.New("transaction date is required")
	}
	if raw.Amount == nil {
		return errors.New("transaction amount is required")
	}
	*t = TransactionItem{
		Date:        *raw.Date,
		Description: raw.Description,
		Amount:      *raw.Amount,
		Category:    raw.Category,
		Currency:    raw.Currency,
		AccountID:   raw.AccountID,
	}
	return nil
}

// UnmarshalJSON rejects holdings with a blank symbol or no quantity.
func (h *HoldingItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Symbol   string              `json:"symbol"`
		Quantity *decimal.Decimal    `json:"quantity"`
		Price    decimal.NullDecimal `json:"price"`
		Value    decimal.NullDecimal `json:"value"`
		Currency string              `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw.Symbol) == "" {
		return errors.New("holding symbol is required")
	}
	if raw.Quantity == nil {
		return errors.New("holding quantity is required")
	}
	*h = HoldingItem{
		Symbol:   raw.Symbol,
		Quantity: *raw.Quantity,
		Price:    raw.Price,
		Value:    raw.Value,
		Currency: raw.Currency,
	}
	return nil
}
