package dto

import (
	"github.com/shopspring/decimal"
)

// CreateLoanTransactionRequest records money given to or received from a
// counterparty. Exactly one of UserGave/UserReceived is expected to be
// nonzero; this is by construction, not enforced structurally.
type CreateLoanTransactionRequest struct {
	Name         string          `json:"name" binding:"required"`
	UserGave     decimal.Decimal `json:"userGave"`
	UserReceived decimal.Decimal `json:"userReceived"`
	Date         string          `json:"date" binding:"omitempty,isodate"`
	Medium       string          `json:"medium"`
}

// UpdateLoanTransactionRequest replaces an existing loan transaction in
// full. ID is taken from the URL path, not the body.
type UpdateLoanTransactionRequest struct {
	ID           string          `json:"-"`
	Name         string          `json:"name" binding:"required"`
	UserGave     decimal.Decimal `json:"userGave"`
	UserReceived decimal.Decimal `json:"userReceived"`
	Date         string          `json:"date" binding:"required,isodate"`
	Medium       string          `json:"medium"`
}
