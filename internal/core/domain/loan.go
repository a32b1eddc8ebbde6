package domain

import (
	"github.com/shopspring/decimal"
)

// LoanTransaction records money given to or received from a counterparty.
// The counterparty is identified purely by name-string equality; two
// spellings of the same person are two independent ledgers. Medium is free
// text (a Bank id, "Cash", ...).
type LoanTransaction struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	UserGave     decimal.Decimal `json:"userGave"`
	UserReceived decimal.Decimal `json:"userReceived"`
	Date         string          `json:"date"`
	Medium       string          `json:"medium"`
	AuditFields
}

// LoanSummary is the netted position against one counterparty.
type LoanSummary struct {
	Name          string          `json:"name"`
	TotalGave     decimal.Decimal `json:"totalGave"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	Balance       decimal.Decimal `json:"balance"`
}
