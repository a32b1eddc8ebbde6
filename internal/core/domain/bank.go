package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a bank transaction.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Bank is a bank account tracked in the ledger. IDs are sequential and
// zero-padded ("B001", "B002", ...). A closed bank cannot receive new
// transactions but stays visible for historical reporting. The current
// balance is always computed from OpeningBalance plus the transaction log,
// never stored.
type Bank struct {
	ID             string          `json:"id"`
	BankName       string          `json:"bankName"`
	BankCode       string          `json:"bankCode"`
	AccountName    string          `json:"accountName"`
	AccountNumber  string          `json:"accountNumber"`
	AccountType    string          `json:"accountType"`
	HomeBranch     string          `json:"homeBranch"`
	BranchZone     string          `json:"branchZone"`
	BranchDistrict string          `json:"branchDistrict"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsClosed       bool            `json:"isClosed"`
	AuditFields
}

// BankTransaction is a single debit or credit against a bank. Dates are ISO
// YYYY-MM-DD strings so lexicographic order equals chronological order.
type BankTransaction struct {
	ID      string          `json:"id"`
	BankID  string          `json:"bankId"`
	Type    TransactionType `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date"`
	Details string          `json:"details"`
	AuditFields
}

// StatementLine is a bank transaction annotated with the running balance
// after it was applied.
type StatementLine struct {
	BankTransaction
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// Statement is a date-ranged, optionally filtered view of a bank's
// transactions bounded by computed opening and closing balances.
type Statement struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Transactions   []StatementLine `json:"transactions"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
