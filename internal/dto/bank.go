package dto

import (
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankRequest defines the data needed to register a bank account.
type CreateBankRequest struct {
	BankName       string          `json:"bankName" binding:"required"`
	BankCode       string          `json:"bankCode"`
	AccountName    string          `json:"accountName"`
	AccountNumber  string          `json:"accountNumber"`
	AccountType    string          `json:"accountType"`
	HomeBranch     string          `json:"homeBranch"`
	BranchZone     string          `json:"branchZone"`
	BranchDistrict string          `json:"branchDistrict"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// UpdateBankRequest replaces a bank's mutable details. OpeningBalance may
// only change while the bank has no transaction history. ID is taken from
// the URL path, not the body.
type UpdateBankRequest struct {
	ID             string          `json:"-"`
	BankName       string          `json:"bankName" binding:"required"`
	BankCode       string          `json:"bankCode"`
	AccountName    string          `json:"accountName"`
	AccountNumber  string          `json:"accountNumber"`
	AccountType    string          `json:"accountType"`
	HomeBranch     string          `json:"homeBranch"`
	BranchZone     string          `json:"branchZone"`
	BranchDistrict string          `json:"branchDistrict"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsClosed       bool            `json:"isClosed"`
}

// CreateBankTransactionRequest defines the data for a new debit or credit.
type CreateBankTransactionRequest struct {
	BankID  string          `json:"bankId" binding:"required"`
	Type    string          `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Date    string          `json:"date" binding:"omitempty,isodate"`
	Details string          `json:"details"`
}

// UpdateBankTransactionRequest replaces an existing transaction in full.
// Closed-ness of the referenced bank is not re-checked on edit. ID is taken
// from the URL path, not the body.
type UpdateBankTransactionRequest struct {
	ID      string          `json:"-"`
	BankID  string          `json:"bankId" binding:"required"`
	Type    string          `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Date    string          `json:"date" binding:"required,isodate"`
	Details string          `json:"details"`
}

// BalanceResponse is the computed current balance of one bank.
type BalanceResponse struct {
	BankID  string          `json:"bankId"`
	Balance decimal.Decimal `json:"balance"`
}

// StatementResponse mirrors domain.Statement for the HTTP surface.
type StatementResponse struct {
	OpeningBalance decimal.Decimal        `json:"openingBalance"`
	Transactions   []domain.StatementLine `json:"transactions"`
	ClosingBalance decimal.Decimal        `json:"closingBalance"`
}

// ToStatementResponse converts a domain statement.
func ToStatementResponse(s domain.Statement) StatementResponse {
	return StatementResponse{
		OpeningBalance: s.OpeningBalance,
		Transactions:   s.Transactions,
		ClosingBalance: s.ClosingBalance,
	}
}
