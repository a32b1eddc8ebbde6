package services

import (
	"context"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// BankSvcFacade is the bank ledger store plus the balance/statement engine
// derived from it.
type BankSvcFacade interface {
	Init(ctx context.Context) error
	Loading() bool

	Banks() []domain.Bank
	Transactions() []domain.BankTransaction
	SubscribeBanks(fn func([]domain.Bank)) func()
	SubscribeTransactions(fn func([]domain.BankTransaction)) func()

	AddBank(ctx context.Context, req dto.CreateBankRequest) (*domain.Bank, error)
	UpdateBank(ctx context.Context, req dto.UpdateBankRequest) (*domain.Bank, error)
	// CloseBank marks the bank closed; it stays visible for reporting but
	// can no longer receive new transactions.
	CloseBank(ctx context.Context, id string) error

	AddTransaction(ctx context.Context, req dto.CreateBankTransactionRequest) (*domain.BankTransaction, error)
	UpdateTransaction(ctx context.Context, req dto.UpdateBankTransactionRequest) (*domain.BankTransaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// CurrentBalance is openingBalance + credits - debits, recomputed from
	// scratch. An unknown bank yields zero.
	CurrentBalance(bankID string) decimal.Decimal
	// Statement returns the date-ranged running-balance view. typeFilter
	// ("DEBIT"/"CREDIT") and detailsFilter (case-insensitive substring)
	// are optional; they never affect the opening balance.
	Statement(bankID, startDate, endDate, typeFilter, detailsFilter string) domain.Statement
}
