package services

import (
	"context"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
)

// LoanSvcFacade is the peer-loan ledger store plus the per-counterparty
// netting engine. Counterparties are grouped by exact name equality.
type LoanSvcFacade interface {
	Init(ctx context.Context) error
	Loading() bool

	Transactions() []domain.LoanTransaction
	SubscribeTransactions(fn func([]domain.LoanTransaction)) func()

	AddTransaction(ctx context.Context, req dto.CreateLoanTransactionRequest) (*domain.LoanTransaction, error)
	UpdateTransaction(ctx context.Context, req dto.UpdateLoanTransactionRequest) (*domain.LoanTransaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Receivables lists counterparties with totalGave - totalReceived > 0,
	// sorted descending by balance.
	Receivables() []domain.LoanSummary
	// Payables lists counterparties with totalReceived - totalGave > 0,
	// sorted descending by balance.
	Payables() []domain.LoanSummary
}
