package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumina-tracker/lumina_backend/internal/apperrors"
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/signal"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/utils"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
)

// loanServiceImpl is the peer-loan ledger store and the netting engine over
// it. Counterparties are grouped by exact name equality; two spellings of
// the same person are two independent ledgers, on purpose.
type loanServiceImpl struct {
	BaseService
	tabular portsrepo.TabularStore

	mu           sync.Mutex
	transactions *signal.Signal[[]domain.LoanTransaction]
	loading      *signal.Signal[bool]
	initialized  bool
}

// NewLoanService creates the loan ledger store.
func NewLoanService(tabular portsrepo.TabularStore) portssvc.LoanSvcFacade {
	return &loanServiceImpl{
		tabular:      tabular,
		transactions: signal.New([]domain.LoanTransaction{}),
		loading:      signal.New(false),
	}
}

var _ portssvc.LoanSvcFacade = (*loanServiceImpl)(nil)

func (s *loanServiceImpl) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := s.tabular.EnsureTable(ctx, mapping.TableLoanTransactions, mapping.LoanTransactionHeader); err != nil {
		return fmt.Errorf("ensure loan transactions table: %w", err)
	}
	if err := s.loadData(ctx); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *loanServiceImpl) loadData(ctx context.Context) error {
	s.loading.Set(true)
	defer s.loading.Set(false)

	rows, err := s.tabular.ListRows(ctx, mapping.TableLoanTransactions)
	if err != nil {
		return fmt.Errorf("list loan transactions: %w", err)
	}
	transactions := make([]domain.LoanTransaction, 0, len(rows))
	if len(rows) > 1 {
		for _, row := range rows[1:] {
			txn, err := mapping.LoanTransactionFromRow(row)
			if err != nil {
				s.LogWarn(ctx, "Skipping malformed loan transaction row", slog.String("error", err.Error()))
				continue
			}
			transactions = append(transactions, txn)
		}
	}
	s.transactions.Set(transactions)
	return nil
}

func (s *loanServiceImpl) Loading() bool { return s.loading.Get() }

func (s *loanServiceImpl) Transactions() []domain.LoanTransaction { return s.transactions.Get() }

func (s *loanServiceImpl) SubscribeTransactions(fn func([]domain.LoanTransaction)) func() {
	return s.transactions.Subscribe(fn)
}

func (s *loanServiceImpl) AddTransaction(ctx context.Context, req dto.CreateLoanTransactionRequest) (*domain.LoanTransaction, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", apperrors.ErrValidation)
	}
	if req.UserGave.IsNegative() || req.UserReceived.IsNegative() {
		return nil, fmt.Errorf("amounts must not be negative: %w", apperrors.ErrValidation)
	}
	if req.UserGave.IsZero() && req.UserReceived.IsZero() {
		return nil, fmt.Errorf("amount is required: %w", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	medium := req.Medium
	if medium == "" {
		medium = "Cash"
	}
	now := time.Now()
	txn := domain.LoanTransaction{
		ID:           utils.NewLoanTransactionID(),
		Name:         req.Name,
		UserGave:     req.UserGave,
		UserReceived: req.UserReceived,
		Date:         date,
		Medium:       medium,
		AuditFields:  domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}

	current := s.transactions.Get()
	updated := append(append([]domain.LoanTransaction{}, current...), txn)
	s.transactions.Set(updated)

	if err := s.tabular.AppendRows(ctx, mapping.TableLoanTransactions, []portsrepo.Row{mapping.LoanTransactionToRow(txn)}); err != nil {
		s.transactions.Set(current)
		s.LogError(ctx, err, "Failed to persist loan transaction, reverting", slog.String("txn_id", txn.ID))
		return nil, fmt.Errorf("%w: add loan transaction: %v", apperrors.ErrPersistence, err)
	}
	return &txn, nil
}

func (s *loanServiceImpl) UpdateTransaction(ctx context.Context, req dto.UpdateLoanTransactionRequest) (*domain.LoanTransaction, error) {
	if req.UserGave.IsNegative() || req.UserReceived.IsNegative() {
		return nil, fmt.Errorf("amounts must not be negative: %w", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.transactions.Get()
	index := -1
	for i, t := range current {
		if t.ID == req.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("loan transaction %s: %w", req.ID, apperrors.ErrNotFound)
	}

	txn := domain.LoanTransaction{
		ID:           req.ID,
		Name:         req.Name,
		UserGave:     req.UserGave,
		UserReceived: req.UserReceived,
		Date:         req.Date,
		Medium:       req.Medium,
		AuditFields:  domain.AuditFields{CreatedAt: current[index].CreatedAt, UpdatedAt: time.Now()},
	}

	updated := make([]domain.LoanTransaction, len(current))
	copy(updated, current)
	updated[index] = txn
	s.transactions.Set(updated)

	rowNumber, err := s.findRowNumber(ctx, txn.ID)
	if err == nil {
		err = s.tabular.UpdateRow(ctx, mapping.TableLoanTransactions, rowNumber, mapping.LoanTransactionToRow(txn))
	}
	if err != nil {
		s.transactions.Set(current)
		s.LogError(ctx, err, "Failed to update loan transaction, reverting", slog.String("txn_id", txn.ID))
		return nil, fmt.Errorf("%w: update loan transaction: %v", apperrors.ErrPersistence, err)
	}
	return &txn, nil
}

func (s *loanServiceImpl) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.transactions.Get()
	found := false
	updated := make([]domain.LoanTransaction, 0, len(current))
	for _, t := range current {
		if t.ID == id {
			found = true
			continue
		}
		updated = append(updated, t)
	}
	if !found {
		return fmt.Errorf("loan transaction %s: %w", id, apperrors.ErrNotFound)
	}
	s.transactions.Set(updated)

	rowNumber, err := s.findRowNumber(ctx, id)
	if err == nil {
		err = s.tabular.DeleteRow(ctx, mapping.TableLoanTransactions, rowNumber)
	}
	if err != nil {
		s.transactions.Set(current)
		s.LogError(ctx, err, "Failed to delete loan transaction, reverting", slog.String("txn_id", id))
		return fmt.Errorf("%w: delete loan transaction: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (s *loanServiceImpl) findRowNumber(ctx context.Context, id string) (int, error) {
	rows, err := s.tabular.ListRows(ctx, mapping.TableLoanTransactions)
	if err != nil {
		return 0, fmt.Errorf("find loan transaction row: %w", err)
	}
	for i, row := range rows {
		if len(row) > 0 && row[0] == id {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("loan transaction %s not in sheet: %w", id, apperrors.ErrNotFound)
}

// Receivables nets every counterparty and keeps those who owe the user
// (totalGave - totalReceived > 0), sorted descending by balance.
func (s *loanServiceImpl) Receivables() []domain.LoanSummary {
	return s.net(func(gave, received decimal.Decimal) decimal.Decimal {
		return gave.Sub(received)
	})
}

// Payables nets every counterparty and keeps those the user owes
// (totalReceived - totalGave > 0), sorted descending by balance.
func (s *loanServiceImpl) Payables() []domain.LoanSummary {
	return s.net(func(gave, received decimal.Decimal) decimal.Decimal {
		return received.Sub(gave)
	})
}

func (s *loanServiceImpl) net(balance func(gave, received decimal.Decimal) decimal.Decimal) []domain.LoanSummary {
	index := make(map[string]int)
	var groups []domain.LoanSummary
	for _, t := range s.transactions.Get() {
		i, ok := index[t.Name]
		if !ok {
			i = len(groups)
			index[t.Name] = i
			groups = append(groups, domain.LoanSummary{Name: t.Name})
		}
		groups[i].TotalGave = groups[i].TotalGave.Add(t.UserGave)
		groups[i].TotalReceived = groups[i].TotalReceived.Add(t.UserReceived)
	}

	result := make([]domain.LoanSummary, 0, len(groups))
	for _, g := range groups {
		g.Balance = balance(g.TotalGave, g.TotalReceived)
		if g.Balance.IsPositive() {
			result = append(result, g)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Balance.Equal(result[j].Balance) {
			return result[i].Balance.GreaterThan(result[j].Balance)
		}
		return result[i].Name < result[j].Name
	})
	return result
}
