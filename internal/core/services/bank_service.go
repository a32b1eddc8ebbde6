package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lumina-tracker/lumina_backend/internal/apperrors"
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/signal"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/utils"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// bankServiceImpl is the bank ledger store and the balance/statement engine
// over it. Balances are never stored; they are recomputed from the opening
// balance and the transaction log on every query.
type bankServiceImpl struct {
	BaseService
	tabular portsrepo.TabularStore

	mu           sync.Mutex
	banks        *signal.Signal[[]domain.Bank]
	transactions *signal.Signal[[]domain.BankTransaction]
	loading      *signal.Signal[bool]
	initialized  bool
}

// NewBankService creates the bank ledger store.
func NewBankService(tabular portsrepo.TabularStore) portssvc.BankSvcFacade {
	return &bankServiceImpl{
		tabular:      tabular,
		banks:        signal.New([]domain.Bank{}),
		transactions: signal.New([]domain.BankTransaction{}),
		loading:      signal.New(false),
	}
}

var _ portssvc.BankSvcFacade = (*bankServiceImpl)(nil)

func (s *bankServiceImpl) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := s.tabular.EnsureTable(ctx, mapping.TableBanks, mapping.BankHeader); err != nil {
		return fmt.Errorf("ensure banks table: %w", err)
	}
	if err := s.tabular.EnsureTable(ctx, mapping.TableBankTransactions, mapping.BankTransactionHeader); err != nil {
		return fmt.Errorf("ensure bank transactions table: %w", err)
	}
	if err := s.loadData(ctx); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *bankServiceImpl) loadData(ctx context.Context) error {
	s.loading.Set(true)
	defer s.loading.Set(false)

	bankRows, err := s.tabular.ListRows(ctx, mapping.TableBanks)
	if err != nil {
		return fmt.Errorf("list banks: %w", err)
	}
	banks := make([]domain.Bank, 0, len(bankRows))
	if len(bankRows) > 1 {
		for _, row := range bankRows[1:] {
			bank, err := mapping.BankFromRow(row)
			if err != nil {
				s.LogWarn(ctx, "Skipping malformed bank row", slog.String("error", err.Error()))
				continue
			}
			banks = append(banks, bank)
		}
	}

	txnRows, err := s.tabular.ListRows(ctx, mapping.TableBankTransactions)
	if err != nil {
		return fmt.Errorf("list bank transactions: %w", err)
	}
	transactions := make([]domain.BankTransaction, 0, len(txnRows))
	if len(txnRows) > 1 {
		for _, row := range txnRows[1:] {
			txn, err := mapping.BankTransactionFromRow(row)
			if err != nil {
				s.LogWarn(ctx, "Skipping malformed bank transaction row", slog.String("error", err.Error()))
				continue
			}
			transactions = append(transactions, txn)
		}
	}

	s.banks.Set(banks)
	s.transactions.Set(transactions)
	return nil
}

func (s *bankServiceImpl) Loading() bool { return s.loading.Get() }

func (s *bankServiceImpl) Banks() []domain.Bank { return s.banks.Get() }

func (s *bankServiceImpl) Transactions() []domain.BankTransaction { return s.transactions.Get() }

func (s *bankServiceImpl) SubscribeBanks(fn func([]domain.Bank)) func() {
	return s.banks.Subscribe(fn)
}

func (s *bankServiceImpl) SubscribeTransactions(fn func([]domain.BankTransaction)) func() {
	return s.transactions.Subscribe(fn)
}

// nextBankID is "B" + zero-padded (max numeric suffix + 1), "B001" when no
// banks exist yet.
func nextBankID(banks []domain.Bank) string {
	max := 0
	for _, b := range banks {
		n := 0
		if _, err := fmt.Sscanf(b.ID, "B%d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("B%03d", max+1)
}

func (s *bankServiceImpl) AddBank(ctx context.Context, req dto.CreateBankRequest) (*domain.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.banks.Get()
	now := time.Now()
	bank := domain.Bank{
		ID:             nextBankID(current),
		BankName:       req.BankName,
		BankCode:       req.BankCode,
		AccountName:    req.AccountName,
		AccountNumber:  req.AccountNumber,
		AccountType:    req.AccountType,
		HomeBranch:     req.HomeBranch,
		BranchZone:     req.BranchZone,
		BranchDistrict: req.BranchDistrict,
		OpeningBalance: req.OpeningBalance,
		IsClosed:       false,
		AuditFields:    domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}

	updated := append(append([]domain.Bank{}, current...), bank)
	s.banks.Set(updated)

	if err := s.tabular.AppendRows(ctx, mapping.TableBanks, []portsrepo.Row{mapping.BankToRow(bank)}); err != nil {
		s.banks.Set(current)
		s.LogError(ctx, err, "Failed to persist bank, reverting", slog.String("bank_id", bank.ID))
		return nil, fmt.Errorf("%w: add bank: %v", apperrors.ErrPersistence, err)
	}
	return &bank, nil
}

func (s *bankServiceImpl) UpdateBank(ctx context.Context, req dto.UpdateBankRequest) (*domain.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.banks.Get()
	index := -1
	for i, b := range current {
		if b.ID == req.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("bank %s: %w", req.ID, apperrors.ErrNotFound)
	}
	existing := current[index]

	// The opening balance is frozen once a transaction trail exists; the
	// current balance is derived from it.
	if !req.OpeningBalance.Equal(existing.OpeningBalance) && s.bankHasTransactions(req.ID) {
		return nil, fmt.Errorf("opening balance is immutable once transactions exist: %w", apperrors.ErrValidation)
	}

	bank := domain.Bank{
		ID:             existing.ID,
		BankName:       req.BankName,
		BankCode:       req.BankCode,
		AccountName:    req.AccountName,
		AccountNumber:  req.AccountNumber,
		AccountType:    req.AccountType,
		HomeBranch:     req.HomeBranch,
		BranchZone:     req.BranchZone,
		BranchDistrict: req.BranchDistrict,
		OpeningBalance: req.OpeningBalance,
		IsClosed:       req.IsClosed,
		AuditFields:    domain.AuditFields{CreatedAt: existing.CreatedAt, UpdatedAt: time.Now()},
	}

	updated := make([]domain.Bank, len(current))
	copy(updated, current)
	updated[index] = bank
	s.banks.Set(updated)

	if err := s.persistBankUpdate(ctx, bank); err != nil {
		s.banks.Set(current)
		s.LogError(ctx, err, "Failed to update bank, reverting", slog.String("bank_id", bank.ID))
		return nil, fmt.Errorf("%w: update bank: %v", apperrors.ErrPersistence, err)
	}
	return &bank, nil
}

func (s *bankServiceImpl) CloseBank(ctx context.Context, id string) error {
	for _, b := range s.banks.Get() {
		if b.ID == id {
			_, err := s.UpdateBank(ctx, dto.UpdateBankRequest{
				ID:             b.ID,
				BankName:       b.BankName,
				BankCode:       b.BankCode,
				AccountName:    b.AccountName,
				AccountNumber:  b.AccountNumber,
				AccountType:    b.AccountType,
				HomeBranch:     b.HomeBranch,
				BranchZone:     b.BranchZone,
				BranchDistrict: b.BranchDistrict,
				OpeningBalance: b.OpeningBalance,
				IsClosed:       true,
			})
			return err
		}
	}
	return fmt.Errorf("bank %s: %w", id, apperrors.ErrNotFound)
}

func (s *bankServiceImpl) bankHasTransactions(bankID string) bool {
	for _, t := range s.transactions.Get() {
		if t.BankID == bankID {
			return true
		}
	}
	return false
}

func (s *bankServiceImpl) AddTransaction(ctx context.Context, req dto.CreateBankTransactionRequest) (*domain.BankTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than 0: %w", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var bank *domain.Bank
	for _, b := range s.banks.Get() {
		if b.ID == req.BankID {
			bank = &b
			break
		}
	}
	if bank == nil || bank.IsClosed {
		return nil, fmt.Errorf("bank must exist and be active: %w", apperrors.ErrValidation)
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	now := time.Now()
	txn := domain.BankTransaction{
		ID:          utils.NewBankTransactionID(),
		BankID:      req.BankID,
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		Date:        date,
		Details:     req.Details,
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}

	current := s.transactions.Get()
	updated := append(append([]domain.BankTransaction{}, current...), txn)
	s.transactions.Set(updated)

	if err := s.tabular.AppendRows(ctx, mapping.TableBankTransactions, []portsrepo.Row{mapping.BankTransactionToRow(txn)}); err != nil {
		s.transactions.Set(current)
		s.LogError(ctx, err, "Failed to persist bank transaction, reverting", slog.String("txn_id", txn.ID))
		return nil, fmt.Errorf("%w: add bank transaction: %v", apperrors.ErrPersistence, err)
	}
	return &txn, nil
}

// UpdateTransaction replaces a transaction in full. The referenced bank's
// closed-ness is deliberately not re-checked on edit.
func (s *bankServiceImpl) UpdateTransaction(ctx context.Context, req dto.UpdateBankTransactionRequest) (*domain.BankTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than 0: %w", apperrors.ErrValidation)
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
		return nil, fmt.Errorf("bank transaction %s: %w", req.ID, apperrors.ErrNotFound)
	}

	txn := domain.BankTransaction{
		ID:          req.ID,
		BankID:      req.BankID,
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		Date:        req.Date,
		Details:     req.Details,
		AuditFields: domain.AuditFields{CreatedAt: current[index].CreatedAt, UpdatedAt: time.Now()},
	}

	updated := make([]domain.BankTransaction, len(current))
	copy(updated, current)
	updated[index] = txn
	s.transactions.Set(updated)

	if err := s.persistTransactionUpdate(ctx, txn); err != nil {
		s.transactions.Set(current)
		s.LogError(ctx, err, "Failed to update bank transaction, reverting", slog.String("txn_id", txn.ID))
		return nil, fmt.Errorf("%w: update bank transaction: %v", apperrors.ErrPersistence, err)
	}
	return &txn, nil
}

func (s *bankServiceImpl) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.transactions.Get()
	found := false
	updated := make([]domain.BankTransaction, 0, len(current))
	for _, t := range current {
		if t.ID == id {
			found = true
			continue
		}
		updated = append(updated, t)
	}
	if !found {
		return fmt.Errorf("bank transaction %s: %w", id, apperrors.ErrNotFound)
	}
	s.transactions.Set(updated)

	rowNumber, err := s.findRowNumber(ctx, mapping.TableBankTransactions, id)
	if err == nil {
		err = s.tabular.DeleteRow(ctx, mapping.TableBankTransactions, rowNumber)
	}
	if err != nil {
		s.transactions.Set(current)
		s.LogError(ctx, err, "Failed to delete bank transaction, reverting", slog.String("txn_id", id))
		return fmt.Errorf("%w: delete bank transaction: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (s *bankServiceImpl) persistBankUpdate(ctx context.Context, bank domain.Bank) error {
	rowNumber, err := s.findRowNumber(ctx, mapping.TableBanks, bank.ID)
	if err != nil {
		return err
	}
	return s.tabular.UpdateRow(ctx, mapping.TableBanks, rowNumber, mapping.BankToRow(bank))
}

func (s *bankServiceImpl) persistTransactionUpdate(ctx context.Context, txn domain.BankTransaction) error {
	rowNumber, err := s.findRowNumber(ctx, mapping.TableBankTransactions, txn.ID)
	if err != nil {
		return err
	}
	return s.tabular.UpdateRow(ctx, mapping.TableBankTransactions, rowNumber, mapping.BankTransactionToRow(txn))
}

func (s *bankServiceImpl) findRowNumber(ctx context.Context, table, id string) (int, error) {
	rows, err := s.tabular.ListRows(ctx, table)
	if err != nil {
		return 0, fmt.Errorf("find row in %s: %w", table, err)
	}
	for i, row := range rows {
		if len(row) > 0 && row[0] == id {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%s %s not in sheet: %w", table, id, apperrors.ErrNotFound)
}

// CurrentBalance is openingBalance + credits - debits over the bank's whole
// transaction log, recomputed from scratch on every call. Unknown banks
// yield zero.
func (s *bankServiceImpl) CurrentBalance(bankID string) decimal.Decimal {
	var bank *domain.Bank
	for _, b := range s.banks.Get() {
		if b.ID == bankID {
			bank = &b
			break
		}
	}
	if bank == nil {
		return decimal.Zero
	}

	balance := bank.OpeningBalance
	for _, t := range s.transactions.Get() {
		if t.BankID != bankID {
			continue
		}
		if t.Type == domain.Credit {
			balance = balance.Add(t.Amount)
		} else {
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// Statement computes the running-balance view for [startDate, endDate]
// inclusive. Dates are ISO strings, so lexicographic comparison is
// chronological. The type and details filters never affect the opening
// balance; filtering away every row in range leaves opening == closing.
func (s *bankServiceImpl) Statement(bankID, startDate, endDate, typeFilter, detailsFilter string) domain.Statement {
	empty := domain.Statement{
		OpeningBalance: decimal.Zero,
		Transactions:   []domain.StatementLine{},
		ClosingBalance: decimal.Zero,
	}

	var bank *domain.Bank
	for _, b := range s.banks.Get() {
		if b.ID == bankID {
			bank = &b
			break
		}
	}
	if bank == nil {
		return empty
	}

	var all []domain.BankTransaction
	for _, t := range s.transactions.Get() {
		if t.BankID == bankID {
			all = append(all, t)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date < all[j].Date })

	opening := bank.OpeningBalance
	var inRange []domain.BankTransaction
	for _, t := range all {
		if t.Date < startDate {
			if t.Type == domain.Credit {
				opening = opening.Add(t.Amount)
			} else {
				opening = opening.Sub(t.Amount)
			}
			continue
		}
		if t.Date <= endDate {
			inRange = append(inRange, t)
		}
	}

	lines := make([]domain.StatementLine, 0, len(inRange))
	running := opening
	search := strings.ToLower(detailsFilter)
	for _, t := range inRange {
		if typeFilter != "" && string(t.Type) != typeFilter {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Details), search) {
			continue
		}
		if t.Type == domain.Credit {
			running = running.Add(t.Amount)
		} else {
			running = running.Sub(t.Amount)
		}
		lines = append(lines, domain.StatementLine{BankTransaction: t, RunningBalance: running})
	}

	return domain.Statement{
		OpeningBalance: opening,
		Transactions:   lines,
		ClosingBalance: running,
	}
}
