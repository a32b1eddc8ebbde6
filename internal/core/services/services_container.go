package services

import (
	"context"
	"log/slog"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
)

// NewServiceContainer creates the service container with properly initialized
// dependencies and wires the session edge: on sign-in the expense store
// switches to the tabular backend and the dependent stores initialize, on
// sign-out the expense store falls back to the local snapshot.
func NewServiceContainer(
	tabular portsrepo.TabularStore,
	snapshot portsrepo.SnapshotStore,
	opener portsrepo.TabularSourceOpener,
	session portssvc.SessionSvcFacade,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Expense store first since most other services depend on it.
	container.Expense = NewExpenseService(tabular, snapshot)
	container.Category = NewCategoryService(tabular, container.Expense)
	container.Bank = NewBankService(tabular)
	container.Loan = NewLoanService(tabular)
	container.Analytics = NewAnalyticsService(container.Expense, container.Category)
	container.Import = NewImportService(opener, container.Expense)
	container.Session = session

	// Local-first boot: expenses are usable from the snapshot before any
	// session exists.
	if err := container.Expense.Init(context.Background()); err != nil {
		slog.Error("failed to initialize expense store", slog.String("error", err.Error()))
	}

	session.Subscribe(func(user *domain.User) {
		ctx := context.Background()
		container.Expense.HandleSessionChange(ctx, user)
		if user == nil {
			return
		}
		if err := container.Category.Init(ctx); err != nil {
			slog.Error("failed to initialize category store", slog.String("error", err.Error()))
		}
		if err := container.Bank.Init(ctx); err != nil {
			slog.Error("failed to initialize bank store", slog.String("error", err.Error()))
		}
		if err := container.Loan.Init(ctx); err != nil {
			slog.Error("failed to initialize loan store", slog.String("error", err.Error()))
		}
	})

	return container
}

var (
	_ portssvc.ExpenseSvcFacade   = (*expenseServiceImpl)(nil)
	_ portssvc.CategorySvcFacade  = (*categoryServiceImpl)(nil)
	_ portssvc.BankSvcFacade      = (*bankServiceImpl)(nil)
	_ portssvc.LoanSvcFacade      = (*loanServiceImpl)(nil)
	_ portssvc.AnalyticsSvcFacade = (*analyticsServiceImpl)(nil)
	_ portssvc.ImportSvcFacade    = (*importServiceImpl)(nil)
)
