package mapping

import (
	"fmt"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// LoanTransactionToRow serializes a loan transaction in LoanTransactionHeader
// column order.
func LoanTransactionToRow(t domain.LoanTransaction) portsrepo.Row {
	return portsrepo.Row{
		t.ID,
		t.Name,
		t.UserGave.String(),
		t.UserReceived.String(),
		t.Date,
		t.Medium,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	}
}

// LoanTransactionFromRow parses one data row.
func LoanTransactionFromRow(row portsrepo.Row) (domain.LoanTransaction, error) {
	id := cell(row, 0)
	if id == "" {
		return domain.LoanTransaction{}, fmt.Errorf("loan transaction row: missing id")
	}
	gave, err := decimal.NewFromString(cell(row, 2))
	if err != nil {
		return domain.LoanTransaction{}, fmt.Errorf("loan transaction row %s: bad userGave %q: %w", id, cell(row, 2), err)
	}
	received, err := decimal.NewFromString(cell(row, 3))
	if err != nil {
		return domain.LoanTransaction{}, fmt.Errorf("loan transaction row %s: bad userReceived %q: %w", id, cell(row, 3), err)
	}
	return domain.LoanTransaction{
		ID:           id,
		Name:         cell(row, 1),
		UserGave:     gave,
		UserReceived: received,
		Date:         cell(row, 4),
		Medium:       cell(row, 5),
		AuditFields: domain.AuditFields{
			CreatedAt: parseTime(cell(row, 6)),
			UpdatedAt: parseTime(cell(row, 7)),
		},
	}, nil
}
