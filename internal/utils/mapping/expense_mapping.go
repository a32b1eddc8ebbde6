package mapping

import (
	"fmt"
	"strconv"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ExpenseToRow serializes an expense in ExpenseHeader column order.
func ExpenseToRow(e domain.Expense) portsrepo.Row {
	return portsrepo.Row{
		strconv.FormatInt(e.ID, 10),
		e.Date,
		e.Category,
		e.Amount.String(),
		e.Note,
		e.BankID,
	}
}

// ExpenseFromRow parses one data row. Rows with an unparseable id or amount
// are rejected; callers skip and count them rather than failing the load.
func ExpenseFromRow(row portsrepo.Row) (domain.Expense, error) {
	id, err := strconv.ParseInt(cell(row, 0), 10, 64)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("expense row: bad id %q: %w", cell(row, 0), err)
	}
	amount, err := decimal.NewFromString(cell(row, 3))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("expense row %d: bad amount %q: %w", id, cell(row, 3), err)
	}
	return domain.Expense{
		ID:       id,
		Date:     cell(row, 1),
		Category: cell(row, 2),
		Amount:   amount,
		Note:     cell(row, 4),
		BankID:   cell(row, 5),
	}, nil
}
