package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// BankToRow serializes a bank in BankHeader column order.
func BankToRow(b domain.Bank) portsrepo.Row {
	return portsrepo.Row{
		b.ID,
		b.BankName,
		b.BankCode,
		b.AccountName,
		b.AccountNumber,
		b.AccountType,
		b.HomeBranch,
		b.BranchZone,
		b.BranchDistrict,
		b.OpeningBalance.String(),
		strings.ToUpper(strconv.FormatBool(b.IsClosed)),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	}
}

// BankFromRow parses one data row.
func BankFromRow(row portsrepo.Row) (domain.Bank, error) {
	id := cell(row, 0)
	if id == "" {
		return domain.Bank{}, fmt.Errorf("bank row: missing id")
	}
	opening, err := decimal.NewFromString(cell(row, 9))
	if err != nil {
		return domain.Bank{}, fmt.Errorf("bank row %s: bad opening balance %q: %w", id, cell(row, 9), err)
	}
	return domain.Bank{
		ID:             id,
		BankName:       cell(row, 1),
		BankCode:       cell(row, 2),
		AccountName:    cell(row, 3),
		AccountNumber:  cell(row, 4),
		AccountType:    cell(row, 5),
		HomeBranch:     cell(row, 6),
		BranchZone:     cell(row, 7),
		BranchDistrict: cell(row, 8),
		OpeningBalance: opening,
		IsClosed:       strings.EqualFold(cell(row, 10), "true"),
		AuditFields: domain.AuditFields{
			CreatedAt: parseTime(cell(row, 11)),
			UpdatedAt: parseTime(cell(row, 12)),
		},
	}, nil
}

// BankTransactionToRow serializes a transaction in BankTransactionHeader
// column order.
func BankTransactionToRow(t domain.BankTransaction) portsrepo.Row {
	return portsrepo.Row{
		t.ID,
		t.BankID,
		string(t.Type),
		t.Amount.String(),
		t.Date,
		t.Details,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	}
}

// BankTransactionFromRow parses one data row.
func BankTransactionFromRow(row portsrepo.Row) (domain.BankTransaction, error) {
	id := cell(row, 0)
	if id == "" {
		return domain.BankTransaction{}, fmt.Errorf("bank transaction row: missing id")
	}
	amount, err := decimal.NewFromString(cell(row, 3))
	if err != nil {
		return domain.BankTransaction{}, fmt.Errorf("bank transaction row %s: bad amount %q: %w", id, cell(row, 3), err)
	}
	return domain.BankTransaction{
		ID:      id,
		BankID:  cell(row, 1),
		Type:    domain.TransactionType(cell(row, 2)),
		Amount:  amount,
		Date:    cell(row, 4),
		Details: cell(row, 5),
		AuditFields: domain.AuditFields{
			CreatedAt: parseTime(cell(row, 6)),
			UpdatedAt: parseTime(cell(row, 7)),
		},
	}, nil
}
