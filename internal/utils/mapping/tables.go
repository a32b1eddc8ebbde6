// Package mapping converts ledger entities to and from spreadsheet rows.
// Every table carries a header in row 1; the codecs here deal only with data
// rows.
package mapping

import (
	"time"

	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
)

// Table names inside the ledger spreadsheet. The expenses tab is discovered
// at load time (first tab that is none of these); DefaultExpensesTable is
// used when discovery finds nothing.
const (
	DefaultExpensesTable  = "Spending"
	TableCategories       = "Categories"
	TableBanks            = "Banks"
	TableBankTransactions = "BankTransactions"
	TableLoanTransactions = "LoanTransactions"
)

// Headers, in persisted column order.
var (
	ExpenseHeader = portsrepo.Row{"ID", "Date", "Category", "Amount", "Note", "BankID"}

	CategoryHeader = portsrepo.Row{"CategoryID", "CategoryName", "ParentCategoryID"}

	BankHeader = portsrepo.Row{
		"ID", "BankName", "BankCode", "AccountName", "AccountNumber",
		"AccountType", "HomeBranch", "BranchZone", "BranchDistrict",
		"OpeningBalance", "IsClosed", "CreatedAt", "UpdatedAt",
	}

	BankTransactionHeader = portsrepo.Row{"ID", "BankID", "Type", "Amount", "Date", "Details", "CreatedAt", "UpdatedAt"}

	LoanTransactionHeader = portsrepo.Row{"ID", "Name", "UserGave", "UserReceived", "Date", "Medium", "CreatedAt", "UpdatedAt"}
)

// ReservedTable reports whether a tab name belongs to one of the fixed
// ledger tables, excluding it from expenses-tab discovery.
func ReservedTable(name string) bool {
	switch name {
	case TableCategories, TableBanks, TableBankTransactions, TableLoanTransactions:
		return true
	}
	return false
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// parseTime tolerates malformed timestamps: stale rows must not block a
// load, so failures yield the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func cell(row portsrepo.Row, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
