package mapping

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense and its split rows.
func ToModelExpense(d domain.Expense) (models.Expense, []models.ExpenseSplit) {
	m := models.Expense{
		ExpenseID:       d.ExpenseID,
		HouseholdID:     d.HouseholdID,
		Description:     d.Description,
		Category:        d.Category,
		TotalAmount:     d.TotalAmount,
		SplitKind:       string(d.SplitKind),
		PaidBy:          d.PaidBy,
		Status:          string(d.Status),
		ExpenseDate:     d.ExpenseDate,
		ApprovedBy:      d.ApprovedBy,
		SourcePaymentID: d.SourcePaymentID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	splits := make([]models.ExpenseSplit, len(d.Splits))
	for i, s := range d.Splits {
		splits[i] = models.ExpenseSplit{
			ExpenseID: d.ExpenseID,
			MemberID:  s.MemberID,
			Amount:    s.Amount,
			Position:  i,
		}
	}
	return m, splits
}

// ToDomainExpense converts a model Expense and its split rows (already ordered by position) to a domain Expense
func ToDomainExpense(m models.Expense, splits []models.ExpenseSplit) domain.Expense {
	d := domain.Expense{
		ExpenseID:       m.ExpenseID,
		HouseholdID:     m.HouseholdID,
		Description:     m.Description,
		Category:        m.Category,
		TotalAmount:     m.TotalAmount,
		SplitKind:       domain.SplitKind(m.SplitKind),
		PaidBy:          m.PaidBy,
		Status:          domain.ExpenseStatus(m.Status),
		ExpenseDate:     m.ExpenseDate,
		ApprovedBy:      m.ApprovedBy,
		SourcePaymentID: m.SourcePaymentID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
		Splits:          make([]domain.Split, len(splits)),
	}
	for i, s := range splits {
		d.Splits[i] = domain.Split{MemberID: s.MemberID, Amount: s.Amount}
	}
	return d
}
