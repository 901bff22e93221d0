package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of the payments table.
type Payment struct {
	PaymentID   string          `db:"payment_id"`
	HouseholdID string          `db:"household_id"`
	MemberID    string          `db:"member_id"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	Kind        string          `db:"kind"`
	RecordedBy  string          `db:"recorded_by"`
	ApprovedBy  *string         `db:"approved_by"`
	ExpenseID   *string         `db:"expense_id"` // Nullable FK -> expenses
	InvoiceID   *string         `db:"invoice_id"` // Nullable FK -> invoices
	PaymentDate time.Time       `db:"payment_date"`
	AuditFields
}
