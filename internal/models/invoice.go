package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is one member's obligation from one approved expense.
type Invoice struct {
	InvoiceID        string          `db:"invoice_id"`
	HouseholdID      string          `db:"household_id"`
	MemberID         string          `db:"member_id"`
	ExpenseID        string          `db:"expense_id"`
	Amount           decimal.Decimal `db:"amount"`
	Description      string          `db:"description"`
	Status           string          `db:"status"`
	PaymentRequestID *string         `db:"payment_request_id"` // Nullable FK -> payments
	DueDate          *time.Time      `db:"due_date"`
	AuditFields
}
