package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus indicates where an expense is in its approval lifecycle.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

// IsValid checks if the status is a known ExpenseStatus.
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpensePending, ExpenseApproved, ExpenseRejected:
		return true
	}
	return false
}

// IsTerminal returns true once the expense has been approved or rejected.
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseApproved || s == ExpenseRejected
}

// CanTransitionTo reports whether moving to next is a legal transition.
// Only pending expenses move, and only to approved or rejected.
func (s ExpenseStatus) CanTransitionTo(next ExpenseStatus) bool {
	return s == ExpensePending && next.IsTerminal()
}

// SplitKind selects how an expense total is divided among members.
type SplitKind string

const (
	SplitEqual    SplitKind = "equal"    // every active household member
	SplitSpecific SplitKind = "specific" // an explicit subset, evenly
	SplitCustom   SplitKind = "custom"   // caller supplied amounts
)

// IsValid checks if the split kind is known.
func (k SplitKind) IsValid() bool {
	switch k {
	case SplitEqual, SplitSpecific, SplitCustom:
		return true
	}
	return false
}

// Split is one member's share of an expense.
type Split struct {
	MemberID string          `json:"memberID"`
	Amount   decimal.Decimal `json:"amount"`
}

// DefaultExpenseCategory is used when no category is supplied.
const DefaultExpenseCategory = "general"

// Expense represents one shared cost.
type Expense struct {
	ExpenseID       string          `json:"expenseID"`
	HouseholdID     string          `json:"householdID"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	SplitKind       SplitKind       `json:"splitKind"`
	Splits          []Split         `json:"splits"`
	PaidBy          string          `json:"paidBy"` // payer; the creator unless an admin named someone else
	Status          ExpenseStatus   `json:"status"`
	ExpenseDate     time.Time       `json:"expenseDate"`
	ApprovedBy      *string         `json:"approvedBy,omitempty"`
	SourcePaymentID *string         `json:"sourcePaymentID,omitempty"` // set when synthesized from a payment
	AuditFields
}

// ShareOf returns the member's split amount, or zero when they do not participate.
func (e *Expense) ShareOf(memberID string) decimal.Decimal {
	for _, s := range e.Splits {
		if s.MemberID == memberID {
			return s.Amount
		}
	}
	return decimal.Zero
}

// BuildInvoices creates one invoice per split. The payer's own share is settled at birth.
func (e *Expense) BuildInvoices(actorID string, newID func() string, now time.Time, dueDate *time.Time) []Invoice {
	invoices := make([]Invoice, 0, len(e.Splits))
	for _, s := range e.Splits {
		status := InvoicePending
		if s.MemberID == e.PaidBy {
			status = InvoicePaid
		}
		invoices = append(invoices, Invoice{
			InvoiceID:   newID(),
			HouseholdID: e.HouseholdID,
			MemberID:    s.MemberID,
			ExpenseID:   e.ExpenseID,
			Amount:      s.Amount,
			Description: e.Description,
			Status:      status,
			DueDate:     dueDate,
			AuditFields: NewAuditFields(actorID, now),
		})
	}
	return invoices
}

// ExpenseTransition describes a conditional status change applied atomically
// together with the invoices it generates.
type ExpenseTransition struct {
	ExpenseID   string
	HouseholdID string
	From        ExpenseStatus
	To          ExpenseStatus
	ActorID     string
	At          time.Time
	Invoices    []Invoice
}
