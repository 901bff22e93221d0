package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus indicates where a payment is in its approval lifecycle.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// IsValid checks if the status is a known PaymentStatus.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentRejected:
		return true
	}
	return false
}

// IsTerminal returns true once the payment has been approved or rejected.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentApproved || s == PaymentRejected
}

// PaymentKind distinguishes money paid into the household from money received out of it.
type PaymentKind string

const (
	KindPayment  PaymentKind = "payment"
	KindReceived PaymentKind = "received"
)

// IsValid checks if the kind is known.
func (k PaymentKind) IsValid() bool {
	return k == KindPayment || k == KindReceived
}

// Payment records money transferred, spawned from an invoice or entered directly.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	HouseholdID string          `json:"householdID"`
	MemberID    string          `json:"memberID"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      PaymentStatus   `json:"status"`
	Kind        PaymentKind     `json:"kind"`
	RecordedBy  string          `json:"recordedBy"`
	ApprovedBy  *string         `json:"approvedBy,omitempty"`
	ExpenseID   *string         `json:"expenseID,omitempty"` // synthesized expense, once approved
	InvoiceID   *string         `json:"invoiceID,omitempty"` // invoice this payment settles
	PaymentDate time.Time       `json:"paymentDate"`
	AuditFields
}

// IsStandalone reports whether the payment was entered directly rather than spawned by an invoice.
func (p *Payment) IsStandalone() bool {
	return p.InvoiceID == nil
}

// CanBeModifiedBy reports whether the actor may edit or delete the payment.
// Admins may delete at any status; that case is handled by the caller.
func (p *Payment) CanBeModifiedBy(actor Actor) bool {
	if p.Status != PaymentPending {
		return false
	}
	return actor.IsAdmin() || p.MemberID == actor.MemberID || p.RecordedBy == actor.MemberID
}

// PaymentApproval is the atomic unit written when a payment is approved.
// SynthesizedExpense is nil for invoice-linked payments.
type PaymentApproval struct {
	PaymentID          string
	ActorID            string
	At                 time.Time
	SynthesizedExpense *Expense
}
