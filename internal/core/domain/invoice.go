package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the settlement state of a member's obligation.
type InvoiceStatus string

const (
	InvoicePending          InvoiceStatus = "pending"
	InvoiceAwaitingApproval InvoiceStatus = "awaiting_approval"
	InvoicePaid             InvoiceStatus = "paid"
)

// IsValid checks if the status is a known InvoiceStatus.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoicePending, InvoiceAwaitingApproval, InvoicePaid:
		return true
	}
	return false
}

// CanPay returns true if the owner may submit a payment for the invoice.
func (s InvoiceStatus) CanPay() bool {
	return s == InvoicePending
}

// CanResolve returns true if an admin may approve or reject the pending payment.
func (s InvoiceStatus) CanResolve() bool {
	return s == InvoiceAwaitingApproval
}

// Invoice is one member's obligation generated from one approved expense.
type Invoice struct {
	InvoiceID        string          `json:"invoiceID"`
	HouseholdID      string          `json:"householdID"`
	MemberID         string          `json:"memberID"`
	ExpenseID        string          `json:"expenseID"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Status           InvoiceStatus   `json:"status"`
	PaymentRequestID *string         `json:"paymentRequestID,omitempty"`
	DueDate          *time.Time      `json:"dueDate,omitempty"`
	AuditFields
}

// InvoiceResolution describes an admin decision on an invoice's pending payment.
// Invoice and payment are updated in one transaction.
type InvoiceResolution struct {
	InvoiceID string
	PaymentID string
	Approve   bool
	Reason    string
	ActorID   string
	At        time.Time
}

// NextStatus returns the status the invoice lands in after the resolution.
func (r InvoiceResolution) NextStatus() InvoiceStatus {
	if r.Approve {
		return InvoicePaid
	}
	return InvoicePending
}

// PaymentStatus returns the status the linked payment lands in after the resolution.
func (r InvoiceResolution) PaymentStatus() PaymentStatus {
	if r.Approve {
		return PaymentApproved
	}
	return PaymentRejected
}
