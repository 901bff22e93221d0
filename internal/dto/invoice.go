package dto

import (
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListInvoicesParams defines query parameters for invoice listings.
type ListInvoicesParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending awaiting_approval paid"`
	ExpenseID string `form:"expenseId"`
	MemberID  string `form:"memberId"` // admin listings only
}

// PayInvoiceRequest optionally annotates the payment spawned by paying an invoice.
type PayInvoiceRequest struct {
	Note string `json:"note" binding:"omitempty,max=255"`
}

// RejectInvoicePaymentRequest carries the admin's reason for rejecting a payment.
type RejectInvoicePaymentRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID        string          `json:"invoiceID"`
	MemberID         string          `json:"memberID"`
	ExpenseID        string          `json:"expenseID"`
	Amount           decimal.Decimal `json:"amount" swaggertype:"string"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	PaymentRequestID *string         `json:"paymentRequestID,omitempty"`
	DueDate          *time.Time      `json:"dueDate,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
}

// ListInvoicesResponse wraps a list of invoices.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// PayInvoiceResponse returns the invoice after payment together with the payment it spawned.
type PayInvoiceResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
	Payment PaymentResponse `json:"payment"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:        inv.InvoiceID,
		MemberID:         inv.MemberID,
		ExpenseID:        inv.ExpenseID,
		Amount:           inv.Amount,
		Description:      inv.Description,
		Status:           string(inv.Status),
		PaymentRequestID: inv.PaymentRequestID,
		DueDate:          inv.DueDate,
		CreatedAt:        inv.CreatedAt,
		LastUpdatedAt:    inv.LastUpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain invoices.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	list := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		list[i] = ToInvoiceResponse(&invoices[i])
	}
	return list
}
