package dto

import (
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the data needed to record a standalone payment.
type CreatePaymentRequest struct {
	Amount      decimal.Decimal    `json:"amount" binding:"money" swaggertype:"string"`
	Description string             `json:"description" binding:"omitempty,max=255"`
	Kind        domain.PaymentKind `json:"kind" binding:"omitempty,oneof=payment received"`
	MemberID    *string            `json:"memberID"` // admins may record for another member
	PaymentDate *time.Time         `json:"paymentDate"`
}

// UpdatePaymentRequest defines the fields editable on a pending payment.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal    `json:"amount" binding:"omitempty,money" swaggertype:"string"`
	Description *string             `json:"description" binding:"omitempty,max=255"`
	Kind        *domain.PaymentKind `json:"kind" binding:"omitempty,oneof=payment received"`
	PaymentDate *time.Time          `json:"paymentDate"`
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
	Status    string  `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Kind      string  `form:"kind" binding:"omitempty,oneof=payment received"`
	MemberID  string  `form:"memberId"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   string          `json:"paymentID"`
	MemberID    string          `json:"memberID"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Kind        string          `json:"kind"`
	RecordedBy  string          `json:"recordedBy"`
	ApprovedBy  *string         `json:"approvedBy,omitempty"`
	ExpenseID   *string         `json:"expenseID,omitempty"`
	InvoiceID   *string         `json:"invoiceID,omitempty"`
	PaymentDate time.Time       `json:"paymentDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListPaymentsResponse wraps a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ApprovePaymentResponse carries the approved payment and, for standalone payments, the synthesized expense.
type ApprovePaymentResponse struct {
	Payment PaymentResponse  `json:"payment"`
	Expense *ExpenseResponse `json:"expense,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		MemberID:    p.MemberID,
		Amount:      p.Amount,
		Description: p.Description,
		Status:      string(p.Status),
		Kind:        string(p.Kind),
		RecordedBy:  p.RecordedBy,
		ApprovedBy:  p.ApprovedBy,
		ExpenseID:   p.ExpenseID,
		InvoiceID:   p.InvoiceID,
		PaymentDate: p.PaymentDate,
		CreatedAt:   p.CreatedAt,
	}
}

// ToListPaymentsResponse converts a page of domain payments to DTO.
func ToListPaymentsResponse(payments []domain.Payment, nextToken *string) ListPaymentsResponse {
	list := make([]PaymentResponse, len(payments))
	for i := range payments {
		list[i] = ToPaymentResponse(&payments[i])
	}
	return ListPaymentsResponse{Payments: list, NextToken: nextToken}
}
