package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
)

// PaymentReaderSvc defines read operations for payment data
type PaymentReaderSvc interface {
	// GetPayment retrieves a payment visible to its member or an admin.
	GetPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error)

	// ListPayments lists payments; members only ever see their own.
	ListPayments(ctx context.Context, actor domain.Actor, params dto.ListPaymentsParams) ([]domain.Payment, *string, error)
}

// PaymentWriterSvc defines the payment lifecycle operations
type PaymentWriterSvc interface {
	CreatePayment(ctx context.Context, actor domain.Actor, req dto.CreatePaymentRequest) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, actor domain.Actor, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error)
	DeletePayment(ctx context.Context, actor domain.Actor, paymentID string) error

	// ApprovePayment approves a pending payment. Standalone payments synthesize an expense, which is returned.
	ApprovePayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, *domain.Expense, error)

	RejectPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
