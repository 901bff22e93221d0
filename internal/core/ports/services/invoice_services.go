package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	// ListMyInvoices lists the actor's own invoices.
	ListMyInvoices(ctx context.Context, actor domain.Actor, params dto.ListInvoicesParams) ([]domain.Invoice, error)

	// ListAllInvoices lists every invoice in the household. Admin only.
	ListAllInvoices(ctx context.Context, actor domain.Actor, params dto.ListInvoicesParams) ([]domain.Invoice, error)

	// GetInvoice retrieves an invoice visible to its owner or an admin.
	GetInvoice(ctx context.Context, actor domain.Actor, invoiceID string) (*domain.Invoice, error)
}

// InvoiceSettlementSvc defines the invoice settlement workflow
type InvoiceSettlementSvc interface {
	// PayInvoice submits a payment for the actor's pending invoice.
	PayInvoice(ctx context.Context, actor domain.Actor, invoiceID string, req dto.PayInvoiceRequest) (*domain.Invoice, *domain.Payment, error)

	// ApproveInvoicePayment settles an invoice awaiting approval.
	ApproveInvoicePayment(ctx context.Context, actor domain.Actor, invoiceID string) (*domain.Invoice, error)

	// RejectInvoicePayment rejects the pending payment and reopens the invoice.
	RejectInvoicePayment(ctx context.Context, actor domain.Actor, invoiceID string, reason string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceSettlementSvc
}
