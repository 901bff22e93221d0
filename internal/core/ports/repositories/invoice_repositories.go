package repositories

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// InvoiceFilter narrows an invoice listing. Zero values mean "any".
type InvoiceFilter struct {
	HouseholdID string
	MemberID    string
	ExpenseID   string
	Status      domain.InvoiceStatus
}

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice scoped to a household.
	FindInvoiceByID(ctx context.Context, householdID, invoiceID string) (*domain.Invoice, error)

	// ListInvoices lists invoices newest first.
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
}

// InvoiceWriter defines the invoice settlement writes. Both are atomic across invoice and payment.
type InvoiceWriter interface {
	// RequestInvoicePayment inserts the pending payment and moves the invoice
	// pending -> awaiting_approval, linking the payment. ErrConflict if the invoice is not pending.
	RequestInvoicePayment(ctx context.Context, invoiceID string, payment domain.Payment) error

	// ResolveInvoicePayment applies an admin decision to the invoice and its linked payment.
	// ErrConflict if the invoice is not awaiting approval of that payment.
	ResolveInvoicePayment(ctx context.Context, resolution domain.InvoiceResolution) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
