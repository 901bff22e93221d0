package mapping

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:        d.InvoiceID,
		HouseholdID:      d.HouseholdID,
		MemberID:         d.MemberID,
		ExpenseID:        d.ExpenseID,
		Amount:           d.Amount,
		Description:      d.Description,
		Status:           string(d.Status),
		PaymentRequestID: d.PaymentRequestID,
		DueDate:          d.DueDate,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:        m.InvoiceID,
		HouseholdID:      m.HouseholdID,
		MemberID:         m.MemberID,
		ExpenseID:        m.ExpenseID,
		Amount:           m.Amount,
		Description:      m.Description,
		Status:           domain.InvoiceStatus(m.Status),
		PaymentRequestID: m.PaymentRequestID,
		DueDate:          m.DueDate,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts a slice of model Invoices to a slice of domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}
