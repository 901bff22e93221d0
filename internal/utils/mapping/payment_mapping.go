package mapping

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		HouseholdID: d.HouseholdID,
		MemberID:    d.MemberID,
		Amount:      d.Amount,
		Description: d.Description,
		Status:      string(d.Status),
		Kind:        string(d.Kind),
		RecordedBy:  d.RecordedBy,
		ApprovedBy:  d.ApprovedBy,
		ExpenseID:   d.ExpenseID,
		InvoiceID:   d.InvoiceID,
		PaymentDate: d.PaymentDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		HouseholdID: m.HouseholdID,
		MemberID:    m.MemberID,
		Amount:      m.Amount,
		Description: m.Description,
		Status:      domain.PaymentStatus(m.Status),
		Kind:        domain.PaymentKind(m.Kind),
		RecordedBy:  m.RecordedBy,
		ApprovedBy:  m.ApprovedBy,
		ExpenseID:   m.ExpenseID,
		InvoiceID:   m.InvoiceID,
		PaymentDate: m.PaymentDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model Payments to a slice of domain Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}
