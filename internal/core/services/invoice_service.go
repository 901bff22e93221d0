package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
)

const (
	entityInvoice = "invoice"
	entityPayment = "payment"
)

type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, options ...ServiceOption) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		BaseService: newBaseService(options...),
		invoiceRepo: invoiceRepo,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func invoiceFilter(householdID string, params dto.ListInvoicesParams) (portsrepo.InvoiceFilter, error) {
	filter := portsrepo.InvoiceFilter{HouseholdID: householdID, ExpenseID: params.ExpenseID}
	if params.Status != "" {
		status := domain.InvoiceStatus(params.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: unknown invoice status '%s'", apperrors.ErrValidation, params.Status)
		}
		filter.Status = status
	}
	return filter, nil
}

func (s *invoiceService) list(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("household_id", filter.HouseholdID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// ListMyInvoices lists the actor's own invoices.
func (s *invoiceService) ListMyInvoices(ctx context.Context, actor domain.Actor, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	filter, err := invoiceFilter(actor.HouseholdID, params)
	if err != nil {
		return nil, err
	}
	filter.MemberID = actor.MemberID
	return s.list(ctx, filter)
}

// ListAllInvoices lists every invoice in the household.
func (s *invoiceService) ListAllInvoices(ctx context.Context, actor domain.Actor, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	if err := s.requireAdmin(ctx, actor, "list all invoices"); err != nil {
		return nil, err
	}
	filter, err := invoiceFilter(actor.HouseholdID, params)
	if err != nil {
		return nil, err
	}
	filter.MemberID = params.MemberID
	return s.list(ctx, filter)
}

func (s *invoiceService) find(ctx context.Context, actor domain.Actor, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, actor.HouseholdID, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice for its owner or an admin.
func (s *invoiceService) GetInvoice(ctx context.Context, actor domain.Actor, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.find(ctx, actor, invoiceID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && invoice.MemberID != actor.MemberID {
		return nil, fmt.Errorf("%w: invoice %s belongs to another member", apperrors.ErrForbidden, invoiceID)
	}
	return invoice, nil
}

// PayInvoice spawns a pending payment for the invoice and parks the invoice awaiting approval.
func (s *invoiceService) PayInvoice(ctx context.Context, actor domain.Actor, invoiceID string, req dto.PayInvoiceRequest) (*domain.Invoice, *domain.Payment, error) {
	invoice, err := s.find(ctx, actor, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if invoice.MemberID != actor.MemberID {
		return nil, nil, fmt.Errorf("%w: only the invoice owner may pay invoice %s", apperrors.ErrForbidden, invoiceID)
	}
	if !invoice.Status.CanPay() {
		return nil, nil, fmt.Errorf("%w: invoice %s is %s, only pending invoices can be paid", apperrors.ErrConflict, invoiceID, invoice.Status)
	}

	now := s.now()
	description := "Payment for: " + invoice.Description
	if note := strings.TrimSpace(req.Note); note != "" {
		description += " (" + note + ")"
	}
	linkedInvoice := invoice.InvoiceID
	payment := domain.Payment{
		PaymentID:   s.newID(),
		HouseholdID: invoice.HouseholdID,
		MemberID:    actor.MemberID,
		Amount:      invoice.Amount,
		Description: description,
		Status:      domain.PaymentPending,
		Kind:        domain.KindPayment,
		RecordedBy:  actor.MemberID,
		InvoiceID:   &linkedInvoice,
		PaymentDate: now,
		AuditFields: domain.NewAuditFields(actor.MemberID, now),
	}

	if err := s.invoiceRepo.RequestInvoicePayment(ctx, invoiceID, payment); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to pay invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, nil, fmt.Errorf("failed to pay invoice %s: %w", invoiceID, err)
	}
	s.recordTransition(entityInvoice, string(domain.InvoicePending), string(domain.InvoiceAwaitingApproval))
	s.recordTransition(entityPayment, "new", string(domain.PaymentPending))

	paymentID := payment.PaymentID
	invoice.Status = domain.InvoiceAwaitingApproval
	invoice.PaymentRequestID = &paymentID
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actor.MemberID

	s.LogInfo(ctx, "Invoice payment submitted", slog.String("invoice_id", invoiceID), slog.String("payment_id", paymentID))
	return invoice, &payment, nil
}

// resolve applies an admin decision to an invoice awaiting approval.
func (s *invoiceService) resolve(ctx context.Context, actor domain.Actor, invoiceID string, approve bool, reason string) (*domain.Invoice, error) {
	action := "approve invoice payments"
	if !approve {
		action = "reject invoice payments"
	}
	if err := s.requireAdmin(ctx, actor, action); err != nil {
		return nil, err
	}
	invoice, err := s.find(ctx, actor, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanResolve() || invoice.PaymentRequestID == nil {
		return nil, fmt.Errorf("%w: invoice %s is %s, not awaiting approval", apperrors.ErrConflict, invoiceID, invoice.Status)
	}

	resolution := domain.InvoiceResolution{
		InvoiceID: invoiceID,
		PaymentID: *invoice.PaymentRequestID,
		Approve:   approve,
		Reason:    strings.TrimSpace(reason),
		ActorID:   actor.MemberID,
		At:        s.now(),
	}
	if err := s.invoiceRepo.ResolveInvoicePayment(ctx, resolution); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to resolve invoice payment", slog.String("invoice_id", invoiceID))
		}
		return nil, fmt.Errorf("failed to resolve payment for invoice %s: %w", invoiceID, err)
	}
	s.recordTransition(entityInvoice, string(invoice.Status), string(resolution.NextStatus()))
	s.recordTransition(entityPayment, string(domain.PaymentPending), string(resolution.PaymentStatus()))

	invoice.Status = resolution.NextStatus()
	if !approve {
		invoice.PaymentRequestID = nil
	}
	invoice.LastUpdatedAt = resolution.At
	invoice.LastUpdatedBy = actor.MemberID

	s.LogInfo(ctx, "Invoice payment resolved",
		slog.String("invoice_id", invoiceID),
		slog.String("payment_id", resolution.PaymentID),
		slog.Bool("approved", approve))
	return invoice, nil
}

// ApproveInvoicePayment marks the invoice paid and its payment approved.
func (s *invoiceService) ApproveInvoicePayment(ctx context.Context, actor domain.Actor, invoiceID string) (*domain.Invoice, error) {
	return s.resolve(ctx, actor, invoiceID, true, "")
}

// RejectInvoicePayment rejects the payment and returns the invoice to pending.
func (s *invoiceService) RejectInvoicePayment(ctx context.Context, actor domain.Actor, invoiceID string, reason string) (*domain.Invoice, error) {
	return s.resolve(ctx, actor, invoiceID, false, reason)
}
