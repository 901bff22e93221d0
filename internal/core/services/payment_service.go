package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/utils/accounting"
	"github.com/SscSPs/household_ledger/internal/utils/pagination"
)

type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	invoiceRepo portsrepo.InvoiceWriter
	memberRepo  portsrepo.MemberReader
}

// NewPaymentService creates a new payment service. Invoice-linked payments are resolved
// through invoiceRepo so invoice and payment never disagree.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, invoiceRepo portsrepo.InvoiceWriter, memberRepo portsrepo.MemberReader, options ...ServiceOption) portssvc.PaymentSvcFacade {
	return &paymentService{
		BaseService: newBaseService(options...),
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		memberRepo:  memberRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment records a standalone payment. Admins may record on behalf of another member.
func (s *paymentService) CreatePayment(ctx context.Context, actor domain.Actor, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	kind := req.Kind
	if kind == "" {
		kind = domain.KindPayment
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment kind '%s'", apperrors.ErrValidation, kind)
	}

	memberID := actor.MemberID
	if req.MemberID != nil && *req.MemberID != "" && *req.MemberID != actor.MemberID {
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: only an admin may record a payment for another member", apperrors.ErrForbidden)
		}
		member, err := s.memberRepo.FindMemberByID(ctx, *req.MemberID)
		if err != nil || member.HouseholdID != actor.HouseholdID || !member.IsActive {
			return nil, fmt.Errorf("%w: member %s is not an active member of this household", apperrors.ErrValidation, *req.MemberID)
		}
		memberID = member.MemberID
	}

	now := s.now()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}
	payment := domain.Payment{
		PaymentID:   s.newID(),
		HouseholdID: actor.HouseholdID,
		MemberID:    memberID,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.PaymentPending,
		Kind:        kind,
		RecordedBy:  actor.MemberID,
		PaymentDate: paymentDate,
		AuditFields: domain.NewAuditFields(actor.MemberID, now),
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment", slog.String("household_id", actor.HouseholdID))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	s.recordTransition(entityPayment, "new", string(domain.PaymentPending))
	s.LogInfo(ctx, "Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("kind", string(kind)))
	return &payment, nil
}

func (s *paymentService) find(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, actor.HouseholdID, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payment", slog.String("payment_id", paymentID))
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// GetPayment retrieves a payment visible to its member, its recorder or an admin.
func (s *paymentService) GetPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error) {
	payment, err := s.find(ctx, actor, paymentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && payment.MemberID != actor.MemberID && payment.RecordedBy != actor.MemberID {
		return nil, fmt.Errorf("%w: payment %s belongs to another member", apperrors.ErrForbidden, paymentID)
	}
	return payment, nil
}

// ListPayments lists payments; non-admins are always scoped to their own.
func (s *paymentService) ListPayments(ctx context.Context, actor domain.Actor, params dto.ListPaymentsParams) ([]domain.Payment, *string, error) {
	filter := portsrepo.PaymentFilter{
		HouseholdID: actor.HouseholdID,
		MemberID:    params.MemberID,
		Limit:       pagination.NormalizeLimit(params.Limit),
		NextToken:   params.NextToken,
	}
	if !actor.IsAdmin() {
		filter.MemberID = actor.MemberID
	}
	if params.Status != "" {
		filter.Status = domain.PaymentStatus(params.Status)
		if !filter.Status.IsValid() {
			return nil, nil, fmt.Errorf("%w: unknown payment status '%s'", apperrors.ErrValidation, params.Status)
		}
	}
	if params.Kind != "" {
		filter.Kind = domain.PaymentKind(params.Kind)
		if !filter.Kind.IsValid() {
			return nil, nil, fmt.Errorf("%w: unknown payment kind '%s'", apperrors.ErrValidation, params.Kind)
		}
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list payments", slog.String("household_id", actor.HouseholdID))
		}
		return nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nextToken, nil
}

// checkModifiable separates "not yours" from "no longer pending".
func checkModifiable(actor domain.Actor, payment *domain.Payment) error {
	if payment.CanBeModifiedBy(actor) {
		return nil
	}
	if payment.Status != domain.PaymentPending {
		return fmt.Errorf("%w: payment %s is %s, only pending payments can change", apperrors.ErrConflict, payment.PaymentID, payment.Status)
	}
	return fmt.Errorf("%w: payment %s belongs to another member", apperrors.ErrForbidden, payment.PaymentID)
}

// UpdatePayment edits a pending payment.
func (s *paymentService) UpdatePayment(ctx context.Context, actor domain.Actor, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error) {
	payment, err := s.find(ctx, actor, paymentID)
	if err != nil {
		return nil, err
	}
	if err := checkModifiable(actor, payment); err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
		}
		// Invoices settle in full only.
		if !payment.IsStandalone() && !req.Amount.Equal(payment.Amount) {
			return nil, fmt.Errorf("%w: the amount of an invoice payment cannot change", apperrors.ErrValidation)
		}
		payment.Amount = *req.Amount
	}
	if req.Kind != nil {
		if !req.Kind.IsValid() {
			return nil, fmt.Errorf("%w: unknown payment kind '%s'", apperrors.ErrValidation, *req.Kind)
		}
		if !payment.IsStandalone() && *req.Kind != payment.Kind {
			return nil, fmt.Errorf("%w: the kind of an invoice payment cannot change", apperrors.ErrValidation)
		}
		payment.Kind = *req.Kind
	}
	if req.Description != nil {
		payment.Description = strings.TrimSpace(*req.Description)
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = req.PaymentDate.UTC()
	}
	payment.LastUpdatedAt = s.now()
	payment.LastUpdatedBy = actor.MemberID

	if err := s.paymentRepo.UpdatePendingPayment(ctx, *payment); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update payment", slog.String("payment_id", paymentID))
		}
		return nil, fmt.Errorf("failed to update payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// DeletePayment removes a payment. Owners may delete while pending; admins at any status.
func (s *paymentService) DeletePayment(ctx context.Context, actor domain.Actor, paymentID string) error {
	payment, err := s.find(ctx, actor, paymentID)
	if err != nil {
		return err
	}
	pendingOnly := !actor.IsAdmin()
	if pendingOnly {
		if err := checkModifiable(actor, payment); err != nil {
			return err
		}
	}

	if err := s.paymentRepo.DeletePayment(ctx, actor.HouseholdID, paymentID, pendingOnly, actor.MemberID, s.now()); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete payment", slog.String("payment_id", paymentID))
		}
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}
	s.LogInfo(ctx, "Payment deleted", slog.String("payment_id", paymentID), slog.String("status", string(payment.Status)))
	return nil
}

// synthesizeExpense builds the equal-split expense that an approved standalone payment becomes.
// The payer's share is settled by the payment itself, so it is born approved without invoices.
func (s *paymentService) synthesizeExpense(ctx context.Context, actor domain.Actor, payment *domain.Payment) (*domain.Expense, error) {
	members, err := s.memberRepo.ListMembersByHousehold(ctx, actor.HouseholdID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list household members: %w", err)
	}
	splits, err := accounting.EvenSplit(payment.Amount, domain.ActiveMemberIDs(members))
	if err != nil {
		return nil, err
	}

	description := payment.Description
	if description == "" {
		description = "Payment by " + payment.MemberID
	}
	now := s.now()
	approver := actor.MemberID
	sourcePayment := payment.PaymentID
	return &domain.Expense{
		ExpenseID:       s.newID(),
		HouseholdID:     payment.HouseholdID,
		Description:     description,
		Category:        s.defaultCategory,
		TotalAmount:     payment.Amount,
		SplitKind:       domain.SplitEqual,
		Splits:          splits,
		PaidBy:          payment.MemberID,
		Status:          domain.ExpenseApproved,
		ExpenseDate:     payment.PaymentDate,
		ApprovedBy:      &approver,
		SourcePaymentID: &sourcePayment,
		AuditFields:     domain.NewAuditFields(actor.MemberID, now),
	}, nil
}

// ApprovePayment approves a pending payment.
func (s *paymentService) ApprovePayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, *domain.Expense, error) {
	if err := s.requireAdmin(ctx, actor, "approve payments"); err != nil {
		return nil, nil, err
	}
	payment, err := s.find(ctx, actor, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if payment.Status != domain.PaymentPending {
		return nil, nil, fmt.Errorf("%w: payment %s is %s, only pending payments can be approved", apperrors.ErrConflict, paymentID, payment.Status)
	}
	now := s.now()

	if !payment.IsStandalone() {
		if err := s.resolveLinkedInvoice(ctx, actor, payment, true, now); err != nil {
			return nil, nil, err
		}
		return payment, nil, nil
	}

	expense, err := s.synthesizeExpense(ctx, actor, payment)
	if err != nil {
		return nil, nil, err
	}

	err = s.paymentRepo.ApprovePayment(ctx, domain.PaymentApproval{
		PaymentID:          paymentID,
		ActorID:            actor.MemberID,
		At:                 now,
		SynthesizedExpense: expense,
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to approve payment", slog.String("payment_id", paymentID))
		}
		return nil, nil, fmt.Errorf("failed to approve payment %s: %w", paymentID, err)
	}
	s.recordTransition(entityPayment, string(domain.PaymentPending), string(domain.PaymentApproved))

	approver := actor.MemberID
	payment.Status = domain.PaymentApproved
	payment.ApprovedBy = &approver
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = actor.MemberID
	s.recordTransition(entityExpense, "new", string(domain.ExpenseApproved))
	expenseID := expense.ExpenseID
	payment.ExpenseID = &expenseID

	s.LogInfo(ctx, "Payment approved", slog.String("payment_id", paymentID), slog.String("expense_id", expenseID))
	return payment, expense, nil
}

// RejectPayment rejects a pending payment. Invoice-linked payments reopen their invoice.
func (s *paymentService) RejectPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error) {
	if err := s.requireAdmin(ctx, actor, "reject payments"); err != nil {
		return nil, err
	}
	payment, err := s.find(ctx, actor, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentPending {
		return nil, fmt.Errorf("%w: payment %s is %s, only pending payments can be rejected", apperrors.ErrConflict, paymentID, payment.Status)
	}
	now := s.now()

	if !payment.IsStandalone() {
		if err := s.resolveLinkedInvoice(ctx, actor, payment, false, now); err != nil {
			return nil, err
		}
		return payment, nil
	}

	if err := s.paymentRepo.RejectPayment(ctx, paymentID, actor.MemberID, now); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to reject payment", slog.String("payment_id", paymentID))
		}
		return nil, fmt.Errorf("failed to reject payment %s: %w", paymentID, err)
	}
	s.recordTransition(entityPayment, string(domain.PaymentPending), string(domain.PaymentRejected))

	approver := actor.MemberID
	payment.Status = domain.PaymentRejected
	payment.ApprovedBy = &approver
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = actor.MemberID
	return payment, nil
}

// resolveLinkedInvoice routes a decision on an invoice payment through the invoice workflow.
func (s *paymentService) resolveLinkedInvoice(ctx context.Context, actor domain.Actor, payment *domain.Payment, approve bool, now time.Time) error {
	resolution := domain.InvoiceResolution{
		InvoiceID: *payment.InvoiceID,
		PaymentID: payment.PaymentID,
		Approve:   approve,
		ActorID:   actor.MemberID,
		At:        now,
	}
	if err := s.invoiceRepo.ResolveInvoicePayment(ctx, resolution); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to resolve invoice payment", slog.String("payment_id", payment.PaymentID))
		}
		return fmt.Errorf("failed to resolve payment %s: %w", payment.PaymentID, err)
	}
	s.recordTransition(entityPayment, string(domain.PaymentPending), string(resolution.PaymentStatus()))
	s.recordTransition(entityInvoice, string(domain.InvoiceAwaitingApproval), string(resolution.NextStatus()))

	approver := actor.MemberID
	payment.Status = resolution.PaymentStatus()
	payment.ApprovedBy = &approver
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = actor.MemberID
	return nil
}
