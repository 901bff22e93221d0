package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/utils/accounting"
)

// balanceService derives balances from the current expense and payment sets on every call.
type balanceService struct {
	BaseService
	memberRepo  portsrepo.MemberReader
	expenseRepo portsrepo.ExpenseReader
	paymentRepo portsrepo.PaymentReader
	invoiceRepo portsrepo.InvoiceReader
}

// NewBalanceService creates a new balance service.
func NewBalanceService(memberRepo portsrepo.MemberReader, expenseRepo portsrepo.ExpenseReader, paymentRepo portsrepo.PaymentReader, invoiceRepo portsrepo.InvoiceReader, options ...ServiceOption) portssvc.BalanceSvc {
	return &balanceService{
		BaseService: newBaseService(options...),
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// snapshot loads the inputs of every balance computation.
func (s *balanceService) snapshot(ctx context.Context, householdID string) ([]domain.Member, []domain.Expense, []domain.Payment, error) {
	members, err := s.memberRepo.ListMembersByHousehold(ctx, householdID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list members for balances", slog.String("household_id", householdID))
		return nil, nil, nil, fmt.Errorf("failed to list members: %w", err)
	}
	expenses, err := s.expenseRepo.ListAllExpensesByHousehold(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses for balances", slog.String("household_id", householdID))
		return nil, nil, nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	payments, err := s.paymentRepo.ListApprovedPaymentsByHousehold(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments for balances", slog.String("household_id", householdID))
		return nil, nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return members, expenses, payments, nil
}

// GetBalances returns every active member's balance.
func (s *balanceService) GetBalances(ctx context.Context, actor domain.Actor) ([]domain.MemberBalance, error) {
	members, expenses, payments, err := s.snapshot(ctx, actor.HouseholdID)
	if err != nil {
		return nil, err
	}
	return accounting.AggregateBalances(members, expenses, payments), nil
}

// GetUserStats returns one member's position. Members may only look at themselves.
func (s *balanceService) GetUserStats(ctx context.Context, actor domain.Actor, memberID string) (*domain.UserStats, error) {
	if !actor.IsAdmin() && memberID != actor.MemberID {
		return nil, fmt.Errorf("%w: members may only view their own statistics", apperrors.ErrForbidden)
	}
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find member", slog.String("member_id", memberID))
		}
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}
	if member.HouseholdID != actor.HouseholdID {
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, apperrors.ErrNotFound)
	}

	_, expenses, payments, err := s.snapshot(ctx, actor.HouseholdID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListInvoices(ctx, portsrepo.InvoiceFilter{HouseholdID: actor.HouseholdID, MemberID: memberID})
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices for stats", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	byStatus := map[domain.InvoiceStatus]int{
		domain.InvoicePending:          0,
		domain.InvoiceAwaitingApproval: 0,
		domain.InvoicePaid:             0,
	}
	for _, inv := range invoices {
		byStatus[inv.Status]++
	}

	return &domain.UserStats{
		MemberBalance:    accounting.MemberBalanceOf(*member, expenses, payments),
		Categories:       accounting.MemberCategoryTotals(memberID, expenses),
		InvoicesByStatus: byStatus,
	}, nil
}

// GetAdminDashboard returns household-wide totals.
func (s *balanceService) GetAdminDashboard(ctx context.Context, actor domain.Actor) (*domain.AdminDashboard, error) {
	if err := s.requireAdmin(ctx, actor, "view the dashboard"); err != nil {
		return nil, err
	}
	members, expenses, payments, err := s.snapshot(ctx, actor.HouseholdID)
	if err != nil {
		return nil, err
	}
	dash := accounting.BuildAdminDashboard(members, expenses, payments)
	return &dash, nil
}
