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
	"github.com/SscSPs/household_ledger/internal/utils/accounting"
	"github.com/SscSPs/household_ledger/internal/utils/pagination"
)

const entityExpense = "expense"

// expenseService implements the expense lifecycle.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	memberRepo  portsrepo.MemberReader
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, memberRepo portsrepo.MemberReader, options ...ServiceOption) portssvc.ExpenseSvcFacade {
	return &expenseService{
		BaseService: newBaseService(options...),
		expenseRepo: expenseRepo,
		memberRepo:  memberRepo,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// resolveSplits runs the calculator against the household's active members and validates the result.
// Every referenced member must be an active member of the actor's household.
func (s *expenseService) resolveSplits(ctx context.Context, householdID string, in accounting.SplitInput) ([]domain.Split, map[string]domain.Member, error) {
	members, err := s.memberRepo.ListMembersByHousehold(ctx, householdID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list household members: %w", err)
	}
	active := activeMemberSet(members)
	in.ActiveMembers = domain.ActiveMemberIDs(members)

	for _, id := range in.Participants {
		if _, ok := active[id]; !ok {
			return nil, nil, fmt.Errorf("%w: member %s is not an active member of this household", apperrors.ErrValidation, id)
		}
	}
	for _, sp := range in.Custom {
		if _, ok := active[sp.MemberID]; !ok {
			return nil, nil, fmt.Errorf("%w: member %s is not an active member of this household", apperrors.ErrValidation, sp.MemberID)
		}
	}

	splits, err := accounting.CalculateSplits(in)
	if err != nil {
		return nil, nil, err
	}
	if err := accounting.ValidateSplits(in.Total, splits); err != nil {
		return nil, nil, err
	}
	return splits, active, nil
}

func toDomainSplits(reqs []dto.SplitRequest) []domain.Split {
	if reqs == nil {
		return nil
	}
	splits := make([]domain.Split, len(reqs))
	for i, r := range reqs {
		splits[i] = domain.Split{MemberID: r.MemberID, Amount: r.Amount}
	}
	return splits
}

// CreateExpense splits and persists a new expense.
func (s *expenseService) CreateExpense(ctx context.Context, actor domain.Actor, req dto.CreateExpenseRequest) (*domain.Expense, []domain.Invoice, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if !req.SplitKind.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown split kind '%s'", apperrors.ErrValidation, req.SplitKind)
	}

	splits, active, err := s.resolveSplits(ctx, actor.HouseholdID, accounting.SplitInput{
		Total:        req.TotalAmount,
		Kind:         req.SplitKind,
		Participants: req.Participants,
		Custom:       toDomainSplits(req.Splits),
	})
	if err != nil {
		s.LogDebug(ctx, "Expense split rejected", slog.String("error", err.Error()))
		return nil, nil, err
	}

	paidBy := actor.MemberID
	if req.PaidBy != nil && *req.PaidBy != "" && *req.PaidBy != actor.MemberID {
		if !actor.IsAdmin() {
			return nil, nil, fmt.Errorf("%w: only an admin may record an expense paid by someone else", apperrors.ErrForbidden)
		}
		if _, ok := active[*req.PaidBy]; !ok {
			return nil, nil, fmt.Errorf("%w: payer %s is not an active member of this household", apperrors.ErrValidation, *req.PaidBy)
		}
		paidBy = *req.PaidBy
	}

	now := s.now()
	expenseDate := now
	if req.ExpenseDate != nil {
		expenseDate = req.ExpenseDate.UTC()
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = s.defaultCategory
	}

	expense := domain.Expense{
		ExpenseID:   s.newID(),
		HouseholdID: actor.HouseholdID,
		Description: description,
		Category:    category,
		TotalAmount: req.TotalAmount,
		SplitKind:   req.SplitKind,
		Splits:      splits,
		PaidBy:      paidBy,
		Status:      domain.ExpensePending,
		ExpenseDate: expenseDate,
		AuditFields: domain.NewAuditFields(actor.MemberID, now),
	}

	// Admin-created expenses skip the approval queue and settle into invoices immediately.
	var invoices []domain.Invoice
	if actor.IsAdmin() {
		approver := actor.MemberID
		expense.Status = domain.ExpenseApproved
		expense.ApprovedBy = &approver
		invoices = expense.BuildInvoices(actor.MemberID, s.newID, now, s.invoiceDueDate(now))
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense, invoices); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("household_id", actor.HouseholdID))
		return nil, nil, fmt.Errorf("failed to save expense: %w", err)
	}
	s.recordTransition(entityExpense, "new", string(expense.Status))

	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("status", string(expense.Status)),
		slog.Int("invoices", len(invoices)))
	return &expense, invoices, nil
}

// GetExpense retrieves an expense in the actor's household.
func (s *expenseService) GetExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, actor.HouseholdID, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find expense", slog.String("expense_id", expenseID))
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// ListExpenses retrieves a page of the household's expenses.
func (s *expenseService) ListExpenses(ctx context.Context, actor domain.Actor, params dto.ListExpensesParams) ([]domain.Expense, int, error) {
	filter := portsrepo.ExpenseFilter{
		HouseholdID: actor.HouseholdID,
		CreatedBy:   params.CreatedBy,
		Limit:       pagination.NormalizeLimit(params.Limit),
		Offset:      pagination.Offset(params.Page, params.Limit),
	}
	if params.Status != "" {
		status := domain.ExpenseStatus(params.Status)
		if !status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown expense status '%s'", apperrors.ErrValidation, params.Status)
		}
		filter.Status = status
	}

	expenses, total, err := s.expenseRepo.ListExpenses(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("household_id", actor.HouseholdID))
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, total, nil
}

// transition applies a pending -> to change with the given invoices.
func (s *expenseService) transition(ctx context.Context, actor domain.Actor, expenseID string, to domain.ExpenseStatus) (*domain.Expense, []domain.Invoice, error) {
	expense, err := s.GetExpense(ctx, actor, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if !expense.Status.CanTransitionTo(to) {
		return nil, nil, fmt.Errorf("%w: expense %s is %s, only pending expenses can become %s",
			apperrors.ErrConflict, expenseID, expense.Status, to)
	}

	now := s.now()
	from := expense.Status
	expense.Status = to
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actor.MemberID
	approver := actor.MemberID
	expense.ApprovedBy = &approver

	var invoices []domain.Invoice
	if to == domain.ExpenseApproved {
		invoices = expense.BuildInvoices(actor.MemberID, s.newID, now, s.invoiceDueDate(now))
	}

	err = s.expenseRepo.TransitionExpense(ctx, domain.ExpenseTransition{
		ExpenseID:   expense.ExpenseID,
		HouseholdID: expense.HouseholdID,
		From:        from,
		To:          to,
		ActorID:     actor.MemberID,
		At:          now,
		Invoices:    invoices,
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to transition expense", slog.String("expense_id", expenseID), slog.String("to", string(to)))
		}
		return nil, nil, fmt.Errorf("failed to move expense %s to %s: %w", expenseID, to, err)
	}
	s.recordTransition(entityExpense, string(from), string(to))

	s.LogInfo(ctx, "Expense transitioned",
		slog.String("expense_id", expenseID),
		slog.String("from", string(from)),
		slog.String("to", string(to)))
	return expense, invoices, nil
}

// ApproveExpense moves a pending expense to approved and generates one invoice per split.
func (s *expenseService) ApproveExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, []domain.Invoice, error) {
	if err := s.requireAdmin(ctx, actor, "approve expenses"); err != nil {
		return nil, nil, err
	}
	return s.transition(ctx, actor, expenseID, domain.ExpenseApproved)
}

// RejectExpense moves a pending expense to rejected.
func (s *expenseService) RejectExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, error) {
	if err := s.requireAdmin(ctx, actor, "reject expenses"); err != nil {
		return nil, err
	}
	expense, _, err := s.transition(ctx, actor, expenseID, domain.ExpenseRejected)
	return expense, err
}

// UpdateExpense edits an expense. Content may change in any status; the amount and
// its division only while pending, since approved expenses already have invoices.
func (s *expenseService) UpdateExpense(ctx context.Context, actor domain.Actor, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	if err := s.requireAdmin(ctx, actor, "update expenses"); err != nil {
		return nil, err
	}
	expense, err := s.GetExpense(ctx, actor, expenseID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: description must not be empty", apperrors.ErrValidation)
		}
		expense.Description = description
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			category = s.defaultCategory
		}
		expense.Category = category
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = req.ExpenseDate.UTC()
	}

	if req.ChangesSplits() {
		if expense.Status != domain.ExpensePending {
			return nil, fmt.Errorf("%w: amounts of a %s expense cannot change", apperrors.ErrConflict, expense.Status)
		}
		in := accounting.SplitInput{Total: expense.TotalAmount, Kind: expense.SplitKind}
		if req.TotalAmount != nil {
			in.Total = *req.TotalAmount
		}
		if req.SplitKind != nil {
			if !req.SplitKind.IsValid() {
				return nil, fmt.Errorf("%w: unknown split kind '%s'", apperrors.ErrValidation, *req.SplitKind)
			}
			in.Kind = *req.SplitKind
		}
		switch in.Kind {
		case domain.SplitSpecific:
			in.Participants = req.Participants
			if in.Participants == nil {
				for _, sp := range expense.Splits {
					in.Participants = append(in.Participants, sp.MemberID)
				}
			}
		case domain.SplitCustom:
			in.Custom = toDomainSplits(req.Splits)
			if in.Custom == nil {
				in.Custom = expense.Splits
			}
		}

		splits, _, err := s.resolveSplits(ctx, actor.HouseholdID, in)
		if err != nil {
			return nil, err
		}
		expense.TotalAmount = in.Total
		expense.SplitKind = in.Kind
		expense.Splits = splits
	}

	expense.LastUpdatedAt = s.now()
	expense.LastUpdatedBy = actor.MemberID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense, expense.Status); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		}
		return nil, fmt.Errorf("failed to update expense %s: %w", expenseID, err)
	}
	s.LogInfo(ctx, "Expense updated", slog.String("expense_id", expenseID))
	return expense, nil
}

// DeleteExpense removes an expense and its invoices regardless of status.
func (s *expenseService) DeleteExpense(ctx context.Context, actor domain.Actor, expenseID string) error {
	if err := s.requireAdmin(ctx, actor, "delete expenses"); err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteExpense(ctx, actor.HouseholdID, expenseID, actor.MemberID, s.now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		}
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	s.LogInfo(ctx, "Expense deleted", slog.String("expense_id", expenseID))
	return nil
}
