package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data
type ExpenseReaderSvc interface {
	// GetExpense retrieves an expense in the actor's household.
	GetExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves a page of the household's expenses and the total count.
	ListExpenses(ctx context.Context, actor domain.Actor, params dto.ListExpensesParams) ([]domain.Expense, int, error)
}

// ExpenseWriterSvc defines the expense lifecycle operations
type ExpenseWriterSvc interface {
	// CreateExpense splits and persists a new expense. Admin-created expenses are born approved with invoices.
	CreateExpense(ctx context.Context, actor domain.Actor, req dto.CreateExpenseRequest) (*domain.Expense, []domain.Invoice, error)

	// ApproveExpense moves a pending expense to approved and generates its invoices.
	ApproveExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, []domain.Invoice, error)

	// RejectExpense moves a pending expense to rejected.
	RejectExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, error)

	// UpdateExpense edits an expense, recomputing its splits when the amount or division changes.
	UpdateExpense(ctx context.Context, actor domain.Actor, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error)

	// DeleteExpense removes an expense and cascades to its invoices.
	DeleteExpense(ctx context.Context, actor domain.Actor, expenseID string) error
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
