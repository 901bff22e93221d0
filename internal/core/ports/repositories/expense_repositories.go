package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// ExpenseFilter narrows an expense listing. Zero values mean "any".
type ExpenseFilter struct {
	HouseholdID string
	CreatedBy   string
	Status      domain.ExpenseStatus
	Limit       int
	Offset      int
}

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense, with its splits, scoped to a household.
	FindExpenseByID(ctx context.Context, householdID, expenseID string) (*domain.Expense, error)

	// ListExpenses returns a page of expenses newest first, plus the total matching count.
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, int, error)

	// ListAllExpensesByHousehold returns every expense with splits, for balance aggregation.
	ListAllExpensesByHousehold(ctx context.Context, householdID string) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data.
// Every method is atomic and status changes are conditional on the expected current status.
type ExpenseWriter interface {
	// SaveExpense persists an expense with its splits and any invoices born with it.
	SaveExpense(ctx context.Context, expense domain.Expense, invoices []domain.Invoice) error

	// UpdateExpense rewrites content and splits if the stored status still equals expectedStatus.
	// A status mismatch yields ErrConflict.
	UpdateExpense(ctx context.Context, expense domain.Expense, expectedStatus domain.ExpenseStatus) error

	// TransitionExpense moves the expense From -> To and inserts the transition's invoices.
	// A status mismatch yields ErrConflict and nothing is written.
	TransitionExpense(ctx context.Context, transition domain.ExpenseTransition) error

	// DeleteExpense removes the expense and all its invoices, rejecting the pending
	// payments those invoices spawned.
	DeleteExpense(ctx context.Context, householdID, expenseID, actorID string, at time.Time) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// ExpenseRepositoryWithTx extends ExpenseRepositoryFacade with transaction capabilities
type ExpenseRepositoryWithTx interface {
	ExpenseRepositoryFacade
	TransactionManager
}
