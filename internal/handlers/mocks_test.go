package handlers_test

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExpenseService ---
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) GetExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, actor, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) ListExpenses(ctx context.Context, actor domain.Actor, params dto.ListExpensesParams) ([]domain.Expense, int, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.Int(1), args.Error(2)
}

func (m *MockExpenseService) CreateExpense(ctx context.Context, actor domain.Actor, req dto.CreateExpenseRequest) (*domain.Expense, []domain.Invoice, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	invoices, _ := args.Get(1).([]domain.Invoice)
	return args.Get(0).(*domain.Expense), invoices, args.Error(2)
}

func (m *MockExpenseService) ApproveExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, []domain.Invoice, error) {
	args := m.Called(ctx, actor, expenseID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	invoices, _ := args.Get(1).([]domain.Invoice)
	return args.Get(0).(*domain.Expense), invoices, args.Error(2)
}

func (m *MockExpenseService) RejectExpense(ctx context.Context, actor domain.Actor, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, actor, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) UpdateExpense(ctx context.Context, actor domain.Actor, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, actor, expenseID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) DeleteExpense(ctx context.Context, actor domain.Actor, expenseID string) error {
	args := m.Called(ctx, actor, expenseID)
	return args.Error(0)
}

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) ListMyInvoices(ctx context.Context, actor domain.Actor, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListAllInvoices(ctx context.Context, actor domain.Actor, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, actor domain.Actor, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, actor, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) PayInvoice(ctx context.Context, actor domain.Actor, invoiceID string, req dto.PayInvoiceRequest) (*domain.Invoice, *domain.Payment, error) {
	args := m.Called(ctx, actor, invoiceID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), args.Get(1).(*domain.Payment), args.Error(2)
}

func (m *MockInvoiceService) ApproveInvoicePayment(ctx context.Context, actor domain.Actor, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, actor, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) RejectInvoicePayment(ctx context.Context, actor domain.Actor, invoiceID string, reason string) (*domain.Invoice, error) {
	args := m.Called(ctx, actor, invoiceID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) GetPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, actor, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, actor domain.Actor, params dto.ListPaymentsParams) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Payment), next, args.Error(2)
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, actor domain.Actor, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) UpdatePayment(ctx context.Context, actor domain.Actor, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, actor, paymentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, actor domain.Actor, paymentID string) error {
	args := m.Called(ctx, actor, paymentID)
	return args.Error(0)
}

func (m *MockPaymentService) ApprovePayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, *domain.Expense, error) {
	args := m.Called(ctx, actor, paymentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	expense, _ := args.Get(1).(*domain.Expense)
	return args.Get(0).(*domain.Payment), expense, args.Error(2)
}

func (m *MockPaymentService) RejectPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, actor, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetBalances(ctx context.Context, actor domain.Actor) ([]domain.MemberBalance, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberBalance), args.Error(1)
}

func (m *MockBalanceService) GetUserStats(ctx context.Context, actor domain.Actor, memberID string) (*domain.UserStats, error) {
	args := m.Called(ctx, actor, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockBalanceService) GetAdminDashboard(ctx context.Context, actor domain.Actor) (*domain.AdminDashboard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminDashboard), args.Error(1)
}

// --- Mock MemberService ---
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) ListMembers(ctx context.Context, actor domain.Actor) ([]domain.Member, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberService) ProvisionAdmin(ctx context.Context, req dto.ProvisionAdminRequest) (*domain.Member, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Member), args.Bool(1), args.Error(2)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)
	_ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)
	_ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)
	_ portssvc.BalanceSvc       = (*MockBalanceService)(nil)
	_ portssvc.MemberSvcFacade  = (*MockMemberService)(nil)
)
