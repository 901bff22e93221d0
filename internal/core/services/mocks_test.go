package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Member repository ---

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembersByHousehold(ctx context.Context, householdID string, activeOnly bool) ([]domain.Member, error) {
	args := m.Called(ctx, householdID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindHouseholdByName(ctx context.Context, name string) (*domain.Household, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockMemberRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	return m.Called(ctx, household).Error(0)
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	return m.Called(ctx, member).Error(0)
}

// --- Expense repository ---

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, householdID, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, householdID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseFilter) ([]domain.Expense, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.Int(1), args.Error(2)
}

func (m *MockExpenseRepository) ListAllExpensesByHousehold(ctx context.Context, householdID string) ([]domain.Expense, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense, invoices []domain.Invoice) error {
	return m.Called(ctx, expense, invoices).Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense, expectedStatus domain.ExpenseStatus) error {
	return m.Called(ctx, expense, expectedStatus).Error(0)
}

func (m *MockExpenseRepository) TransitionExpense(ctx context.Context, transition domain.ExpenseTransition) error {
	return m.Called(ctx, transition).Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, householdID, expenseID, actorID string, at time.Time) error {
	return m.Called(ctx, householdID, expenseID, actorID, at).Error(0)
}

// --- Invoice repository ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, householdID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, householdID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) RequestInvoicePayment(ctx context.Context, invoiceID string, payment domain.Payment) error {
	return m.Called(ctx, invoiceID, payment).Error(0)
}

func (m *MockInvoiceRepository) ResolveInvoicePayment(ctx context.Context, resolution domain.InvoiceResolution) error {
	return m.Called(ctx, resolution).Error(0)
}

// --- Payment repository ---

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, householdID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, householdID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, filter portsrepo.PaymentFilter) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Payment), next, args.Error(2)
}

func (m *MockPaymentRepository) ListApprovedPaymentsByHousehold(ctx context.Context, householdID string) ([]domain.Payment, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) UpdatePendingPayment(ctx context.Context, payment domain.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, householdID, paymentID string, pendingOnly bool, actorID string, at time.Time) error {
	return m.Called(ctx, householdID, paymentID, pendingOnly, actorID, at).Error(0)
}

func (m *MockPaymentRepository) ApprovePayment(ctx context.Context, approval domain.PaymentApproval) error {
	return m.Called(ctx, approval).Error(0)
}

func (m *MockPaymentRepository) RejectPayment(ctx context.Context, paymentID, actorID string, at time.Time) error {
	return m.Called(ctx, paymentID, actorID, at).Error(0)
}

// --- Helpers ---

// fakeRecorder captures lifecycle transitions as "entity:from->to".
type fakeRecorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *fakeRecorder) Transition(entity, from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, fmt.Sprintf("%s:%s->%s", entity, from, to))
}

// sequentialIDs returns an id generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

const householdID = "household-1"

var (
	adminActor = domain.Actor{MemberID: "alice", HouseholdID: householdID, Role: domain.RoleAdmin}
	bobActor   = domain.Actor{MemberID: "bob", HouseholdID: householdID, Role: domain.RoleMember}
	carolActor = domain.Actor{MemberID: "carol", HouseholdID: householdID, Role: domain.RoleMember}
	activeTrio = []domain.Member{
		{MemberID: "alice", HouseholdID: householdID, Name: "Alice", Role: domain.RoleAdmin, IsActive: true},
		{MemberID: "bob", HouseholdID: householdID, Name: "Bob", Role: domain.RoleMember, IsActive: true},
		{MemberID: "carol", HouseholdID: householdID, Name: "Carol", Role: domain.RoleMember, IsActive: true},
	}
)

func strPtr(s string) *string { return &s }
