package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/core/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	invoiceRepo *MockInvoiceRepository
	recorder    *fakeRecorder
	service     portssvc.InvoiceSvcFacade
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.invoiceRepo = new(MockInvoiceRepository)
	suite.recorder = &fakeRecorder{}
	suite.service = services.NewInvoiceService(suite.invoiceRepo,
		services.WithClock(fixedClock),
		services.WithIDGenerator(sequentialIDs()),
		services.WithTransitionRecorder(suite.recorder),
	)
}

func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.invoiceRepo.AssertExpectations(suite.T())
}

func bobInvoice(status domain.InvoiceStatus) *domain.Invoice {
	inv := &domain.Invoice{
		InvoiceID:   "inv-1",
		HouseholdID: householdID,
		MemberID:    "bob",
		ExpenseID:   "exp-1",
		Amount:      decimal.RequireFromString("33.33"),
		Description: "Groceries",
		Status:      status,
	}
	if status == domain.InvoiceAwaitingApproval {
		inv.PaymentRequestID = strPtr("pay-1")
	}
	return inv
}

func (suite *InvoiceServiceTestSuite) TestPayInvoice_OwnerSubmitsPayment() {
	suite.invoiceRepo.On("FindInvoiceByID", suite.ctx, householdID, "inv-1").Return(bobInvoice(domain.InvoicePending), nil).Once()

	var submitted domain.Payment
	suite.invoiceRepo.On("RequestInvoicePayment", suite.ctx, "inv-1", mock.AnythingOfType("domain.Payment")).
		Run(func(args mock.Arguments) { submitted = args.Get(2).(domain.Payment) }).
		Return(nil).Once()

	invoice, payment, err := suite.service.PayInvoice(suite.ctx, bobActor, "inv-1", dto.PayInvoiceRequest{Note: "bank transfer"})

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceAwaitingApproval, invoice.Status)
	suite.Require().NotNil(invoice.PaymentRequestID)
	suite.Equal(payment.PaymentID, *invoice.PaymentRequestID)

	suite.Equal(submitted, *payment)
	suite.Equal("id-1", payment.PaymentID)
	suite.Equal("bob", payment.MemberID)
	suite.Equal(domain.PaymentPending, payment.Status)
	suite.Equal(domain.KindPayment, payment.Kind)
	suite.True(payment.Amount.Equal(decimal.RequireFromString("33.33")))
	suite.Equal("Payment for: Groceries (bank transfer)", payment.Description)
	suite.Require().NotNil(payment.InvoiceID)
	suite.Equal("inv-1", *payment.InvoiceID)
	suite.Equal([]string{"invoice:pending->awaiting_approval", "payment:new->pending"}, suite.recorder.seen)
}

func (suite *InvoiceServiceTestSuite) TestPayInvoice_NonOwnerForbidden() {
	suite.invoiceRepo.On("FindInvoiceByID", suite.ctx, householdID, "inv-1").Return(bobInvoice(domain.InvoicePending), nil).Once()

	_, _, err := suite.service.PayInvoice(suite.ctx, carolActor, "inv-1", dto.PayInvoiceRequest{})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "RequestInvoicePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestPayInvoice_AdminCannotPayForOthers() {
	suite.invoiceRepo.On("FindInvoiceByID", suite.ctx, householdID, "inv-1").Return(bobInvoice(domain.InvoicePending), nil).Once()

	_, _, err := suite.service.PayInvoice(suite.ctx, adminActor, "inv-1", dto.PayInvoiceRequest{})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *InvoiceServiceTestSuite) TestPayInvoice_OnlyPendingInvoices() {
	for _, status := range []domain.InvoiceStatus{domain.InvoiceAwaitingApproval, domain.InvoicePaid} {
		suite.invoiceRepo.On("FindInvoiceByID", suite.ctx, householdID, "inv-1").Return(bobInvoice(status), nil).Once()

		_, _, err := suite.service.PayInvoice(suite.ctx, bobActor, "inv-1", dto.PayInvoiceRequest{})

		suite.ErrorIs(err, apperrors.ErrConflict, "status %s", status)
	}
}

func (suite *InvoiceServiceTestSuite) TestApproveInvoicePayment() {
	suite.invoiceRepo.On("FindInvoiceByID", suite.ctx, householdID, "inv-1").Return(bobInvoice(domain.InvoiceAwaitingApproval), nil).Once()
	suite.invoiceRepo.On("ResolveInvoicePayment", suite.ctx, domain.InvoiceResolution{
		InvoiceID: "inv-1",
		PaymentID: "pay-1",
		Approve:   true,
		ActorID:   "alice",
		At:        fixedNow,
	}).Return(nil).Once()

	invoice, err := suite.service.ApproveInvoicePayment(suite.ctx, adminActor, "inv-1")

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, invoice.Status)
	suite.Equal([]string{"invoice:awaiting_approval->paid", "payment:pending->approved"}, suite.recorder.seen)
}

func (suite *InvoiceServiceTestSuite) TestRejectInvoicePayment_ReturnsToPending() {
	suite.invoiceRepo.On("FindInvoiceByID", suite.ctx, householdID, "inv-1").Return(bobInvoice(domain.InvoiceAwaitingApproval), nil).Once()
	suite.invoiceRepo.On("ResolveInvoicePayment", suite.ctx, mock.MatchedBy(func(r domain.InvoiceResolution) bool {
		return !r.Approve && r.Reason == "wrong amount" && r.PaymentID == "pay-1"
	})).Return(nil).Once()

	invoice, err := suite.service.RejectInvoicePayment(suite.ctx, adminActor, "inv-1", "  wrong amount ")

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePending, invoice.Status)
	suite.Nil(invoice.PaymentRequestID)
}

func (suite *InvoiceServiceTestSuite) TestResolve_RequiresAwaitingApproval() {
	suite.invoiceRepo.On("FindInvoiceByID", suite.ctx, householdID, "inv-1").Return(bobInvoice(domain.InvoicePending), nil).Once()

	_, err := suite.service.ApproveInvoicePayment(suite.ctx, adminActor, "inv-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *InvoiceServiceTestSuite) TestResolve_RequiresAdmin() {
	_, err := suite.service.ApproveInvoicePayment(suite.ctx, bobActor, "inv-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.RejectInvoicePayment(suite.ctx, bobActor, "inv-1", "")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *InvoiceServiceTestSuite) TestListMyInvoices_ScopedToActor() {
	suite.invoiceRepo.On("ListInvoices", suite.ctx, portsrepo.InvoiceFilter{
		HouseholdID: householdID,
		MemberID:    "bob",
		Status:      domain.InvoicePending,
	}).Return([]domain.Invoice{*bobInvoice(domain.InvoicePending)}, nil).Once()

	// a member filter from a non-admin is ignored
	invoices, err := suite.service.ListMyInvoices(suite.ctx, bobActor, dto.ListInvoicesParams{Status: "pending", MemberID: "carol"})

	suite.Require().NoError(err)
	suite.Len(invoices, 1)
}

func (suite *InvoiceServiceTestSuite) TestListInvoices_InvalidStatus() {
	_, err := suite.service.ListMyInvoices(suite.ctx, bobActor, dto.ListInvoicesParams{Status: "overdue"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestListAllInvoices() {
	_, err := suite.service.ListAllInvoices(suite.ctx, bobActor, dto.ListInvoicesParams{})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.invoiceRepo.On("ListInvoices", suite.ctx, portsrepo.InvoiceFilter{HouseholdID: householdID, MemberID: "carol"}).
		Return([]domain.Invoice{}, nil).Once()

	invoices, err := suite.service.ListAllInvoices(suite.ctx, adminActor, dto.ListInvoicesParams{MemberID: "carol"})
	suite.Require().NoError(err)
	suite.Empty(invoices)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoice_OwnerOrAdmin() {
	suite.invoiceRepo.On("FindInvoiceByID", suite.ctx, householdID, "inv-1").Return(bobInvoice(domain.InvoicePending), nil).Times(3)

	_, err := suite.service.GetInvoice(suite.ctx, bobActor, "inv-1")
	suite.NoError(err)
	_, err = suite.service.GetInvoice(suite.ctx, adminActor, "inv-1")
	suite.NoError(err)
	_, err = suite.service.GetInvoice(suite.ctx, carolActor, "inv-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
