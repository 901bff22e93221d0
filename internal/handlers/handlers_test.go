package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/handlers"
	"github.com/SscSPs/household_ledger/internal/platform/config"
	"github.com/SscSPs/household_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "household-ledger-test"
)

var (
	admin  = domain.Actor{MemberID: "alice", HouseholdID: "household-1", Role: domain.RoleAdmin}
	member = domain.Actor{MemberID: "bob", HouseholdID: "household-1", Role: domain.RoleMember}
)

type HandlersTestSuite struct {
	suite.Suite
	router   *gin.Engine
	expenses *MockExpenseService
	invoices *MockInvoiceService
	payments *MockPaymentService
	balances *MockBalanceService
	members  *MockMemberService
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func TestRegisterRoutes_InvalidRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: testSecret, JWTIssuer: testIssuer, IsProduction: true, RateLimit: "lots"}

	err := handlers.RegisterRoutes(gin.New(), cfg, &portssvc.ServiceContainer{})

	assert.ErrorContains(t, err, "lots")
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.expenses = new(MockExpenseService)
	suite.invoices = new(MockInvoiceService)
	suite.payments = new(MockPaymentService)
	suite.balances = new(MockBalanceService)
	suite.members = new(MockMemberService)

	cfg := &config.Config{JWTSecret: testSecret, JWTIssuer: testIssuer, IsProduction: true}
	suite.router = gin.New()
	err := handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Member:  suite.members,
		Expense: suite.expenses,
		Invoice: suite.invoices,
		Payment: suite.payments,
		Balance: suite.balances,
	})
	suite.Require().NoError(err)
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.expenses.AssertExpectations(suite.T())
	suite.invoices.AssertExpectations(suite.T())
	suite.payments.AssertExpectations(suite.T())
	suite.balances.AssertExpectations(suite.T())
	suite.members.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) token(actor domain.Actor) string {
	token, err := utils.GenerateJWT(actor, testSecret, time.Hour, testIssuer)
	suite.Require().NoError(err)
	return token
}

func (suite *HandlersTestSuite) do(actor *domain.Actor, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+suite.token(*actor))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func sampleExpense(status domain.ExpenseStatus) *domain.Expense {
	return &domain.Expense{
		ExpenseID:   "exp-1",
		HouseholdID: "household-1",
		Description: "Groceries",
		Category:    "food",
		TotalAmount: decimal.RequireFromString("30.00"),
		SplitKind:   domain.SplitEqual,
		Splits: []domain.Split{
			{MemberID: "alice", Amount: decimal.RequireFromString("15.00")},
			{MemberID: "bob", Amount: decimal.RequireFromString("15.00")},
		},
		PaidBy: "alice",
		Status: status,
	}
}

func (suite *HandlersTestSuite) TestHealth_IsPublic() {
	w := suite.do(nil, http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestAPI_RequiresToken() {
	w := suite.do(nil, http.MethodGet, "/api/v1/expenses", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestCreateExpense_Member() {
	expense := sampleExpense(domain.ExpensePending)
	suite.expenses.On("CreateExpense", mock.Anything, member, mock.MatchedBy(func(req dto.CreateExpenseRequest) bool {
		return req.Description == "Groceries" && req.TotalAmount.Equal(decimal.RequireFromString("30")) && req.SplitKind == domain.SplitEqual
	})).Return(expense, nil, nil).Once()

	w := suite.do(&member, http.MethodPost, "/api/v1/expenses", map[string]any{
		"description": "Groceries",
		"category":    "food",
		"totalAmount": "30.00",
		"splitKind":   "equal",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ApproveExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("exp-1", resp.Expense.ExpenseID)
	suite.Equal("pending", resp.Expense.Status)
	suite.Empty(resp.Invoices)
}

func (suite *HandlersTestSuite) TestCreateExpense_RejectsBadAmounts() {
	for _, amount := range []string{`"-1"`, `"10.005"`, `"abc"`} {
		body := fmt.Sprintf(`{"description":"Rent","totalAmount":%s,"splitKind":"equal"}`, amount)
		w := suite.do(&member, http.MethodPost, "/api/v1/expenses", body)
		suite.Equal(http.StatusBadRequest, w.Code, "amount %s", amount)
	}
	suite.expenses.AssertNotCalled(suite.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCreateExpense_UnknownSplitKind() {
	w := suite.do(&member, http.MethodPost, "/api/v1/expenses", `{"description":"Rent","totalAmount":"10","splitKind":"weighted"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateExpense_ServiceValidationError() {
	suite.expenses.On("CreateExpense", mock.Anything, member, mock.Anything).
		Return(nil, nil, fmt.Errorf("%w: member carol is not an active member of this household", apperrors.ErrValidation)).Once()

	w := suite.do(&member, http.MethodPost, "/api/v1/expenses", `{"description":"Rent","totalAmount":"10","splitKind":"specific","participants":["carol"]}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorBody(w), "carol")
}

func (suite *HandlersTestSuite) TestListExpenses_BindsQuery() {
	params := dto.ListExpensesParams{Page: 2, Limit: 5, Status: "approved"}
	suite.expenses.On("ListExpenses", mock.Anything, member, params).
		Return([]domain.Expense{*sampleExpense(domain.ExpenseApproved)}, 6, nil).Once()

	w := suite.do(&member, http.MethodGet, "/api/v1/expenses?page=2&limit=5&status=approved", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Page)
	suite.Equal(5, resp.Limit)
	suite.Equal(6, resp.Total)
	suite.Len(resp.Expenses, 1)
}

func (suite *HandlersTestSuite) TestListExpenses_InvalidStatus() {
	w := suite.do(&member, http.MethodGet, "/api/v1/expenses?status=archived", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestApproveExpense_RequiresAdmin() {
	w := suite.do(&member, http.MethodPut, "/api/v1/expenses/exp-1/approve", nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.expenses.AssertNotCalled(suite.T(), "ApproveExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestApproveExpense_ReturnsInvoices() {
	expense := sampleExpense(domain.ExpenseApproved)
	invoices := []domain.Invoice{{InvoiceID: "inv-1", MemberID: "bob", ExpenseID: "exp-1", Amount: decimal.RequireFromString("15.00"), Status: domain.InvoicePending}}
	suite.expenses.On("ApproveExpense", mock.Anything, admin, "exp-1").Return(expense, invoices, nil).Once()

	w := suite.do(&admin, http.MethodPut, "/api/v1/expenses/exp-1/approve", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ApproveExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Invoices, 1)
	suite.Equal("bob", resp.Invoices[0].MemberID)
	suite.True(resp.Invoices[0].Amount.Equal(decimal.RequireFromString("15")))
}

func (suite *HandlersTestSuite) TestApproveExpense_Conflict() {
	suite.expenses.On("ApproveExpense", mock.Anything, admin, "exp-1").
		Return(nil, nil, apperrors.NewConflictError("expense exp-1 is not pending")).Once()

	w := suite.do(&admin, http.MethodPut, "/api/v1/expenses/exp-1/approve", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("expense exp-1 is not pending", suite.errorBody(w))
}

func (suite *HandlersTestSuite) TestDeleteExpense_InternalErrorIsNotLeaked() {
	suite.expenses.On("DeleteExpense", mock.Anything, admin, "exp-1").
		Return(errors.New("pq: connection reset by peer")).Once()

	w := suite.do(&admin, http.MethodDelete, "/api/v1/expenses/exp-1", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to delete expense", suite.errorBody(w))
}

func (suite *HandlersTestSuite) TestUpdateExpense_PassesPartialFields() {
	suite.expenses.On("UpdateExpense", mock.Anything, admin, "exp-1", mock.MatchedBy(func(req dto.UpdateExpenseRequest) bool {
		return req.Description != nil && *req.Description == "Weekly groceries" && !req.ChangesSplits()
	})).Return(sampleExpense(domain.ExpensePending), nil).Once()

	w := suite.do(&admin, http.MethodPut, "/api/v1/expenses/exp-1", `{"description":"Weekly groceries"}`)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestMyInvoices_StaticRouteWinsOverID() {
	suite.invoices.On("ListMyInvoices", mock.Anything, member, dto.ListInvoicesParams{Status: "pending"}).
		Return([]domain.Invoice{}, nil).Once()

	w := suite.do(&member, http.MethodGet, "/api/v1/invoices/my-invoices?status=pending", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"invoices":[]}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestAllInvoices_RequiresAdmin() {
	w := suite.do(&member, http.MethodGet, "/api/v1/invoices/all", nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestGetInvoice_NotFound() {
	suite.invoices.On("GetInvoice", mock.Anything, member, "missing").
		Return(nil, apperrors.NewNotFoundError("invoice missing not found")).Once()

	w := suite.do(&member, http.MethodGet, "/api/v1/invoices/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestPayInvoice_WithoutBody() {
	paymentID := "pay-1"
	invoice := &domain.Invoice{InvoiceID: "inv-1", MemberID: "bob", Amount: decimal.RequireFromString("15"), Status: domain.InvoiceAwaitingApproval, PaymentRequestID: &paymentID}
	payment := &domain.Payment{PaymentID: paymentID, MemberID: "bob", Amount: decimal.RequireFromString("15"), Status: domain.PaymentPending, Kind: domain.KindPayment}
	suite.invoices.On("PayInvoice", mock.Anything, member, "inv-1", dto.PayInvoiceRequest{}).Return(invoice, payment, nil).Once()

	w := suite.do(&member, http.MethodPost, "/api/v1/invoices/inv-1/pay", nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PayInvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("awaiting_approval", resp.Invoice.Status)
	suite.Equal("pay-1", resp.Payment.PaymentID)
}

func (suite *HandlersTestSuite) TestPayInvoice_Forbidden() {
	suite.invoices.On("PayInvoice", mock.Anything, member, "inv-2", dto.PayInvoiceRequest{}).
		Return(nil, nil, apperrors.NewForbiddenError("invoice inv-2 belongs to another member")).Once()

	w := suite.do(&member, http.MethodPost, "/api/v1/invoices/inv-2/pay", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestRejectInvoicePayment_PassesReason() {
	invoice := &domain.Invoice{InvoiceID: "inv-1", MemberID: "bob", Status: domain.InvoicePending}
	suite.invoices.On("RejectInvoicePayment", mock.Anything, admin, "inv-1", "wrong amount").Return(invoice, nil).Once()

	w := suite.do(&admin, http.MethodPut, "/api/v1/invoices/inv-1/reject", `{"reason":"wrong amount"}`)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestListPayments_ReturnsNextToken() {
	next := "token-2"
	suite.payments.On("ListPayments", mock.Anything, member, dto.ListPaymentsParams{Limit: 1}).
		Return([]domain.Payment{{PaymentID: "pay-1", MemberID: "bob", Status: domain.PaymentPending, Kind: domain.KindPayment}}, &next, nil).Once()

	w := suite.do(&member, http.MethodGet, "/api/v1/payments?limit=1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListPaymentsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Payments, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-2", *resp.NextToken)
}

func (suite *HandlersTestSuite) TestListPayments_BadToken() {
	token := "garbage"
	suite.payments.On("ListPayments", mock.Anything, member, dto.ListPaymentsParams{Limit: 20, NextToken: &token}).
		Return(nil, nil, apperrors.NewValidationError("invalid pagination token")).Once()

	w := suite.do(&member, http.MethodGet, "/api/v1/payments?nextToken=garbage", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreatePayment() {
	payment := &domain.Payment{PaymentID: "pay-1", MemberID: "bob", Amount: decimal.RequireFromString("12.5"), Status: domain.PaymentPending, Kind: domain.KindReceived}
	suite.payments.On("CreatePayment", mock.Anything, member, mock.MatchedBy(func(req dto.CreatePaymentRequest) bool {
		return req.Kind == domain.KindReceived && req.Amount.Equal(decimal.RequireFromString("12.50"))
	})).Return(payment, nil).Once()

	w := suite.do(&member, http.MethodPost, "/api/v1/payments", `{"amount":"12.50","kind":"received","description":"cash back"}`)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlersTestSuite) TestCreatePayment_AcceptsTrailingZeros() {
	payment := &domain.Payment{PaymentID: "pay-1", MemberID: "bob", Amount: decimal.RequireFromString("10.5"), Status: domain.PaymentPending, Kind: domain.KindPayment}
	suite.payments.On("CreatePayment", mock.Anything, member, mock.MatchedBy(func(req dto.CreatePaymentRequest) bool {
		return req.Amount.Equal(decimal.RequireFromString("10.5"))
	})).Return(payment, nil).Once()

	w := suite.do(&member, http.MethodPost, "/api/v1/payments", `{"amount":"10.500","description":"bus fare"}`)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlersTestSuite) TestApprovePayment_IncludesSynthesizedExpense() {
	expenseID := "exp-9"
	payment := &domain.Payment{PaymentID: "pay-1", MemberID: "bob", Status: domain.PaymentApproved, Kind: domain.KindPayment, ExpenseID: &expenseID}
	expense := sampleExpense(domain.ExpenseApproved)
	expense.ExpenseID = expenseID
	suite.payments.On("ApprovePayment", mock.Anything, admin, "pay-1").Return(payment, expense, nil).Once()

	w := suite.do(&admin, http.MethodPut, "/api/v1/payments/pay-1/approve", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ApprovePaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("approved", resp.Payment.Status)
	suite.Require().NotNil(resp.Expense)
	suite.Equal(expenseID, resp.Expense.ExpenseID)
}

func (suite *HandlersTestSuite) TestRejectPayment_RequiresAdmin() {
	w := suite.do(&member, http.MethodPut, "/api/v1/payments/pay-1/reject", nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestDeletePayment() {
	suite.payments.On("DeletePayment", mock.Anything, member, "pay-1").Return(nil).Once()

	w := suite.do(&member, http.MethodDelete, "/api/v1/payments/pay-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlersTestSuite) TestBalances() {
	balances := []domain.MemberBalance{{MemberID: "bob", Name: "Bob", TotalOwed: decimal.RequireFromString("15"), Balance: decimal.RequireFromString("-15")}}
	suite.balances.On("GetBalances", mock.Anything, member).Return(balances, nil).Once()

	w := suite.do(&member, http.MethodGet, "/api/v1/stats/balances", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalancesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Balances, 1)
	suite.True(resp.Balances[0].Balance.Equal(decimal.RequireFromString("-15")))
}

func (suite *HandlersTestSuite) TestUserStats_OtherMemberForbidden() {
	suite.balances.On("GetUserStats", mock.Anything, member, "alice").
		Return(nil, apperrors.NewForbiddenError("members may only view their own statistics")).Once()

	w := suite.do(&member, http.MethodGet, "/api/v1/stats/user/alice", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestAdminDashboard() {
	w := suite.do(&member, http.MethodGet, "/api/v1/stats/admin/dashboard", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	suite.balances.On("GetAdminDashboard", mock.Anything, admin).Return(&domain.AdminDashboard{}, nil).Once()
	w = suite.do(&admin, http.MethodGet, "/api/v1/stats/admin/dashboard", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestListMembers() {
	members := []domain.Member{{MemberID: "alice", Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, IsActive: true, PasswordHash: "secret-hash"}}
	suite.members.On("ListMembers", mock.Anything, member).Return(members, nil).Once()

	w := suite.do(&member, http.MethodGet, "/api/v1/members", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "secret-hash")
	suite.Contains(w.Body.String(), `"role":"admin"`)
}
