package dto

import (
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitRequest is one caller-supplied share of a custom split.
type SplitRequest struct {
	MemberID string          `json:"memberID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"money" swaggertype:"string"`
}

// CreateExpenseRequest defines the data needed to log an expense.
type CreateExpenseRequest struct {
	Description  string           `json:"description" binding:"required,max=255"`
	Category     string           `json:"category" binding:"omitempty,max=64"`
	TotalAmount  decimal.Decimal  `json:"totalAmount" binding:"money" swaggertype:"string"`
	SplitKind    domain.SplitKind `json:"splitKind" binding:"required,oneof=equal specific custom"`
	Participants []string         `json:"participants" binding:"omitempty,dive,required"` // specific splits
	Splits       []SplitRequest   `json:"splits" binding:"omitempty,dive"`                // custom splits
	PaidBy       *string          `json:"paidBy"`                                         // admins only; defaults to the creator
	ExpenseDate  *time.Time       `json:"expenseDate"`
}

// UpdateExpenseRequest defines the fields an admin may change on an expense.
// Nil fields are left untouched. Any of TotalAmount, SplitKind, Participants or
// Splits triggers a split recomputation.
type UpdateExpenseRequest struct {
	Description  *string           `json:"description" binding:"omitempty,min=1,max=255"`
	Category     *string           `json:"category" binding:"omitempty,min=1,max=64"`
	ExpenseDate  *time.Time        `json:"expenseDate"`
	TotalAmount  *decimal.Decimal  `json:"totalAmount" binding:"omitempty,money" swaggertype:"string"`
	SplitKind    *domain.SplitKind `json:"splitKind" binding:"omitempty,oneof=equal specific custom"`
	Participants []string          `json:"participants" binding:"omitempty,dive,required"`
	Splits       []SplitRequest    `json:"splits" binding:"omitempty,dive"`
}

// ChangesSplits reports whether the update touches the amount or its division.
func (r UpdateExpenseRequest) ChangesSplits() bool {
	return r.TotalAmount != nil || r.SplitKind != nil || r.Participants != nil || r.Splits != nil
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	CreatedBy string `form:"createdBy"`
	Status    string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID       string           `json:"expenseID"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	TotalAmount     decimal.Decimal  `json:"totalAmount" swaggertype:"string"`
	SplitKind       domain.SplitKind `json:"splitKind"`
	Splits          []domain.Split   `json:"splits"`
	PaidBy          string           `json:"paidBy"`
	Status          string           `json:"status"`
	ExpenseDate     time.Time        `json:"expenseDate"`
	ApprovedBy      *string          `json:"approvedBy,omitempty"`
	SourcePaymentID *string          `json:"sourcePaymentID,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	CreatedBy       string           `json:"createdBy"`
	LastUpdatedAt   time.Time        `json:"lastUpdatedAt"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Total    int               `json:"total"`
}

// ApproveExpenseResponse carries the approved expense and the invoices it generated.
type ApproveExpenseResponse struct {
	Expense  ExpenseResponse   `json:"expense"`
	Invoices []InvoiceResponse `json:"invoices"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	splits := e.Splits
	if splits == nil {
		splits = []domain.Split{}
	}
	return ExpenseResponse{
		ExpenseID:       e.ExpenseID,
		Description:     e.Description,
		Category:        e.Category,
		TotalAmount:     e.TotalAmount,
		SplitKind:       e.SplitKind,
		Splits:          splits,
		PaidBy:          e.PaidBy,
		Status:          string(e.Status),
		ExpenseDate:     e.ExpenseDate,
		ApprovedBy:      e.ApprovedBy,
		SourcePaymentID: e.SourcePaymentID,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		LastUpdatedAt:   e.LastUpdatedAt,
	}
}

// ToListExpensesResponse converts a page of domain expenses to DTO.
func ToListExpensesResponse(expenses []domain.Expense, page, limit, total int) ListExpensesResponse {
	list := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		list[i] = ToExpenseResponse(&expenses[i])
	}
	return ListExpensesResponse{Expenses: list, Page: page, Limit: limit, Total: total}
}
