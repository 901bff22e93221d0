package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of the expenses table. Splits live in expense_splits.
type Expense struct {
	ExpenseID       string          `db:"expense_id"`
	HouseholdID     string          `db:"household_id"`
	Description     string          `db:"description"`
	Category        string          `db:"category"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	SplitKind       string          `db:"split_kind"`
	PaidBy          string          `db:"paid_by"`
	Status          string          `db:"status"`
	ExpenseDate     time.Time       `db:"expense_date"`
	ApprovedBy      *string         `db:"approved_by"`       // Nullable
	SourcePaymentID *string         `db:"source_payment_id"` // Nullable
	AuditFields
}

// ExpenseSplit is one member's share. Position keeps the calculator's order,
// which decides who carries leftover cents.
type ExpenseSplit struct {
	ExpenseID string          `db:"expense_id"`
	MemberID  string          `db:"member_id"`
	Amount    decimal.Decimal `db:"amount"`
	Position  int             `db:"position"`
}
