package domain

import "github.com/shopspring/decimal"

// MemberBalance is a member's derived net position. Positive means overpaid.
type MemberBalance struct {
	MemberID      string          `json:"memberID"`
	Name          string          `json:"name"`
	TotalOwed     decimal.Decimal `json:"totalOwed"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	Balance       decimal.Decimal `json:"balance"`
}

// CategoryTotal is the summed amount for one expense category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MemberAmount pairs a member with an absolute amount.
type MemberAmount struct {
	MemberID string          `json:"memberID"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

// AdminDashboard aggregates household-wide totals for administrators.
type AdminDashboard struct {
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	TotalApprovedPayments decimal.Decimal `json:"totalApprovedPayments"`
	TotalReceived         decimal.Decimal `json:"totalReceived"`
	Categories            []CategoryTotal `json:"categories"`
	Owing                 []MemberAmount  `json:"owing"`
	PaidExtra             []MemberAmount  `json:"paidExtra"`
	Balances              []MemberBalance `json:"balances"`
}

// UserStats summarises one member's position.
type UserStats struct {
	MemberBalance
	Categories       []CategoryTotal       `json:"categories"`
	InvoicesByStatus map[InvoiceStatus]int `json:"invoicesByStatus"`
}
