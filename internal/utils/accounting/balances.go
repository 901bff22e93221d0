package accounting

import (
	"sort"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MemberBalanceOf derives one member's totals from the household's expenses and payments.
// Every expense counts towards what a member owes, whatever its status.
func MemberBalanceOf(member domain.Member, expenses []domain.Expense, payments []domain.Payment) domain.MemberBalance {
	mb := domain.MemberBalance{
		MemberID:      member.MemberID,
		Name:          member.Name,
		TotalOwed:     decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalReceived: decimal.Zero,
	}
	for i := range expenses {
		mb.TotalOwed = mb.TotalOwed.Add(expenses[i].ShareOf(member.MemberID))
	}
	for _, p := range payments {
		if p.MemberID != member.MemberID || p.Status != domain.PaymentApproved {
			continue
		}
		switch p.Kind {
		case domain.KindPayment:
			mb.TotalPaid = mb.TotalPaid.Add(p.Amount)
		case domain.KindReceived:
			mb.TotalReceived = mb.TotalReceived.Add(p.Amount)
		}
	}
	mb.Balance = mb.TotalPaid.Sub(mb.TotalOwed)
	return mb
}

// AggregateBalances computes balances for every active member.
func AggregateBalances(members []domain.Member, expenses []domain.Expense, payments []domain.Payment) []domain.MemberBalance {
	balances := make([]domain.MemberBalance, 0, len(members))
	for _, m := range members {
		if !m.IsActive {
			continue
		}
		balances = append(balances, MemberBalanceOf(m, expenses, payments))
	}
	return balances
}

// CategoryTotals sums expense totals per category, sorted by category name.
func CategoryTotals(expenses []domain.Expense) []domain.CategoryTotal {
	return categoryTotals(expenses, func(e *domain.Expense) decimal.Decimal { return e.TotalAmount })
}

// MemberCategoryTotals sums one member's shares per category.
func MemberCategoryTotals(memberID string, expenses []domain.Expense) []domain.CategoryTotal {
	return categoryTotals(expenses, func(e *domain.Expense) decimal.Decimal { return e.ShareOf(memberID) })
}

func categoryTotals(expenses []domain.Expense, amountOf func(*domain.Expense) decimal.Decimal) []domain.CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for i := range expenses {
		amount := amountOf(&expenses[i])
		if amount.IsZero() {
			continue
		}
		totals[expenses[i].Category] = totals[expenses[i].Category].Add(amount)
	}
	out := make([]domain.CategoryTotal, 0, len(totals))
	for category, amount := range totals {
		out = append(out, domain.CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// BuildAdminDashboard aggregates household totals and partitions members into owing and paid-extra sets.
func BuildAdminDashboard(members []domain.Member, expenses []domain.Expense, payments []domain.Payment) domain.AdminDashboard {
	dash := domain.AdminDashboard{
		TotalExpenses:         decimal.Zero,
		TotalApprovedPayments: decimal.Zero,
		TotalReceived:         decimal.Zero,
		Categories:            CategoryTotals(expenses),
		Owing:                 []domain.MemberAmount{},
		PaidExtra:             []domain.MemberAmount{},
	}
	for i := range expenses {
		dash.TotalExpenses = dash.TotalExpenses.Add(expenses[i].TotalAmount)
	}
	for _, p := range payments {
		if p.Status != domain.PaymentApproved {
			continue
		}
		if p.Kind == domain.KindReceived {
			dash.TotalReceived = dash.TotalReceived.Add(p.Amount)
			continue
		}
		dash.TotalApprovedPayments = dash.TotalApprovedPayments.Add(p.Amount)
	}

	dash.Balances = AggregateBalances(members, expenses, payments)
	for _, b := range dash.Balances {
		entry := domain.MemberAmount{MemberID: b.MemberID, Name: b.Name, Amount: b.Balance.Abs()}
		switch b.Balance.Sign() {
		case -1:
			dash.Owing = append(dash.Owing, entry)
		case 1:
			dash.PaidExtra = append(dash.PaidExtra, entry)
		}
	}
	return dash
}
