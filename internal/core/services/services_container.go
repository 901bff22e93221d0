package services

import (
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, recorder TransitionRecorder) *portssvc.ServiceContainer {
	options := []ServiceOption{
		WithDefaultCategory(cfg.DefaultExpenseCategory),
		WithInvoiceDueDays(cfg.InvoiceDueDays),
	}
	if recorder != nil {
		options = append(options, WithTransitionRecorder(recorder))
	}

	return &portssvc.ServiceContainer{
		Member:  NewMemberService(repos.MemberRepo, options...),
		Expense: NewExpenseService(repos.ExpenseRepo, repos.MemberRepo, options...),
		Invoice: NewInvoiceService(repos.InvoiceRepo, options...),
		Payment: NewPaymentService(repos.PaymentRepo, repos.InvoiceRepo, repos.MemberRepo, options...),
		Balance: NewBalanceService(repos.MemberRepo, repos.ExpenseRepo, repos.PaymentRepo, repos.InvoiceRepo, options...),
	}
}
