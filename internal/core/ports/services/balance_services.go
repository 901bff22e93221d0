package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// BalanceSvc derives balances and statistics on demand. It holds no state.
type BalanceSvc interface {
	// GetBalances returns every active member's balance.
	GetBalances(ctx context.Context, actor domain.Actor) ([]domain.MemberBalance, error)

	// GetUserStats returns one member's totals, category breakdown and invoice counts.
	GetUserStats(ctx context.Context, actor domain.Actor, memberID string) (*domain.UserStats, error)

	// GetAdminDashboard returns household-wide totals. Admin only.
	GetAdminDashboard(ctx context.Context, actor domain.Actor) (*domain.AdminDashboard, error)
}
