package dto

import "github.com/SscSPs/household_ledger/internal/core/domain"

// BalancesResponse lists every active member's derived balance.
type BalancesResponse struct {
	Balances []domain.MemberBalance `json:"balances"`
}
