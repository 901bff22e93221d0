package services

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/dto"
)

// MemberReaderSvc defines read operations for household members
type MemberReaderSvc interface {
	// ListMembers lists the actor's household members.
	ListMembers(ctx context.Context, actor domain.Actor) ([]domain.Member, error)
}

// ProvisioningSvc bootstraps a household and its first administrator.
type ProvisioningSvc interface {
	// ProvisionAdmin creates the household and admin if absent. created is false when both already existed.
	ProvisionAdmin(ctx context.Context, req dto.ProvisionAdminRequest) (member *domain.Member, created bool, err error)
}

// MemberSvcFacade combines all member-related service interfaces
type MemberSvcFacade interface {
	MemberReaderSvc
	ProvisioningSvc
}
