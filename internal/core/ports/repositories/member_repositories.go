package repositories

import (
	"context"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// MemberReader defines read operations for household members
type MemberReader interface {
	// FindMemberByID retrieves a member by id.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMemberByEmail retrieves a member by their (unique) email.
	FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error)

	// ListMembersByHousehold lists the household's members ordered by creation.
	ListMembersByHousehold(ctx context.Context, householdID string, activeOnly bool) ([]domain.Member, error)
}

// HouseholdWriter defines the provisioning writes for households and members
type HouseholdWriter interface {
	// FindHouseholdByName returns the household with the given name, or ErrNotFound.
	FindHouseholdByName(ctx context.Context, name string) (*domain.Household, error)

	// SaveHousehold persists a new household.
	SaveHousehold(ctx context.Context, household domain.Household) error

	// SaveMember persists a new member. A duplicate email yields ErrDuplicate.
	SaveMember(ctx context.Context, member domain.Member) error
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	HouseholdWriter
}
