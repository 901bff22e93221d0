package dto

import "github.com/SscSPs/household_ledger/internal/core/domain"

// MemberResponse defines the publicly visible member data.
type MemberResponse struct {
	MemberID string `json:"memberID"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// ListMembersResponse wraps the household members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID: m.MemberID,
		Name:     m.Name,
		Email:    m.Email,
		Role:     string(m.Role),
		IsActive: m.IsActive,
	}
}

// ToListMembersResponse converts a slice of domain.Member to ListMembersResponse DTO.
func ToListMembersResponse(members []domain.Member) ListMembersResponse {
	list := make([]MemberResponse, len(members))
	for i := range members {
		list[i] = ToMemberResponse(&members[i])
	}
	return ListMembersResponse{Members: list}
}

// ProvisionAdminRequest describes the bootstrap household and its first administrator.
type ProvisionAdminRequest struct {
	HouseholdName string
	Name          string
	Email         string
	Password      string
}
