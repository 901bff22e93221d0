package mapping

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
)

// ToModelHousehold converts a domain Household to a model Household
func ToModelHousehold(d domain.Household) models.Household {
	return models.Household{
		HouseholdID: d.HouseholdID,
		Name:        d.Name,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainHousehold converts a model Household to a domain Household
func ToDomainHousehold(m models.Household) domain.Household {
	return domain.Household{
		HouseholdID: m.HouseholdID,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMember converts a domain Member to a model Member
func ToModelMember(d domain.Member) models.Member {
	return models.Member{
		MemberID:     d.MemberID,
		HouseholdID:  d.HouseholdID,
		Name:         d.Name,
		Email:        d.Email,
		Role:         string(d.Role),
		IsActive:     d.IsActive,
		PasswordHash: d.PasswordHash,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMember converts a model Member to a domain Member
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:     m.MemberID,
		HouseholdID:  m.HouseholdID,
		Name:         m.Name,
		Email:        m.Email,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		PasswordHash: m.PasswordHash,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMemberSlice converts a slice of model Members to a slice of domain Members
func ToDomainMemberSlice(ms []models.Member) []domain.Member {
	ds := make([]domain.Member, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMember(m)
	}
	return ds
}
