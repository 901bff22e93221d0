package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/utils"
	"github.com/go-playground/validator/v10"
)

const provisioningActor = "system"

var provisionValidator = validator.New()

type memberService struct {
	BaseService
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewMemberService creates a new member service.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade, options ...ServiceOption) portssvc.MemberSvcFacade {
	return &memberService{
		BaseService: newBaseService(options...),
		memberRepo:  memberRepo,
	}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

// ListMembers lists all members of the actor's household, active or not.
func (s *memberService) ListMembers(ctx context.Context, actor domain.Actor) ([]domain.Member, error) {
	members, err := s.memberRepo.ListMembersByHousehold(ctx, actor.HouseholdID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list members", slog.String("household_id", actor.HouseholdID))
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// ProvisionAdmin creates the named household and its first admin. Running it again is a no-op.
func (s *memberService) ProvisionAdmin(ctx context.Context, req dto.ProvisionAdminRequest) (*domain.Member, bool, error) {
	householdName := strings.TrimSpace(req.HouseholdName)
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if householdName == "" || name == "" {
		return nil, false, fmt.Errorf("%w: household name and admin name are required", apperrors.ErrValidation)
	}
	if err := provisionValidator.Var(email, "required,email"); err != nil {
		return nil, false, fmt.Errorf("%w: invalid admin email '%s'", apperrors.ErrValidation, req.Email)
	}
	if len(req.Password) < 8 {
		return nil, false, fmt.Errorf("%w: admin password must be at least 8 characters", apperrors.ErrValidation)
	}

	existing, err := s.memberRepo.FindMemberByEmail(ctx, email)
	if err == nil {
		s.LogInfo(ctx, "Admin already provisioned", slog.String("member_id", existing.MemberID))
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up admin: %w", err)
	}

	now := s.now()
	household, err := s.memberRepo.FindHouseholdByName(ctx, householdName)
	if errors.Is(err, apperrors.ErrNotFound) {
		household = &domain.Household{
			HouseholdID: s.newID(),
			Name:        householdName,
			AuditFields: domain.NewAuditFields(provisioningActor, now),
		}
		if err := s.memberRepo.SaveHousehold(ctx, *household); err != nil {
			return nil, false, fmt.Errorf("failed to save household: %w", err)
		}
		s.LogInfo(ctx, "Household created", slog.String("household_id", household.HouseholdID))
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to look up household: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := domain.Member{
		MemberID:     s.newID(),
		HouseholdID:  household.HouseholdID,
		Name:         name,
		Email:        email,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		PasswordHash: hash,
		AuditFields:  domain.NewAuditFields(provisioningActor, now),
	}
	if err := s.memberRepo.SaveMember(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("failed to save admin: %w", err)
	}
	s.LogInfo(ctx, "Admin provisioned", slog.String("member_id", admin.MemberID), slog.String("household_id", household.HouseholdID))
	return &admin, true, nil
}
