package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/household_ledger/internal/models"
	"github.com/SscSPs/household_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `member_id, household_id, name, email, role, is_active, password_hash,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxMemberRepository struct {
	BaseRepository
}

func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func scanMember(row pgx.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID,
		&m.HouseholdID,
		&m.Name,
		&m.Email,
		&m.Role,
		&m.IsActive,
		&m.PasswordHash,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxMemberRepository) findOne(ctx context.Context, where string, arg any) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE ` + where + `;`
	m, err := scanMember(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	member := mapping.ToDomainMember(m)
	return &member, nil
}

// FindMemberByID retrieves a member by id.
func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return r.findOne(ctx, "member_id = $1", memberID)
}

// FindMemberByEmail retrieves a member by email, ignoring case.
func (r *PgxMemberRepository) FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.findOne(ctx, "LOWER(email) = $1", strings.ToLower(email))
}

func (r *PgxMemberRepository) ListMembersByHousehold(ctx context.Context, householdID string, activeOnly bool) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM members
		WHERE household_id = $1 AND (is_active OR NOT $2)
		ORDER BY created_at, member_id;`
	rows, err := r.Pool.Query(ctx, query, householdID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query members of household %s: %w", householdID, err)
	}
	defer rows.Close()

	var ms []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return mapping.ToDomainMemberSlice(ms), nil
}

func (r *PgxMemberRepository) FindHouseholdByName(ctx context.Context, name string) (*domain.Household, error) {
	query := `
		SELECT household_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM households
		WHERE name = $1;
	`
	var m models.Household
	err := r.Pool.QueryRow(ctx, query, name).Scan(
		&m.HouseholdID,
		&m.Name,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find household %s: %w", name, err)
	}
	household := mapping.ToDomainHousehold(m)
	return &household, nil
}

func (r *PgxMemberRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	m := mapping.ToModelHousehold(household)
	query := `
		INSERT INTO households (household_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.HouseholdID, m.Name, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: household '%s'", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save household: %w", err)
	}
	return nil
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.Pool.Exec(ctx, query,
		m.MemberID,
		m.HouseholdID,
		m.Name,
		m.Email,
		m.Role,
		m.IsActive,
		m.PasswordHash,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: member with email '%s'", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}
