package models

// Household is the scoping row every other table hangs off.
type Household struct {
	HouseholdID string `db:"household_id"`
	Name        string `db:"name"`
	AuditFields
}

// Member represents a person belonging to one household.
type Member struct {
	MemberID     string `db:"member_id"`
	HouseholdID  string `db:"household_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Role         string `db:"role"`
	IsActive     bool   `db:"is_active"`
	PasswordHash string `db:"password_hash"`
	AuditFields
}
