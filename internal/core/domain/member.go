package domain

// Role defines what a member is allowed to do inside their household.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Household is the scoping boundary for members, expenses, invoices and payments.
type Household struct {
	HouseholdID string `json:"householdID"`
	Name        string `json:"name"`
	AuditFields
}

// Member is a person belonging to exactly one household.
type Member struct {
	MemberID     string `json:"memberID"`
	HouseholdID  string `json:"householdID"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"isActive"`
	PasswordHash string `json:"-"`
	AuditFields
}

// Actor is the authenticated identity handed to the core by the auth boundary.
type Actor struct {
	MemberID    string
	HouseholdID string
	Role        Role
}

// IsAdmin reports whether the actor administers their household.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ActiveMemberIDs returns the ids of the active members in their original order.
func ActiveMemberIDs(members []Member) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m.IsActive {
			ids = append(ids, m.MemberID)
		}
	}
	return ids
}
