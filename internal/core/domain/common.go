package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // MemberID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // MemberID reference
}

// NewAuditFields stamps creation and update fields with the same actor and time.
func NewAuditFields(actorID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}
