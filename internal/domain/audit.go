package domain

import "time"

// AuditEntry is one row of the account activity trail.
type AuditEntry struct {
	ID         string
	Action     string
	ActorID    string
	ActorEmail string
	TargetID   string
	Detail     string
	CreatedAt  time.Time
}
