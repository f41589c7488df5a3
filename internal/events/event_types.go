package events

import (
	"time"

	"github.com/fricdix/bi-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventUserRegistered EventType = "user_registered"
	EventUserCreated    EventType = "user_created"
	EventRoleChanged    EventType = "role_changed"
	EventUserDeleted    EventType = "user_deleted"
)

// Actor identifies who triggered an event. Empty for self-service flows
// where the actor is the target account itself.
type Actor struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
}

// Event represents an account activity emitted by services. Credential
// verification failures are deliberately never events: rejection collapses
// to "no session" and stays invisible here.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Actor     Actor     `json:"actor"`
	TargetID  string    `json:"target_id"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// RoleChangedDetail formats the detail string for a role change.
func RoleChangedDetail(from, to domain.Role) string {
	return string(from) + " -> " + string(to)
}
