package model

import "fmt"

// MessageType classifies a system message.
type MessageType string

const (
	TypeAnnouncement    MessageType = "announcement"
	TypeMaintenance     MessageType = "maintenance"
	TypeUpdate          MessageType = "update"
	TypeWarning         MessageType = "warning"
	TypeAuthLevelChange MessageType = "auth_level_change"
	TypeEventNotice     MessageType = "event_notice"
	TypeWelcome         MessageType = "welcome"
)

// ParseMessageType validates a wire value against the closed set.
func ParseMessageType(s string) (MessageType, error) {
	switch MessageType(s) {
	case TypeAnnouncement, TypeMaintenance, TypeUpdate, TypeWarning,
		TypeAuthLevelChange, TypeEventNotice, TypeWelcome:
		return MessageType(s), nil
	}
	return "", fmt.Errorf("unknown message type %q", s)
}

// Priority of a system message.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a wire value; empty defaults to medium.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Role is the authorization level the identity provider attaches to a user.
type Role string

const (
	RoleParticipant   Role = "Participant"
	RoleLeader        Role = "Leader"
	RoleAdministrator Role = "Administrator"
	RoleSuperAdmin    Role = "Super Admin"
)

// ParseRole validates a wire value against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleParticipant, RoleLeader, RoleAdministrator, RoleSuperAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

var roleTiers = map[Role]int{
	RoleParticipant:   0,
	RoleLeader:        1,
	RoleAdministrator: 2,
	RoleSuperAdmin:    3,
}

// Tier returns the numeric authorization tier. Unknown roles rank lowest.
func (r Role) Tier() int {
	return roleTiers[r]
}

// AtLeast reports whether r holds an authorization level >= other.
func (r Role) AtLeast(other Role) bool {
	return r.Tier() >= other.Tier()
}
