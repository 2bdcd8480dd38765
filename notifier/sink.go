// Package notifier defines the port through which committed message
// mutations are pushed to live user sessions. Delivery is best effort: the
// persisted recipient state is the source of truth and a failed push is never
// surfaced to the caller.
package notifier

import (
	"time"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

// EventName is the typed name of a realtime event.
type EventName string

const (
	EventMessageCreated      EventName = "message_created"
	EventMessageRead         EventName = "message_read"
	EventMessageDeleted      EventName = "message_deleted"
	EventNotificationRead    EventName = "notification_read"
	EventNotificationRemoved EventName = "notification_removed"
	EventUnreadCountUpdate   EventName = "unread_count_update"
)

// Event is a user-addressed realtime payload.
type Event struct {
	Event     EventName           `json:"event"`
	MessageID string              `json:"messageId,omitempty"`
	Timestamp time.Time           `json:"timestamp,omitempty"`
	Counts    *model.UnreadCounts `json:"counts,omitempty"`
}

// Sink delivers events to a user's live sessions, if any are connected.
type Sink interface {
	Push(userID string, event Event) error
}

// Noop is a Sink that drops every event.
type Noop struct{}

// Push implements Sink.
func (Noop) Push(string, Event) error { return nil }
