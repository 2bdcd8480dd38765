package consts

// Mongo collection names
const (
	Messages      = "SystemMessages"
	MessageStates = "SystemMessageStates"
)

// RealtimeChannel is the redis pub/sub channel carrying user-addressed events
// between nodes.
const RealtimeChannel = "atcloud:realtime:events"

// UnreadCountsCacheKey prefix for the per-user unread counts projection.
const UnreadCountsCacheKey = "atcloud:unread:"

// SystemCreatorID is the creator recorded on messages raised by the platform
// itself (welcome notices, targeted notices with no explicit creator).
const SystemCreatorID = "system"

// Legacy embedded field removed by the legacy-format cleanup. Early versions
// stored every recipient's flags as one map on the message document.
const LegacyStatesField = "userStates"
