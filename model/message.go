package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Creator is the identity attributed to a message. It is a snapshot taken at
// creation time, not a live reference into the identity provider.
type Creator struct {
	UserID    string `bson:"userId" json:"userId"`
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Role      Role   `bson:"role" json:"role"`
}

// Targeting records how the recipient set of a broadcast was resolved. It is
// kept for audit only and is never re-evaluated after creation.
type Targeting struct {
	Roles          []Role   `bson:"roles,omitempty" json:"roles,omitempty"`
	AllUsers       bool     `bson:"allUsers,omitempty" json:"allUsers,omitempty"`
	ExcludeUserIDs []string `bson:"excludeUserIds,omitempty" json:"excludeUserIds,omitempty"`
	IncludeCreator bool     `bson:"includeCreator" json:"includeCreator"`
}

// Message is the canonical message document. Per-recipient read/visibility
// flags live in separate RecipientState documents, one per (message, user)
// pair, so that concurrent recipients never rewrite each other's state.
type Message struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	Type        MessageType        `bson:"type" json:"type"`
	Priority    Priority           `bson:"priority" json:"priority"`
	Creator     *Creator           `bson:"creator,omitempty" json:"creator,omitempty"`
	HideCreator bool               `bson:"hideCreator" json:"hideCreator"`
	// TargetUserID is set only for single-recipient account-security messages
	// (auth level changes) so renderers can personalize without scanning the
	// recipient set.
	TargetUserID   string     `bson:"targetUserId,omitempty" json:"targetUserId,omitempty"`
	Targeting      *Targeting `bson:"targeting,omitempty" json:"targeting,omitempty"`
	RecipientCount int        `bson:"recipientCount" json:"recipientCount"`
	IsActive       bool       `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	ExpiresAt      *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// RecipientState is the per-user, per-message record of read and visibility
// flags across the bell and system projections. An entry exists exactly for
// the users resolved as recipients at creation time.
type RecipientState struct {
	MessageID           primitive.ObjectID `bson:"messageId" json:"messageId"`
	UserID              string             `bson:"userId" json:"userId"`
	IsReadInBell        bool               `bson:"isReadInBell" json:"isReadInBell"`
	IsRemovedFromBell   bool               `bson:"isRemovedFromBell" json:"isRemovedFromBell"`
	IsReadInSystem      bool               `bson:"isReadInSystem" json:"isReadInSystem"`
	IsDeletedFromSystem bool               `bson:"isDeletedFromSystem" json:"isDeletedFromSystem"`
	LastInteractionAt   time.Time          `bson:"lastInteractionAt" json:"lastInteractionAt"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserMessage pairs an active message with one user's state for it.
type UserMessage struct {
	Message *Message
	State   *RecipientState
}

// BellItem is the bell feed projection of a message for one user.
type BellItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      MessageType `json:"type"`
	Priority  Priority  `json:"priority"`
	Creator   *Creator  `json:"creator,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// SystemItem is the system message list projection for one user.
type SystemItem struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	Type         MessageType `json:"type"`
	Priority     Priority    `json:"priority"`
	Creator      *Creator    `json:"creator,omitempty"`
	TargetUserID string      `json:"targetUserId,omitempty"`
	IsRead       bool        `json:"isRead"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// UnreadCounts is the on-demand unread aggregation for one user.
type UnreadCounts struct {
	BellCount   int `json:"bellCount"`
	SystemCount int `json:"systemCount"`
	Total       int `json:"total"`
}
