package message

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

// Store owns the canonical message documents and the per-recipient state
// records. State writes are atomic per (messageId, userId) key; no operation
// reads and rewrites another recipient's entry.
type Store interface {
	// Insert persists a message together with its full, frozen recipient
	// state set.
	Insert(ctx context.Context, msg *model.Message, states []model.RecipientState) error

	// Get fetches a message by id. Returns ErrNotFound when unknown.
	Get(ctx context.Context, id primitive.ObjectID) (*model.Message, error)

	// ApplyState applies a StateChange to exactly one (messageId, userId)
	// entry. Returns ErrNotFound when no entry exists; it never creates one.
	ApplyState(ctx context.Context, id primitive.ObjectID, userID string, change StateChange) error

	// ListForUser returns every active message the user holds a state entry
	// for, newest first, paired with that state.
	ListForUser(ctx context.Context, userID string) ([]model.UserMessage, error)

	// ExpireDue deactivates active messages whose expiration has passed and
	// reports how many were flipped. Recipient state is left untouched.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)

	// PurgeLegacy removes pre-split embedded state fields and state records
	// orphaned from deleted messages. Idempotent.
	PurgeLegacy(ctx context.Context) (int64, error)
}
