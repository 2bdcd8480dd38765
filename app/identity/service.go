// Package identity is the boundary to the external identity/role provider.
// The notification core only ever takes snapshots through this interface;
// it never holds live references to role membership.
package identity

import (
	"context"

	"github.com/pkg/errors"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

// ErrNotFound - no user record for the given id.
var ErrNotFound = errors.New("identity: user not found")

// Service - defines the identity collaborator operations this service needs.
type Service interface {
	// Profile returns the user's current record, including the welcome
	// idempotency flag.
	Profile(ctx context.Context, userID string) (*model.UserProfile, error)
	// ListIDsByRoles snapshots the ids of active, verified users currently
	// holding any of the given roles.
	ListIDsByRoles(ctx context.Context, roles []model.Role) ([]string, error)
	// ListAllIDs snapshots the ids of all active, verified users.
	ListAllIDs(ctx context.Context) ([]string, error)
	// MarkWelcomeSent flips has_received_welcome_message for the user.
	MarkWelcomeSent(ctx context.Context, userID string) error
}
