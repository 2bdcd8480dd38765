package message

import (
	"context"
	"time"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app/identity"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/notifier"
)

// BroadcastInput - organization-wide creation request with role targeting.
type BroadcastInput struct {
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Type           string     `json:"type"`
	Priority       string     `json:"priority"`
	TargetRoles    []string   `json:"targetRoles"`
	AllUsers       bool       `json:"allUsers"`
	ExcludeUserIDs []string   `json:"excludeUserIds"`
	IncludeCreator bool       `json:"includeCreator"`
	HideCreator    bool       `json:"hideCreator"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// TargetedInput - creation request from another subsystem for a known set of
// recipients.
type TargetedInput struct {
	Title        string
	Content      string
	Type         string
	Priority     string
	RecipientIDs []string
	Creator      *model.Creator
	HideCreator  bool
	ExpiresAt    *time.Time
}

// ListQuery - pagination and filtering for the system message list.
type ListQuery struct {
	Type  string
	Page  int
	Limit int
}

// Service - defines the message service
type Service interface {
	CreateBroadcast(ctx context.Context, creator *model.AuthUser, in BroadcastInput) (*model.Message, error)
	CreateTargeted(ctx context.Context, in TargetedInput) (*model.Message, error)
	SendWelcome(ctx context.Context, userID string) (*model.Message, bool, error)

	BellFeed(ctx context.Context, userID string) ([]model.BellItem, error)
	SystemMessages(ctx context.Context, userID string, q ListQuery) ([]model.SystemItem, int, error)
	UnreadCounts(ctx context.Context, userID string) (*model.UnreadCounts, error)

	MarkRead(ctx context.Context, userID, messageID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	RemoveFromBell(ctx context.Context, userID, messageID string) error
	DeleteFromSystem(ctx context.Context, userID, messageID string) error

	SweepExpired(ctx context.Context) (int64, error)
	PurgeLegacy(ctx context.Context) (int64, error)
}

type service struct {
	store     Store
	identity  identity.Service
	sink      notifier.Sink
	projCache ProjectionCache
}

// NewService - creates new message service
func NewService(store Store, ident identity.Service, sink notifier.Sink, projCache ProjectionCache) Service {
	if sink == nil {
		sink = notifier.Noop{}
	}
	if projCache == nil {
		projCache = NoopProjectionCache{}
	}
	return &service{
		store:     store,
		identity:  ident,
		sink:      sink,
		projCache: projCache,
	}
}
