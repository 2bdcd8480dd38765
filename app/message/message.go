package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app/identity"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/consts"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/notifier"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// broadcastFloor is the minimum role tier allowed to create broadcasts.
const broadcastFloor = model.RoleLeader

const (
	welcomeTitle   = "Welcome to @Cloud!"
	welcomeContent = "Hi %s, welcome aboard! Browse upcoming events and sign up for a role to get started."
)

func validateContent(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Message: "title is required"}
	}
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Message: "content is required"}
	}
	return nil
}

func parseClassification(rawType, rawPriority string) (model.MessageType, model.Priority, error) {
	if rawType == "" {
		rawType = string(model.TypeAnnouncement)
	}
	msgType, err := model.ParseMessageType(rawType)
	if err != nil {
		return "", "", &ValidationError{Message: err.Error()}
	}
	priority, err := model.ParsePriority(rawPriority)
	if err != nil {
		return "", "", &ValidationError{Message: err.Error()}
	}
	return msgType, priority, nil
}

func parseMessageID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, &ValidationError{Message: "malformed message id"}
	}
	return id, nil
}

func buildStates(messageID primitive.ObjectID, recipients []string, now time.Time) []model.RecipientState {
	states := make([]model.RecipientState, 0, len(recipients))
	for _, userID := range recipients {
		states = append(states, model.RecipientState{
			MessageID:         messageID,
			UserID:            userID,
			LastInteractionAt: now,
			CreatedAt:         now,
		})
	}
	return states
}

func creatorForView(msg *model.Message) *model.Creator {
	if msg.HideCreator {
		return nil
	}
	return msg.Creator
}

func (s *service) CreateBroadcast(ctx context.Context, creator *model.AuthUser, in BroadcastInput) (*model.Message, error) {
	if creator == nil || !creator.Role.AtLeast(broadcastFloor) {
		return nil, ErrForbidden
	}
	if err := validateContent(in.Title, in.Content); err != nil {
		return nil, err
	}
	msgType, priority, err := parseClassification(in.Type, in.Priority)
	if err != nil {
		return nil, err
	}

	recipients, err := s.resolveRecipients(ctx, targetSpec{
		roles:          in.TargetRoles,
		allUsers:       in.AllUsers,
		excludeIDs:     in.ExcludeUserIDs,
		includeCreator: in.IncludeCreator,
		creatorID:      creator.ID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ID:       primitive.NewObjectID(),
		Title:    in.Title,
		Content:  in.Content,
		Type:     msgType,
		Priority: priority,
		Creator: &model.Creator{
			UserID:    creator.ID,
			FirstName: creator.FirstName,
			LastName:  creator.LastName,
			Role:      creator.Role,
		},
		HideCreator: in.HideCreator || !in.IncludeCreator,
		Targeting: &model.Targeting{
			Roles:          mustRoles(in.TargetRoles),
			AllUsers:       in.AllUsers,
			ExcludeUserIDs: in.ExcludeUserIDs,
			IncludeCreator: in.IncludeCreator,
		},
		RecipientCount: len(recipients),
		IsActive:       true,
		CreatedAt:      now,
		ExpiresAt:      in.ExpiresAt,
	}

	if err := s.store.Insert(ctx, msg, buildStates(msg.ID, recipients, now)); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"messageId":  msg.ID.Hex(),
		"recipients": len(recipients),
	}).Info("broadcast message created")

	s.afterCreate(recipients, msg.ID.Hex(), now)
	return msg, nil
}

// mustRoles re-parses already-validated role strings for the audit record.
func mustRoles(raw []string) []model.Role {
	roles, err := parseRoles(raw)
	if err != nil {
		return nil
	}
	return roles
}

func (s *service) CreateTargeted(ctx context.Context, in TargetedInput) (*model.Message, error) {
	if err := validateContent(in.Title, in.Content); err != nil {
		return nil, err
	}
	msgType, priority, err := parseClassification(in.Type, in.Priority)
	if err != nil {
		return nil, err
	}

	creator := in.Creator
	hideCreator := in.HideCreator
	if creator == nil {
		creator = &model.Creator{
			UserID:    consts.SystemCreatorID,
			FirstName: "@Cloud",
			LastName:  "System",
			Role:      model.RoleSuperAdmin,
		}
		hideCreator = true
	}

	recipients, err := s.resolveRecipients(ctx, targetSpec{explicitIDs: in.RecipientIDs})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ID:             primitive.NewObjectID(),
		Title:          in.Title,
		Content:        in.Content,
		Type:           msgType,
		Priority:       priority,
		Creator:        creator,
		HideCreator:    hideCreator,
		RecipientCount: len(recipients),
		IsActive:       true,
		CreatedAt:      now,
		ExpiresAt:      in.ExpiresAt,
	}
	// Account-security notices address exactly one user; record it so
	// renderers can personalize without scanning the recipient set.
	if msgType == model.TypeAuthLevelChange && len(recipients) == 1 {
		msg.TargetUserID = recipients[0]
	}

	if err := s.store.Insert(ctx, msg, buildStates(msg.ID, recipients, now)); err != nil {
		return nil, err
	}
	s.afterCreate(recipients, msg.ID.Hex(), now)
	return msg, nil
}

func (s *service) SendWelcome(ctx context.Context, userID string) (*model.Message, bool, error) {
	profile, err := s.identity.Profile(ctx, userID)
	if errors.Is(err, identity.ErrNotFound) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}
	if profile.HasReceivedWelcomeMessage {
		return nil, false, nil
	}

	msg, err := s.CreateTargeted(ctx, TargetedInput{
		Title:        welcomeTitle,
		Content:      fmt.Sprintf(welcomeContent, profile.FirstName),
		Type:         string(model.TypeWelcome),
		Priority:     string(model.PriorityHigh),
		RecipientIDs: []string{userID},
		HideCreator:  true,
	})
	if err != nil {
		return nil, false, err
	}

	// The message has committed; surfacing a flag-flip failure here would
	// invite a retry that duplicates the welcome. Report success and leave
	// the flag for the next attempt to settle.
	if err := s.identity.MarkWelcomeSent(ctx, userID); err != nil {
		logrus.WithError(err).WithField("userId", userID).
			Warn("welcome message created but flag update failed")
	}
	return msg, true, nil
}

func (s *service) BellFeed(ctx context.Context, userID string) ([]model.BellItem, error) {
	msgs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]model.BellItem, 0, len(msgs))
	for _, um := range msgs {
		if um.State.IsRemovedFromBell {
			continue
		}
		items = append(items, model.BellItem{
			ID:        um.Message.ID.Hex(),
			Title:     um.Message.Title,
			Content:   um.Message.Content,
			Type:      um.Message.Type,
			Priority:  um.Message.Priority,
			Creator:   creatorForView(um.Message),
			IsRead:    um.State.IsReadInBell,
			CreatedAt: um.Message.CreatedAt,
		})
	}
	return items, nil
}

func (s *service) SystemMessages(ctx context.Context, userID string, q ListQuery) ([]model.SystemItem, int, error) {
	var typeFilter model.MessageType
	if q.Type != "" {
		parsed, err := model.ParseMessageType(q.Type)
		if err != nil {
			return nil, 0, &ValidationError{Message: err.Error()}
		}
		typeFilter = parsed
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	msgs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.SystemItem, 0, len(msgs))
	for _, um := range msgs {
		if um.State.IsDeletedFromSystem {
			continue
		}
		if typeFilter != "" && um.Message.Type != typeFilter {
			continue
		}
		items = append(items, model.SystemItem{
			ID:           um.Message.ID.Hex(),
			Title:        um.Message.Title,
			Content:      um.Message.Content,
			Type:         um.Message.Type,
			Priority:     um.Message.Priority,
			Creator:      creatorForView(um.Message),
			TargetUserID: um.Message.TargetUserID,
			IsRead:       um.State.IsReadInSystem,
			CreatedAt:    um.Message.CreatedAt,
		})
	}

	total := len(items)
	start := (page - 1) * limit
	if start >= total {
		return []model.SystemItem{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], total, nil
}

func (s *service) UnreadCounts(ctx context.Context, userID string) (*model.UnreadCounts, error) {
	if counts, ok := s.projCache.GetUnreadCounts(userID); ok {
		return counts, nil
	}

	msgs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts := computeUnread(msgs)

	if err := s.projCache.SetUnreadCounts(userID, counts); err != nil {
		logrus.WithError(err).WithField("userId", userID).Warn("unable to cache unread counts")
	}
	return counts, nil
}

func (s *service) MarkRead(ctx context.Context, userID, messageID string) error {
	id, err := parseMessageID(messageID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.store.ApplyState(ctx, id, userID, markReadEverywhere(now)); err != nil {
		return err
	}
	s.afterStateChange(ctx, userID, []string{messageID}, now,
		notifier.EventMessageRead, notifier.EventNotificationRead)
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	msgs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	marked := make([]string, 0)
	for _, um := range msgs {
		if um.State.IsRemovedFromBell || um.State.IsReadInBell {
			continue
		}
		err := s.store.ApplyState(ctx, um.Message.ID, userID, markReadEverywhere(now))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return len(marked), err
		}
		marked = append(marked, um.Message.ID.Hex())
	}

	if len(marked) > 0 {
		s.afterStateChange(ctx, userID, marked, now,
			notifier.EventNotificationRead, notifier.EventMessageRead)
	}
	return len(marked), nil
}

func (s *service) RemoveFromBell(ctx context.Context, userID, messageID string) error {
	id, err := parseMessageID(messageID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.store.ApplyState(ctx, id, userID, removeFromBell(now)); err != nil {
		return err
	}
	s.afterStateChange(ctx, userID, []string{messageID}, now, notifier.EventNotificationRemoved)
	return nil
}

func (s *service) DeleteFromSystem(ctx context.Context, userID, messageID string) error {
	id, err := parseMessageID(messageID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.store.ApplyState(ctx, id, userID, deleteFromSystem(now)); err != nil {
		return err
	}
	s.afterStateChange(ctx, userID, []string{messageID}, now, notifier.EventMessageDeleted)
	return nil
}
