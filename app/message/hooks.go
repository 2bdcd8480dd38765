package message

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/notifier"
)

// Delivery and cache hooks. Everything here runs after the store has
// committed and is best effort: errors are logged and swallowed, never
// propagated, because the persisted recipient state is the source of truth.

func (s *service) pushEvent(userID string, event notifier.Event) {
	if err := s.sink.Push(userID, event); err != nil {
		logrus.WithError(err).WithField("userId", userID).
			Warn("realtime push failed, client will recover on next fetch")
	}
}

// afterCreate fans the created event out to every resolved recipient and
// drops their cached projections.
func (s *service) afterCreate(recipients []string, messageID string, at time.Time) {
	for _, userID := range recipients {
		if err := s.projCache.Invalidate(userID); err != nil {
			logrus.WithError(err).WithField("userId", userID).Warn("cache invalidation failed")
		}
		s.pushEvent(userID, notifier.Event{
			Event:     notifier.EventMessageCreated,
			MessageID: messageID,
			Timestamp: at,
		})
	}
}

// afterStateChange invalidates the user's cached projections, pushes the
// action events and follows with a fresh unread count. Count recomputation is
// itself best effort here; the authoritative value is always one GET away.
func (s *service) afterStateChange(ctx context.Context, userID string, messageIDs []string, at time.Time, events ...notifier.EventName) {
	if err := s.projCache.Invalidate(userID); err != nil {
		logrus.WithError(err).WithField("userId", userID).Warn("cache invalidation failed")
	}

	for _, id := range messageIDs {
		for _, name := range events {
			s.pushEvent(userID, notifier.Event{
				Event:     name,
				MessageID: id,
				Timestamp: at,
			})
		}
	}

	// Recompute straight from the store. Going through UnreadCounts would
	// write the result back to the cache, and that write is not ordered
	// against a concurrent mutation's invalidation: a slow write landing
	// after the other mutation's invalidate pins counts that miss it until
	// the TTL. Only the user-initiated read path populates the cache.
	msgs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("userId", userID).Warn("unread recount failed after mutation")
		return
	}
	s.pushEvent(userID, notifier.Event{
		Event:     notifier.EventUnreadCountUpdate,
		Timestamp: at,
		Counts:    computeUnread(msgs),
	})
}
