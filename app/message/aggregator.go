package message

import "github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"

// computeUnread derives the unread counts from one user's active state
// entries. No denormalized counter exists anywhere; this scan is the whole
// aggregator, recomputed on demand.
func computeUnread(msgs []model.UserMessage) *model.UnreadCounts {
	counts := &model.UnreadCounts{}
	for _, um := range msgs {
		if !um.State.IsRemovedFromBell && !um.State.IsReadInBell {
			counts.BellCount++
		}
		if !um.State.IsDeletedFromSystem && !um.State.IsReadInSystem {
			counts.SystemCount++
		}
	}
	counts.Total = counts.BellCount + counts.SystemCount
	return counts
}
