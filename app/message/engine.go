package message

import (
	"time"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

// StateChange is the set of recipient-state fields one mutation may flip.
// Only the constructors below build them; they are the single code path that
// decides which flags a mutation touches, so the coupling between the two
// projections lives here and nowhere else.
type StateChange struct {
	ReadInBell        *bool
	ReadInSystem      *bool
	RemovedFromBell   *bool
	DeletedFromSystem *bool
	At                time.Time
}

func boolPtr(b bool) *bool { return &b }

// markReadEverywhere couples the read flags of both projections: there is no
// mutation that marks only one of them. Re-applying to an already-read entry
// sets the same values again, so the operation is idempotent.
func markReadEverywhere(at time.Time) StateChange {
	return StateChange{
		ReadInBell:   boolPtr(true),
		ReadInSystem: boolPtr(true),
		At:           at,
	}
}

// removeFromBell hides the message from the bell feed only. Read flags and
// the system projection are untouched.
func removeFromBell(at time.Time) StateChange {
	return StateChange{
		RemovedFromBell: boolPtr(true),
		At:              at,
	}
}

// deleteFromSystem hides the message from the system list only. Read flags
// and the bell projection are untouched.
func deleteFromSystem(at time.Time) StateChange {
	return StateChange{
		DeletedFromSystem: boolPtr(true),
		At:                at,
	}
}

// apply writes a change onto an in-memory state record. Store backends with
// native per-field updates (mongo $set) mirror exactly this mapping.
func apply(st *model.RecipientState, change StateChange) {
	if change.ReadInBell != nil {
		st.IsReadInBell = *change.ReadInBell
	}
	if change.ReadInSystem != nil {
		st.IsReadInSystem = *change.ReadInSystem
	}
	if change.RemovedFromBell != nil {
		st.IsRemovedFromBell = *change.RemovedFromBell
	}
	if change.DeletedFromSystem != nil {
		st.IsDeletedFromSystem = *change.DeletedFromSystem
	}
	st.LastInteractionAt = change.At
}
