package message

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

// MemStore is an in-memory Store. It backs tests and local development; the
// mutex gives it the same per-key write isolation the mongo store gets from
// single-document updates.
type MemStore struct {
	mu       sync.RWMutex
	messages map[primitive.ObjectID]*model.Message
	states   map[primitive.ObjectID]map[string]*model.RecipientState
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		messages: make(map[primitive.ObjectID]*model.Message),
		states:   make(map[primitive.ObjectID]map[string]*model.RecipientState),
	}
}

func (s *MemStore) Insert(ctx context.Context, msg *model.Message, states []model.RecipientState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := *msg
	s.messages[m.ID] = &m

	byUser := make(map[string]*model.RecipientState, len(states))
	for i := range states {
		st := states[i]
		byUser[st.UserID] = &st
	}
	s.states[m.ID] = byUser
	return nil
}

func (s *MemStore) Get(ctx context.Context, id primitive.ObjectID) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	ret := *msg
	return &ret, nil
}

func (s *MemStore) ApplyState(ctx context.Context, id primitive.ObjectID, userID string, change StateChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id][userID]
	if !ok {
		return ErrNotFound
	}
	apply(st, change)
	return nil
}

func (s *MemStore) ListForUser(ctx context.Context, userID string) ([]model.UserMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ret := make([]model.UserMessage, 0)
	for id, byUser := range s.states {
		st, ok := byUser[userID]
		if !ok {
			continue
		}
		msg, ok := s.messages[id]
		if !ok || !msg.IsActive {
			continue
		}
		m := *msg
		stCopy := *st
		ret = append(ret, model.UserMessage{Message: &m, State: &stCopy})
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Message.CreatedAt.After(ret[j].Message.CreatedAt)
	})
	return ret, nil
}

func (s *MemStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flipped int64
	for _, msg := range s.messages {
		if msg.IsActive && msg.ExpiresAt != nil && !msg.ExpiresAt.After(now) {
			msg.IsActive = false
			flipped++
		}
	}
	return flipped, nil
}

func (s *MemStore) PurgeLegacy(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for id, byUser := range s.states {
		if _, ok := s.messages[id]; !ok {
			purged += int64(len(byUser))
			delete(s.states, id)
		}
	}
	return purged, nil
}

// State returns a copy of one recipient state entry, for inspection in tests.
func (s *MemStore) State(id primitive.ObjectID, userID string) (*model.RecipientState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[id][userID]
	if !ok {
		return nil, false
	}
	ret := *st
	return &ret, true
}

// StateCount reports how many recipient entries exist for a message.
func (s *MemStore) StateCount(id primitive.ObjectID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states[id])
}
