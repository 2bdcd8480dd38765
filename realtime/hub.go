// Package realtime delivers user-addressed events over websockets. Events
// are mirrored through a redis pub/sub channel so every node can reach
// sessions attached to any other node.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/cache"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/consts"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/notifier"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/util"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross origin browsing contexts are screened by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type envelope struct {
	UserID string         `json:"userId"`
	Event  notifier.Event `json:"event"`
}

// Hub is the registry of live websocket sessions on this node. It implements
// notifier.Sink.
type Hub struct {
	cache *cache.Cache

	mu    sync.RWMutex
	conns map[string]map[*Connection]struct{}
}

// NewHub creates a hub. cache may be nil, in which case events are delivered
// to local sessions only.
func NewHub(c *cache.Cache) *Hub {
	return &Hub{
		cache: c,
		conns: make(map[string]map[*Connection]struct{}),
	}
}

// Push implements notifier.Sink. With a cache configured the event travels
// through pub/sub so other nodes see it too; the subscribe loop delivers it
// back to local sessions.
func (h *Hub) Push(userID string, event notifier.Event) error {
	if h.cache != nil {
		payload, err := json.Marshal(envelope{UserID: userID, Event: event})
		if err != nil {
			return err
		}
		return h.cache.Publish(consts.RealtimeChannel, string(payload))
	}
	// Sessions receive the bare event either way; the envelope exists only
	// to route through pub/sub.
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.deliver(userID, raw)
	return nil
}

// Run consumes the pub/sub mirror until ctx is done. It is a no-op without a
// cache.
func (h *Hub) Run(ctx context.Context) {
	if h.cache == nil {
		return
	}
	defer util.RecoverGoroutinePanic(nil)

	ch, err := h.cache.Subscribe(consts.RealtimeChannel)
	if err != nil {
		logrus.WithError(err).Error("realtime: unable to subscribe to event channel")
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logrus.WithError(err).Warn("realtime: dropping malformed event payload")
				continue
			}
			raw, err := json.Marshal(env.Event)
			if err != nil {
				continue
			}
			h.deliver(env.UserID, raw)
		}
	}
}

// Attach upgrades the request and registers the session for userID. It
// returns once the socket is upgraded; pumps run in the background.
func (h *Hub) Attach(userID string, w http.ResponseWriter, r *http.Request) error {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	conn := newConnection(userID, ws, h.unregister)
	h.register(conn)
	conn.start()
	return nil
}

// Connected reports whether userID has at least one live session on this node.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[c.UserID]
	if !ok {
		set = make(map[*Connection]struct{})
		h.conns[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, c.UserID)
		}
	}
}

func (h *Hub) deliver(userID string, payload []byte) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns[userID]))
	for c := range h.conns[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.enqueue(payload); err != nil {
			logrus.WithError(err).WithField("userId", userID).
				Debug("realtime: dropped event for session")
		}
	}
}
