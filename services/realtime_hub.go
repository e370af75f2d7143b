package services

import (
	"encoding/json"
	"sync"

	"recipebook/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type WSClient struct {
	ID    string
	Owner string
	Conn  Conn

	wmu sync.Mutex // gorilla allows one concurrent writer
}

func NewWSClient(owner string, conn Conn) *WSClient {
	return &WSClient{ID: uuid.NewString(), Owner: owner, Conn: conn}
}

func (c *WSClient) Write(messageType int, data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// RealtimeHub fans favorite events out to every open socket of an owner.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.Owner] == nil {
		h.clients[c.Owner] = make(map[*WSClient]struct{})
	}
	h.clients[c.Owner][c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes c and closes its connection. Calling it twice is safe.
func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	set := h.clients[c.Owner]
	_, present := set[c]
	if present {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.Owner)
		}
	}
	h.mu.Unlock()
	if present {
		_ = c.Conn.Close()
	}
}

func (h *RealtimeHub) Count(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[owner])
}

func (h *RealtimeHub) Broadcast(owner string, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		logger.Error("realtime payload marshal failed", zap.Error(err))
		return
	}
	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[owner]))
	for c := range h.clients[owner] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.Write(websocket.TextMessage, msg); err != nil {
			logger.Debug("realtime write failed", zap.String("client", c.ID), zap.Error(err))
			h.Unregister(c)
		}
	}
}
