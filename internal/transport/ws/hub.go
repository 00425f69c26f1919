package ws

import (
	"sync"

	"github.com/wangxiaochuang/05-chat/internal/domain"
)

// Hub — реестр соединений инстанса: userID -> множество устройств.
type Hub struct {
	mu    sync.RWMutex
	users map[int64]map[*Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{users: make(map[int64]map[*Conn]struct{})}
}

func (h *Hub) Add(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.users[c.userID]
	if !ok {
		set = make(map[*Conn]struct{})
		h.users[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Remove(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.users[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.users, c.userID)
		}
	}
}

// Dispatch раздаёт событие всем соединениям его получателей.
// Не блокируется: доставка идёт через bounded-очереди соединений.
func (h *Hub) Dispatch(evt *domain.ChangeEvent) {
	f := Frame{Type: TypeEvent, Event: evt}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range evt.Recipients {
		for c := range h.users[userID] {
			c.Enqueue(f)
		}
	}
}
