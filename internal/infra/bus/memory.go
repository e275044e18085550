package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Hub is an in-process stand-in for the shared broker. Each Connect call
// models one execution context.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	origin  string
	pattern string
	h       Handler
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscription)}
}

type Endpoint struct {
	hub    *Hub
	origin string
}

var _ Bus = (*Endpoint)(nil)

func (h *Hub) Connect(origin string) *Endpoint {
	return &Endpoint{hub: h, origin: origin}
}

func (e *Endpoint) Origin() string { return e.origin }

func (e *Endpoint) Publish(ctx context.Context, pattern string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	msg := Message{Pattern: pattern, Origin: e.origin, ID: uuid.NewString(), Data: body}

	e.hub.mu.RLock()
	targets := make([]Handler, 0, len(e.hub.subs))
	for _, s := range e.hub.subs {
		if s.pattern == pattern && s.origin != e.origin {
			targets = append(targets, s.h)
		}
	}
	e.hub.mu.RUnlock()

	for _, h := range targets {
		h(ctx, msg)
	}
	return nil
}

func (e *Endpoint) Subscribe(pattern string, h Handler) (func(), error) {
	e.hub.mu.Lock()
	id := e.hub.nextID
	e.hub.nextID++
	e.hub.subs[id] = subscription{origin: e.origin, pattern: pattern, h: h}
	e.hub.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.hub.mu.Lock()
			delete(e.hub.subs, id)
			e.hub.mu.Unlock()
		})
	}, nil
}
