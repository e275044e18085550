// Package signal provides typed in-process signals. Handlers run
// synchronously on the emitting goroutine, in connection order.
package signal

import (
	"context"
	"sync"
)

type Signal[T any] struct {
	name     string
	mu       sync.RWMutex
	handlers []func(context.Context, T)
}

func New[T any](name string) *Signal[T] {
	return &Signal[T]{name: name}
}

func (s *Signal[T]) Name() string { return s.name }

func (s *Signal[T]) Connect(h func(context.Context, T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

func (s *Signal[T]) Emit(ctx context.Context, v T) {
	if s == nil {
		return
	}
	s.mu.RLock()
	hs := make([]func(context.Context, T), len(s.handlers))
	copy(hs, s.handlers)
	s.mu.RUnlock()
	for _, h := range hs {
		h(ctx, v)
	}
}
