package cart

import (
	"sync"
	"time"
)

// DefaultSessionIdle is how long an untouched cart is kept.
const DefaultSessionIdle = 2 * time.Hour

const sweepEvery = time.Minute

type session struct {
	mu       sync.Mutex
	cart     *Cart
	lastUsed time.Time // guarded by Sessions.mu
	dead     bool      // guarded by mu
}

// Sessions holds one Cart per shopper session. Only non-empty carts are
// kept, and carts idle for longer than the idle window are swept.
type Sessions struct {
	mu        sync.Mutex
	m         map[string]*session
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[string]*session), idle: DefaultSessionIdle, now: time.Now}
}

// With runs fn with exclusive access to the session's cart, creating it on
// first use. A cart left empty by fn is dropped.
func (s *Sessions) With(id string, fn func(*Cart) error) error {
	for {
		sess := s.acquire(id, true)
		sess.mu.Lock()
		if sess.dead {
			sess.mu.Unlock()
			continue
		}
		err := fn(sess.cart)
		if sess.cart.Len() == 0 {
			s.remove(id, sess)
		}
		sess.mu.Unlock()
		return err
	}
}

// View runs fn on an existing cart without creating one. It reports whether
// the session exists.
func (s *Sessions) View(id string, fn func(*Cart)) bool {
	for {
		sess := s.acquire(id, false)
		if sess == nil {
			return false
		}
		sess.mu.Lock()
		if sess.dead {
			sess.mu.Unlock()
			continue
		}
		fn(sess.cart)
		sess.mu.Unlock()
		return true
	}
}

func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	sess, ok := s.m[id]
	delete(s.m, id)
	s.mu.Unlock()
	if ok {
		sess.mu.Lock()
		sess.dead = true
		sess.mu.Unlock()
	}
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *Sessions) acquire(id string, create bool) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)

	sess, ok := s.m[id]
	if !ok {
		if !create {
			return nil
		}
		sess = &session{cart: New()}
		s.m[id] = sess
	}
	sess.lastUsed = now
	return sess
}

// remove deletes id if it still maps to sess. The caller holds sess.mu.
func (s *Sessions) remove(id string, sess *session) {
	s.mu.Lock()
	if s.m[id] == sess {
		delete(s.m, id)
	}
	s.mu.Unlock()
	sess.dead = true
}

func (s *Sessions) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepEvery {
		return
	}
	s.lastSweep = now
	for id, sess := range s.m {
		if now.Sub(sess.lastUsed) > s.idle {
			delete(s.m, id)
		}
	}
}
