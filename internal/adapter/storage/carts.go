package storage

import (
	"sync"

	"github.com/phlox/storefront/internal/core/domain"
	"github.com/phlox/storefront/internal/core/port"
)

var _ port.CartStore = (*SessionCarts)(nil)

// SessionCarts owns one cart per browser session, in memory only.
// Carts live for the lifetime of the process; nothing durable here.
type SessionCarts struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewSessionCarts() *SessionCarts {
	return &SessionCarts{carts: make(map[string]*domain.Cart)}
}

// Snapshot returns a copy of the session's cart. An unknown session
// yields an empty cart.
func (s *SessionCarts) Snapshot(sessionID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return domain.Cart{}
	}
	return c.Clone()
}

// Update runs fn against the session's cart under the store lock,
// creating the cart on first use. fn must not retain the pointer.
func (s *SessionCarts) Update(sessionID string, fn func(*domain.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = &domain.Cart{}
		s.carts[sessionID] = c
	}
	fn(c)
}
