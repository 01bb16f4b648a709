package services

import (
	"context"
	"sync"
	"time"

	"furniture-shop/libs"
	"furniture-shop/repositories"
)

// CartRegistry maps cart session ids to their engines. Engines are created
// lazily on first sight of a session and dropped after a period of
// inactivity; the durable state (guest cart, server cart) outlives them.
type CartRegistry struct {
	commerce  *libs.CommerceClient
	guestRepo *repositories.GuestCartRepository
	idleTTL   time.Duration

	mu      sync.Mutex
	engines map[string]*registryEntry
}

type registryEntry struct {
	engine   *CartEngine
	session  *TokenSession
	lastSeen time.Time
}

func NewCartRegistry(commerce *libs.CommerceClient, guestRepo *repositories.GuestCartRepository) *CartRegistry {
	return &CartRegistry{
		commerce:  commerce,
		guestRepo: guestRepo,
		idleTTL:   time.Hour,
		engines:   make(map[string]*registryEntry),
	}
}

// Engine returns the cart engine for a session, creating it on first use.
// A change in token presence (login or logout since the last request)
// re-derives the engine's auth mode, which is what triggers the
// guest-to-server merge after a login.
func (r *CartRegistry) Engine(ctx context.Context, sessionID, token string) *CartEngine {
	r.mu.Lock()
	r.sweepLocked()

	entry, ok := r.engines[sessionID]
	if !ok {
		ts := NewTokenSession(token)
		engine := NewCartEngine(ts, r.commerce.CartSession(ts.Token), r.guestRepo.Session(sessionID))
		entry = &registryEntry{engine: engine, session: ts}
		r.engines[sessionID] = entry
		entry.lastSeen = time.Now()
		r.mu.Unlock()

		engine.LoadCartMeta(ctx)
		engine.CheckAuthStatus(ctx)
		return engine
	}

	hadToken := entry.session.Token() != ""
	entry.session.SetToken(token)
	entry.lastSeen = time.Now()
	r.mu.Unlock()

	if hadToken != (token != "") {
		entry.engine.CheckAuthStatus(ctx)
	}
	return entry.engine
}

// sweepLocked drops engines idle past the TTL. Called with the mutex held.
func (r *CartRegistry) sweepLocked() {
	cutoff := time.Now().Add(-r.idleTTL)
	for id, entry := range r.engines {
		if entry.lastSeen.Before(cutoff) {
			delete(r.engines, id)
		}
	}
}
