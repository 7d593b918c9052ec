// Package auth implements the shared-password login and the in-memory
// session-token store.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultTTL is how long a token stays valid after its last use.
const DefaultTTL = 24 * time.Hour

const sweepInterval = time.Hour

// Store holds the process-wide set of live session tokens. Tokens are
// opaque, expire TTL after last use and are reaped by a periodic sweep.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]time.Time // token -> expiry
	done     chan struct{}
	stopOnce sync.Once
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]time.Time),
		done:     make(chan struct{}),
	}
}

// Issue creates and registers a new token.
func (s *Store) Issue() string {
	b := make([]byte, 32)
	rand.Read(b)
	token := hex.EncodeToString(b)

	s.mu.Lock()
	s.sessions[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return token
}

// Validate reports whether the token is live. Each successful use
// refreshes the expiry.
func (s *Store) Validate(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(s.sessions, token)
		return false
	}
	s.sessions[token] = time.Now().Add(s.ttl)
	return true
}

func (s *Store) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// SweepExpired drops tokens whose expiry precedes now, returning how
// many were removed.
func (s *Store) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, exp := range s.sessions {
		if now.After(exp) {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

// Run sweeps periodically until Close. Meant for a goroutine.
func (s *Store) Run() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case now := <-t.C:
			s.SweepExpired(now)
		case <-s.done:
			return
		}
	}
}

func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.done) })
}

// CheckPassword compares the presented password against the configured
// shared one in constant time.
func CheckPassword(configured, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(configured), []byte(presented)) == 1
}
