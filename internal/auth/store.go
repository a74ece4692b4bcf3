package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"allinone-backend/internal/models"

	"github.com/jaevor/go-nanoid"
)

var (
	ErrMissingToken  = errors.New("token is required")
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token has expired")
)

// TokenStore holds the issued opaque session tokens in memory, keyed by the
// token string. It is constructed once per process (or once per test) and
// injected where needed; there is no ambient global instance.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]*models.AuthToken
	ttl    time.Duration
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenStore{
		tokens: make(map[string]*models.AuthToken),
		ttl:    ttl,
	}
}

// Issue creates a new opaque token for the user and stores it.
func (s *TokenStore) Issue(user *models.User) (*models.AuthToken, error) {
	generateID, err := nanoid.Standard(24)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	now := time.Now()
	token := &models.AuthToken{
		Token:     generateID(),
		UserID:    user.ID,
		Username:  user.Username,
		Platform:  user.Platform,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.tokens[token.Token] = token
	s.mu.Unlock()

	return token, nil
}

// Verify returns the session bound to the token, or nil when the token is
// absent or expired. It never mutates the store.
func (s *TokenStore) Verify(tokenString string) *models.AuthToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[tokenString]
	if !ok || !token.Valid(time.Now()) {
		return nil
	}
	return token
}

// VerifyExplicit is the API-facing variant of Verify: it distinguishes a
// missing token, an unknown token and an expired one, so handlers can map
// each to its own status code.
func (s *TokenStore) VerifyExplicit(tokenString string) (*models.AuthToken, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	s.mu.RLock()
	token, ok := s.tokens[tokenString]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrTokenNotFound
	}
	if !token.Valid(time.Now()) {
		return nil, ErrTokenExpired
	}
	return token, nil
}

// Delete removes a token. Deleting an unknown token is a no-op.
func (s *TokenStore) Delete(tokenString string) {
	s.mu.Lock()
	delete(s.tokens, tokenString)
	s.mu.Unlock()
}

// Cleanup evicts every token past its expiry and returns how many were
// removed. Meant to run periodically from a janitor goroutine.
func (s *TokenStore) Cleanup() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, token := range s.tokens {
		if !token.Valid(now) {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed
}
