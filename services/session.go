package services

import (
	"context"
	"sync"

	"furniture-shop/models"
	"furniture-shop/utils"
)

// SessionManager reports who the current cart session belongs to. A nil user
// with a nil error means the session is a guest.
type SessionManager interface {
	GetUser(ctx context.Context) (*models.User, error)
	IsAuthenticated(ctx context.Context) bool
}

// TokenSession is a SessionManager backed by a bearer token that can change
// mid-session, e.g. when the shopper logs in between requests.
type TokenSession struct {
	mu    sync.RWMutex
	token string
}

func NewTokenSession(token string) *TokenSession {
	return &TokenSession{token: token}
}

func (s *TokenSession) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *TokenSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenSession) GetUser(ctx context.Context) (*models.User, error) {
	token := s.Token()
	if token == "" {
		return nil, nil
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

func (s *TokenSession) IsAuthenticated(ctx context.Context) bool {
	user, err := s.GetUser(ctx)
	return err == nil && user != nil
}
