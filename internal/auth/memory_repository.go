package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores users and sessions in process memory, for local development and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]User
	sessions map[string]Session // keyed by token hash
}

// NewInMemoryRepository constructs an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:    make(map[uuid.UUID]User),
		sessions: make(map[string]Session),
	}
}

// FindUserByOAuth looks up a user by their OAuth provider and provider ID.
func (r *InMemoryRepository) FindUserByOAuth(_ context.Context, provider, providerID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.OAuthProvider == provider && u.OAuthProviderID == providerID {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

// FindUserByID looks up a user by primary key.
func (r *InMemoryRepository) FindUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := u
	return &copied, nil
}

// CreateUser stores a new user.
func (r *InMemoryRepository) CreateUser(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = user
	return user, nil
}

// UpdateUserLogin updates the user's last login time and refreshes profile data.
func (r *InMemoryRepository) UpdateUserLogin(_ context.Context, id uuid.UUID, name, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil
	}
	u.Name = name
	u.AvatarURL = avatarURL
	u.LastLoginAt = time.Now()
	u.UpdatedAt = u.LastLoginAt
	r.users[id] = u
	return nil
}

// CreateSession stores a new session keyed by its token hash.
func (r *InMemoryRepository) CreateSession(_ context.Context, session Session, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[tokenHash] = session
	return nil
}

// FindSessionByTokenHash looks up a session and its associated user by token hash.
func (r *InMemoryRepository) FindSessionByTokenHash(_ context.Context, tokenHash string) (*Session, *User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[tokenHash]
	if !ok {
		return nil, nil, nil
	}
	u, ok := r.users[s.UserID]
	if !ok {
		return nil, nil, nil
	}
	sessionCopy := s
	userCopy := u
	return &sessionCopy, &userCopy, nil
}

// DeleteSession removes a session by ID.
func (r *InMemoryRepository) DeleteSession(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, s := range r.sessions {
		if s.ID == id {
			delete(r.sessions, hash)
			break
		}
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions.
func (r *InMemoryRepository) DeleteExpiredSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for hash, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, hash)
			removed++
		}
	}
	return removed, nil
}
