// Package session maps opaque bearer tokens to canonical usernames.
// Sessions live only in memory and vanish on restart.
package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderAuthToken     = "X-Auth-Token"

	bearerPrefix = "Bearer "
)

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]string
	newToken func() string
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]string),
		newToken: func() string { return uuid.NewString() },
	}
}

// Create issues a new token for usernameLower. A user may hold any number
// of tokens at once.
func (m *Manager) Create(usernameLower string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := m.newToken()
	for {
		if _, taken := m.sessions[token]; !taken {
			break
		}
		token = m.newToken()
	}
	m.sessions[token] = usernameLower
	return token
}

func (m *Manager) Resolve(token string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	usernameLower, ok := m.sessions[token]
	return usernameLower, ok
}

// Revoke forgets token. Unknown tokens are ignored.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Close drops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.sessions)
}

// ExtractToken reads a bearer token from the Authorization header value,
// falling back to the X-Auth-Token header value.
func ExtractToken(authorization, alt string) string {
	if strings.HasPrefix(authorization, bearerPrefix) {
		return strings.TrimSpace(authorization[len(bearerPrefix):])
	}
	return strings.TrimSpace(alt)
}
