// Package session holds the authenticated identity used for every call
// against the accounting API. There is one Store per agent loop; a new
// login overwrites it wholesale and logout clears it.
package session

import (
	"sync"

	"github.com/oreem-dev/pouch-agent/pkg/apperrors"
)

// Store is the per-conversation authentication state. All fields are empty
// until a login succeeds. The login handler must only call Set after the
// upstream login call has reported success, so a failed login never leaves
// a populated but invalid session behind.
//
// Store is safe for concurrent use: the MCP stdio transport runs tool calls
// on a worker pool, so handlers may read the session while a login writes it.
type Store struct {
	mu        sync.RWMutex
	user      string
	password  string
	companyID string
}

// NewStore creates an empty, unauthenticated Store.
func NewStore() *Store {
	return &Store{}
}

// IsAuthenticated reports whether a login has populated the session.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated()
}

func (s *Store) authenticated() bool {
	return s.user != "" && s.password != "" && s.companyID != ""
}

// Set overwrites the session with new credentials. No merge: every field is
// replaced.
func (s *Store) Set(user, password, companyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.password = password
	s.companyID = companyID
}

// Clear empties all session fields.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = ""
	s.password = ""
	s.companyID = ""
}

// AuthHeaders returns the headers the accounting API expects on every
// authenticated request. Fails with an AUTH_REQUIRED error when the session
// is empty.
func (s *Store) AuthHeaders() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.authenticated() {
		return nil, apperrors.New(apperrors.ErrCodeAuthRequired, "no session present", nil)
	}
	return map[string]string{
		"Accept":     "application/json",
		"X-COMPANY":  s.companyID,
		"X-USER":     s.user,
		"X-PASSWORD": s.password,
	}, nil
}
