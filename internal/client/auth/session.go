package auth

import "sync"

// Identity is the signed-in user as the console sees it.
type Identity struct {
	ID    string
	Email string
}

// Session holds the logged-in flag and the current identity. User is set
// iff the session is logged in.
type Session struct {
	mu       sync.RWMutex
	loggedIn bool
	user     *Identity
}

// NewSession returns a logged-out session.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) SignIn(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.user = &id
}

func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.user = nil
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Snapshot returns a copy of the current identity and whether the session
// is logged in.
func (s *Session) Snapshot() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loggedIn {
		return Identity{}, false
	}
	return *s.user, true
}
