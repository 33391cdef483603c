// Package session holds runtime state for the active pad.
package session

import "sync"

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	PasswordMode  bool
	Authenticated bool
	InputEnabled  bool
	SmoothScroll  bool
}

// Session holds runtime state for the active pad.
type Session struct {
	mu            sync.RWMutex
	password      string
	passwordMode  bool
	authenticated bool
	inputEnabled  bool
	smoothScroll  bool
}

// New returns an initialized session. An empty password disables login.
func New(password string, passwordMode bool) *Session {
	return &Session{
		password:     password,
		passwordMode: passwordMode && password != "",
		inputEnabled: true,
	}
}

// Authenticate validates the password and marks the session as authenticated.
func (s *Session) Authenticate(pass string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pass != "" && pass == s.password {
		s.authenticated = true
		return true
	}
	s.authenticated = false
	return false
}

// Logout clears authentication state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// IsAuthenticated reports whether the session is authenticated.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Authorized reports whether requests may proceed: always when password mode is off.
func (s *Session) Authorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.passwordMode || s.authenticated
}

// SetInputEnabled toggles whether inputs are forwarded to the host.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether inputs are forwarded to the host.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// SetSmoothScroll selects smooth scrolling for the scroll area.
func (s *Session) SetSmoothScroll(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.smoothScroll = on
}

// SmoothScroll reports whether smooth scrolling is selected.
func (s *Session) SmoothScroll() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.smoothScroll
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		PasswordMode:  s.passwordMode,
		Authenticated: s.authenticated,
		InputEnabled:  s.inputEnabled,
		SmoothScroll:  s.smoothScroll,
	}
}
