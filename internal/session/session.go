package session

import "user_center/internal/model"

// LoginStateKey is the attribute under which the logged-in user's
// sanitized view is stored.
const LoginStateKey = "login_state"

// Session is a mutable, request-scoped attribute store. It is passed by
// reference into service calls that need the caller's identity; a nil
// session means there is nowhere to persist login state, which the
// service treats as a system error.
type Session struct {
	values map[string]any
}

// New creates an empty session.
func New() *Session {
	return &Session{values: make(map[string]any)}
}

// Set stores an attribute.
func (s *Session) Set(key string, value any) {
	s.values[key] = value
}

// Get returns an attribute and whether it was present.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// SetCurrentUser binds the sanitized user to the session login state.
func (s *Session) SetCurrentUser(u *model.SafeUser) {
	s.Set(LoginStateKey, u)
}

// CurrentUser returns the logged-in user's sanitized view, if any.
func (s *Session) CurrentUser() (*model.SafeUser, bool) {
	v, ok := s.Get(LoginStateKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.SafeUser)
	return u, ok && u != nil
}
