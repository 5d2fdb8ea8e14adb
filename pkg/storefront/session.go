package storefront

import (
	"sort"
	"sync"
)

// AuthEvent names a session transition delivered to OnAuthStateChange listeners.
type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// SessionState is the signed-in identity. A nil state means signed out.
type SessionState struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

func (s *SessionState) clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	return &out
}

// AuthListener observes session transitions. It receives a copy of the new state.
type AuthListener func(event AuthEvent, state *SessionState)

// Session holds the current identity for one Client. Only the owning Client writes it;
// everything else reads a copy or subscribes.
type Session struct {
	mu        sync.RWMutex
	state     *SessionState
	listeners map[int]AuthListener
	nextID    int
}

// NewSession returns a holder seeded with state, which may be nil.
func NewSession(state *SessionState) *Session {
	return &Session{state: state.clone(), listeners: map[int]AuthListener{}}
}

// Current returns a copy of the state, or nil when signed out.
func (s *Session) Current() *SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.AccessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.RefreshToken
}

// OnAuthStateChange registers fn and returns its unsubscribe func. Listeners run synchronously
// on the writer's goroutine, in registration order.
func (s *Session) OnAuthStateChange(fn AuthListener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) set(event AuthEvent, state *SessionState) {
	s.mu.Lock()
	s.state = state.clone()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]AuthListener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(event, state.clone())
	}
}
