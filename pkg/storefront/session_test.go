package storefront

import "testing"

func TestSessionListenersAndUnsubscribe(t *testing.T) {
	s := NewSession(nil)
	var got []AuthEvent
	unsubscribe := s.OnAuthStateChange(func(event AuthEvent, state *SessionState) {
		got = append(got, event)
	})

	s.set(EventSignedIn, &SessionState{AccessToken: "a1", RefreshToken: "r1"})
	if s.AccessToken() != "a1" || s.RefreshToken() != "r1" {
		t.Fatalf("unexpected tokens %q %q", s.AccessToken(), s.RefreshToken())
	}
	unsubscribe()
	unsubscribe()
	s.set(EventSignedOut, nil)

	if len(got) != 1 || got[0] != EventSignedIn {
		t.Fatalf("unexpected events %v", got)
	}
	if s.Current() != nil {
		t.Fatal("expected signed-out session")
	}
}

func TestSessionCurrentReturnsCopy(t *testing.T) {
	s := NewSession(&SessionState{AccessToken: "a1", User: &User{Email: "asha@example.com"}})
	current := s.Current()
	current.AccessToken = "tampered"
	current.User.Email = "tampered@example.com"

	again := s.Current()
	if again.AccessToken != "a1" || again.User.Email != "asha@example.com" {
		t.Fatalf("session state mutated through a copy: %+v", again)
	}
}

func TestSessionListenerMayReadSession(t *testing.T) {
	s := NewSession(nil)
	var seen string
	s.OnAuthStateChange(func(AuthEvent, *SessionState) {
		seen = s.AccessToken()
	})
	s.set(EventTokenRefreshed, &SessionState{AccessToken: "a2"})
	if seen != "a2" {
		t.Fatalf("expected listener to observe the new token, got %q", seen)
	}
}
