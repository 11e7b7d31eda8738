package naya

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// SessionState describes the token lifecycle.
type SessionState int

const (
	// Anonymous: no tokens held.
	Anonymous SessionState = iota
	// Authenticated: a usable access token, optional refresh token.
	Authenticated
	// Refreshing: a refresh call is in flight.
	Refreshing
)

func (s SessionState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	default:
		return "anonymous"
	}
}

// SessionManager owns the current-user identity and the token
// lifecycle. It is the only writer of session state; every other
// component reads through it.
type SessionManager struct {
	store   CredentialStore
	gateway Gateway
	clock   Clock
	logger  Logger

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *User
	refreshing   bool

	refreshGroup singleflight.Group
}

var _ TokenSource = (*SessionManager)(nil)

// NewSessionManager hydrates tokens from the credential store. The user
// record is not persisted; it is re-fetched on demand after a restart.
func NewSessionManager(store CredentialStore, gateway Gateway, clock Clock, logger Logger) *SessionManager {
	s := &SessionManager{store: store, gateway: gateway, clock: clock, logger: logger}
	if token, ok := store.Get(KeyAccessToken); ok {
		s.accessToken = token
	}
	if token, ok := store.Get(KeyRefreshToken); ok {
		s.refreshToken = token
	}
	return s
}

// State reports the current lifecycle state.
func (s *SessionManager) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.refreshing:
		return Refreshing
	case s.accessToken != "":
		return Authenticated
	default:
		return Anonymous
	}
}

// IsAuthenticated reports whether an access token is held.
func (s *SessionManager) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

// CurrentUser returns the cached user record, or nil when anonymous or
// not yet loaded this run.
func (s *SessionManager) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Establish installs a fresh session after login or registration.
// All three pieces are persisted.
func (s *SessionManager) Establish(accessToken, refreshToken string, user *User) {
	s.mu.Lock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.user = user
	s.mu.Unlock()

	if accessToken != "" {
		s.store.Set(KeyAccessToken, accessToken)
	} else {
		s.store.Remove(KeyAccessToken)
	}
	if refreshToken != "" {
		s.store.Set(KeyRefreshToken, refreshToken)
	} else {
		s.store.Remove(KeyRefreshToken)
	}
}

// UpdateUser replaces the cached user record after a profile or avatar
// update. Tokens are untouched.
func (s *SessionManager) UpdateUser(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Clear drops all session state: explicit logout, deactivation, or an
// unresolvable 401. Idempotent.
func (s *SessionManager) Clear() {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.mu.Unlock()

	s.store.Remove(KeyAccessToken)
	s.store.Remove(KeyRefreshToken)
}

// AccessToken implements TokenSource.
func (s *SessionManager) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.accessToken != ""
}

// RefreshToken implements TokenSource.
func (s *SessionManager) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken, s.refreshToken != ""
}

// Invalidate implements TokenSource.
func (s *SessionManager) Invalidate() {
	s.Clear()
}

// AccessTokenExpired peeks at the unverified exp claim of the access
// token. Only the server verifies signatures; the client just avoids
// sending a token it already knows is dead. Unparseable or claimless
// tokens report false so opaque tokens keep working.
func (s *SessionManager) AccessTokenExpired() bool {
	token, ok := s.AccessToken()
	if !ok {
		return false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(s.clock.Now())
}

// Refresh exchanges the refresh token for a new access token. Concurrent
// callers are coalesced into one in-flight call and all receive the same
// outcome; a failed refresh clears the session exactly once.
func (s *SessionManager) Refresh(ctx context.Context) error {
	if _, ok := s.RefreshToken(); !ok {
		return NewError(KindSessionExpired, "session expired, please log in again")
	}

	_, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		s.setRefreshing(true)
		defer s.setRefreshing(false)

		var resp struct {
			AccessToken string `json:"access_token"`
		}
		err := s.gateway.Call(ctx, "/auth/refresh", CallOptions{
			Method:          http.MethodPost,
			RequiresAuth:    true,
			SkipRefresh:     true,
			UseRefreshToken: true,
		}, &resp)
		if err != nil {
			s.logger.Warn("token refresh failed", "error", err)
			s.Clear()
			return nil, err
		}
		if resp.AccessToken == "" {
			s.Clear()
			return nil, NewError(KindSessionExpired, "could not refresh the session, please log in again")
		}

		// Replace the access token in place; user and refresh token are unchanged.
		s.mu.Lock()
		s.accessToken = resp.AccessToken
		s.mu.Unlock()
		s.store.Set(KeyAccessToken, resp.AccessToken)

		s.logger.Debug("access token refreshed")
		return nil, nil
	})
	return err
}

func (s *SessionManager) setRefreshing(v bool) {
	s.mu.Lock()
	s.refreshing = v
	s.mu.Unlock()
}
