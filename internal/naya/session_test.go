package naya_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"naya-cli/internal/naya"
	"naya-cli/internal/testutil"
)

// stubGateway scripts the response of the refresh endpoint.
type stubGateway struct {
	mu      sync.Mutex
	calls   int
	opts    naya.CallOptions
	err     error
	access  string
	release chan struct{} // when set, Call blocks until closed
}

func (g *stubGateway) Call(_ context.Context, path string, opts naya.CallOptions, out any) error {
	g.mu.Lock()
	g.calls++
	g.opts = opts
	release := g.release
	g.mu.Unlock()

	if release != nil {
		<-release
	}
	if g.err != nil {
		return g.err
	}
	if resp, ok := out.(*struct {
		AccessToken string `json:"access_token"`
	}); ok {
		resp.AccessToken = g.access
	}
	return nil
}

func (g *stubGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func newSession(store naya.CredentialStore, gw naya.Gateway, clock naya.Clock) *naya.SessionManager {
	if clock == nil {
		clock = testutil.FixedClock()
	}
	return naya.NewSessionManager(store, gw, clock, naya.NewNopLogger())
}

func TestSessionManager_Lifecycle(t *testing.T) {
	t.Run("hydrates tokens from the store", func(t *testing.T) {
		store := testutil.NewStubCredentialStore()
		store.Seed(naya.KeyAccessToken, "access")
		store.Seed(naya.KeyRefreshToken, "refresh")

		s := newSession(store, &stubGateway{}, nil)
		if !s.IsAuthenticated() {
			t.Error("IsAuthenticated() = false after hydration")
		}
		if s.State() != naya.Authenticated {
			t.Errorf("State() = %v", s.State())
		}
		if s.CurrentUser() != nil {
			t.Error("CurrentUser() should be nil until fetched")
		}
	})

	t.Run("establish persists both tokens", func(t *testing.T) {
		store := testutil.NewStubCredentialStore()
		s := newSession(store, &stubGateway{}, nil)

		s.Establish("access", "refresh", &naya.User{ID: "u1", Username: "ana"})

		if v, _ := store.Get(naya.KeyAccessToken); v != "access" {
			t.Errorf("stored access token = %q", v)
		}
		if v, _ := store.Get(naya.KeyRefreshToken); v != "refresh" {
			t.Errorf("stored refresh token = %q", v)
		}
		if u := s.CurrentUser(); u == nil || u.Username != "ana" {
			t.Errorf("CurrentUser() = %+v", u)
		}
	})

	t.Run("clear is idempotent and removes stored tokens", func(t *testing.T) {
		store := testutil.NewStubCredentialStore()
		s := newSession(store, &stubGateway{}, nil)
		s.Establish("access", "refresh", nil)

		s.Clear()
		s.Clear()

		if s.IsAuthenticated() {
			t.Error("still authenticated after Clear()")
		}
		if _, ok := store.Get(naya.KeyAccessToken); ok {
			t.Error("access token survived Clear()")
		}
		if _, ok := store.Get(naya.KeyRefreshToken); ok {
			t.Error("refresh token survived Clear()")
		}
	})
}

func TestSessionManager_Refresh(t *testing.T) {
	t.Run("fails fast without a refresh token", func(t *testing.T) {
		gw := &stubGateway{}
		s := newSession(testutil.NewStubCredentialStore(), gw, nil)
		s.Establish("access", "", nil)

		err := s.Refresh(context.Background())
		if !naya.IsKind(err, naya.KindSessionExpired) {
			t.Fatalf("error = %v, want SESSION_EXPIRED", err)
		}
		if gw.callCount() != 0 {
			t.Errorf("gateway calls = %d, want 0", gw.callCount())
		}
	})

	t.Run("replaces the access token and persists it", func(t *testing.T) {
		store := testutil.NewStubCredentialStore()
		gw := &stubGateway{access: "new-access"}
		s := newSession(store, gw, nil)
		s.Establish("old-access", "refresh", &naya.User{Username: "ana"})

		if err := s.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		if token, _ := s.AccessToken(); token != "new-access" {
			t.Errorf("access token = %q", token)
		}
		if v, _ := store.Get(naya.KeyAccessToken); v != "new-access" {
			t.Errorf("stored access token = %q", v)
		}
		if token, _ := s.RefreshToken(); token != "refresh" {
			t.Errorf("refresh token changed to %q", token)
		}
		if u := s.CurrentUser(); u == nil || u.Username != "ana" {
			t.Error("user record lost during refresh")
		}
		if gw.opts.SkipRefresh != true || gw.opts.UseRefreshToken != true {
			t.Errorf("refresh call options = %+v", gw.opts)
		}
	})

	t.Run("clears the session when the refresh call fails", func(t *testing.T) {
		store := testutil.NewStubCredentialStore()
		gw := &stubGateway{err: errors.New("boom")}
		s := newSession(store, gw, nil)
		s.Establish("access", "refresh", nil)

		if err := s.Refresh(context.Background()); err == nil {
			t.Fatal("Refresh() expected error")
		}
		if s.IsAuthenticated() {
			t.Error("still authenticated after failed refresh")
		}
		if _, ok := store.Get(naya.KeyRefreshToken); ok {
			t.Error("refresh token survived failed refresh")
		}
	})

	t.Run("clears the session when the response has no token", func(t *testing.T) {
		gw := &stubGateway{access: ""}
		s := newSession(testutil.NewStubCredentialStore(), gw, nil)
		s.Establish("access", "refresh", nil)

		err := s.Refresh(context.Background())
		if !naya.IsKind(err, naya.KindSessionExpired) {
			t.Fatalf("error = %v, want SESSION_EXPIRED", err)
		}
		if s.IsAuthenticated() {
			t.Error("still authenticated")
		}
	})

	t.Run("coalesces concurrent refreshes into one call", func(t *testing.T) {
		release := make(chan struct{})
		gw := &stubGateway{access: "new-access", release: release}
		s := newSession(testutil.NewStubCredentialStore(), gw, nil)
		s.Establish("old", "refresh", nil)

		const workers = 8
		var failures int32
		var wg sync.WaitGroup
		var started sync.WaitGroup
		started.Add(workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				started.Done()
				if err := s.Refresh(context.Background()); err != nil {
					atomic.AddInt32(&failures, 1)
				}
			}()
		}
		started.Wait()
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		if got := atomic.LoadInt32(&failures); got != 0 {
			t.Errorf("%d refreshes failed", got)
		}
		if gw.callCount() != 1 {
			t.Errorf("gateway calls = %d, want 1", gw.callCount())
		}
		if token, _ := s.AccessToken(); token != "new-access" {
			t.Errorf("access token = %q", token)
		}
	})
}

func TestSessionManager_AccessTokenExpired(t *testing.T) {
	clock := testutil.FixedClock()

	t.Run("reports true for an expired jwt", func(t *testing.T) {
		s := newSession(testutil.NewStubCredentialStore(), &stubGateway{}, clock)
		s.Establish(signedToken(t, clock.Now().Add(-time.Hour)), "refresh", nil)
		if !s.AccessTokenExpired() {
			t.Error("AccessTokenExpired() = false for expired token")
		}
	})

	t.Run("reports false for a live jwt", func(t *testing.T) {
		s := newSession(testutil.NewStubCredentialStore(), &stubGateway{}, clock)
		s.Establish(signedToken(t, clock.Now().Add(time.Hour)), "refresh", nil)
		if s.AccessTokenExpired() {
			t.Error("AccessTokenExpired() = true for live token")
		}
	})

	t.Run("reports false for opaque tokens", func(t *testing.T) {
		s := newSession(testutil.NewStubCredentialStore(), &stubGateway{}, clock)
		s.Establish("not-a-jwt", "refresh", nil)
		if s.AccessTokenExpired() {
			t.Error("AccessTokenExpired() = true for opaque token")
		}
	})

	t.Run("reports false with no token", func(t *testing.T) {
		s := newSession(testutil.NewStubCredentialStore(), &stubGateway{}, clock)
		if s.AccessTokenExpired() {
			t.Error("AccessTokenExpired() = true with no token")
		}
	})
}
