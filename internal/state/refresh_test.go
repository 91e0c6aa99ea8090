package state

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestTokenExpiringSoon(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", false},
		{"garbage", "not.a.jwt", false},
		{"fresh", signedToken(t, now.Add(time.Hour)), false},
		{"inside leeway", signedToken(t, now.Add(10*time.Second)), true},
		{"already expired", signedToken(t, now.Add(-time.Minute)), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TokenExpiringSoon(tc.token, now); got != tc.want {
				t.Errorf("TokenExpiringSoon(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func seedAuthenticated(store *Store, persist *memPersister, token string) {
	persist.snap = &Snapshot{
		User:            &api.User{ID: "u1", FullName: "Alice"},
		AccessToken:     token,
		IsAuthenticated: true,
	}
	store.Restore(context.Background())
}

func TestRefreshIfNeededSkipsFreshToken(t *testing.T) {
	calls := 0
	store, persist, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer backend.Close()
	seedAuthenticated(store, persist, signedToken(t, time.Now().Add(time.Hour)))

	if err := store.RefreshIfNeeded(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("fresh token must not trigger a refresh, got %d calls", calls)
	}
}

func TestRefreshIfNeededSwapsExpiringToken(t *testing.T) {
	store, persist, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != api.EndpointRefreshToken {
			failure(w, 404, "not found")
			return
		}
		w.Write(envelope(t, map[string]any{"accessToken": "tok-fresh"}))
	}))
	defer backend.Close()
	seedAuthenticated(store, persist, signedToken(t, time.Now().Add(5*time.Second)))

	if err := store.RefreshIfNeeded(context.Background()); err != nil {
		t.Fatal(err)
	}
	if store.Token() != "tok-fresh" {
		t.Errorf("token not swapped: %q", store.Token())
	}
	snap := persist.current()
	if snap == nil || snap.AccessToken != "tok-fresh" {
		t.Errorf("fresh token not persisted: %+v", snap)
	}
	if !store.IsAuthenticated() {
		t.Error("refresh must keep the session authenticated")
	}
}

func TestRefreshIfNeededAuthRejectionClearsSession(t *testing.T) {
	store, persist, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failure(w, 401, "refresh token expired")
	}))
	defer backend.Close()
	seedAuthenticated(store, persist, signedToken(t, time.Now().Add(-time.Minute)))

	err := store.RefreshIfNeeded(context.Background())
	if !api.IsAuthError(err) {
		t.Fatalf("want auth error, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("rejected refresh must clear the session")
	}
	if persist.current() != nil {
		t.Error("rejected refresh must clear durable storage")
	}
}

func TestRefreshIfNeededTransportFailureKeepsSession(t *testing.T) {
	store, persist, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close() // unreachable
	seedAuthenticated(store, persist, signedToken(t, time.Now().Add(-time.Minute)))

	err := store.RefreshIfNeeded(context.Background())
	if !api.IsNetworkError(err) {
		t.Fatalf("want network error, got %v", err)
	}
	if !store.IsAuthenticated() {
		t.Error("transport failure must not log the user out")
	}
	if persist.current() == nil {
		t.Error("transport failure must not clear durable storage")
	}
}
