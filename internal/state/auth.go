package state

import (
	"context"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

// Restore seeds the store from durable storage. Loading and error flags are
// never restored; a reload starts quiet. Call FetchCurrentUser afterwards to
// re-validate the session against the backend.
func (s *Store) Restore(ctx context.Context) error {
	snap, err := s.persist.Load(ctx)
	if err != nil || snap == nil {
		return err
	}
	s.mu.Lock()
	s.auth.Data = Session{
		User:            snap.User,
		AccessToken:     snap.AccessToken,
		IsAuthenticated: snap.IsAuthenticated,
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Register creates an account and, on success, transitions straight to
// authenticated with the returned user and token.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	return s.authenticate(ctx, "auth/register", api.EndpointRegister, req)
}

// Login authenticates with email and password.
func (s *Store) Login(ctx context.Context, req api.LoginRequest) error {
	return s.authenticate(ctx, "auth/login", api.EndpointLogin, req)
}

func (s *Store) authenticate(ctx context.Context, key, endpoint string, body any) error {
	if !s.begin(key, s.auth.pending) {
		return ErrInFlight
	}
	resp, err := api.Post[api.AuthPayload](ctx, s.client, endpoint, body, "")
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.auth.rejected(err)
			opErr = err
			return
		}
		user := resp.Data.User
		s.auth.fulfilled(Session{
			User:            &user,
			AccessToken:     resp.Data.AccessToken,
			IsAuthenticated: true,
		})
		s.persistLocked(ctx)
	})
	return opErr
}

// Logout tells the backend to end the session, then clears local state and
// durable storage unconditionally. A failed network call never blocks the
// local transition.
func (s *Store) Logout(ctx context.Context) {
	_, err := api.Post[any](ctx, s.client, api.EndpointLogout, nil, s.Token())
	_ = err // fire and forget
	s.clearSession(ctx)
}

// FetchCurrentUser re-validates the session server-side and refreshes the
// cached user. A rejection from the backend (expired or invalid session)
// clears the session entirely, same end state as logout. A pure transport
// failure keeps the cached session: an unreachable backend is not proof the
// user is logged out.
func (s *Store) FetchCurrentUser(ctx context.Context) error {
	key := "auth/me"
	if !s.begin(key, s.auth.pending) {
		return ErrInFlight
	}
	resp, err := api.Get[api.User](ctx, s.client, api.EndpointMe, s.Token())
	var opErr error
	s.finish(key, func() {
		switch {
		case err == nil:
			user := resp.Data
			s.auth.fulfilled(Session{
				User:            &user,
				AccessToken:     s.auth.Data.AccessToken,
				IsAuthenticated: true,
			})
			s.persistLocked(ctx)
		case api.IsNetworkError(err):
			s.auth.Loading = false
			s.auth.Err = api.Message(err)
			opErr = err
		default:
			s.auth.rejected(err)
			s.auth.Data = Session{}
			_ = s.persist.Clear(ctx)
			opErr = err
		}
	})
	return opErr
}

// SetUser replaces the cached user after a profile mutation and persists the
// refreshed snapshot.
func (s *Store) SetUser(ctx context.Context, user api.User) {
	s.mu.Lock()
	s.auth.Data.User = &user
	s.auth.Data.IsAuthenticated = true
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
}

// ClearError clears the auth slice error without a network call.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.auth.Err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.auth = Resource[Session]{}
	_ = s.persist.Clear(ctx)
	s.mu.Unlock()
	s.notify()
}

// persistLocked writes the durable snapshot. Callers hold the store lock.
func (s *Store) persistLocked(ctx context.Context) {
	snap := &Snapshot{
		User:            s.auth.Data.User,
		AccessToken:     s.auth.Data.AccessToken,
		IsAuthenticated: s.auth.Data.IsAuthenticated,
	}
	_ = s.persist.Save(ctx, snap)
}
