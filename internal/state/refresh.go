package state

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

// refreshLeeway is how close to expiry an access token gets before the store
// asks the backend for a fresh one.
const refreshLeeway = 30 * time.Second

type refreshPayload struct {
	AccessToken string `json:"accessToken"`
}

// TokenExpiringSoon inspects the access token's exp claim without verifying
// the signature. Verification is the backend's job, the client only needs the
// timestamp. Unparseable tokens report false and are left to the backend to
// reject.
func TokenExpiringSoon(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now.Add(refreshLeeway))
}

// RefreshIfNeeded swaps a nearly expired access token for a fresh one via the
// refresh endpoint (the refresh credential rides in the cookie jar). An auth
// rejection clears the session; a transport failure leaves it alone and lets
// the next authenticated call surface the problem.
func (s *Store) RefreshIfNeeded(ctx context.Context) error {
	token := s.Token()
	if !TokenExpiringSoon(token, time.Now()) {
		return nil
	}
	resp, err := api.Post[refreshPayload](ctx, s.client, api.EndpointRefreshToken, nil, token)
	if err != nil {
		if api.IsAuthError(err) {
			s.clearSession(ctx)
		}
		return err
	}
	s.mu.Lock()
	s.auth.Data.AccessToken = resp.Data.AccessToken
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
	return nil
}
