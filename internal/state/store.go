package state

import (
	"context"
	"errors"
	"sync"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

// ErrInFlight is returned when an operation with the same key is already
// running. Rapid duplicate submissions (double-clicked buttons) are dropped
// instead of issuing a second request.
var ErrInFlight = errors.New("operation already in flight")

// Snapshot is the minimal durable session record: what survives a restart.
type Snapshot struct {
	User            *api.User `json:"user"`
	AccessToken     string    `json:"accessToken"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// Persister stores the session snapshot under a fixed key. Implementations
// live in the session package (Redis, file).
type Persister interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

// Session is the auth slice's data: the authenticated user and credentials.
// IsAuthenticated is true iff User is non-nil after a successful auth
// operation; AccessToken may still be empty for cookie-based sessions.
type Session struct {
	User            *api.User
	AccessToken     string
	IsAuthenticated bool
}

// PlanCache holds travel plans keyed by id plus the ordered "my plans" list.
type PlanCache struct {
	Items []api.TravelPlan
	ByID  map[string]api.TravelPlan
}

// UserReviews is the cached review list for one reviewed user.
type UserReviews struct {
	Items         []api.Review
	AverageRating *float64
}

// PaymentStatus mirrors the hosted payment widget's lifecycle.
type PaymentStatus string

const (
	PaymentIdle          PaymentStatus = "idle"
	PaymentIntentCreated PaymentStatus = "intent-created"
	PaymentConfirmed     PaymentStatus = "confirmed"
)

// PaymentData is the payment slice's data block.
type PaymentData struct {
	ClientSecret string
	Status       PaymentStatus
	History      []api.Payment
}

// Store is the one shared mutable resource of the client: the session plus a
// thin cache per concern area. It is instance-scoped (one Store per browser
// session) and every mutation goes through the pending/fulfilled/rejected
// lifecycle. There is no module-level state.
type Store struct {
	mu        sync.Mutex
	client    *api.Client
	persist   Persister
	inflight  map[string]struct{}
	listeners []func()

	auth    Resource[Session]
	plans   Resource[PlanCache]
	reviews Resource[map[string]UserReviews]
	payment Resource[PaymentData]
}

// NewStore creates an empty store bound to one API client and one persister.
// Call Restore to seed it from durable storage.
func NewStore(client *api.Client, persist Persister) *Store {
	s := &Store{
		client:   client,
		persist:  persist,
		inflight: map[string]struct{}{},
	}
	s.plans.Data.ByID = map[string]api.TravelPlan{}
	s.reviews.Data = map[string]UserReviews{}
	s.payment.Data.Status = PaymentIdle
	return s
}

// Subscribe registers fn to run after every state transition.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), len(s.listeners))
	copy(fns, s.listeners)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// begin marks an operation in flight and runs pending under the lock. It
// reports false when a duplicate of the same operation is still running.
func (s *Store) begin(key string, pending func()) bool {
	s.mu.Lock()
	if _, dup := s.inflight[key]; dup {
		s.mu.Unlock()
		return false
	}
	s.inflight[key] = struct{}{}
	pending()
	s.mu.Unlock()
	s.notify()
	return true
}

// finish applies the fulfilled/rejected transition under the lock.
func (s *Store) finish(key string, apply func()) {
	s.mu.Lock()
	delete(s.inflight, key)
	apply()
	s.mu.Unlock()
	s.notify()
}

// Auth returns a copy of the session slice.
func (s *Store) Auth() (Session, bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.Data, s.auth.Loading, s.auth.Err
}

// Token returns the cached access token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.Data.AccessToken
}

// CurrentUser returns the cached user, nil when anonymous.
func (s *Store) CurrentUser() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.Data.User
}

// IsAuthenticated reports whether the session claims authentication.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.Data.IsAuthenticated
}

// Plans returns a copy of the plan slice state.
func (s *Store) Plans() (PlanCache, bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plans.Data, s.plans.Loading, s.plans.Err
}

// Plan returns the cached plan for id.
func (s *Store) Plan(id string) (api.TravelPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans.Data.ByID[id]
	return plan, ok
}

// Reviews returns the cached reviews for one user.
func (s *Store) Reviews(userID string) (UserReviews, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews.Data[userID]
	return r, ok
}

// Payment returns a copy of the payment slice state.
func (s *Store) Payment() (PaymentData, bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment.Data, s.payment.Loading, s.payment.Err
}
