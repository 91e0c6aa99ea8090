package state

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

// memPersister records snapshots in memory so tests can assert what durable
// storage holds after each transition.
type memPersister struct {
	mu    sync.Mutex
	snap  *Snapshot
	saves int
}

func (p *memPersister) Load(context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap, nil
}

func (p *memPersister) Save(_ context.Context, snap *Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := *snap
	p.snap = &copied
	p.saves++
	return nil
}

func (p *memPersister) Clear(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = nil
	return nil
}

func (p *memPersister) current() *Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

func envelope(t *testing.T, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"success":    true,
		"statusCode": 200,
		"message":    "ok",
		"data":       data,
	})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func failure(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success":    false,
		"statusCode": status,
		"message":    message,
		"data":       nil,
	})
}

func newStoreWithBackend(handler http.Handler) (*Store, *memPersister, *httptest.Server) {
	backend := httptest.NewServer(handler)
	persist := &memPersister{}
	store := NewStore(api.New(backend.URL), persist)
	return store, persist, backend
}

func TestLoginSuccessPersistsSnapshot(t *testing.T) {
	user := map[string]any{"_id": "u1", "email": "a@b.c", "fullName": "Alice", "role": "user"}
	store, persist, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != api.EndpointLogin || r.Method != http.MethodPost {
			failure(w, 404, "not found")
			return
		}
		w.Write(envelope(t, map[string]any{"user": user, "accessToken": "tok-1"}))
	}))
	defer backend.Close()

	err := store.Login(context.Background(), api.LoginRequest{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	session, loading, errMsg := store.Auth()
	if loading || errMsg != "" {
		t.Errorf("loading=%v err=%q after success", loading, errMsg)
	}
	if !session.IsAuthenticated || session.User == nil || session.AccessToken != "tok-1" {
		t.Fatalf("session not populated: %+v", session)
	}
	snap := persist.current()
	if snap == nil || !snap.IsAuthenticated || snap.User == nil || snap.User.ID != "u1" || snap.AccessToken != "tok-1" {
		t.Errorf("durable snapshot does not match session: %+v", snap)
	}
}

func TestAdminLoginScenario(t *testing.T) {
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "admin@gmail.com" || req.Password != "asd123!A" {
			failure(w, 401, "Invalid credentials")
			return
		}
		w.Write(envelope(t, map[string]any{
			"user":        map[string]any{"_id": "admin1", "email": req.Email, "fullName": "Admin", "role": "admin"},
			"accessToken": "tok-admin",
		}))
	}))
	defer backend.Close()

	err := store.Login(context.Background(), api.LoginRequest{Email: "admin@gmail.com", Password: "asd123!A"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	user := store.CurrentUser()
	if user == nil || user.Role != "admin" || !user.IsAdmin() {
		t.Errorf("expected admin user, got %+v", user)
	}
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	store, persist, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failure(w, 401, "Invalid credentials")
	}))
	defer backend.Close()

	err := store.Login(context.Background(), api.LoginRequest{Email: "x@y.z", Password: "nope"})
	if err == nil {
		t.Fatal("want error")
	}
	session, _, errMsg := store.Auth()
	if session.IsAuthenticated || session.User != nil {
		t.Errorf("failed login must stay anonymous: %+v", session)
	}
	if errMsg != "Invalid credentials" {
		t.Errorf("server message not surfaced: %q", errMsg)
	}
	if persist.current() != nil {
		t.Error("failed login must not persist a snapshot")
	}
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	calls := 0
	store, persist, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case api.EndpointLogin:
			w.Write(envelope(t, map[string]any{
				"user":        map[string]any{"_id": "u1", "fullName": "Alice", "role": "user"},
				"accessToken": "tok-1",
			}))
		case api.EndpointLogout:
			calls++
			failure(w, 500, "backend exploded")
		}
	}))
	defer backend.Close()

	if err := store.Login(context.Background(), api.LoginRequest{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	store.Logout(context.Background())

	if calls != 1 {
		t.Errorf("logout endpoint called %d times", calls)
	}
	session, _, _ := store.Auth()
	if session.IsAuthenticated || session.User != nil || session.AccessToken != "" {
		t.Errorf("logout must clear session regardless of network outcome: %+v", session)
	}
	if persist.current() != nil {
		t.Error("logout must clear durable storage")
	}
}

func TestFetchCurrentUserAuthRejectClearsSession(t *testing.T) {
	store, persist, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failure(w, 401, "Session expired")
	}))
	defer backend.Close()

	persist.snap = &Snapshot{
		User:            &api.User{ID: "u1", FullName: "Alice"},
		AccessToken:     "stale",
		IsAuthenticated: true,
	}
	if err := store.Restore(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !store.IsAuthenticated() {
		t.Fatal("restore should seed the session")
	}

	err := store.FetchCurrentUser(context.Background())
	if err == nil {
		t.Fatal("want rejection")
	}
	session, _, _ := store.Auth()
	if session.IsAuthenticated || session.User != nil || session.AccessToken != "" {
		t.Errorf("rejected validation must clear session: %+v", session)
	}
	if persist.current() != nil {
		t.Error("rejected validation must clear durable storage")
	}
}

func TestFetchCurrentUserNetworkFailurePreservesSession(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close() // unreachable backend
	persist := &memPersister{snap: &Snapshot{
		User:            &api.User{ID: "u1", FullName: "Alice"},
		AccessToken:     "tok-1",
		IsAuthenticated: true,
	}}
	store := NewStore(api.New(backend.URL), persist)
	if err := store.Restore(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := store.FetchCurrentUser(context.Background())
	if !api.IsNetworkError(err) {
		t.Fatalf("want network error, got %v", err)
	}
	session, _, _ := store.Auth()
	if !session.IsAuthenticated || session.User == nil {
		t.Error("an unreachable backend must not log the user out")
	}
	if persist.current() == nil {
		t.Error("network failure must not clear durable storage")
	}
}

func TestClearError(t *testing.T) {
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failure(w, 401, "Invalid credentials")
	}))
	defer backend.Close()

	_ = store.Login(context.Background(), api.LoginRequest{Email: "x@y.z", Password: "no"})
	if _, _, errMsg := store.Auth(); errMsg == "" {
		t.Fatal("expected an error to clear")
	}
	store.ClearError()
	if _, _, errMsg := store.Auth(); errMsg != "" {
		t.Errorf("error survived ClearError: %q", errMsg)
	}
}

func planDoc(id string, extra map[string]any) map[string]any {
	doc := map[string]any{
		"_id":         id,
		"userId":      "u1",
		"destination": map[string]any{"country": "Japan", "city": "Tokyo"},
		"startDate":   "2026-10-01",
		"endDate":     "2026-10-14",
		"budgetRange": map[string]any{"min": 1000, "max": 5000, "currency": "USD"},
		"travelType":  "friends",
		"status":      "planning",
	}
	for k, v := range extra {
		doc[k] = v
	}
	return doc
}

func TestUpdatePlanReplacesNotMerges(t *testing.T) {
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(envelope(t, planDoc("p1", map[string]any{
				"itinerary":   "day one: fly",
				"description": "old description",
			})))
		case http.MethodPatch:
			// The fresh snapshot has no itinerary at all.
			w.Write(envelope(t, planDoc("p1", map[string]any{
				"description": "new description",
			})))
		}
	}))
	defer backend.Close()

	if _, err := store.FetchPlan(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	cached, _ := store.Plan("p1")
	if cached.Itinerary == "" {
		t.Fatal("precondition: first snapshot carries an itinerary")
	}

	if _, err := store.UpdatePlan(context.Background(), "p1", api.PlanInput{}); err != nil {
		t.Fatal(err)
	}
	cached, ok := store.Plan("p1")
	if !ok {
		t.Fatal("plan missing after update")
	}
	if cached.Itinerary != "" {
		t.Errorf("stale field survived the replace: %q", cached.Itinerary)
	}
	if cached.Description != "new description" {
		t.Errorf("new snapshot not applied: %q", cached.Description)
	}
}

func TestCreatePlanThenListScenario(t *testing.T) {
	created := false
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			var input api.PlanInput
			json.NewDecoder(r.Body).Decode(&input)
			if input.BudgetRange.Min != 1000 || input.BudgetRange.Max != 5000 || input.BudgetRange.Currency != "USD" {
				failure(w, 400, "bad budget")
				return
			}
			created = true
			w.Write(envelope(t, planDoc("p-new", nil)))
		case r.Method == http.MethodGet:
			if !created {
				w.Write(envelope(t, []any{}))
				return
			}
			w.Write(envelope(t, []any{planDoc("p-new", nil)}))
		}
	}))
	defer backend.Close()

	input := api.PlanInput{
		Destination: api.Destination{Country: "Japan", City: "Tokyo"},
		StartDate:   "2026-10-01",
		EndDate:     "2026-10-14",
		BudgetRange: api.BudgetRange{Min: 1000, Max: 5000, Currency: "USD"},
		TravelType:  "friends",
	}
	if _, err := store.CreatePlan(context.Background(), input); err != nil {
		t.Fatal(err)
	}
	if err := store.FetchPlans(context.Background(), PlanFilter{UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	cache, _, _ := store.Plans()
	if len(cache.Items) != 1 {
		t.Fatalf("want the new plan in my plans, got %d items", len(cache.Items))
	}
	plan := cache.Items[0]
	if plan.BudgetRange != (api.BudgetRange{Min: 1000, Max: 5000, Currency: "USD"}) {
		t.Errorf("budget range mangled: %+v", plan.BudgetRange)
	}
	if plan.Status != api.PlanStatusPlanning {
		t.Errorf("new plan must start in planning, got %q", plan.Status)
	}
}

func TestReviewValidationBeforeNetwork(t *testing.T) {
	requests := 0
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if _, hasComment := payload["comment"]; hasComment {
			failure(w, 400, "empty comment must be omitted")
			return
		}
		w.Write(envelope(t, map[string]any{
			"_id": "r1", "travelPlanId": "p1", "reviewerId": "u1", "reviewedUserId": "u2", "rating": 5,
		}))
	}))
	defer backend.Close()

	_, err := store.CreateReview(context.Background(), api.ReviewInput{
		TravelPlanID: "p1", ReviewedUserID: "u2", Rating: 0,
	})
	if err == nil {
		t.Fatal("rating 0 must be rejected client-side")
	}
	if requests != 0 {
		t.Fatalf("validation failure reached the network: %d requests", requests)
	}

	review, err := store.CreateReview(context.Background(), api.ReviewInput{
		TravelPlanID: "p1", ReviewedUserID: "u2", Rating: 5, Comment: "   ",
	})
	if err != nil {
		t.Fatalf("rating 5 with blank comment must submit: %v", err)
	}
	if requests != 1 {
		t.Fatalf("want exactly one request, got %d", requests)
	}
	if review.Rating != 5 {
		t.Errorf("review not returned: %+v", review)
	}
}

func TestUpdateReviewBodyCarriesOnlyRatingAndComment(t *testing.T) {
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			failure(w, 404, "not found")
			return
		}
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		for _, key := range []string{"travelPlanId", "reviewedUserId"} {
			if _, present := payload[key]; present {
				t.Errorf("update payload must not carry %q", key)
			}
		}
		w.Write(envelope(t, map[string]any{"_id": "r1", "rating": 4, "comment": "better"}))
	}))
	defer backend.Close()

	review, err := store.UpdateReview(context.Background(), "r1", api.ReviewInput{Rating: 4, Comment: "better"})
	if err != nil {
		t.Fatal(err)
	}
	if review.Rating != 4 {
		t.Errorf("updated review not returned: %+v", review)
	}
}

func TestPaymentLifecycle(t *testing.T) {
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case api.EndpointCreateIntent:
			w.Write(envelope(t, map[string]any{"clientSecret": "cs_test_1"}))
		case api.EndpointConfirmPayment:
			w.Write(envelope(t, nil))
		}
	}))
	defer backend.Close()

	payment, _, _ := store.Payment()
	if payment.Status != PaymentIdle {
		t.Fatalf("fresh store must be idle, got %s", payment.Status)
	}

	secret, err := store.CreateIntent(context.Background(), "monthly")
	if err != nil {
		t.Fatal(err)
	}
	if secret != "cs_test_1" {
		t.Errorf("client secret: %q", secret)
	}
	payment, _, _ = store.Payment()
	if payment.Status != PaymentIntentCreated || payment.ClientSecret != "cs_test_1" {
		t.Errorf("after intent: %+v", payment)
	}

	if err := store.ConfirmPayment(context.Background(), "monthly"); err != nil {
		t.Fatal(err)
	}
	payment, _, _ = store.Payment()
	if payment.Status != PaymentConfirmed {
		t.Errorf("after confirm: %s", payment.Status)
	}

	store.ResetPayment()
	payment, _, _ = store.Payment()
	if payment.Status != PaymentIdle || payment.ClientSecret != "" {
		t.Errorf("after reset: %+v", payment)
	}
}

func TestDuplicateJoinIsDropped(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		w.Write(envelope(t, planDoc("p1", nil)))
	}))
	defer backend.Close()

	done := make(chan error, 1)
	go func() {
		_, err := store.JoinPlan(context.Background(), "p1")
		done <- err
	}()
	<-arrived

	// Second click while the first request is still in flight.
	_, err := store.JoinPlan(context.Background(), "p1")
	if !errors.Is(err, ErrInFlight) {
		t.Errorf("duplicate join must be dropped, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first join failed: %v", err)
	}
}

func TestSubscribeObservesTransitions(t *testing.T) {
	store, _, backend := newStoreWithBackend(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope(t, map[string]any{
			"user":        map[string]any{"_id": "u1", "fullName": "Alice", "role": "user"},
			"accessToken": "tok",
		}))
	}))
	defer backend.Close()

	var mu sync.Mutex
	notifications := 0
	store.Subscribe(func() {
		mu.Lock()
		notifications++
		mu.Unlock()
	})

	if err := store.Login(context.Background(), api.LoginRequest{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	// pending + fulfilled
	if notifications < 2 {
		t.Errorf("want at least two notifications, got %d", notifications)
	}
}
