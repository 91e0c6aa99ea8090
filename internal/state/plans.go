package state

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

// PlanFilter narrows the /travel-plans listing. Statuses are sent as one
// comma-separated query parameter.
type PlanFilter struct {
	UserID       string
	JoinedUserID string
	Statuses     []string
	Limit        int
}

func (f PlanFilter) query() string {
	q := url.Values{}
	if f.UserID != "" {
		q.Set("userId", f.UserID)
	}
	if f.JoinedUserID != "" {
		q.Set("joinedUserId", f.JoinedUserID)
	}
	if len(f.Statuses) > 0 {
		q.Set("status", strings.Join(f.Statuses, ","))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if enc := q.Encode(); enc != "" {
		return "?" + enc
	}
	return ""
}

// FetchPlans loads the plan list for the filter and replaces both the ordered
// list and the keyed cache entries it returns.
func (s *Store) FetchPlans(ctx context.Context, filter PlanFilter) error {
	key := "plans/list"
	if !s.begin(key, s.plans.pending) {
		return ErrInFlight
	}
	resp, err := api.Get[[]api.TravelPlan](ctx, s.client, api.EndpointPlans+filter.query(), s.Token())
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.plans.rejected(err)
			opErr = err
			return
		}
		s.plans.Loading = false
		s.plans.Data.Items = resp.Data
		for _, plan := range resp.Data {
			s.plans.Data.ByID[plan.ID] = plan
		}
	})
	return opErr
}

// FetchPlan loads one plan and replaces its cached copy wholesale.
func (s *Store) FetchPlan(ctx context.Context, id string) (api.TravelPlan, error) {
	key := "plans/get/" + id
	if !s.begin(key, s.plans.pending) {
		return api.TravelPlan{}, ErrInFlight
	}
	resp, err := api.Get[api.TravelPlan](ctx, s.client, api.EndpointPlan(id), s.Token())
	var plan api.TravelPlan
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.plans.rejected(err)
			opErr = err
			return
		}
		s.plans.Loading = false
		plan = resp.Data
		s.plans.Data.ByID[plan.ID] = plan
	})
	return plan, opErr
}

// CreatePlan submits a new travel plan and caches the returned snapshot.
func (s *Store) CreatePlan(ctx context.Context, input api.PlanInput) (api.TravelPlan, error) {
	key := "plans/create"
	if !s.begin(key, s.plans.pending) {
		return api.TravelPlan{}, ErrInFlight
	}
	resp, err := api.Post[api.TravelPlan](ctx, s.client, api.EndpointPlans, input, s.Token())
	var plan api.TravelPlan
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.plans.rejected(err)
			opErr = err
			return
		}
		s.plans.Loading = false
		plan = resp.Data
		s.plans.Data.ByID[plan.ID] = plan
		s.plans.Data.Items = append([]api.TravelPlan{plan}, s.plans.Data.Items...)
	})
	return plan, opErr
}

// UpdatePlan PATCHes a plan. The returned snapshot replaces the cached copy;
// no field from the previous snapshot survives.
func (s *Store) UpdatePlan(ctx context.Context, id string, input api.PlanInput) (api.TravelPlan, error) {
	key := "plans/update/" + id
	if !s.begin(key, s.plans.pending) {
		return api.TravelPlan{}, ErrInFlight
	}
	resp, err := api.Patch[api.TravelPlan](ctx, s.client, api.EndpointPlan(id), input, s.Token())
	var plan api.TravelPlan
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.plans.rejected(err)
			opErr = err
			return
		}
		s.plans.Loading = false
		plan = resp.Data
		s.plans.Data.ByID[id] = plan
		for i := range s.plans.Data.Items {
			if s.plans.Data.Items[i].ID == id {
				s.plans.Data.Items[i] = plan
			}
		}
	})
	return plan, opErr
}

// DeletePlan removes a plan from the backend and from both local caches.
// Cached reviews referencing the plan are not cascaded; the backend remains
// authoritative for consistency.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	key := "plans/delete/" + id
	if !s.begin(key, s.plans.pending) {
		return ErrInFlight
	}
	_, err := api.Delete[any](ctx, s.client, api.EndpointPlan(id), s.Token())
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.plans.rejected(err)
			opErr = err
			return
		}
		s.plans.Loading = false
		delete(s.plans.Data.ByID, id)
		kept := s.plans.Data.Items[:0]
		for _, plan := range s.plans.Data.Items {
			if plan.ID != id {
				kept = append(kept, plan)
			}
		}
		s.plans.Data.Items = kept
	})
	return opErr
}

// JoinPlan requests to join a plan. The guard key dedups double submissions
// of the same join.
func (s *Store) JoinPlan(ctx context.Context, id string) (api.TravelPlan, error) {
	key := "plans/join/" + id
	if !s.begin(key, s.plans.pending) {
		return api.TravelPlan{}, ErrInFlight
	}
	resp, err := api.Post[api.TravelPlan](ctx, s.client, api.EndpointPlanJoin(id), nil, s.Token())
	var plan api.TravelPlan
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.plans.rejected(err)
			opErr = err
			return
		}
		s.plans.Loading = false
		plan = resp.Data
		s.plans.Data.ByID[id] = plan
	})
	return plan, opErr
}
