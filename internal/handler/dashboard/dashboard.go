package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
	"github.com/aliakborswe/travel-buddy-client/pkg/logger"
)

type DashboardHandler interface {
	Dashboard(c *gin.Context)
}

type dashboardHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
	client   *api.Client
	log      *logger.Logger
}

func NewDashboardHandler(cfg *config.WebConfig, sessions *session.Manager, client *api.Client, log *logger.Logger) DashboardHandler {
	return &dashboardHandler{cfg: cfg, sessions: sessions, client: client, log: log}
}

// dashboardData collects the five independent reads the dashboard renders.
// Each field is filled by its own goroutine; a failed endpoint leaves its
// field empty and never blocks the others.
type dashboardData struct {
	upcoming       []api.TravelPlan
	completed      []api.TravelPlan
	completedCount int
	matches        []api.MatchResult
	reviewable     []api.ReviewablePlan
}

func (h *dashboardHandler) fetchAll(ctx context.Context, userID, token string) dashboardData {
	var data dashboardData
	var wg sync.WaitGroup

	settle := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				h.log.Errorf("dashboard %s: %v", name, err)
			}
		}()
	}

	base := api.EndpointPlans + "?userId=" + userID + "&joinedUserId=" + userID
	settle("upcoming", func() error {
		resp, err := api.Get[[]api.TravelPlan](ctx, h.client, base+"&status=planning,active", token)
		if err != nil {
			return err
		}
		data.upcoming = resp.Data
		return nil
	})
	settle("completed", func() error {
		resp, err := api.Get[[]api.TravelPlan](ctx, h.client, base+"&status=completed&limit=5", token)
		if err != nil {
			return err
		}
		data.completed = resp.Data
		return nil
	})
	settle("completed-count", func() error {
		resp, err := api.Get[[]api.TravelPlan](ctx, h.client, base+"&status=completed&limit=1000", token)
		if err != nil {
			return err
		}
		data.completedCount = len(resp.Data)
		return nil
	})
	settle("matches", func() error {
		resp, err := api.Get[[]api.MatchResult](ctx, h.client, api.EndpointSuggestedMatch, token)
		if err != nil {
			return err
		}
		if len(resp.Data) > 3 {
			resp.Data = resp.Data[:3]
		}
		data.matches = resp.Data
		return nil
	})
	settle("reviewable", func() error {
		resp, err := api.Get[[]api.ReviewablePlan](ctx, h.client, api.EndpointReviewable, token)
		if err != nil {
			return err
		}
		if len(resp.Data) > 3 {
			resp.Data = resp.Data[:3]
		}
		data.reviewable = resp.Data
		return nil
	})

	wg.Wait()
	return data
}

func (h *dashboardHandler) Dashboard(c *gin.Context) {
	store := h.sessions.Store(c)
	user := store.CurrentUser()
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	data := h.fetchAll(c.Request.Context(), user.ID, store.Token())
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"isLoggedIn":      true,
		"user":            user,
		"upcomingPlans":   data.upcoming,
		"completedPlans":  data.completed,
		"completedCount":  data.completedCount,
		"matches":         data.matches,
		"reviewablePlans": data.reviewable,
	})
}
