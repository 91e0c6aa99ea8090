package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
	"github.com/aliakborswe/travel-buddy-client/internal/state"
	"github.com/aliakborswe/travel-buddy-client/pkg/logger"
)

type PlanHandler interface {
	List(c *gin.Context)
	NewForm(c *gin.Context)
	Create(c *gin.Context)
	Detail(c *gin.Context)
	EditForm(c *gin.Context)
	Update(c *gin.Context)
	Remove(c *gin.Context)
	Join(c *gin.Context)
}

type planHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
	client   *api.Client
	log      *logger.Logger
}

func NewPlanHandler(cfg *config.WebConfig, sessions *session.Manager, client *api.Client, log *logger.Logger) PlanHandler {
	return &planHandler{cfg: cfg, sessions: sessions, client: client, log: log}
}

func errorRedirect(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, "/error?msg="+url.QueryEscape(msg))
}

// planForm turns the submitted form into the create/update payload. Budget
// and date sanity is checked here so obviously broken input never reaches the
// backend; everything else stays server-side.
func planForm(c *gin.Context) (api.PlanInput, string) {
	minBudget, _ := strconv.Atoi(c.PostForm("minBudget"))
	maxBudget, _ := strconv.Atoi(c.PostForm("maxBudget"))
	maxTravelers, _ := strconv.Atoi(c.PostForm("maxTravelers"))

	input := api.PlanInput{
		Destination: api.Destination{
			Country: strings.TrimSpace(c.PostForm("country")),
			City:    strings.TrimSpace(c.PostForm("city")),
		},
		StartDate: c.PostForm("startDate"),
		EndDate:   c.PostForm("endDate"),
		BudgetRange: api.BudgetRange{
			Min:      minBudget,
			Max:      maxBudget,
			Currency: c.PostForm("currency"),
		},
		TravelType:   c.PostForm("travelType"),
		Description:  strings.TrimSpace(c.PostForm("description")),
		Itinerary:    strings.TrimSpace(c.PostForm("itinerary")),
		MaxTravelers: maxTravelers,
		Interests:    splitCSV(c.PostForm("interests")),
	}
	switch {
	case input.Destination.Country == "" || input.Destination.City == "":
		return input, "Destination country and city are required"
	case input.StartDate == "" || input.EndDate == "":
		return input, "Start and end dates are required"
	case input.EndDate < input.StartDate:
		return input, "End date must be after start date"
	case input.BudgetRange.Min < 0 || input.BudgetRange.Max < input.BudgetRange.Min:
		return input, "Budget range is invalid"
	case input.TravelType == "":
		return input, "Travel type is required"
	}
	if input.BudgetRange.Currency == "" {
		input.BudgetRange.Currency = "USD"
	}
	return input, ""
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// List shows the current user's plans, authored and joined.
func (h *planHandler) List(c *gin.Context) {
	store := h.sessions.Store(c)
	user := store.CurrentUser()
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	filter := state.PlanFilter{UserID: user.ID, JoinedUserID: user.ID}
	if err := store.FetchPlans(c.Request.Context(), filter); err != nil {
		h.log.Errorf("fetch plans: %v", err)
	}
	cache, loading, errMsg := store.Plans()
	c.HTML(http.StatusOK, "plans-list.html", gin.H{
		"isLoggedIn": true,
		"user":       user,
		"plans":      cache.Items,
		"loading":    loading,
		"error":      errMsg,
	})
}

func (h *planHandler) NewForm(c *gin.Context) {
	store := h.sessions.Store(c)
	c.HTML(http.StatusOK, "plan-form.html", gin.H{
		"isLoggedIn": true,
		"user":       store.CurrentUser(),
	})
}

func (h *planHandler) Create(c *gin.Context) {
	store := h.sessions.Store(c)
	input, problem := planForm(c)
	if problem != "" {
		c.HTML(http.StatusBadRequest, "plan-form.html", gin.H{
			"isLoggedIn": true,
			"user":       store.CurrentUser(),
			"error":      problem,
			"input":      input,
		})
		return
	}
	plan, err := store.CreatePlan(c.Request.Context(), input)
	if err != nil {
		if api.IsAuthError(err) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		c.HTML(http.StatusBadRequest, "plan-form.html", gin.H{
			"isLoggedIn": true,
			"user":       store.CurrentUser(),
			"error":      api.Message(err),
			"input":      input,
		})
		return
	}
	c.Redirect(http.StatusFound, "/plans/"+plan.ID)
}

func (h *planHandler) Detail(c *gin.Context) {
	store := h.sessions.Store(c)
	id := c.Param("id")
	plan, err := store.FetchPlan(c.Request.Context(), id)
	if err != nil {
		errorRedirect(c, api.Message(err))
		return
	}
	user := store.CurrentUser()
	isOwner := user != nil && plan.UserID.ID == user.ID
	joined := false
	if user != nil {
		for _, uid := range plan.JoinedUser {
			if uid == user.ID {
				joined = true
			}
		}
	}
	// Reviews are secondary; the detail page still renders without them.
	var planReviews []api.Review
	if resp, err := api.Get[[]api.Review](c.Request.Context(), h.client, api.EndpointReviewsByPlan(id), store.Token()); err == nil {
		planReviews = resp.Data
	} else {
		h.log.Errorf("fetch plan reviews: %v", err)
	}
	c.HTML(http.StatusOK, "plan-detail.html", gin.H{
		"isLoggedIn":  store.IsAuthenticated(),
		"user":        user,
		"plan":        plan,
		"planReviews": planReviews,
		"isOwner":     isOwner,
		"joined":      joined,
		"reviewUser":  c.Query("reviewUser"),
	})
}

func (h *planHandler) EditForm(c *gin.Context) {
	store := h.sessions.Store(c)
	plan, err := store.FetchPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorRedirect(c, api.Message(err))
		return
	}
	user := store.CurrentUser()
	if user == nil || plan.UserID.ID != user.ID {
		errorRedirect(c, "Only the plan owner can edit it")
		return
	}
	c.HTML(http.StatusOK, "plan-form.html", gin.H{
		"isLoggedIn": true,
		"user":       user,
		"plan":       plan,
		"editing":    true,
	})
}

func (h *planHandler) Update(c *gin.Context) {
	store := h.sessions.Store(c)
	id := c.Param("id")
	input, problem := planForm(c)
	if problem != "" {
		c.HTML(http.StatusBadRequest, "plan-form.html", gin.H{
			"isLoggedIn": true,
			"user":       store.CurrentUser(),
			"error":      problem,
			"input":      input,
			"editing":    true,
		})
		return
	}
	plan, err := store.UpdatePlan(c.Request.Context(), id, input)
	if err != nil {
		errorRedirect(c, api.Message(err))
		return
	}
	c.Redirect(http.StatusFound, "/plans/"+plan.ID)
}

func (h *planHandler) Remove(c *gin.Context) {
	store := h.sessions.Store(c)
	if err := store.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		errorRedirect(c, api.Message(err))
		return
	}
	c.Redirect(http.StatusFound, "/plans")
}

func (h *planHandler) Join(c *gin.Context) {
	store := h.sessions.Store(c)
	id := c.Param("id")
	if _, err := store.JoinPlan(c.Request.Context(), id); err != nil {
		if errors.Is(err, state.ErrInFlight) {
			// Double click; the first request is still going. Send the user
			// back to the plan, the outcome shows up there.
			c.Redirect(http.StatusFound, "/plans/"+id)
			return
		}
		errorRedirect(c, api.Message(err))
		return
	}
	c.Redirect(http.StatusFound, "/plans/"+id)
}
