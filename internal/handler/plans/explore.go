package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
)

const explorePageSize = 9

type ExploreHandler interface {
	Explore(c *gin.Context)
}

type exploreHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
	client   *api.Client
}

func NewExploreHandler(cfg *config.WebConfig, sessions *session.Manager, client *api.Client) ExploreHandler {
	return &exploreHandler{cfg: cfg, sessions: sessions, client: client}
}

// Explore renders the public search page. Search results are page-scoped, not
// cached in the store; pagination comes straight from the response meta.
func (h *exploreHandler) Explore(c *gin.Context) {
	store := h.sessions.Store(c)

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	q := url.Values{}
	for _, name := range []string{"destination", "startDate", "endDate", "travelType", "interests"} {
		if v := c.Query(name); v != "" {
			q.Set(name, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(explorePageSize))

	resp, err := api.Get[[]api.TravelPlan](c.Request.Context(), h.client, api.EndpointSearch+"?"+q.Encode(), store.Token())
	if err != nil {
		errorRedirect(c, api.Message(err))
		return
	}

	totalPages := 0
	total := 0
	if resp.Meta != nil {
		totalPages = resp.Meta.TotalPage
		total = resp.Meta.Total
	}
	pageNumbers := make([]int, 0, totalPages)
	for i := 1; i <= totalPages; i++ {
		pageNumbers = append(pageNumbers, i)
	}
	prevPage := page - 1
	if prevPage < 1 {
		prevPage = 1
	}
	nextPage := page + 1
	if nextPage > totalPages {
		nextPage = totalPages
	}
	c.HTML(http.StatusOK, "explore.html", gin.H{
		"isLoggedIn":  store.IsAuthenticated(),
		"user":        store.CurrentUser(),
		"plans":       resp.Data,
		"total":       total,
		"page":        page,
		"totalPages":  totalPages,
		"pageNumbers": pageNumbers,
		"prevPage":    prevPage,
		"nextPage":    nextPage,
		"destination": c.Query("destination"),
		"startDate":   c.Query("startDate"),
		"endDate":     c.Query("endDate"),
		"travelType":  c.Query("travelType"),
		"interests":   c.Query("interests"),
	})
}
