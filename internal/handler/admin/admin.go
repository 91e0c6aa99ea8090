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

const adminPageSize = 20

type AdminHandler interface {
	Users(c *gin.Context)
	Plans(c *gin.Context)
}

type adminHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
	client   *api.Client
}

func NewAdminHandler(cfg *config.WebConfig, sessions *session.Manager, client *api.Client) AdminHandler {
	return &adminHandler{cfg: cfg, sessions: sessions, client: client}
}

// Users lists all accounts. The route is gated by RequireAdmin; the backend
// enforces the role again on its side.
func (h *adminHandler) Users(c *gin.Context) {
	store := h.sessions.Store(c)
	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(adminPageSize))
	resp, err := api.Get[[]api.User](c.Request.Context(), h.client, api.EndpointUsers+"?"+q.Encode(), store.Token())
	if err != nil {
		c.Redirect(http.StatusFound, "/error?msg="+url.QueryEscape(api.Message(err)))
		return
	}
	totalPages := 0
	if resp.Meta != nil {
		totalPages = resp.Meta.TotalPage
	}
	c.HTML(http.StatusOK, "admin-users.html", gin.H{
		"isLoggedIn": true,
		"user":       store.CurrentUser(),
		"users":      resp.Data,
		"page":       page,
		"totalPages": totalPages,
	})
}

// Plans lists all travel plans regardless of owner.
func (h *adminHandler) Plans(c *gin.Context) {
	store := h.sessions.Store(c)
	resp, err := api.Get[[]api.TravelPlan](c.Request.Context(), h.client, api.EndpointPlans, store.Token())
	if err != nil {
		c.Redirect(http.StatusFound, "/error?msg="+url.QueryEscape(api.Message(err)))
		return
	}
	c.HTML(http.StatusOK, "admin-plans.html", gin.H{
		"isLoggedIn": true,
		"user":       store.CurrentUser(),
		"plans":      resp.Data,
	})
}
