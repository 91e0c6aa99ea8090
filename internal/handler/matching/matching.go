package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
)

type MatchingHandler interface {
	Suggested(c *gin.Context)
}

type matchingHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
	client   *api.Client
}

func NewMatchingHandler(cfg *config.WebConfig, sessions *session.Manager, client *api.Client) MatchingHandler {
	return &matchingHandler{cfg: cfg, sessions: sessions, client: client}
}

// Suggested renders the server-ranked match list. The order is the backend's
// and is kept as-is; the score is display data, not a local sort key.
func (h *matchingHandler) Suggested(c *gin.Context) {
	store := h.sessions.Store(c)
	resp, err := api.Get[[]api.MatchResult](c.Request.Context(), h.client, api.EndpointSuggestedMatch, store.Token())
	if err != nil {
		if api.IsAuthError(err) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		c.HTML(http.StatusOK, "matching.html", gin.H{
			"isLoggedIn": store.IsAuthenticated(),
			"user":       store.CurrentUser(),
			"error":      api.Message(err),
		})
		return
	}
	c.HTML(http.StatusOK, "matching.html", gin.H{
		"isLoggedIn": store.IsAuthenticated(),
		"user":       store.CurrentUser(),
		"matches":    resp.Data,
	})
}
