package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
)

type PageHandler interface {
	Index(c *gin.Context)
	About(c *gin.Context)
	Contact(c *gin.Context)
	Privacy(c *gin.Context)
	Terms(c *gin.Context)
	Error(c *gin.Context)
}

type pageHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
}

func NewPageHandler(cfg *config.WebConfig, sessions *session.Manager) PageHandler {
	return &pageHandler{cfg: cfg, sessions: sessions}
}

func (h *pageHandler) Index(c *gin.Context) {
	store := h.sessions.Store(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"isLoggedIn": store.IsAuthenticated(),
		"user":       store.CurrentUser(),
	})
}

func (h *pageHandler) About(c *gin.Context) {
	store := h.sessions.Store(c)
	c.HTML(http.StatusOK, "about.html", gin.H{
		"isLoggedIn": store.IsAuthenticated(),
	})
}

func (h *pageHandler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{})
}

func (h *pageHandler) Privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{})
}

func (h *pageHandler) Terms(c *gin.Context) {
	c.HTML(http.StatusOK, "terms.html", gin.H{})
}

func (h *pageHandler) Error(c *gin.Context) {
	// allow passing message via query param `msg` or via context key `error`
	msg := c.Query("msg")
	if msg == "" {
		if v, ok := c.Get("error"); ok {
			if s, ok := v.(string); ok {
				msg = s
			}
		}
	}
	c.HTML(http.StatusOK, "error.html", gin.H{"error": msg})
}
