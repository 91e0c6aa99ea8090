package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
)

type AuthHandler interface {
	Login(c *gin.Context)
	LoginPost(c *gin.Context)
	Register(c *gin.Context)
	RegisterPost(c *gin.Context)
	Logout(c *gin.Context)
}

type authHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
}

func NewAuthHandler(cfg *config.WebConfig, sessions *session.Manager) AuthHandler {
	return &authHandler{cfg: cfg, sessions: sessions}
}

func (h *authHandler) Login(c *gin.Context) {
	store := h.sessions.Store(c)
	if store.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *authHandler) LoginPost(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"error": "Email and password are required"})
		return
	}
	store := h.sessions.Establish(c)
	if err := store.Login(c.Request.Context(), req); err != nil {
		status := http.StatusUnauthorized
		if api.IsNetworkError(err) {
			status = http.StatusBadGateway
		}
		c.HTML(status, "login.html", gin.H{"error": api.Message(err), "email": req.Email})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *authHandler) Register(c *gin.Context) {
	store := h.sessions.Store(c)
	if store.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *authHandler) RegisterPost(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"error": "All fields are required and must be valid",
		})
		return
	}
	store := h.sessions.Establish(c)
	if err := store.Register(c.Request.Context(), req); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"error":    api.Message(err),
			"email":    req.Email,
			"fullName": req.FullName,
		})
		return
	}
	// Registration authenticates immediately; no separate login step.
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *authHandler) Logout(c *gin.Context) {
	store := h.sessions.Store(c)
	store.Logout(c.Request.Context())
	h.sessions.Drop(c)
	c.Redirect(http.StatusFound, "/")
}
