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

type ReviewHandler interface {
	Reviewable(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Remove(c *gin.Context)
}

type reviewHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
	client   *api.Client
}

func NewReviewHandler(cfg *config.WebConfig, sessions *session.Manager, client *api.Client) ReviewHandler {
	return &reviewHandler{cfg: cfg, sessions: sessions, client: client}
}

func errorRedirect(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, "/error?msg="+url.QueryEscape(msg))
}

// Reviewable lists completed plans with outstanding reviews. Only the users
// the backend names get a review affordance; already-reviewed participants
// are excluded server-side and never shown.
func (h *reviewHandler) Reviewable(c *gin.Context) {
	store := h.sessions.Store(c)
	resp, err := api.Get[[]api.ReviewablePlan](c.Request.Context(), h.client, api.EndpointReviewable, store.Token())
	if err != nil {
		if api.IsAuthError(err) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		errorRedirect(c, api.Message(err))
		return
	}
	c.HTML(http.StatusOK, "reviews.html", gin.H{
		"isLoggedIn":      true,
		"user":            store.CurrentUser(),
		"reviewablePlans": resp.Data,
	})
}

// Create submits a review. The rating gate runs client-side in the store; a
// zero rating never produces a network call.
func (h *reviewHandler) Create(c *gin.Context) {
	store := h.sessions.Store(c)
	rating, _ := strconv.Atoi(c.PostForm("rating"))
	input := api.ReviewInput{
		TravelPlanID:   c.PostForm("travelPlanId"),
		ReviewedUserID: c.PostForm("reviewedUserId"),
		Rating:         rating,
		Comment:        c.PostForm("comment"),
	}
	if _, err := store.CreateReview(c.Request.Context(), input); err != nil {
		if api.IsAuthError(err) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		errorRedirect(c, api.Message(err))
		return
	}
	c.Redirect(http.StatusFound, "/plans/"+input.TravelPlanID)
}

func (h *reviewHandler) Update(c *gin.Context) {
	store := h.sessions.Store(c)
	rating, _ := strconv.Atoi(c.PostForm("rating"))
	input := api.ReviewInput{
		Rating:  rating,
		Comment: c.PostForm("comment"),
	}
	if _, err := store.UpdateReview(c.Request.Context(), c.Param("id"), input); err != nil {
		errorRedirect(c, api.Message(err))
		return
	}
	c.Redirect(http.StatusFound, c.DefaultPostForm("back", "/reviews"))
}

func (h *reviewHandler) Remove(c *gin.Context) {
	store := h.sessions.Store(c)
	reviewedUserID := c.PostForm("reviewedUserId")
	if err := store.DeleteReview(c.Request.Context(), c.Param("id"), reviewedUserID); err != nil {
		errorRedirect(c, api.Message(err))
		return
	}
	c.Redirect(http.StatusFound, c.DefaultPostForm("back", "/reviews"))
}
