package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
)

type ProfileHandler interface {
	View(c *gin.Context)
	EditForm(c *gin.Context)
	Update(c *gin.Context)
}

type profileHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
	client   *api.Client
	policy   *bluemonday.Policy
}

func NewProfileHandler(cfg *config.WebConfig, sessions *session.Manager, client *api.Client) ProfileHandler {
	return &profileHandler{
		cfg:      cfg,
		sessions: sessions,
		client:   client,
		// Bios and comments are user-generated; strip any markup before the
		// template treats them as sanitized HTML.
		policy: bluemonday.UGCPolicy(),
	}
}

func errorRedirect(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, "/error?msg="+url.QueryEscape(msg))
}

// View shows a user's public profile with their reviews and average rating.
func (h *profileHandler) View(c *gin.Context) {
	store := h.sessions.Store(c)
	id := c.Param("id")

	userResp, err := api.Get[api.User](c.Request.Context(), h.client, api.EndpointUser(id), store.Token())
	if err != nil {
		errorRedirect(c, api.Message(err))
		return
	}
	profile := userResp.Data
	profile.Bio = h.policy.Sanitize(profile.Bio)

	// Reviews are secondary; the profile still renders without them.
	_ = store.FetchUserReviews(c.Request.Context(), id)
	reviews, _ := store.Reviews(id)
	sanitized := make([]api.Review, len(reviews.Items))
	copy(sanitized, reviews.Items)
	for i := range sanitized {
		sanitized[i].Comment = h.policy.Sanitize(sanitized[i].Comment)
	}

	current := store.CurrentUser()
	c.HTML(http.StatusOK, "profile.html", gin.H{
		"isLoggedIn":    store.IsAuthenticated(),
		"user":          current,
		"profile":       profile,
		"reviews":       sanitized,
		"averageRating": reviews.AverageRating,
		"isSelf":        current != nil && current.ID == id,
	})
}

func (h *profileHandler) EditForm(c *gin.Context) {
	store := h.sessions.Store(c)
	user := store.CurrentUser()
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "profile-edit.html", gin.H{
		"isLoggedIn": true,
		"user":       user,
		"interests":  strings.Join(user.TravelInterests, ", "),
		"countries":  strings.Join(user.VisitedCountries, ", "),
	})
}

// Update PATCHes the profile and replaces the cached user with the returned
// snapshot.
func (h *profileHandler) Update(c *gin.Context) {
	store := h.sessions.Store(c)
	user := store.CurrentUser()
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	update := api.ProfileUpdate{
		FullName:         strings.TrimSpace(c.PostForm("fullName")),
		Bio:              strings.TrimSpace(c.PostForm("bio")),
		CurrentLocation:  strings.TrimSpace(c.PostForm("currentLocation")),
		TravelInterests:  splitCSV(c.PostForm("travelInterests")),
		VisitedCountries: splitCSV(c.PostForm("visitedCountries")),
	}
	resp, err := api.Patch[api.User](c.Request.Context(), h.client, api.EndpointUser(user.ID), update, store.Token())
	if err != nil {
		c.HTML(http.StatusBadRequest, "profile-edit.html", gin.H{
			"isLoggedIn": true,
			"user":       user,
			"error":      api.Message(err),
		})
		return
	}
	store.SetUser(c.Request.Context(), resp.Data)
	c.Redirect(http.StatusFound, "/profile/"+user.ID)
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
