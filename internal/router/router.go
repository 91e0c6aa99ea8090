package router

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	admin "github.com/aliakborswe/travel-buddy-client/internal/handler/admin"
	auth "github.com/aliakborswe/travel-buddy-client/internal/handler/auth"
	dashboard "github.com/aliakborswe/travel-buddy-client/internal/handler/dashboard"
	matching "github.com/aliakborswe/travel-buddy-client/internal/handler/matching"
	page "github.com/aliakborswe/travel-buddy-client/internal/handler/page"
	payment "github.com/aliakborswe/travel-buddy-client/internal/handler/payment"
	plans "github.com/aliakborswe/travel-buddy-client/internal/handler/plans"
	profile "github.com/aliakborswe/travel-buddy-client/internal/handler/profile"
	reviews "github.com/aliakborswe/travel-buddy-client/internal/handler/reviews"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
	"github.com/aliakborswe/travel-buddy-client/pkg/logger"
)

func mod(a, b int) int {
	return a % b
}

// New wires every handler into one Gin engine. Kept out of main so tests can
// build the full site against a fake backend.
func New(cfg *config.WebConfig, client *api.Client, sessions *session.Manager, log *logger.Logger) *gin.Engine {
	r := gin.Default()
	r.SetFuncMap(template.FuncMap{
		"mod": mod,
		// renderSanitizedHTML: explicit helper used only for server-sanitized HTML
		"renderSanitizedHTML": func(s string) template.HTML { return template.HTML(s) },
	})
	if cfg.TemplatesGlob != "" {
		r.LoadHTMLGlob(cfg.TemplatesGlob)
	}
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	authH := auth.NewAuthHandler(cfg, sessions)
	pageH := page.NewPageHandler(cfg, sessions)
	planH := plans.NewPlanHandler(cfg, sessions, client, log)
	exploreH := plans.NewExploreHandler(cfg, sessions, client)
	dashH := dashboard.NewDashboardHandler(cfg, sessions, client, log)
	matchH := matching.NewMatchingHandler(cfg, sessions, client)
	reviewH := reviews.NewReviewHandler(cfg, sessions, client)
	profileH := profile.NewProfileHandler(cfg, sessions, client)
	payH := payment.NewPaymentHandler(cfg, sessions)
	adminH := admin.NewAdminHandler(cfg, sessions, client)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/", pageH.Index)
	r.GET("/about", pageH.About)
	r.GET("/contact", pageH.Contact)
	r.GET("/privacy", pageH.Privacy)
	r.GET("/terms", pageH.Terms)
	r.GET("/error", pageH.Error)

	r.GET("/login", authH.Login)
	r.POST("/login", authH.LoginPost)
	r.GET("/register", authH.Register)
	r.POST("/register", authH.RegisterPost)
	r.GET("/logout", authH.Logout)

	r.GET("/explore", exploreH.Explore)
	r.GET("/premium", payH.Premium)
	r.GET("/profile/:id", profileH.View)

	authed := r.Group("/", sessions.RequireAuth())
	{
		authed.GET("/dashboard", dashH.Dashboard)
		authed.GET("/matching", matchH.Suggested)

		authed.GET("/plans", planH.List)
		authed.GET("/plan-new", planH.NewForm)
		authed.POST("/plans", planH.Create)
		authed.GET("/plans/:id", planH.Detail)
		authed.GET("/plans/:id/edit", planH.EditForm)
		authed.POST("/plans/:id", planH.Update)
		authed.POST("/plans/:id/delete", planH.Remove)
		authed.POST("/plans/:id/join", planH.Join)

		authed.GET("/reviews", reviewH.Reviewable)
		authed.POST("/reviews", reviewH.Create)
		authed.POST("/reviews/:id", reviewH.Update)
		authed.POST("/reviews/:id/delete", reviewH.Remove)

		authed.GET("/profile-edit", profileH.EditForm)
		authed.POST("/profile-edit", profileH.Update)

		authed.GET("/payment/checkout", payH.Checkout)
		authed.POST("/payment/confirm", payH.Confirm)
		authed.GET("/payment/success", payH.Success)
		authed.GET("/payment/cancel", payH.Cancel)
		authed.GET("/payment/history", payH.History)
	}

	adminGroup := r.Group("/admin", sessions.RequireAuth(), sessions.RequireAdmin())
	{
		adminGroup.GET("/users", adminH.Users)
		adminGroup.GET("/plans", adminH.Plans)
	}

	return r
}
